// Package extract resolves a field map's source path against a
// resource into zero-or-more raw values, recursing through linked
// resources and applying the map's pool filters. Missing data yields
// an empty sequence, never an error.
package extract

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/resource"
)

// Resolver resolves an opaque domain filter-query string to the set of
// resource ids it allows, for one resource kind. External collaborator;
// the indexing job supplies it.
type Resolver interface {
	ResolveIDs(ctx context.Context, kind, filterQuery string) ([]int64, error)
}

// idSetCacheSize bounds the per-session memoized id sets.
const idSetCacheSize = 128

// Session is one extraction session. Resolved id sets for repeated
// identical filter-query strings are memoized for the session's
// lifetime and discarded with it; nothing outlives the session.
type Session struct {
	id       string
	resolver Resolver
	idSets   *lru.Cache[string, map[int64]bool]
	log      *zap.Logger
}

// NewSession creates an extraction session. resolver may be nil when
// no map carries a resources filter query.
func NewSession(resolver Resolver, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	cache, _ := lru.New[string, map[int64]bool](idSetCacheSize)
	return &Session{
		id:       uuid.NewString(),
		resolver: resolver,
		idSets:   cache,
		log:      log,
	}
}

// ID returns the session identifier (for log correlation).
func (s *Session) ID() string { return s.id }

// Extract resolves the field map's source path against the resource.
func (s *Session) Extract(ctx context.Context, r resource.Resource, fm mapping.FieldMap) []resource.Value {
	if r == nil {
		return nil
	}
	if !s.allowedByQuery(ctx, r, fm.Pool().ResourcesQuery()) {
		return nil
	}
	values := s.resolve(ctx, r, fm)
	return s.applyPool(ctx, values, fm.Pool())
}

// resolve walks one head segment, recursing on the tail through linked
// resources. The path is finite at declaration time, so recursion is
// bounded by its length even when resources link back to an ancestor.
func (s *Session) resolve(ctx context.Context, r resource.Resource, fm mapping.FieldMap) []resource.Value {
	path := fm.SourcePath()
	if path == "" {
		return literalOrNothing(r.Title())
	}
	head, tail, _ := strings.Cut(path, mapping.PathSeparator)

	switch head {
	case "owner":
		return ownerValues(r.Owner(), tail)
	case "site":
		return siteValues(r.Sites(), tail)
	case "media":
		return s.fanOut(ctx, r.Media(), tail, fm)
	case "item_set":
		return s.fanOut(ctx, r.ItemSets(), tail, fm)
	case "item":
		if r.Item() == nil {
			return nil
		}
		return s.fanOut(ctx, []resource.Resource{r.Item()}, tail, fm)
	}

	if fn, ok := wellKnown[head]; ok {
		return fn(r)
	}
	if strings.Contains(head, ":") {
		return s.propertyValues(ctx, r, head, tail, fm)
	}
	// Unknown segment: empty sequence, not an error.
	return nil
}

// wellKnown maps literal head segments to explicit accessors.
var wellKnown = map[string]func(resource.Resource) []resource.Value{
	"id": func(r resource.Resource) []resource.Value {
		return []resource.Value{resource.NewLiteral(strconv.FormatInt(r.ID(), 10), "", "integer")}
	},
	"is_public": func(r resource.Resource) []resource.Value {
		return []resource.Value{resource.NewLiteral(strconv.FormatBool(r.IsPublic()), "", "boolean")}
	},
	"created": func(r resource.Resource) []resource.Value {
		return timeValue(r.Created())
	},
	"modified": func(r resource.Resource) []resource.Value {
		return timeValue(r.Modified())
	},
	"resource_class": func(r resource.Resource) []resource.Value {
		return literalOrNothing(r.Class())
	},
	"resource_template": func(r resource.Resource) []resource.Value {
		return literalOrNothing(r.Template())
	},
	"content": func(r resource.Resource) []resource.Value {
		return literalOrNothing(r.Content())
	},
	"access": func(r resource.Resource) []resource.Value {
		return literalOrNothing(r.Access())
	},
	"url": func(r resource.Resource) []resource.Value {
		if r.URL() == "" {
			return nil
		}
		return []resource.Value{resource.NewURI(r.URL(), "")}
	},
	"title": func(r resource.Resource) []resource.Value {
		return literalOrNothing(r.Title())
	},
}

// propertyValues reads all values of a property term, recursing into
// linked resources when a tail remains.
func (s *Session) propertyValues(
	ctx context.Context, r resource.Resource, term, tail string, fm mapping.FieldMap,
) []resource.Value {
	var out []resource.Value
	for _, v := range r.Values(term) {
		if !langAllowed(v, fm.Settings().Languages) {
			continue
		}
		if !v.IsLink() {
			out = append(out, v)
			continue
		}
		if tail == "" || tail == mapping.PathSelf {
			out = append(out, v)
			continue
		}
		linked := v.Linked()
		if linked == nil {
			continue // dangling reference
		}
		out = append(out, s.Extract(ctx, linked, fm.WithPath(tail))...)
	}
	return out
}

// fanOut extracts from every related resource and concatenates the
// results, preserving order.
func (s *Session) fanOut(
	ctx context.Context, related []resource.Resource, tail string, fm mapping.FieldMap,
) []resource.Value {
	var out []resource.Value
	for _, rel := range related {
		if rel == nil {
			continue
		}
		if tail == "" || tail == mapping.PathSelf {
			out = append(out, resource.NewLink(rel))
			continue
		}
		out = append(out, s.Extract(ctx, rel, fm.WithPath(tail))...)
	}
	return out
}

// applyPool drops values the pool filters reject. Applied after
// structural resolution, before return.
func (s *Session) applyPool(ctx context.Context, values []resource.Value, pool mapping.Pool) []resource.Value {
	var out []resource.Value
	for _, v := range values {
		if !pool.MatchVisibility(valueVisible(v)) {
			continue
		}
		if !pool.MatchDataType(v.DataType()) {
			continue
		}
		if !pool.MatchValue(v.Text()) {
			continue
		}
		if v.IsURI() && !pool.MatchURI(v.URI()) {
			continue
		}
		if v.IsLink() && !s.allowedByQuery(ctx, v.Linked(), pool.LinkedResourcesQuery()) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// allowedByQuery checks a resource against a filter-query-derived id
// set, memoized per distinct query string for the session.
func (s *Session) allowedByQuery(ctx context.Context, r resource.Resource, filterQuery string) bool {
	if filterQuery == "" || r == nil {
		return true
	}
	if s.resolver == nil {
		return true
	}
	key := r.Kind() + "\x00" + filterQuery
	set, ok := s.idSets.Get(key)
	if !ok {
		ids, err := s.resolver.ResolveIDs(ctx, r.Kind(), filterQuery)
		if err != nil {
			s.log.Warn("resolve filter query failed",
				zap.String("session", s.id),
				zap.String("kind", r.Kind()),
				zap.String("query", filterQuery),
				zap.Error(err))
			// An unresolvable filter admits nothing.
			set = map[int64]bool{}
		} else {
			set = make(map[int64]bool, len(ids))
			for _, id := range ids {
				set[id] = true
			}
		}
		s.idSets.Add(key, set)
	}
	return set[r.ID()]
}

func ownerValues(owner *resource.Agent, tail string) []resource.Value {
	if owner == nil {
		return nil
	}
	switch tail {
	case "", mapping.PathSelf, "name":
		return literalOrNothing(owner.Name)
	case "email":
		return literalOrNothing(owner.Email)
	case "id":
		return []resource.Value{resource.NewLiteral(strconv.FormatInt(owner.ID, 10), "", "integer")}
	}
	return nil
}

func siteValues(sites []resource.Site, tail string) []resource.Value {
	var out []resource.Value
	for _, site := range sites {
		switch tail {
		case "", mapping.PathSelf, "title":
			out = append(out, literalOrNothing(site.Title)...)
		case "slug":
			out = append(out, literalOrNothing(site.Slug)...)
		case "id":
			out = append(out, resource.NewLiteral(strconv.FormatInt(site.ID, 10), "", "integer"))
		}
	}
	return out
}

// langAllowed applies the map's language restriction. Values without
// a language tag always pass, so links and untagged literals survive
// a language-restricted map.
func langAllowed(v resource.Value, langs []string) bool {
	if len(langs) == 0 || v.Lang() == "" {
		return true
	}
	for _, l := range langs {
		if strings.EqualFold(l, v.Lang()) {
			return true
		}
	}
	return false
}

func valueVisible(v resource.Value) bool {
	if v.IsLink() && v.Linked() != nil {
		return v.Linked().IsPublic()
	}
	return v.IsPublic()
}

func literalOrNothing(text string) []resource.Value {
	if text == "" {
		return nil
	}
	return []resource.Value{resource.NewLiteral(text, "", "")}
}

func timeValue(t time.Time) []resource.Value {
	if t.IsZero() {
		return nil
	}
	return []resource.Value{resource.NewLiteral(t.UTC().Format(time.RFC3339), "", "date")}
}
