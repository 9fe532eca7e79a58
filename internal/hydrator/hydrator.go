// Package hydrator translates native engine results back into the
// domain result model. Hydration carries resource references and
// counts only; reloading the referenced resources stays with the
// caller, which owns the system of record.
package hydrator

import (
	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/domain/result"
	"github.com/openark/solrmapper/internal/solr"
)

// Hydrator builds result responses from engine results.
type Hydrator struct {
	log *zap.Logger
}

// New creates a hydrator.
func New(log *zap.Logger) *Hydrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hydrator{log: log}
}

// Hydrate converts a grouped engine result into the domain response.
// Document ids that do not parse are dropped with a warning; a
// malformed id never fails the whole response. Facet buckets keep
// engine order unless the facet carries a value whitelist, which
// fixes both membership and order.
func (h *Hydrator) Hydrate(q *query.Query, res *solr.Result) *result.Response {
	out := result.New()
	out.SetTotal(res.Total)

	for _, g := range res.Groups {
		out.AddKindCount(g.Value, g.Total)
		for _, doc := range g.Docs {
			ref, ok := h.parseRef(doc.ID)
			if !ok {
				continue
			}
			out.AddRef(ref.Kind, ref.ID)
		}
	}
	// ungrouped results hydrate the same way, without per-kind counts
	for _, doc := range res.Docs {
		ref, ok := h.parseRef(doc.ID)
		if !ok {
			continue
		}
		out.AddRef(ref.Kind, ref.ID)
	}

	for _, f := range q.Facets() {
		buckets, ok := res.Facets[f.Field]
		if !ok {
			continue
		}
		out.AddFacet(f.Field, facetBuckets(f, buckets))
	}
	return out
}

// HydrateIDs flattens an unpaged result into ids per resource kind.
func (h *Hydrator) HydrateIDs(res *solr.Result) map[string][]int64 {
	ids := make(map[string][]int64)
	collect := func(docs []solr.ResultDoc) {
		for _, doc := range docs {
			ref, ok := h.parseRef(doc.ID)
			if !ok {
				continue
			}
			ids[ref.Kind] = append(ids[ref.Kind], ref.ID)
		}
	}
	for _, g := range res.Groups {
		collect(g.Docs)
	}
	collect(res.Docs)
	return ids
}

func (h *Hydrator) parseRef(id string) (result.Ref, bool) {
	kind, resourceID, err := solr.ParseDocumentID(id)
	if err != nil {
		h.log.Warn("unparseable document id dropped", zap.String("id", id), zap.Error(err))
		return result.Ref{}, false
	}
	return result.Ref{Kind: kind, ID: resourceID}, true
}

// facetBuckets applies the facet's value whitelist when present:
// listed values appear in list order with a zero count when the
// engine reported none, unlisted values are dropped.
func facetBuckets(f query.Facet, buckets []solr.TermCount) []result.Bucket {
	if len(f.Values) == 0 {
		out := make([]result.Bucket, 0, len(buckets))
		for _, b := range buckets {
			out = append(out, result.Bucket{Value: b.Value, Count: b.Count})
		}
		return out
	}
	counts := make(map[string]int, len(buckets))
	for _, b := range buckets {
		counts[b.Value] = b.Count
	}
	out := make([]result.Bucket, 0, len(f.Values))
	for _, v := range f.Values {
		out = append(out, result.Bucket{Value: v, Count: counts[v]})
	}
	return out
}
