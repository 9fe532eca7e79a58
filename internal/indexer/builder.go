package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/resource"
	"github.com/openark/solrmapper/internal/format"
	"github.com/openark/solrmapper/internal/solr"
)

// buildDocument assembles one engine document from all applicable
// field maps. Required fields are always populated regardless of the
// mapping configuration.
func (ix *Indexer) buildDocument(ctx context.Context, r resource.Resource) *solr.Document {
	doc := solr.NewDocument(solr.DocumentID(ix.cfg.ServerScope, ix.cfg.IndexScope, r.Kind(), r.ID()))

	doc.Add(ix.cfg.KindField, r.Kind())
	doc.Add(ix.cfg.VisibilityField, r.IsPublic())
	if owner := r.Owner(); owner != nil {
		doc.Add(ix.cfg.OwnerField, owner.ID)
	}
	for _, site := range r.Sites() {
		doc.Add(ix.cfg.SiteField, site.ID)
	}
	if ix.cfg.IndexField != "" && ix.cfg.IndexScope != "" {
		doc.Add(ix.cfg.IndexField, ix.cfg.IndexScope)
	}

	for _, fm := range ix.maps.ForKind(r.Kind()) {
		target := fm.TargetField()
		field, ok := ix.schema.Field(target)
		if !ok {
			ix.log.Debug("target field not in schema, map skipped",
				zap.String("field", target))
			continue
		}
		// A filled single-valued field is claimed; skip before doing
		// any extraction work.
		if !field.Multivalued() && doc.Has(target) {
			continue
		}

		values := format.Format(ix.session.Extract(ctx, r, fm), fm.Settings())
		if len(values) == 0 {
			continue
		}
		if !field.Multivalued() {
			doc.Add(target, coerce(values[0], field.Type()))
			continue
		}
		for _, v := range values {
			doc.Add(target, coerce(v, field.Type()))
		}
	}

	// Exact-match dedupe on multivalued fields, so several maps
	// feeding one field cannot inflate facet counts.
	for _, name := range doc.Fields() {
		if field, ok := ix.schema.Field(name); ok && field.Multivalued() {
			doc.Dedupe(name)
		}
	}
	return doc
}

// coerce widens scalars that are unambiguously compatible with the
// schema type; everything else passes through for validateDocument to
// judge.
func coerce(v any, typ solr.FieldType) any {
	switch typ {
	case solr.TypeFloat:
		if n, ok := v.(int64); ok {
			return float64(n)
		}
	case solr.TypeString, solr.TypeText:
		switch t := v.(type) {
		case int64:
			return fmt.Sprintf("%d", t)
		case float64:
			return fmt.Sprintf("%g", t)
		case bool:
			return fmt.Sprintf("%t", t)
		}
	}
	return v
}

// validateDocument checks every value against the schema type so a
// malformed document is evicted before it can poison a batch.
func (ix *Indexer) validateDocument(doc *solr.Document) error {
	for _, name := range doc.Fields() {
		field, ok := ix.schema.Field(name)
		if !ok {
			return fmt.Errorf("%w: field %q not in schema", solr.ErrMalformedDocument, name)
		}
		for _, v := range doc.Get(name) {
			if err := checkType(v, field.Type()); err != nil {
				return fmt.Errorf("%w: field %q: %w", solr.ErrMalformedDocument, name, err)
			}
		}
	}
	return nil
}

func checkType(v any, typ solr.FieldType) error {
	switch typ {
	case solr.TypeString, solr.TypeText, solr.TypeDate:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("want string, got %T", v)
		}
	case solr.TypeInteger:
		if _, ok := v.(int64); !ok {
			return fmt.Errorf("want integer, got %T", v)
		}
	case solr.TypeFloat:
		switch v.(type) {
		case float64, int64:
		default:
			return fmt.Errorf("want float, got %T", v)
		}
	case solr.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("want boolean, got %T", v)
		}
	}
	return nil
}
