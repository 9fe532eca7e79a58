package search

import (
	"context"

	"github.com/openark/solrmapper/internal/solr"
)

// Engine defines the engine contract for search operations.
type Engine interface {
	Execute(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error)
	FetchSchema(ctx context.Context) (*solr.Schema, error)
	FetchTerms(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error)
}
