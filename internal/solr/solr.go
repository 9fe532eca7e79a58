// Package solr defines the capability contract this module needs from
// the search engine, plus the native query, document and schema types
// whose wire conventions (dynamic-field suffixes, lucene escaping,
// inclusive range syntax) are reproduced exactly as Solr expects.
// The HTTP client lives in the client subpackage.
package solr

import (
	"context"
	"time"
)

// Engine is the search engine capability contract. One engine value is
// owned exclusively by the current indexing job or query call.
type Engine interface {
	// Execute runs a compiled native query.
	Execute(ctx context.Context, q *NativeQuery) (*Result, error)
	// Submit buffers documents on the engine side; visibility requires
	// a Commit.
	Submit(ctx context.Context, docs []*Document) error
	// DeleteByQuery removes every document matching a native query
	// string.
	DeleteByQuery(ctx context.Context, query string) error
	// Commit makes submitted and deleted documents visible.
	Commit(ctx context.Context) error
	// FetchSchema returns the engine's field metadata snapshot.
	FetchSchema(ctx context.Context) (*Schema, error)
	// FetchTerms returns distinct indexed values with counts for one
	// field.
	FetchTerms(ctx context.Context, field string, sort TermsSort, limit, minCount int) ([]TermCount, error)
	// Ping checks engine connectivity.
	Ping(ctx context.Context) error
	// WaitForReady polls Ping until the engine responds or the timeout
	// expires.
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// TermsSort orders a terms fetch.
type TermsSort string

// Terms sort orders.
const (
	TermsSortCount TermsSort = "count"
	TermsSortIndex TermsSort = "index"
)

// TermCount is one distinct value with its document count.
type TermCount struct {
	Value string
	Count int
}

// Result is a native engine result set.
type Result struct {
	// Total is the overall match count (grouped queries report the
	// number of matching documents, not groups).
	Total int
	// MaxScore is the highest relevance score of the result set.
	MaxScore float64
	// Docs holds the ungrouped page of documents.
	Docs []ResultDoc
	// Groups holds grouped results keyed by group field value, in
	// engine order.
	Groups []ResultGroup
	// Facets holds term and range facet buckets per facet key, in
	// engine order.
	Facets map[string][]TermCount
}

// ResultDoc is one document hit.
type ResultDoc struct {
	ID     string
	Score  float64
	Fields map[string]any
}

// ResultGroup is one group of hits sharing a group field value.
type ResultGroup struct {
	Value string
	Total int
	Docs  []ResultDoc
}
