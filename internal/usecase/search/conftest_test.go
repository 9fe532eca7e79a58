package search

import (
	"context"

	"github.com/openark/solrmapper/internal/solr"
)

// engineMock implements the Engine contract with overridable function
// fields.
type engineMock struct {
	ExecuteFunc     func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error)
	FetchSchemaFunc func(ctx context.Context) (*solr.Schema, error)
	FetchTermsFunc  func(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error)

	schemaFetches int
}

func (m *engineMock) Execute(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, q)
	}
	return &solr.Result{}, nil
}

func (m *engineMock) FetchSchema(ctx context.Context) (*solr.Schema, error) {
	m.schemaFetches++
	if m.FetchSchemaFunc != nil {
		return m.FetchSchemaFunc(ctx)
	}
	return solr.NewSchema(
		[]solr.SchemaField{solr.NewSchemaField("id", solr.TypeString, false)},
		solr.DefaultDynamicRules(),
		"",
	), nil
}

func (m *engineMock) FetchTerms(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error) {
	if m.FetchTermsFunc != nil {
		return m.FetchTermsFunc(ctx, field, sort, limit, minCount)
	}
	return nil, nil
}
