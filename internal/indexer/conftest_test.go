package indexer

import (
	"context"
	"time"

	"github.com/openark/solrmapper/internal/solr"
)

// engineMock implements solr.Engine with overridable function fields.
type engineMock struct {
	ExecuteFunc       func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error)
	SubmitFunc        func(ctx context.Context, docs []*solr.Document) error
	DeleteByQueryFunc func(ctx context.Context, query string) error
	CommitFunc        func(ctx context.Context) error
	FetchSchemaFunc   func(ctx context.Context) (*solr.Schema, error)
	FetchTermsFunc    func(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error)
	PingFunc          func(ctx context.Context) error
}

func (m *engineMock) Execute(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, q)
	}
	return &solr.Result{}, nil
}

func (m *engineMock) Submit(ctx context.Context, docs []*solr.Document) error {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, docs)
	}
	return nil
}

func (m *engineMock) DeleteByQuery(ctx context.Context, query string) error {
	if m.DeleteByQueryFunc != nil {
		return m.DeleteByQueryFunc(ctx, query)
	}
	return nil
}

func (m *engineMock) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *engineMock) FetchSchema(ctx context.Context) (*solr.Schema, error) {
	if m.FetchSchemaFunc != nil {
		return m.FetchSchemaFunc(ctx)
	}
	return testSchema(), nil
}

func (m *engineMock) FetchTerms(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error) {
	if m.FetchTermsFunc != nil {
		return m.FetchTermsFunc(ctx, field, sort, limit, minCount)
	}
	return nil, nil
}

func (m *engineMock) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *engineMock) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return m.Ping(ctx)
}

// testSchema covers the standard dynamic suffixes plus the unique key.
func testSchema() *solr.Schema {
	return solr.NewSchema(
		[]solr.SchemaField{solr.NewSchemaField("id", solr.TypeString, false)},
		solr.DefaultDynamicRules(),
		"",
	)
}
