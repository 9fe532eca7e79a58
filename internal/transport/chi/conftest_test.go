package chi

import (
	"context"

	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/domain/resource"
	"github.com/openark/solrmapper/internal/domain/result"
	healthuc "github.com/openark/solrmapper/internal/usecase/health"
)

type searcherMock struct {
	SearchFunc        func(ctx context.Context, q *query.Query) (*result.Response, error)
	SearchWithIDsFunc func(ctx context.Context, q *query.Query) (*result.Response, error)
}

func (m *searcherMock) Search(ctx context.Context, q *query.Query) (*result.Response, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return result.New(), nil
}

func (m *searcherMock) SearchWithIDs(ctx context.Context, q *query.Query) (*result.Response, error) {
	if m.SearchWithIDsFunc != nil {
		return m.SearchWithIDsFunc(ctx, q)
	}
	return result.New(), nil
}

type writerMock struct {
	IndexBatchFunc     func(ctx context.Context, resources []resource.Resource) error
	DeleteDocumentFunc func(ctx context.Context, kind string, resourceID int64) error
	ClearIndexFunc     func(ctx context.Context) error
}

func (m *writerMock) IndexBatch(ctx context.Context, resources []resource.Resource) error {
	if m.IndexBatchFunc != nil {
		return m.IndexBatchFunc(ctx, resources)
	}
	return nil
}

func (m *writerMock) DeleteDocument(ctx context.Context, kind string, resourceID int64) error {
	if m.DeleteDocumentFunc != nil {
		return m.DeleteDocumentFunc(ctx, kind, resourceID)
	}
	return nil
}

func (m *writerMock) ClearIndex(ctx context.Context) error {
	if m.ClearIndexFunc != nil {
		return m.ClearIndexFunc(ctx)
	}
	return nil
}

type healthMock struct {
	CheckFunc func(ctx context.Context) healthuc.Report
}

func (m *healthMock) Check(ctx context.Context) healthuc.Report {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx)
	}
	return healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"engine": healthuc.CheckOK},
	}
}
