package search

import (
	"context"
	"errors"
	"testing"

	"github.com/openark/solrmapper/internal/compiler"
	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/solr"
)

func newTestService(engine Engine) *Service {
	return New(engine, mapping.NewSet(nil), compiler.Config{}, nil)
}

func TestSearch_EndToEnd(t *testing.T) {
	var executed *solr.NativeQuery
	engine := &engineMock{
		ExecuteFunc: func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
			executed = q
			return &solr.Result{
				Total: 3,
				Groups: []solr.ResultGroup{
					{Value: "items", Total: 3, Docs: []solr.ResultDoc{{ID: "items/0000007"}}},
				},
			}, nil
		},
	}
	svc := newTestService(engine)

	resp, err := svc.Search(context.Background(), query.New("war"))
	if err != nil {
		t.Fatal(err)
	}
	if executed == nil || executed.GroupField != "resource_name_s" {
		t.Errorf("executed query = %+v", executed)
	}
	if resp.Total() != 3 || len(resp.Refs()) != 1 || resp.Refs()[0].ID != 7 {
		t.Errorf("response = total %d refs %v", resp.Total(), resp.Refs())
	}
}

func TestSearch_SchemaFetchedOnce(t *testing.T) {
	engine := &engineMock{}
	svc := newTestService(engine)

	for i := 0; i < 3; i++ {
		if _, err := svc.Search(context.Background(), query.New("")); err != nil {
			t.Fatal(err)
		}
	}
	if engine.schemaFetches != 1 {
		t.Errorf("schema fetched %d times, want 1", engine.schemaFetches)
	}

	svc.InvalidateSchema()
	if _, err := svc.Search(context.Background(), query.New("")); err != nil {
		t.Fatal(err)
	}
	if engine.schemaFetches != 2 {
		t.Errorf("schema fetched %d times after invalidation, want 2", engine.schemaFetches)
	}
}

func TestSearch_SchemaFailure(t *testing.T) {
	engine := &engineMock{
		FetchSchemaFunc: func(ctx context.Context) (*solr.Schema, error) {
			return nil, solr.ErrSchemaUnavailable
		},
	}
	svc := newTestService(engine)
	if _, err := svc.Search(context.Background(), query.New("")); !errors.Is(err, solr.ErrSchemaUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestSearch_DerivesRangeFacetBounds(t *testing.T) {
	var executed *solr.NativeQuery
	var termsField string
	engine := &engineMock{
		ExecuteFunc: func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
			executed = q
			return &solr.Result{}, nil
		},
		FetchTermsFunc: func(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error) {
			termsField = field
			if sort != solr.TermsSortIndex {
				t.Errorf("sort = %q, want index", sort)
			}
			return []solr.TermCount{
				{Value: "1905", Count: 2},
				{Value: "1931", Count: 5},
				{Value: "1948", Count: 1},
			}, nil
		},
	}
	svc := newTestService(engine)

	q := query.New("").AddFacet(query.Facet{Field: "year_is", Kind: query.FacetRange})
	if _, err := svc.Search(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if termsField != "year_is" {
		t.Errorf("terms fetched for %q", termsField)
	}
	if len(executed.RangeFacets) != 1 {
		t.Fatalf("RangeFacets = %v", executed.RangeFacets)
	}
	rf := executed.RangeFacets[0]
	// Span 43 picks a gap of 5; bounds snap to gap multiples.
	if rf.Start != "1905" || rf.End != "1950" || rf.Gap != "5" {
		t.Errorf("range facet = %+v", rf)
	}
}

func TestSearch_RangeBoundsRespectExplicitGap(t *testing.T) {
	var executed *solr.NativeQuery
	engine := &engineMock{
		ExecuteFunc: func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
			executed = q
			return &solr.Result{}, nil
		},
		FetchTermsFunc: func(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error) {
			return []solr.TermCount{{Value: "1905", Count: 1}, {Value: "1948", Count: 1}}, nil
		},
	}
	svc := newTestService(engine)

	q := query.New("").AddFacet(query.Facet{Field: "year_is", Kind: query.FacetRange, Gap: "25"})
	if _, err := svc.Search(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	rf := executed.RangeFacets[0]
	if rf.Start != "1900" || rf.End != "1950" || rf.Gap != "25" {
		t.Errorf("range facet = %+v", rf)
	}
}

func TestSearch_RangeBoundsFailureSkipsFacet(t *testing.T) {
	var executed *solr.NativeQuery
	engine := &engineMock{
		ExecuteFunc: func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
			executed = q
			return &solr.Result{}, nil
		},
		FetchTermsFunc: func(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error) {
			return nil, solr.ErrEngineUnavailable
		},
	}
	svc := newTestService(engine)

	q := query.New("").AddFacet(query.Facet{Field: "year_is", Kind: query.FacetRange})
	if _, err := svc.Search(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if len(executed.RangeFacets) != 0 {
		t.Errorf("RangeFacets = %v, want facet skipped", executed.RangeFacets)
	}
}

func TestSearch_RangeBoundsOnlyForNumericFields(t *testing.T) {
	termsCalled := false
	engine := &engineMock{
		FetchTermsFunc: func(ctx context.Context, field string, sort solr.TermsSort, limit, minCount int) ([]solr.TermCount, error) {
			termsCalled = true
			return nil, nil
		},
	}
	svc := newTestService(engine)

	q := query.New("").AddFacet(query.Facet{Field: "subject_ss", Kind: query.FacetRange})
	if _, err := svc.Search(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if termsCalled {
		t.Error("terms fetched for a string field")
	}
}

func TestSearchWithIDs(t *testing.T) {
	t.Run("id sweep flattens all matches", func(t *testing.T) {
		calls := 0
		engine := &engineMock{
			ExecuteFunc: func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
				calls++
				if calls == 1 {
					return &solr.Result{
						Total: 2,
						Groups: []solr.ResultGroup{
							{Value: "items", Total: 2, Docs: []solr.ResultDoc{{ID: "items/0000001"}}},
						},
					}, nil
				}
				// Unpaged sweep returns everything.
				if q.Start != 0 || q.Rows != 2 {
					t.Errorf("sweep pagination = start %d rows %d", q.Start, q.Rows)
				}
				return &solr.Result{
					Groups: []solr.ResultGroup{
						{Value: "items", Docs: []solr.ResultDoc{
							{ID: "items/0000001"}, {ID: "items/0000002"},
						}},
					},
				}, nil
			},
		}
		svc := newTestService(engine)

		resp, err := svc.SearchWithIDs(context.Background(), query.New(""))
		if err != nil {
			t.Fatal(err)
		}
		ids := resp.AllIDs()
		if len(ids["items"]) != 2 {
			t.Errorf("AllIDs() = %v", ids)
		}
	})

	t.Run("sweep failure keeps the page response", func(t *testing.T) {
		calls := 0
		engine := &engineMock{
			ExecuteFunc: func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
				calls++
				if calls == 1 {
					return &solr.Result{Total: 1}, nil
				}
				return nil, solr.ErrEngineUnavailable
			},
		}
		svc := newTestService(engine)

		resp, err := svc.SearchWithIDs(context.Background(), query.New(""))
		if err != nil {
			t.Fatal(err)
		}
		if resp.Total() != 1 || resp.AllIDs() != nil {
			t.Errorf("response = total %d ids %v", resp.Total(), resp.AllIDs())
		}
	})

	t.Run("primary failure propagates", func(t *testing.T) {
		engine := &engineMock{
			ExecuteFunc: func(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
				return nil, solr.ErrEngineUnavailable
			},
		}
		svc := newTestService(engine)
		if _, err := svc.SearchWithIDs(context.Background(), query.New("")); !errors.Is(err, solr.ErrEngineUnavailable) {
			t.Errorf("err = %v", err)
		}
	})
}
