// Package search runs abstract queries end to end: it resolves
// data-dependent facet bounds, compiles the query, executes it and
// hydrates the native result into the domain response.
package search

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/compiler"
	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/domain/result"
	"github.com/openark/solrmapper/internal/hydrator"
	"github.com/openark/solrmapper/internal/metrics"
	"github.com/openark/solrmapper/internal/solr"
)

// rangeTermsLimit caps the distinct values fetched when deriving
// range facet bounds from the index.
const rangeTermsLimit = 1000

// Service handles query execution against one logical index.
type Service struct {
	engine Engine
	maps   mapping.Set
	cfg    compiler.Config
	hyd    *hydrator.Hydrator
	log    *zap.Logger

	mu   sync.Mutex
	comp *compiler.Compiler
}

// New creates a search service. The compiler is built lazily on the
// first query so the service can be constructed before the engine is
// reachable.
func New(engine Engine, maps mapping.Set, cfg compiler.Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		engine: engine,
		maps:   maps,
		cfg:    cfg,
		hyd:    hydrator.New(log),
		log:    log,
	}
}

// Search compiles and executes a query and hydrates the response.
func (s *Service) Search(ctx context.Context, q *query.Query) (*result.Response, error) {
	start := time.Now()
	resp, err := s.search(ctx, q)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.QueryDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return resp, err
}

// SearchWithIDs runs Search and additionally collects the ids of
// every matching resource per kind, without pagination. The id sweep
// is best effort: its failure logs a warning and leaves the response
// without ids rather than failing a query that already succeeded.
func (s *Service) SearchWithIDs(ctx context.Context, q *query.Query) (*result.Response, error) {
	resp, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	comp, compErr := s.compiler(ctx)
	if compErr != nil {
		return resp, nil
	}
	unpaged := comp.Compile(q).Unpaged(resp.Total())
	res, execErr := s.engine.Execute(ctx, unpaged)
	if execErr != nil {
		s.log.Warn("id sweep failed", zap.Error(execErr))
		return resp, nil
	}
	resp.SetAllIDs(s.hyd.HydrateIDs(res))
	return resp, nil
}

func (s *Service) search(ctx context.Context, q *query.Query) (*result.Response, error) {
	comp, err := s.compiler(ctx)
	if err != nil {
		return nil, err
	}

	s.resolveRangeBounds(ctx, comp, q)

	nq := comp.Compile(q)
	res, err := s.engine.Execute(ctx, nq)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	return s.hyd.Hydrate(q, res), nil
}

// compiler returns the cached compiler, fetching the schema snapshot
// on first use.
func (s *Service) compiler(ctx context.Context) (*compiler.Compiler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.comp != nil {
		return s.comp, nil
	}
	schema, err := s.engine.FetchSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	s.comp = compiler.New(schema, s.maps, s.cfg, s.log)
	return s.comp, nil
}

// InvalidateSchema drops the cached schema snapshot so the next query
// fetches a fresh one. Call after reindexing with changed mappings.
func (s *Service) InvalidateSchema() {
	s.mu.Lock()
	s.comp = nil
	s.mu.Unlock()
}

// resolveRangeBounds fills the missing bounds of range facets from
// the indexed values of their fields. Compilation itself stays a pure
// function of the query; this is the one data-dependent step, and it
// runs before compiling. A facet whose bounds cannot be derived keeps
// its empty bounds and is skipped by the compiler.
func (s *Service) resolveRangeBounds(ctx context.Context, comp *compiler.Compiler, q *query.Query) {
	facets := q.Facets()
	for i := range facets {
		f := &facets[i]
		if f.Kind != query.FacetRange || (f.Start != "" && f.End != "" && f.Gap != "") {
			continue
		}
		physical, ok := comp.ResolveField(q, f.Field)
		if !ok {
			continue
		}
		switch comp.FieldType(physical) {
		case solr.TypeInteger, solr.TypeFloat:
		default:
			continue
		}

		terms, err := s.engine.FetchTerms(ctx, physical, solr.TermsSortIndex, rangeTermsLimit, 1)
		if err != nil {
			s.log.Warn("range facet bounds unavailable",
				zap.String("field", physical), zap.Error(err))
			continue
		}
		min, max, ok := numericExtent(terms)
		if !ok {
			continue
		}

		gap := f.Gap
		if gap == "" {
			gap = formatBound(niceGap(max - min))
		}
		step, err := strconv.ParseFloat(gap, 64)
		if err != nil || step <= 0 {
			continue
		}
		if f.Start == "" {
			f.Start = formatBound(math.Floor(min/step) * step)
		}
		if f.End == "" {
			// the compiler widens the end by one gap, so the bucket
			// starting here is the one that holds max
			f.End = formatBound(math.Floor(max/step) * step)
		}
		f.Gap = gap
	}
}

// numericExtent scans term values for the numeric min and max,
// ignoring values that do not parse.
func numericExtent(terms []solr.TermCount) (min, max float64, ok bool) {
	for _, t := range terms {
		v, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			continue
		}
		if !ok || v < min {
			min = v
		}
		if !ok || v > max {
			max = v
		}
		ok = true
	}
	return min, max, ok
}

// niceGap picks a 1/2/5 power-of-ten bucket width giving roughly ten
// buckets over the span.
func niceGap(span float64) float64 {
	if span <= 0 {
		return 1
	}
	raw := span / 10
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch {
	case raw/mag <= 1:
		return mag
	case raw/mag <= 2:
		return 2 * mag
	case raw/mag <= 5:
		return 5 * mag
	}
	return 10 * mag
}

func formatBound(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
