// Package compiler turns an abstract query into the engine's native
// query. Compilation is a pure function of the query plus the
// read-only schema and mapping snapshot; stages run in a fixed order
// because later stages depend on clauses attached earlier (a facet's
// exclusion tag must exist before its facet component is attached).
package compiler

import (
	"strings"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/solr"
)

// DefaultMaxClauses caps the OR-ed clauses of the free-text
// disjunction to bound worst-case query cost.
const DefaultMaxClauses = 1024

// Config holds the compile-time settings of one logical index.
type Config struct {
	// KindField holds the resource type and doubles as the grouping
	// field so result counts split per type in one round trip.
	KindField string
	// VisibilityField holds the public flag.
	VisibilityField string
	// SiteField holds site scoping ids.
	SiteField string
	// IndexField and IndexScope scope queries when the physical core
	// is shared by multiple logical indexes.
	IndexField string
	IndexScope string
	// PublicOnly restricts every query to public documents.
	PublicOnly bool
	// SiteID scopes every query to one site when > 0.
	SiteID int64
	// DefaultRows and MaxRows bound pagination.
	DefaultRows int
	MaxRows     int
	// MaxClauses clamps free-text disjunctions.
	MaxClauses int
	// TextFields are the physical fields eligible for free-text
	// expansion.
	TextFields []string
	// Boosts are the mapping-level default boosts; per-query boosts
	// win on conflict.
	Boosts map[string]float64
}

func (c *Config) applyDefaults() {
	if c.KindField == "" {
		c.KindField = "resource_name_s"
	}
	if c.VisibilityField == "" {
		c.VisibilityField = "is_public_b"
	}
	if c.SiteField == "" {
		c.SiteField = "site_id_is"
	}
	if c.DefaultRows <= 0 {
		c.DefaultRows = 20
	}
	if c.MaxRows <= 0 {
		c.MaxRows = 1000
	}
	if c.MaxClauses <= 0 {
		c.MaxClauses = DefaultMaxClauses
	}
}

// Compiler compiles abstract queries against one schema and mapping
// snapshot.
type Compiler struct {
	schema *solr.Schema
	maps   mapping.Set
	cfg    Config
	log    *zap.Logger
}

// New creates a compiler over a schema snapshot.
func New(schema *solr.Schema, maps mapping.Set, cfg Config, log *zap.Logger) *Compiler {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{schema: schema, maps: maps, cfg: cfg, log: log}
}

// Compile builds the native query. Unresolvable clauses are skipped,
// never fabricated: a bad field name loosens the query instead of
// failing it.
func (c *Compiler) Compile(q *query.Query) *solr.NativeQuery {
	nq := &solr.NativeQuery{Fields: []string{"id"}}

	// 2. Main free-text query (alias resolution happens on demand).
	nq.Query = c.compileText(q)

	// 3. Default and required filters.
	c.appendScopeFilters(nq, q)

	// 4. User filters and raw date ranges.
	for _, f := range q.Filters() {
		if fq := c.compileFilterGroup(q, f); fq != "" {
			nq.FilterQueries = append(nq.FilterQueries, fq)
		}
	}
	for _, dr := range q.DateRanges() {
		if fq := c.compileDateRange(q, dr); fq != "" {
			nq.FilterQueries = append(nq.FilterQueries, fq)
		}
	}

	// 5. Facets: active selections first (their exclusion tags must be
	// attached before the facet components referencing them).
	c.appendSelections(nq, q)
	c.appendFacets(nq, q)

	// 6. Sort.
	nq.Sort = c.compileSort(q)

	// 7. Pagination and grouping limits.
	c.applyPagination(nq, q)

	return nq
}

// compileText builds the main query string: match-all when empty, an
// escaped term/phrase query otherwise, expanded into a boosted
// disjunction across eligible full-text fields when requested. Boosts
// on a match-all query are a no-op.
func (c *Compiler) compileText(q *query.Query) string {
	text := strings.TrimSpace(q.Text())
	if text == "" {
		return solr.MatchAll
	}
	escaped := solr.EscapeText(text)

	boosts := c.mergedBoosts(q)
	if !q.TextExpanded() && len(boosts) == 0 {
		return escaped
	}

	fields := c.expansionFields(q, boosts)
	if len(fields) == 0 {
		return escaped
	}

	// 8. Clause-count clamp: clauses beyond the cap are dropped.
	if len(fields) > c.cfg.MaxClauses {
		c.log.Warn("free-text disjunction clamped",
			zap.Int("clauses", len(fields)),
			zap.Int("max", c.cfg.MaxClauses))
		fields = fields[:c.cfg.MaxClauses]
	}

	clauses := make([]string, 0, len(fields))
	for _, f := range fields {
		clause := f.name + ":(" + escaped + ")"
		if f.boost > 0 && f.boost != 1 {
			clause += "^" + trimFloat(f.boost)
		}
		clauses = append(clauses, clause)
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

type boostedField struct {
	name  string
	boost float64
}

// expansionFields returns the disjunction fields in a stable order:
// configured full-text fields first (when expansion is on), then any
// remaining boosted fields.
func (c *Compiler) expansionFields(q *query.Query, boosts map[string]float64) []boostedField {
	var out []boostedField
	seen := map[string]bool{}
	add := func(name string) {
		physical, ok := c.ResolveField(q, name)
		if !ok || seen[physical] {
			return
		}
		seen[physical] = true
		out = append(out, boostedField{name: physical, boost: boosts[name]})
	}
	if q.TextExpanded() {
		for _, f := range c.cfg.TextFields {
			add(f)
		}
	}
	for _, name := range sortedKeys(boosts) {
		add(name)
	}
	return out
}

// mergedBoosts merges mapping-level default boosts with per-query
// boosts; the query wins on conflict.
func (c *Compiler) mergedBoosts(q *query.Query) map[string]float64 {
	merged := make(map[string]float64, len(c.cfg.Boosts)+len(q.Boosts()))
	for f, w := range c.cfg.Boosts {
		merged[f] = w
	}
	for f, w := range q.Boosts() {
		merged[f] = w
	}
	return merged
}

// appendScopeFilters attaches visibility, site, multi-index and
// resource-type scoping.
func (c *Compiler) appendScopeFilters(nq *solr.NativeQuery, q *query.Query) {
	if c.cfg.PublicOnly {
		nq.FilterQueries = append(nq.FilterQueries, c.cfg.VisibilityField+":true")
	}
	if c.cfg.SiteID > 0 {
		nq.FilterQueries = append(nq.FilterQueries, c.cfg.SiteField+":"+trimInt(c.cfg.SiteID))
	}
	if c.cfg.IndexField != "" && c.cfg.IndexScope != "" {
		nq.FilterQueries = append(nq.FilterQueries, c.cfg.IndexField+":"+solr.EscapeValue(c.cfg.IndexScope))
	}
	if kinds := q.Kinds(); len(kinds) > 0 {
		escaped := make([]string, 0, len(kinds))
		for _, k := range kinds {
			escaped = append(escaped, solr.EscapeValue(k))
		}
		nq.FilterQueries = append(nq.FilterQueries, c.cfg.KindField+":("+strings.Join(escaped, " OR ")+")")
	}
}

// compileSort maps the sort spec onto the native sort. The relevance
// alias (or no sort) is the engine's score order; an unresolvable sort
// field falls back to it.
func (c *Compiler) compileSort(q *query.Query) string {
	s := q.Sort()
	if s == nil || s.Field == "" || s.Field == query.RelevanceField {
		if s != nil && s.Field == query.RelevanceField && !s.Desc {
			return "score asc"
		}
		return ""
	}
	physical, ok := c.ResolveField(q, s.Field)
	if !ok {
		c.log.Warn("sort field skipped", zap.String("field", s.Field))
		return ""
	}
	dir := " asc"
	if s.Desc {
		dir = " desc"
	}
	return physical + dir
}

// applyPagination sets rows/start and, because results are always
// grouped by resource type, the equivalent per-group limit/offset.
func (c *Compiler) applyPagination(nq *solr.NativeQuery, q *query.Query) {
	rows := c.cfg.DefaultRows
	if limit, ok := q.Limit(); ok {
		rows = limit
	}
	if rows > c.cfg.MaxRows {
		rows = c.cfg.MaxRows
	}
	nq.Rows = rows
	nq.RowsSet = true
	nq.Start = q.Offset()

	nq.GroupField = c.cfg.KindField
	nq.GroupLimit = rows
	nq.GroupOffset = q.Offset()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// insertion sort; boost maps are tiny
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
