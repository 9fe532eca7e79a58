// Package query models the abstract search request: free text, typed
// filters, ranges, facets, sort, pagination, per-type grouping, boosts
// and field aliases. The compiler turns it into the engine's native
// query; it carries no engine syntax itself.
package query

import "fmt"

// Condition is one clause of a filter group.
type Condition struct {
	// Joiner combines with the previous condition (and/or/not);
	// ignored on the first condition of a group.
	Joiner Joiner
	// Op is the typed operator.
	Op Operator
	// Values are the operand values; ex/nex take none.
	Values []string
}

// Filter is a group of conditions on one logical field.
type Filter struct {
	Field      string
	Conditions []Condition
}

// DateRange is a raw from/to filter on a date field. Partial dates
// ("1925", "1925-03") are normalized by the compiler.
type DateRange struct {
	Field string
	From  string
	To    string
}

// FacetKind selects term or range faceting.
type FacetKind string

// Facet kinds.
const (
	FacetTerms FacetKind = "terms"
	FacetRange FacetKind = "range"
)

// FacetSort orders term facet buckets.
type FacetSort string

// Facet sort orders.
const (
	FacetSortAlpha FacetSort = "alphabetic"
	FacetSortCount FacetSort = "count"
)

// Facet is a requested aggregate breakdown over one logical field.
type Facet struct {
	Field string
	Kind  FacetKind
	Sort  FacetSort
	// Limit caps term buckets when > 0.
	Limit int
	// Values is an ordered whitelist; buckets outside it are dropped
	// and the remainder re-ordered to match.
	Values []string
	// Start, End, Gap bound a range facet; when Start/End are empty
	// the compiler derives bounds from the data.
	Start string
	End   string
	Gap   string
}

// Selection is an active facet selection: chosen values for one facet
// field. Compiled to a filter clause tagged for exclusion from its own
// facet's counts.
type Selection struct {
	Field  string
	Values []string
}

// Sort specifies the result order. An empty field or the relevance
// alias maps to the engine's score sort.
type Sort struct {
	Field string
	Desc  bool
}

// RelevanceField is the sort alias for the engine's native score.
const RelevanceField = "relevance"

// Alias maps a logical field name to explicit physical candidates,
// overriding mapping-derived aliases.
type Alias struct {
	Name       string
	Candidates []string
}

// Query is an abstract, engine-independent search request. Owned by
// the caller; read-only during compilation.
type Query struct {
	text       string
	filters    []Filter
	dateRanges []DateRange
	facets     []Facet
	selections []Selection
	sort       *Sort
	limit      int
	offset     int
	limitSet   bool
	kinds      []string
	boosts     map[string]float64
	aliases    map[string]Alias
	expandText bool
}

// New creates an empty query (match all, default pagination).
func New(text string) *Query {
	return &Query{text: text, boosts: map[string]float64{}, aliases: map[string]Alias{}}
}

// Text returns the free text, or "" for match-all.
func (q *Query) Text() string { return q.text }

// AddFilter appends a filter group.
func (q *Query) AddFilter(f Filter) *Query {
	q.filters = append(q.filters, f)
	return q
}

// Filters returns the filter groups in declaration order.
func (q *Query) Filters() []Filter { return q.filters }

// AddDateRange appends a raw date range filter.
func (q *Query) AddDateRange(r DateRange) *Query {
	q.dateRanges = append(q.dateRanges, r)
	return q
}

// DateRanges returns the raw date range filters.
func (q *Query) DateRanges() []DateRange { return q.dateRanges }

// AddFacet appends a requested facet.
func (q *Query) AddFacet(f Facet) *Query {
	q.facets = append(q.facets, f)
	return q
}

// Facets returns the requested facets.
func (q *Query) Facets() []Facet { return q.facets }

// Select records an active facet selection.
func (q *Query) Select(field string, values ...string) *Query {
	q.selections = append(q.selections, Selection{Field: field, Values: values})
	return q
}

// Selections returns the active facet selections.
func (q *Query) Selections() []Selection { return q.selections }

// SetSort sets the sort spec.
func (q *Query) SetSort(field string, desc bool) *Query {
	q.sort = &Sort{Field: field, Desc: desc}
	return q
}

// Sort returns the sort spec, or nil for relevance order.
func (q *Query) Sort() *Sort { return q.sort }

// SetPage sets pagination. Values must be non-negative; a limit of 0
// is legal and means "no rows, counts only".
func (q *Query) SetPage(limit, offset int) error {
	if limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", limit)
	}
	if offset < 0 {
		return fmt.Errorf("offset must be non-negative, got %d", offset)
	}
	q.limit = limit
	q.offset = offset
	q.limitSet = true
	return nil
}

// Limit returns the page size; ok is false when unset.
func (q *Query) Limit() (int, bool) { return q.limit, q.limitSet }

// Offset returns the page offset.
func (q *Query) Offset() int { return q.offset }

// SetKinds scopes the query to resource types.
func (q *Query) SetKinds(kinds ...string) *Query {
	q.kinds = kinds
	return q
}

// Kinds returns the resource type scope; empty means all.
func (q *Query) Kinds() []string { return q.kinds }

// SetBoost sets a per-field relevance weight. Query boosts win over
// mapping-level defaults on conflict.
func (q *Query) SetBoost(field string, weight float64) *Query {
	q.boosts[field] = weight
	return q
}

// Boosts returns the per-query boost map.
func (q *Query) Boosts() map[string]float64 { return q.boosts }

// SetAlias overrides alias resolution for one logical field.
func (q *Query) SetAlias(a Alias) *Query {
	q.aliases[a.Name] = a
	return q
}

// Aliases returns caller-supplied aliases by logical name.
func (q *Query) Aliases() map[string]Alias { return q.aliases }

// ExpandText requests that free text search across all eligible
// full-text fields instead of the engine's default field.
func (q *Query) ExpandText(on bool) *Query {
	q.expandText = on
	return q
}

// TextExpanded reports whether full-text field expansion is requested.
func (q *Query) TextExpanded() bool { return q.expandText }
