package solr

import (
	"net/url"
	"strconv"
	"strings"
)

// MatchAll is the native match-all query.
const MatchAll = "*:*"

// NativeQuery is the engine's native query representation, assembled by
// the query compiler. Pure data; Params encodes it for the select
// handler.
type NativeQuery struct {
	// Query is the main query string (lucene syntax).
	Query string
	// FilterQueries are the fq clauses, in application order.
	FilterQueries []string
	// Sort is the native sort spec ("score desc", "field asc"), or "".
	Sort string
	// Start and Rows paginate. Rows 0 is legal and means "no rows,
	// counts only"; RowsSet distinguishes it from unset.
	Start   int
	Rows    int
	RowsSet bool
	// GroupField clusters hits by a field value when non-empty.
	GroupField  string
	GroupLimit  int
	GroupOffset int
	// TermFacets and RangeFacets attach facet components.
	TermFacets  []TermFacet
	RangeFacets []RangeFacet
	// Fields is the field list to return (fl), id only by default.
	Fields []string
}

// TermFacet is a facet over a field's distinct values.
type TermFacet struct {
	// Field is the physical facet field.
	Field string
	// Key names the facet in results (defaults to Field).
	Key string
	// ExcludeTag excludes same-tagged filter queries from this facet's
	// counts (multi-select faceting).
	ExcludeTag string
	// Sort is "count" or "index".
	Sort string
	// Limit caps the bucket count when > 0.
	Limit int
	// MinCount hides buckets below the threshold.
	MinCount int
}

// RangeFacet is a facet over numeric or date step ranges.
type RangeFacet struct {
	Field      string
	Key        string
	ExcludeTag string
	// Start, End and Gap use the engine's native literal forms
	// (numbers, ISO instants, date math gaps like "+1YEAR").
	Start string
	End   string
	Gap   string
}

// Clone returns a deep copy of the query.
func (q *NativeQuery) Clone() *NativeQuery {
	c := *q
	c.FilterQueries = append([]string(nil), q.FilterQueries...)
	c.TermFacets = append([]TermFacet(nil), q.TermFacets...)
	c.RangeFacets = append([]RangeFacet(nil), q.RangeFacets...)
	c.Fields = append([]string(nil), q.Fields...)
	return &c
}

// Unpaged returns a copy with pagination and per-group limits removed,
// for the all-matching-ids path.
func (q *NativeQuery) Unpaged(rows int) *NativeQuery {
	c := q.Clone()
	c.Start = 0
	c.Rows = rows
	c.RowsSet = true
	if c.GroupField != "" {
		c.GroupLimit = rows
		c.GroupOffset = 0
	}
	return c
}

// Params encodes the query for the select handler.
func (q *NativeQuery) Params() url.Values {
	p := url.Values{}
	query := q.Query
	if query == "" {
		query = MatchAll
	}
	p.Set("q", query)
	for _, fq := range q.FilterQueries {
		p.Add("fq", fq)
	}
	if q.Sort != "" {
		p.Set("sort", q.Sort)
	}
	if q.Start > 0 {
		p.Set("start", strconv.Itoa(q.Start))
	}
	if q.RowsSet {
		p.Set("rows", strconv.Itoa(q.Rows))
	}
	if len(q.Fields) > 0 {
		p.Set("fl", strings.Join(q.Fields, ","))
	}
	if q.GroupField != "" {
		p.Set("group", "true")
		p.Set("group.field", q.GroupField)
		p.Set("group.ngroups", "true")
		if q.GroupLimit > 0 || q.RowsSet && q.Rows == 0 {
			p.Set("group.limit", strconv.Itoa(q.GroupLimit))
		}
		if q.GroupOffset > 0 {
			p.Set("group.offset", strconv.Itoa(q.GroupOffset))
		}
	}
	if len(q.TermFacets) > 0 || len(q.RangeFacets) > 0 {
		p.Set("facet", "true")
	}
	for _, f := range q.TermFacets {
		p.Add("facet.field", facetFieldParam(f.Field, f.Key, f.ExcludeTag))
		if f.Sort != "" {
			p.Set("f."+f.Field+".facet.sort", f.Sort)
		}
		if f.Limit != 0 {
			// -1 is the engine's "no limit"
			p.Set("f."+f.Field+".facet.limit", strconv.Itoa(f.Limit))
		}
		if f.MinCount > 0 {
			p.Set("f."+f.Field+".facet.mincount", strconv.Itoa(f.MinCount))
		}
	}
	for _, f := range q.RangeFacets {
		p.Add("facet.range", facetFieldParam(f.Field, f.Key, f.ExcludeTag))
		p.Set("f."+f.Field+".facet.range.start", f.Start)
		p.Set("f."+f.Field+".facet.range.end", f.End)
		p.Set("f."+f.Field+".facet.range.gap", f.Gap)
	}
	return p
}

// String renders the encoded query, for logs.
func (q *NativeQuery) String() string {
	return q.Params().Encode()
}

// facetFieldParam renders a facet field with optional key and exclusion
// local params, e.g. "{!ex=f_type key=type}resource_name_s".
func facetFieldParam(field, key, excludeTag string) string {
	var locals []string
	if excludeTag != "" {
		locals = append(locals, "ex="+excludeTag)
	}
	if key != "" && key != field {
		locals = append(locals, "key="+key)
	}
	if len(locals) == 0 {
		return field
	}
	return "{!" + strings.Join(locals, " ") + "}" + field
}
