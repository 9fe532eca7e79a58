package compiler

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/solr"
)

// facetTag derives the exclusion tag shared by a facet's selection
// filter and its facet component.
func facetTag(physical string) string {
	return "facet_" + physical
}

// inclusiveEnd widens the native upper-exclusive range bound by one
// gap, so a value equal to the requested end still lands in the last
// bucket. Non-numeric bounds pass through untouched.
func inclusiveEnd(end, gap string) string {
	e, errEnd := strconv.ParseFloat(end, 64)
	g, errGap := strconv.ParseFloat(gap, 64)
	if errEnd != nil || errGap != nil {
		return end
	}
	if e == math.Trunc(e) && g == math.Trunc(g) {
		return strconv.FormatInt(int64(e)+int64(g), 10)
	}
	return strconv.FormatFloat(e+g, 'f', -1, 64)
}

// appendSelections compiles the active facet selections into tagged
// filter queries. The tag lets the matching facet component exclude
// its own filter, keeping the other values of a faceted field visible
// after one is selected.
func (c *Compiler) appendSelections(nq *solr.NativeQuery, q *query.Query) {
	for _, sel := range q.Selections() {
		physical, ok := c.ResolveField(q, sel.Field)
		if !ok || len(sel.Values) == 0 {
			c.log.Debug("facet selection skipped", zap.String("field", sel.Field))
			continue
		}
		escaped := make([]string, 0, len(sel.Values))
		for _, v := range sel.Values {
			escaped = append(escaped, solr.EscapeValue(v))
		}
		clause := physical + ":" + escaped[0]
		if len(escaped) > 1 {
			clause = physical + ":(" + strings.Join(escaped, " OR ") + ")"
		}
		nq.FilterQueries = append(nq.FilterQueries,
			"{!tag="+facetTag(physical)+"}"+clause)
	}
}

// appendFacets attaches the requested facet components. Each facet is
// keyed by its caller-facing name so hydration does not need the
// alias table, and excludes its own selection tag.
func (c *Compiler) appendFacets(nq *solr.NativeQuery, q *query.Query) {
	for _, f := range q.Facets() {
		physical, ok := c.ResolveField(q, f.Field)
		if !ok {
			c.log.Debug("facet skipped", zap.String("field", f.Field))
			continue
		}
		switch f.Kind {
		case query.FacetRange:
			if f.Start == "" || f.End == "" || f.Gap == "" {
				c.log.Debug("range facet missing bounds", zap.String("field", f.Field))
				continue
			}
			nq.RangeFacets = append(nq.RangeFacets, solr.RangeFacet{
				Field:      physical,
				Key:        f.Field,
				ExcludeTag: facetTag(physical),
				Start:      f.Start,
				End:        inclusiveEnd(f.End, f.Gap),
				Gap:        f.Gap,
			})
		default:
			tf := solr.TermFacet{
				Field:      physical,
				Key:        f.Field,
				ExcludeTag: facetTag(physical),
				Limit:      f.Limit,
				MinCount:   1,
			}
			if f.Sort == query.FacetSortAlpha {
				tf.Sort = "index"
			} else {
				tf.Sort = "count"
			}
			if len(f.Values) > 0 && (tf.Limit <= 0 || tf.Limit < len(f.Values)) {
				// a value whitelist needs every listed value in the
				// response before hydration reorders and filters
				tf.Limit = -1
			}
			nq.TermFacets = append(nq.TermFacets, tf)
		}
	}
}
