package compiler

import (
	"strings"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/solr"
)

// suffixPriority ranks candidate physical fields sharing a source
// term. Multi-valued string fields carry the richest data, so they
// win over single-valued, lowercase and link variants; anything else
// keeps its candidate order after these.
var suffixPriority = []string{"_ss", "_s", "_sl", "_ld"}

// ResolveField maps a caller-facing field name to a physical schema
// field. Resolution order: an explicit query alias, then
// mapping-derived candidates for the query's resource kinds (kind
// specific before generic, suffix priority within each tier), then
// the name itself when the schema accepts it. Only schema-valid
// names resolve.
func (c *Compiler) ResolveField(q *query.Query, name string) (string, bool) {
	if alias, ok := q.Aliases()[name]; ok {
		for _, cand := range alias.Candidates {
			if c.schema.Has(cand) {
				return cand, true
			}
		}
	}

	specific, generic := c.candidates(q, name)
	for _, tier := range [][]string{specific, generic} {
		if cand, ok := c.pickBySuffix(tier); ok {
			return cand, true
		}
	}

	if c.schema.Has(name) {
		return name, true
	}
	c.log.Debug("field does not resolve", zap.String("field", name))
	return "", false
}

// candidates collects mapping target fields whose source path matches
// the name, scoped to the query's kinds when set.
func (c *Compiler) candidates(q *query.Query, name string) (specific, generic []string) {
	kinds := q.Kinds()
	if len(kinds) == 0 {
		return c.maps.CandidatesFor(name, "")
	}
	seen := map[string]bool{}
	for _, kind := range kinds {
		s, g := c.maps.CandidatesFor(name, kind)
		for _, f := range s {
			if !seen[f] {
				seen[f] = true
				specific = append(specific, f)
			}
		}
		for _, f := range g {
			if !seen[f] {
				seen[f] = true
				generic = append(generic, f)
			}
		}
	}
	return specific, generic
}

// pickBySuffix returns the first schema-valid candidate, preferring
// the priority suffixes in order.
func (c *Compiler) pickBySuffix(cands []string) (string, bool) {
	for _, suffix := range suffixPriority {
		for _, cand := range cands {
			if strings.HasSuffix(cand, suffix) && c.schema.Has(cand) {
				return cand, true
			}
		}
	}
	for _, cand := range cands {
		if c.schema.Has(cand) {
			return cand, true
		}
	}
	return "", false
}

// FieldType returns the schema type of a physical field, defaulting
// to string for names only a dynamic rule knows.
func (c *Compiler) FieldType(physical string) solr.FieldType {
	if f, ok := c.schema.Field(physical); ok {
		return f.Type()
	}
	return solr.TypeString
}
