// Package result is the normalized domain response: total counts
// overall and per resource type, the current page of typed ids, facet
// buckets, and on demand the complete matching-id sets. Built fresh
// per query, never cached across requests.
package result

// Ref identifies one matching resource.
type Ref struct {
	Kind string
	ID   int64
}

// KindCount is the match count for one resource type.
type KindCount struct {
	Kind  string
	Count int
}

// Bucket is one facet value with its count.
type Bucket struct {
	Value string
	Count int
}

// FacetResult holds the buckets of one facet, in final order.
type FacetResult struct {
	Name    string
	Buckets []Bucket
}

// Response is the hydrated domain response.
type Response struct {
	total   int
	byKind  []KindCount
	refs    []Ref
	facets  []FacetResult
	allRefs map[string][]int64
}

// New creates an empty response.
func New() *Response {
	return &Response{}
}

// SetTotal sets the overall match count.
func (r *Response) SetTotal(n int) { r.total = n }

// Total returns the overall match count.
func (r *Response) Total() int { return r.total }

// AddKindCount appends a per-type count, preserving engine order.
func (r *Response) AddKindCount(kind string, count int) {
	r.byKind = append(r.byKind, KindCount{Kind: kind, Count: count})
}

// KindCounts returns the per-type counts.
func (r *Response) KindCounts() []KindCount { return r.byKind }

// KindCount returns the count for one resource type.
func (r *Response) KindCount(kind string) int {
	for _, kc := range r.byKind {
		if kc.Kind == kind {
			return kc.Count
		}
	}
	return 0
}

// AddRef appends one page result.
func (r *Response) AddRef(kind string, id int64) {
	r.refs = append(r.refs, Ref{Kind: kind, ID: id})
}

// Refs returns the current page of results, in rank order.
func (r *Response) Refs() []Ref { return r.refs }

// AddFacet appends one facet's buckets.
func (r *Response) AddFacet(name string, buckets []Bucket) {
	r.facets = append(r.facets, FacetResult{Name: name, Buckets: buckets})
}

// Facets returns all facet results.
func (r *Response) Facets() []FacetResult { return r.facets }

// Facet returns the buckets of one facet by name.
func (r *Response) Facet(name string) []Bucket {
	for _, f := range r.facets {
		if f.Name == name {
			return f.Buckets
		}
	}
	return nil
}

// SetAllIDs stores the complete matching-id sets grouped by type,
// bypassing pagination.
func (r *Response) SetAllIDs(ids map[string][]int64) { r.allRefs = ids }

// AllIDs returns the complete matching-id sets, or nil when the caller
// did not request them.
func (r *Response) AllIDs() map[string][]int64 { return r.allRefs }
