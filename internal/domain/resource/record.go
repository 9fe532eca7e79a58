package resource

import (
	"sort"
	"time"
)

// Record is an in-memory Resource implementation used by fixtures,
// tests and the reference runner. Real deployments adapt their own
// domain model to the Resource interface instead.
type Record struct {
	RecID       int64
	RecKind     string
	Public      bool
	RecOwner    *Agent
	RecSites    []Site
	RecClass    string
	RecTemplate string
	RecCreated  time.Time
	RecModified time.Time
	RecTitle    string
	RecURL      string
	RecAccess   string
	RecContent  string
	Properties  map[string][]Value
	RecMedia    []Resource
	RecItemSets []Resource
	RecItem     Resource
}

var _ Resource = (*Record)(nil)

// NewRecord creates a public record of the given kind and id.
func NewRecord(kind string, id int64) *Record {
	return &Record{RecKind: kind, RecID: id, Public: true, Properties: map[string][]Value{}}
}

// WithValue appends property values to a term and returns the record.
func (r *Record) WithValue(term string, values ...Value) *Record {
	r.Properties[term] = append(r.Properties[term], values...)
	return r
}

func (r *Record) ID() int64            { return r.RecID }
func (r *Record) Kind() string         { return r.RecKind }
func (r *Record) IsPublic() bool       { return r.Public }
func (r *Record) Owner() *Agent        { return r.RecOwner }
func (r *Record) Sites() []Site        { return r.RecSites }
func (r *Record) Class() string        { return r.RecClass }
func (r *Record) Template() string     { return r.RecTemplate }
func (r *Record) Created() time.Time   { return r.RecCreated }
func (r *Record) Modified() time.Time  { return r.RecModified }
func (r *Record) URL() string          { return r.RecURL }
func (r *Record) Access() string       { return r.RecAccess }
func (r *Record) Content() string      { return r.RecContent }
func (r *Record) Media() []Resource    { return r.RecMedia }
func (r *Record) ItemSets() []Resource { return r.RecItemSets }
func (r *Record) Item() Resource       { return r.RecItem }

// Title returns the display title, falling back to the first
// dcterms:title literal.
func (r *Record) Title() string {
	if r.RecTitle != "" {
		return r.RecTitle
	}
	for _, v := range r.Properties["dcterms:title"] {
		if t := v.Text(); t != "" {
			return t
		}
	}
	return ""
}

// Terms returns the property terms with values, sorted for stable
// iteration.
func (r *Record) Terms() []string {
	terms := make([]string, 0, len(r.Properties))
	for term, vals := range r.Properties {
		if len(vals) > 0 {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	return terms
}

// Values returns the values of one property term.
func (r *Record) Values(term string) []Value {
	return r.Properties[term]
}
