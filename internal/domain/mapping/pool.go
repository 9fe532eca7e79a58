package mapping

import (
	"fmt"
	"regexp"
)

// Visibility is the pool visibility filter.
type Visibility string

// Visibility filter values.
const (
	VisibilityAny     Visibility = ""
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether v is a known visibility filter.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityAny, VisibilityPublic, VisibilityPrivate:
		return true
	}
	return false
}

// Pool is the per-map filter set applied to extracted values after
// structural resolution. Exclude wins over include on data types.
type Pool struct {
	valuesRegex          *regexp.Regexp
	urisRegex            *regexp.Regexp
	visibility           Visibility
	dataTypesInclude     map[string]bool
	dataTypesExclude     map[string]bool
	resourcesQuery       string
	linkedResourcesQuery string
}

// PoolSpec is the raw configuration for a Pool.
type PoolSpec struct {
	FilterValues         string
	FilterURIs           string
	FilterVisibility     Visibility
	DataTypesInclude     []string
	DataTypesExclude     []string
	ResourcesQuery       string
	LinkedResourcesQuery string
}

// NewPool validates and compiles a Pool from its spec.
func NewPool(spec PoolSpec) (Pool, error) {
	p := Pool{
		visibility:           spec.FilterVisibility,
		resourcesQuery:       spec.ResourcesQuery,
		linkedResourcesQuery: spec.LinkedResourcesQuery,
	}
	if !spec.FilterVisibility.IsValid() {
		return Pool{}, fmt.Errorf("invalid visibility filter %q", spec.FilterVisibility)
	}
	if spec.FilterValues != "" {
		re, err := regexp.Compile(spec.FilterValues)
		if err != nil {
			return Pool{}, fmt.Errorf("invalid values filter: %w", err)
		}
		p.valuesRegex = re
	}
	if spec.FilterURIs != "" {
		re, err := regexp.Compile(spec.FilterURIs)
		if err != nil {
			return Pool{}, fmt.Errorf("invalid uris filter: %w", err)
		}
		p.urisRegex = re
	}
	if len(spec.DataTypesInclude) > 0 {
		p.dataTypesInclude = toSet(spec.DataTypesInclude)
	}
	if len(spec.DataTypesExclude) > 0 {
		p.dataTypesExclude = toSet(spec.DataTypesExclude)
	}
	return p, nil
}

// MustPool calls NewPool and panics on error. For fixtures and tests.
func MustPool(spec PoolSpec) Pool {
	p, err := NewPool(spec)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchValue reports whether a value text passes the values regex.
func (p Pool) MatchValue(text string) bool {
	return p.valuesRegex == nil || p.valuesRegex.MatchString(text)
}

// MatchURI reports whether a URI passes the uris regex.
func (p Pool) MatchURI(uri string) bool {
	return p.urisRegex == nil || p.urisRegex.MatchString(uri)
}

// MatchVisibility reports whether a value with the given public flag
// passes the visibility filter.
func (p Pool) MatchVisibility(isPublic bool) bool {
	switch p.visibility {
	case VisibilityPublic:
		return isPublic
	case VisibilityPrivate:
		return !isPublic
	}
	return true
}

// MatchDataType reports whether a data type passes the include/exclude
// sets. Exclude wins.
func (p Pool) MatchDataType(dataType string) bool {
	if p.dataTypesExclude[dataType] {
		return false
	}
	if p.dataTypesInclude != nil {
		return p.dataTypesInclude[dataType]
	}
	return true
}

// HasDataTypeFilter reports whether an include set is configured.
func (p Pool) HasDataTypeFilter() bool { return p.dataTypesInclude != nil }

// ResourcesQuery returns the resources filter query string, or "".
func (p Pool) ResourcesQuery() string { return p.resourcesQuery }

// LinkedResourcesQuery returns the linked-resources filter query, or "".
func (p Pool) LinkedResourcesQuery() string { return p.linkedResourcesQuery }

// ForLinked returns the pool a synthetic map carries when recursing
// into a linked resource: the linked filter becomes the resources
// filter, structural filters reset.
func (p Pool) ForLinked() Pool {
	return Pool{
		visibility:     p.visibility,
		resourcesQuery: p.linkedResourcesQuery,
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
