package solrmapper

import (
	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/domain/resource"
	"github.com/openark/solrmapper/internal/domain/result"
)

// Re-exported domain types. Aliases keep the library surface in one
// import while the implementation stays internal.
type (
	// Resource is the read model a host application adapts its
	// records to.
	Resource = resource.Resource
	// Record is a ready-made in-memory Resource implementation.
	Record = resource.Record
	// Value is one property value of a resource.
	Value = resource.Value
	// Agent is a resource owner.
	Agent = resource.Agent
	// Site is a site a resource is attached to.
	Site = resource.Site

	// FieldMap projects one source path onto one engine field.
	FieldMap = mapping.FieldMap
	// Pool filters the values a field map admits.
	Pool = mapping.Pool
	// PoolSpec is the raw configuration of a Pool.
	PoolSpec = mapping.PoolSpec
	// Settings drive the value formatting pipeline of one map.
	Settings = mapping.Settings
	// MappingSet groups field maps by resource kind.
	MappingSet = mapping.Set

	// Query is the abstract search request.
	Query = query.Query
	// Filter is a group of conditions on one logical field.
	Filter = query.Filter
	// Condition is one operator application within a filter.
	Condition = query.Condition
	// DateRange is a raw from/to filter on a date field.
	DateRange = query.DateRange
	// Facet requests an aggregate breakdown over one field.
	Facet = query.Facet
	// Alias overrides field name resolution for one logical name.
	Alias = query.Alias

	// Response is the hydrated search result.
	Response = result.Response
	// Ref identifies one matching resource.
	Ref = result.Ref
	// Bucket is one facet value with its count.
	Bucket = result.Bucket
)

// Resource kinds.
const (
	KindItems    = resource.KindItems
	KindMedia    = resource.KindMedia
	KindItemSets = resource.KindItemSets
)

// NewQuery creates a query with the given free text ("" matches all).
func NewQuery(text string) *Query { return query.New(text) }

// NewRecord creates a public in-memory resource record.
func NewRecord(kind string, id int64) *Record { return resource.NewRecord(kind, id) }

// NewLiteral creates a literal property value.
func NewLiteral(literal, lang, dataType string) Value {
	return resource.NewLiteral(literal, lang, dataType)
}

// NewURI creates a URI property value.
func NewURI(uri, label string) Value { return resource.NewURI(uri, label) }

// NewLink creates a linked-resource property value.
func NewLink(r Resource) Value { return resource.NewLink(r) }

// NewFieldMap validates and creates a field map.
func NewFieldMap(targetField, sourcePath, kind string, pool Pool, settings Settings) (FieldMap, error) {
	return mapping.New(targetField, sourcePath, kind, pool, settings)
}

// NewPool validates and compiles a value pool.
func NewPool(spec PoolSpec) (Pool, error) { return mapping.NewPool(spec) }

// NewMappingSet groups field maps into a set.
func NewMappingSet(maps []FieldMap) MappingSet { return mapping.NewSet(maps) }
