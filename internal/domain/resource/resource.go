// Package resource defines the read-only contract this module consumes
// from the domain: resources with typed, many-valued properties, linked
// sub-resources, ownership and site scoping. The domain's own storage
// is external; only accessors are needed here.
package resource

import "time"

// Well-known resource kinds. Kinds are open-ended strings; these are
// the ones the default mapping profiles ship with.
const (
	KindItems    = "items"
	KindMedia    = "media"
	KindItemSets = "item_sets"
)

// Resource is the read-only view of a domain record during indexing.
type Resource interface {
	// ID returns the internal numeric identifier.
	ID() int64
	// Kind returns the resource type name ("items", "media", ...).
	Kind() string
	// IsPublic reports the visibility flag.
	IsPublic() bool
	// Owner returns the owning agent, or nil when unowned.
	Owner() *Agent
	// Sites returns the sites the resource is assigned to.
	Sites() []Site
	// Class returns the class term (e.g. "dctype:Image"), or "".
	Class() string
	// Template returns the template label, or "".
	Template() string
	// Created returns the creation timestamp.
	Created() time.Time
	// Modified returns the last modification timestamp (zero if never).
	Modified() time.Time
	// Title returns the display title fallback.
	Title() string
	// URL returns the canonical public URL, or "".
	URL() string
	// Access returns the access level label, or "".
	Access() string
	// Content returns the raw extracted text content, or "".
	Content() string
	// Terms returns all property terms with at least one value.
	Terms() []string
	// Values returns all values of the named property term, in order.
	Values(term string) []Value
	// Media returns the attached media, for items.
	Media() []Resource
	// ItemSets returns the containing item sets, for items.
	ItemSets() []Resource
	// Item returns the parent item, for media; nil otherwise.
	Item() Resource
}

// Agent identifies an owning user.
type Agent struct {
	ID    int64
	Name  string
	Email string
}

// Site identifies a site a resource belongs to.
type Site struct {
	ID    int64
	Slug  string
	Title string
}
