// Package mapping holds the field map model: immutable rules projecting
// one resource attribute path onto one engine field, with per-map value
// pools (filters) and formatter settings.
package mapping

import "fmt"

// PathSeparator splits a source path into segments; each segment is
// consumed one at a time, recursing through linked resources.
const PathSeparator = "/"

// PathSelf is the sentinel tail segment meaning "the reference itself":
// a linked-resource value is returned as-is instead of recursed into.
const PathSelf = "self"

// FieldMap is one immutable mapping rule.
type FieldMap struct {
	targetField string
	sourcePath  string
	kind        string
	pool        Pool
	settings    Settings
}

// New validates and creates a FieldMap. The target field is required;
// an empty source path means "the resource's own display title". kind
// is the resource type the map applies to, or "" for a generic map.
func New(targetField, sourcePath, kind string, pool Pool, settings Settings) (FieldMap, error) {
	if targetField == "" {
		return FieldMap{}, fmt.Errorf("target field is required")
	}
	return FieldMap{
		targetField: targetField,
		sourcePath:  sourcePath,
		kind:        kind,
		pool:        pool,
		settings:    settings,
	}, nil
}

// Reconstruct creates a FieldMap without validation (configuration
// hydration).
func Reconstruct(targetField, sourcePath, kind string, pool Pool, settings Settings) FieldMap {
	return FieldMap{targetField: targetField, sourcePath: sourcePath, kind: kind, pool: pool, settings: settings}
}

// TargetField returns the engine field this map writes to.
func (m FieldMap) TargetField() string { return m.targetField }

// SourcePath returns the source attribute path.
func (m FieldMap) SourcePath() string { return m.sourcePath }

// Kind returns the resource type this map applies to ("" = generic).
func (m FieldMap) Kind() string { return m.kind }

// Pool returns the map's value pool filters.
func (m FieldMap) Pool() Pool { return m.pool }

// Settings returns the map's formatter settings.
func (m FieldMap) Settings() Settings { return m.settings }

// WithPath returns a copy of the map whose source path is replaced.
// Used when recursing into linked resources: the synthetic map carries
// the remaining path and the linked-resource filter of the pool.
func (m FieldMap) WithPath(path string) FieldMap {
	m.sourcePath = path
	m.pool = m.pool.ForLinked()
	return m
}

// Settings drive the value formatting pipeline for one map.
type Settings struct {
	// Formatter names the format stage ("text" when empty or unknown).
	Formatter string
	// Normalizations is the post-format option list; options are
	// applied in the fixed pipeline order regardless of list order.
	Normalizations []string
	// MaxLength truncates each value when > 0.
	MaxLength int
	// Table is the lookup table for the "table" formatter and the
	// "table" normalization.
	Table map[string]string
	// Languages restricts generic property extraction to these
	// language tags when non-empty.
	Languages []string
}
