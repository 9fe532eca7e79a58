package solr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is the per-resource record submitted to the engine: an
// ordered multimap of field name to values, keyed by a stable id.
// Request-scoped; discarded after the indexing call.
type Document struct {
	id     string
	order  []string
	values map[string][]any
}

// NewDocument creates an empty document with the given id.
func NewDocument(id string) *Document {
	return &Document{id: id, values: map[string][]any{}}
}

// DocumentID derives the deterministic document id from the optional
// server and index scopes plus the resource type and id, so that
// re-indexing the same resource overwrites rather than duplicates.
func DocumentID(serverScope, indexScope, kind string, resourceID int64) string {
	var b strings.Builder
	if serverScope != "" {
		b.WriteString(serverScope)
		b.WriteByte(':')
	}
	if indexScope != "" {
		b.WriteString(indexScope)
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%s/%07d", kind, resourceID)
	return b.String()
}

// ParseDocumentID extracts the resource kind and id back out of a
// document id, dropping any scope prefixes.
func ParseDocumentID(id string) (kind string, resourceID int64, err error) {
	if i := strings.LastIndexByte(id, ':'); i >= 0 {
		id = id[i+1:]
	}
	kind, num, ok := strings.Cut(id, "/")
	if !ok || kind == "" {
		return "", 0, fmt.Errorf("malformed document id %q", id)
	}
	if _, err := fmt.Sscanf(num, "%d", &resourceID); err != nil {
		return "", 0, fmt.Errorf("malformed document id %q: %w", id, err)
	}
	return kind, resourceID, nil
}

// ID returns the document id.
func (d *Document) ID() string { return d.id }

// Add appends a value to a field, preserving first-seen field order.
func (d *Document) Add(field string, value any) {
	if _, ok := d.values[field]; !ok {
		d.order = append(d.order, field)
	}
	d.values[field] = append(d.values[field], value)
}

// Has reports whether the field already holds at least one value.
func (d *Document) Has(field string) bool {
	return len(d.values[field]) > 0
}

// Get returns the values of a field, in insertion order.
func (d *Document) Get(field string) []any { return d.values[field] }

// Fields returns the field names in first-seen order.
func (d *Document) Fields() []string { return d.order }

// Dedupe replaces a field's values with their exact-match set,
// preserving first-seen order.
func (d *Document) Dedupe(field string) {
	vals := d.values[field]
	if len(vals) < 2 {
		return
	}
	seen := make(map[string]bool, len(vals))
	out := vals[:0]
	for _, v := range vals {
		key := fmt.Sprintf("%T\x00%v", v, v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	d.values[field] = out
}

// MarshalJSON encodes the document for the engine's update handler.
// Single values are emitted as scalars, multiple as arrays, and the id
// field always first.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"id":`)
	if err := writeJSON(&buf, d.id); err != nil {
		return nil, err
	}
	for _, field := range d.order {
		vals := d.values[field]
		if len(vals) == 0 {
			continue
		}
		buf.WriteByte(',')
		if err := writeJSON(&buf, field); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		var err error
		if len(vals) == 1 {
			err = writeJSON(&buf, vals[0])
		} else {
			err = writeJSON(&buf, vals)
		}
		if err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
