package mapping

// Set is the ordered collection of field maps for one index: generic
// maps plus resource-type-specific ones. Configuration-owned and
// read-only during a request.
type Set struct {
	generic []FieldMap
	byKind  map[string][]FieldMap
}

// NewSet groups the given maps by kind, preserving declaration order
// within each group.
func NewSet(maps []FieldMap) Set {
	s := Set{byKind: map[string][]FieldMap{}}
	for _, m := range maps {
		if m.Kind() == "" {
			s.generic = append(s.generic, m)
			continue
		}
		s.byKind[m.Kind()] = append(s.byKind[m.Kind()], m)
	}
	return s
}

// ForKind returns the applicable maps for a resource kind, generic maps
// first so type-specific mappings can still populate the same field
// without duplication.
func (s Set) ForKind(kind string) []FieldMap {
	specific := s.byKind[kind]
	out := make([]FieldMap, 0, len(s.generic)+len(specific))
	out = append(out, s.generic...)
	out = append(out, specific...)
	return out
}

// All returns every map in the set, generic first, then per-kind groups
// in no particular kind order.
func (s Set) All() []FieldMap {
	out := make([]FieldMap, 0, len(s.generic))
	out = append(out, s.generic...)
	for _, maps := range s.byKind {
		out = append(out, maps...)
	}
	return out
}

// Kinds returns the resource kinds with specific maps.
func (s Set) Kinds() []string {
	kinds := make([]string, 0, len(s.byKind))
	for k := range s.byKind {
		kinds = append(kinds, k)
	}
	return kinds
}

// TargetFields returns the distinct target fields across the set, in
// first-seen order (generic first).
func (s Set) TargetFields() []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range s.All() {
		if !seen[m.TargetField()] {
			seen[m.TargetField()] = true
			out = append(out, m.TargetField())
		}
	}
	return out
}

// CandidatesFor returns the target fields whose maps could serve a
// logical source name, split into resource-type-specific candidates
// (the more specific tier) and generic ones. Used by the query
// compiler for alias resolution.
func (s Set) CandidatesFor(source, kind string) (specific, generic []string) {
	seen := map[string]bool{}
	add := func(maps []FieldMap, out []string) []string {
		for _, m := range maps {
			if m.SourcePath() == source && !seen[m.TargetField()] {
				seen[m.TargetField()] = true
				out = append(out, m.TargetField())
			}
		}
		return out
	}
	if kind != "" {
		specific = add(s.byKind[kind], specific)
	} else {
		for _, maps := range s.byKind {
			specific = add(maps, specific)
		}
	}
	generic = add(s.generic, generic)
	return specific, generic
}
