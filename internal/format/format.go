// Package format normalizes raw extracted values into final scalars
// for the engine through a 4-stage chain: preFormat (pull the
// indexable sub-part), format (the named formatter), postFormat
// (per-value normalizations in a fixed order) and finalize
// (collection-level dedupe and empty-drop). Every stage preserves
// order.
package format

import (
	"fmt"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/resource"
)

// Format runs the full chain. Output scalars are string, int64,
// float64 or bool. A value a formatter cannot interpret contributes
// nothing; the rest of the sequence is unaffected.
func Format(values []resource.Value, settings mapping.Settings) []any {
	f := formatterOf(settings.Formatter)
	pre := preFormat(values, f)

	scalars := make([]any, 0, len(pre))
	for _, v := range pre {
		scalars = append(scalars, formatOne(v, f, settings)...)
	}

	out := make([]any, 0, len(scalars))
	for _, s := range scalars {
		out = append(out, postFormat(s, settings)...)
	}

	return finalize(out)
}

// preFormat extracts the indexable sub-part per formatter: date-like
// formatters take the start of an interval ("1939/1945" yields
// "1939"); everything else passes through.
func preFormat(values []resource.Value, f Formatter) []resource.Value {
	switch f {
	case FormatterDate, FormatterYear:
		out := make([]resource.Value, 0, len(values))
		for _, v := range values {
			out = append(out, intervalStart(v))
		}
		return out
	}
	return values
}

// finalize de-duplicates exact repeats preserving first-seen order and
// drops empty strings.
func finalize(scalars []any) []any {
	seen := make(map[string]bool, len(scalars))
	out := make([]any, 0, len(scalars))
	for _, s := range scalars {
		if str, ok := s.(string); ok && str == "" {
			continue
		}
		key := fmt.Sprintf("%T\x00%v", s, s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
