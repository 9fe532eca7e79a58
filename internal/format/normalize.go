package format

import (
	"html"
	"strconv"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/openark/solrmapper/internal/domain/mapping"
)

// Normalization option names accepted in mapping settings.
const (
	NormHTMLEscape       = "html_escape"
	NormStripTags        = "strip_tags"
	NormLowercase        = "lowercase"
	NormUppercase        = "uppercase"
	NormUcfirst          = "ucfirst"
	NormRemoveDiacritics = "remove_diacritics"
	NormAlphanumeric     = "alphanumeric"
	NormMaxLength        = "max_length"
	NormInteger          = "integer"
	NormTable            = "table"
)

// normOrder is the fixed application order; the order of options in
// the settings list does not matter.
var normOrder = []string{
	NormHTMLEscape,
	NormStripTags,
	NormLowercase,
	NormUppercase,
	NormUcfirst,
	NormRemoveDiacritics,
	NormAlphanumeric,
	NormMaxLength,
	NormInteger,
	NormTable,
}

var stripPolicy = bluemonday.StrictPolicy()

// diacriticsRemover decomposes, strips combining marks, recomposes.
var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// postFormat applies the configured normalizations to one scalar.
// Non-string scalars pass through untouched except for the table
// lookup, which works on their rendered form.
func postFormat(scalar any, settings mapping.Settings) []any {
	if len(settings.Normalizations) == 0 {
		return []any{scalar}
	}
	enabled := make(map[string]bool, len(settings.Normalizations))
	for _, n := range settings.Normalizations {
		enabled[n] = true
	}

	s, isString := scalar.(string)
	for _, step := range normOrder {
		if !enabled[step] {
			continue
		}
		switch step {
		case NormHTMLEscape:
			if isString {
				s = html.EscapeString(s)
			}
		case NormStripTags:
			if isString {
				s = html.UnescapeString(stripPolicy.Sanitize(s))
			}
		case NormLowercase:
			if isString {
				s = strings.ToLower(s)
			}
		case NormUppercase:
			if isString {
				s = strings.ToUpper(s)
			}
		case NormUcfirst:
			if isString {
				s = ucfirst(s)
			}
		case NormRemoveDiacritics:
			if isString {
				if stripped, _, err := transform.String(diacriticsRemover, s); err == nil {
					s = stripped
				}
			}
		case NormAlphanumeric:
			if isString {
				s = alphanumeric(s)
			}
		case NormMaxLength:
			if isString && settings.MaxLength > 0 {
				s = truncate(s, settings.MaxLength)
			}
		case NormInteger:
			if isString {
				n, ok := parseLeadingInt(s)
				if !ok {
					return nil
				}
				return []any{n}
			}
		case NormTable:
			key := s
			if !isString {
				key = renderScalar(scalar)
			}
			mapped, ok := settings.Table[key]
			if !ok {
				return nil
			}
			s, isString = mapped, true
		}
	}

	if isString {
		return []any{s}
	}
	return []any{scalar}
}

func ucfirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func renderScalar(v any) string {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	}
	return ""
}
