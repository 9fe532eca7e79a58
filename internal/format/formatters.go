package format

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/resource"
)

// Formatter is the closed set of named format stages. Unknown names
// fall back to FormatterText.
type Formatter string

// Formatters.
const (
	FormatterText         Formatter = "text"
	FormatterHTML         Formatter = "html"
	FormatterAlphanumeric Formatter = "alphanumeric"
	FormatterInteger      Formatter = "integer"
	FormatterBoolean      Formatter = "boolean"
	FormatterDate         Formatter = "date"
	FormatterYear         Formatter = "year"
	FormatterURI          Formatter = "uri"
	FormatterTable        Formatter = "table"
	FormatterVocabulary   Formatter = "vocabulary"
	FormatterPoint        Formatter = "point"
)

var formatters = map[Formatter]bool{
	FormatterText: true, FormatterHTML: true, FormatterAlphanumeric: true,
	FormatterInteger: true, FormatterBoolean: true, FormatterDate: true,
	FormatterYear: true, FormatterURI: true, FormatterTable: true,
	FormatterVocabulary: true, FormatterPoint: true,
}

func formatterOf(name string) Formatter {
	f := Formatter(name)
	if formatters[f] {
		return f
	}
	return FormatterText
}

// formatOne turns one raw value into zero or more scalars.
func formatOne(v resource.Value, f Formatter, settings mapping.Settings) []any {
	switch f {
	case FormatterText:
		return one(v.Text())

	case FormatterHTML:
		return one(html.EscapeString(v.Text()))

	case FormatterAlphanumeric:
		return one(alphanumeric(v.Text()))

	case FormatterInteger:
		n, ok := parseLeadingInt(v.Text())
		if !ok {
			return nil
		}
		return []any{n}

	case FormatterBoolean:
		b, ok := parseBool(v.Text())
		if !ok {
			return nil
		}
		return []any{b}

	case FormatterDate:
		t, ok := parseFlexibleDate(v.Text())
		if !ok {
			return nil
		}
		return one(t.UTC().Format("2006-01-02T15:04:05Z"))

	case FormatterYear:
		t, ok := parseFlexibleDate(v.Text())
		if !ok {
			return nil
		}
		return []any{int64(t.Year())}

	case FormatterURI:
		if !v.IsURI() {
			return nil
		}
		return one(v.URI())

	case FormatterTable:
		mapped, ok := settings.Table[v.Text()]
		if !ok {
			return nil
		}
		return one(mapped)

	case FormatterVocabulary:
		expansion, ok := settings.Table[v.Text()]
		if !ok {
			return one(v.Text())
		}
		var out []any
		out = append(out, v.Text())
		for _, broader := range strings.Split(expansion, ";") {
			if broader = strings.TrimSpace(broader); broader != "" {
				out = append(out, broader)
			}
		}
		return out

	case FormatterPoint:
		point, ok := parsePoint(v.Text())
		if !ok {
			return nil
		}
		return one(point)
	}
	return one(v.Text())
}

func one(s string) []any {
	if s == "" {
		return nil
	}
	return []any{s}
}

// intervalStart reduces an interval literal ("1939/1945") to its start.
func intervalStart(v resource.Value) resource.Value {
	text := v.Text()
	if start, _, ok := strings.Cut(text, "/"); ok && start != "" {
		return resource.NewLiteral(start, v.Lang(), v.DataType())
	}
	return v
}

var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// parseFlexibleDate accepts full ISO instants down to bare years.
// Partial dates resolve to the start of their period.
func parseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off", "":
		return false, true
	}
	return false, false
}

// parsePoint normalizes "lat lon", "lat,lon" or "lat, lon" to the
// engine's "lat,lon" form.
func parsePoint(s string) (string, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 2 {
		return "", false
	}
	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		return "", false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", false
	}
	return fields[0] + "," + fields[1], true
}

func alphanumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
