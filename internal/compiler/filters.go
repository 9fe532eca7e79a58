package compiler

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/solr"
)

// compileFilterGroup compiles one field's condition list into a
// single filter query. Conditions chain with their joiners; the first
// condition's joiner is ignored. Conditions that do not compile for
// the resolved field type are skipped, and a group with no surviving
// conditions compiles to nothing.
func (c *Compiler) compileFilterGroup(q *query.Query, f query.Filter) string {
	physical, ok := c.ResolveField(q, f.Field)
	if !ok {
		c.log.Debug("filter field skipped", zap.String("field", f.Field))
		return ""
	}
	typ := c.FieldType(physical)

	var sb strings.Builder
	for _, cond := range f.Conditions {
		clause, ok := c.compileCondition(physical, typ, cond)
		if !ok {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(clause)
			continue
		}
		switch cond.Joiner {
		case query.JoinOr:
			sb.WriteString(" OR ")
			sb.WriteString(clause)
		case query.JoinNot:
			sb.WriteString(" AND (*:* NOT ")
			sb.WriteString(clause)
			sb.WriteString(")")
		default:
			sb.WriteString(" AND ")
			sb.WriteString(clause)
		}
	}
	return sb.String()
}

// compileCondition compiles one operator application. Negative
// operators compile their positive counterpart and wrap it in a
// match-all subtraction so the negation also matches documents
// missing the field.
func (c *Compiler) compileCondition(field string, typ solr.FieldType, cond query.Condition) (string, bool) {
	if cond.Op.Negative() {
		inner, ok := c.compileCondition(field, typ, query.Condition{Op: cond.Op.Positive(), Values: cond.Values})
		if !ok {
			return "", false
		}
		return "(*:* NOT " + inner + ")", true
	}

	switch cond.Op {
	case query.OpEx:
		return field + ":[* TO *]", true
	case query.OpEq:
		return orClause(field, cond.Values, func(v string) string {
			return solr.EscapeValue(v)
		})
	case query.OpIn:
		if typ == solr.TypeString || typ == solr.TypeText {
			return orClause(field, cond.Values, func(v string) string {
				return "*" + solr.EscapeValue(v) + "*"
			})
		}
		return orClause(field, cond.Values, func(v string) string {
			return solr.EscapeValue(v)
		})
	case query.OpSw:
		return orClause(field, cond.Values, func(v string) string {
			return solr.EscapeValue(v) + "*"
		})
	case query.OpEw:
		return orClause(field, cond.Values, func(v string) string {
			return "*" + solr.EscapeValue(v)
		})
	case query.OpMa:
		if typ != solr.TypeString {
			return "", false
		}
		return orClause(field, cond.Values, func(v string) string {
			return "/" + v + "/"
		})
	case query.OpLt, query.OpLte, query.OpGte, query.OpGt:
		return c.compileComparison(field, typ, cond)
	case query.OpYrEq, query.OpYrLt, query.OpYrLte, query.OpYrGte, query.OpYrGt:
		return c.compileYear(field, typ, cond)
	case query.OpRes:
		if typ != solr.TypeInteger {
			return "", false
		}
		return orClause(field, cond.Values, func(v string) string {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return ""
			}
			return v
		})
	}
	return "", false
}

// orClause renders field:(v1 OR v2 ...); the render func returns ""
// to drop a value. Single values skip the parenthesized list.
func orClause(field string, values []string, render func(string) string) (string, bool) {
	rendered := make([]string, 0, len(values))
	for _, v := range values {
		if r := render(v); r != "" {
			rendered = append(rendered, r)
		}
	}
	switch len(rendered) {
	case 0:
		return "", false
	case 1:
		return field + ":" + rendered[0], true
	}
	return field + ":(" + strings.Join(rendered, " OR ") + ")", true
}

// compileComparison compiles the ordering operators. On integer
// fields the strict operators adjust the boundary by one so the range
// stays inclusive-bracketed; other types use exclusive brackets.
func (c *Compiler) compileComparison(field string, typ solr.FieldType, cond query.Condition) (string, bool) {
	if len(cond.Values) == 0 {
		return "", false
	}
	v := cond.Values[0]

	if typ == solr.TypeInteger {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", false
		}
		switch cond.Op {
		case query.OpLt:
			return field + ":[* TO " + trimInt(n-1) + "]", true
		case query.OpLte:
			return field + ":[* TO " + trimInt(n) + "]", true
		case query.OpGte:
			return field + ":[" + trimInt(n) + " TO *]", true
		case query.OpGt:
			return field + ":[" + trimInt(n+1) + " TO *]", true
		}
		return "", false
	}

	bound := solr.EscapeValue(v)
	if typ == solr.TypeDate {
		t, ok := parseDateBound(v, false)
		if !ok {
			return "", false
		}
		bound = t.Format(time.RFC3339)
	}
	switch cond.Op {
	case query.OpLt:
		return field + ":[* TO " + bound + "}", true
	case query.OpLte:
		return field + ":[* TO " + bound + "]", true
	case query.OpGte:
		return field + ":[" + bound + " TO *]", true
	case query.OpGt:
		return field + ":{" + bound + " TO *]", true
	}
	return "", false
}

// compileYear compiles year operators. A date field turns the year
// into a calendar-year boundary range; an integer field compares the
// year number directly.
func (c *Compiler) compileYear(field string, typ solr.FieldType, cond query.Condition) (string, bool) {
	if len(cond.Values) == 0 {
		return "", false
	}
	year, err := strconv.Atoi(strings.TrimSpace(cond.Values[0]))
	if err != nil {
		return "", false
	}

	if typ == solr.TypeInteger {
		n := int64(year)
		switch cond.Op {
		case query.OpYrEq:
			return field + ":" + trimInt(n), true
		case query.OpYrLt:
			return field + ":[* TO " + trimInt(n-1) + "]", true
		case query.OpYrLte:
			return field + ":[* TO " + trimInt(n) + "]", true
		case query.OpYrGte:
			return field + ":[" + trimInt(n) + " TO *]", true
		case query.OpYrGt:
			return field + ":[" + trimInt(n+1) + " TO *]", true
		}
		return "", false
	}
	if typ != solr.TypeDate {
		return "", false
	}

	start := yearStart(year)
	next := yearStart(year + 1)
	switch cond.Op {
	case query.OpYrEq:
		return field + ":[" + start + " TO " + next + "}", true
	case query.OpYrLt:
		return field + ":[* TO " + start + "}", true
	case query.OpYrLte:
		return field + ":[* TO " + next + "}", true
	case query.OpYrGte:
		return field + ":[" + start + " TO *]", true
	case query.OpYrGt:
		return field + ":[" + next + " TO *]", true
	}
	return "", false
}

func yearStart(year int) string {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

// compileDateRange normalizes both bounds of a raw date range to the
// start of their stated period and emits an inclusive range. Open
// ends become wildcards; a range with two open ends compiles to
// nothing.
func (c *Compiler) compileDateRange(q *query.Query, dr query.DateRange) string {
	physical, ok := c.ResolveField(q, dr.Field)
	if !ok || c.FieldType(physical) != solr.TypeDate {
		c.log.Debug("date range skipped", zap.String("field", dr.Field))
		return ""
	}

	from, to := "*", "*"
	if dr.From != "" {
		t, ok := parseDateBound(dr.From, false)
		if !ok {
			return ""
		}
		from = t.Format(time.RFC3339)
	}
	if dr.To != "" {
		t, ok := parseDateBound(dr.To, false)
		if !ok {
			return ""
		}
		to = t.Format(time.RFC3339)
	}
	if from == "*" && to == "*" {
		return ""
	}
	return physical + ":[" + from + " TO " + to + "]"
}

// dateBoundLayouts accepts full timestamps down to bare years.
var dateBoundLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// parseDateBound parses a possibly partial date, normalized to the
// start of its period in UTC. The end flag is reserved for callers
// wanting the exclusive upper boundary instead.
func parseDateBound(s string, end bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateBoundLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		if end {
			switch layout {
			case "2006":
				t = t.AddDate(1, 0, 0)
			case "2006-01":
				t = t.AddDate(0, 1, 0)
			case "2006-01-02":
				t = t.AddDate(0, 0, 1)
			}
		}
		return t, true
	}
	return time.Time{}, false
}

func trimInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
