package compiler

import (
	"strings"
	"testing"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/solr"
)

func testSchema() *solr.Schema {
	return solr.NewSchema(
		[]solr.SchemaField{solr.NewSchemaField("id", solr.TypeString, false)},
		solr.DefaultDynamicRules(),
		"",
	)
}

func testMaps(t *testing.T) mapping.Set {
	t.Helper()
	specs := []struct {
		field, path, kind string
	}{
		{"dcterms_subject_ss", "dcterms:subject", ""},
		{"dcterms_subject_sl", "dcterms:subject", ""},
		{"dcterms_date_ss", "dcterms:date", ""},
		{"date_sort_ld", "dcterms:date", "items"},
		{"created_dt", "created", ""},
		{"item_set_id_is", "item_set/id", "items"},
	}
	maps := make([]mapping.FieldMap, 0, len(specs))
	for _, s := range specs {
		m, err := mapping.New(s.field, s.path, s.kind, mapping.Pool{}, mapping.Settings{})
		if err != nil {
			t.Fatal(err)
		}
		maps = append(maps, m)
	}
	return mapping.NewSet(maps)
}

func newTestCompiler(t *testing.T, cfg Config) *Compiler {
	t.Helper()
	return New(testSchema(), testMaps(t), cfg, nil)
}

func TestCompile_MatchAllGrouped(t *testing.T) {
	c := newTestCompiler(t, Config{})
	nq := c.Compile(query.New(""))

	if nq.Query != solr.MatchAll {
		t.Errorf("Query = %q, want %q", nq.Query, solr.MatchAll)
	}
	if nq.GroupField != "resource_name_s" {
		t.Errorf("GroupField = %q", nq.GroupField)
	}
	if !nq.RowsSet || nq.Rows != 20 || nq.GroupLimit != 20 {
		t.Errorf("rows = %d group limit = %d, want defaults", nq.Rows, nq.GroupLimit)
	}
	if len(nq.Fields) != 1 || nq.Fields[0] != "id" {
		t.Errorf("Fields = %v", nq.Fields)
	}
	if len(nq.FilterQueries) != 0 {
		t.Errorf("FilterQueries = %v, want none", nq.FilterQueries)
	}
}

func TestResolveField(t *testing.T) {
	c := newTestCompiler(t, Config{})

	t.Run("alias wins", func(t *testing.T) {
		q := query.New("").SetAlias(query.Alias{
			Name:       "dcterms:subject",
			Candidates: []string{"not_in_any_schema", "custom_field_s"},
		})
		got, ok := c.ResolveField(q, "dcterms:subject")
		if !ok || got != "custom_field_s" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("suffix priority within a tier", func(t *testing.T) {
		got, ok := c.ResolveField(query.New(""), "dcterms:subject")
		if !ok || got != "dcterms_subject_ss" {
			t.Errorf("got %q, %v, want the multivalued string variant", got, ok)
		}
	})

	t.Run("kind specific beats generic", func(t *testing.T) {
		q := query.New("").SetKinds("items")
		got, ok := c.ResolveField(q, "dcterms:date")
		if !ok || got != "date_sort_ld" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("kind without specific map uses generic", func(t *testing.T) {
		q := query.New("").SetKinds("item_sets")
		got, ok := c.ResolveField(q, "dcterms:date")
		if !ok || got != "dcterms_date_ss" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("schema-valid name passes through", func(t *testing.T) {
		got, ok := c.ResolveField(query.New(""), "anything_txt")
		if !ok || got != "anything_txt" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("unresolvable", func(t *testing.T) {
		if _, ok := c.ResolveField(query.New(""), "no_suffix_no_map"); ok {
			t.Error("expected failure")
		}
	})
}

func singleFQ(t *testing.T, nq *solr.NativeQuery) string {
	t.Helper()
	if len(nq.FilterQueries) != 1 {
		t.Fatalf("FilterQueries = %v, want exactly one", nq.FilterQueries)
	}
	return nq.FilterQueries[0]
}

func TestCompile_FilterOperators(t *testing.T) {
	c := newTestCompiler(t, Config{})
	tests := []struct {
		name   string
		filter query.Filter
		want   string
	}{
		{
			name: "eq single value",
			filter: query.Filter{Field: "creator_ss", Conditions: []query.Condition{
				{Op: query.OpEq, Values: []string{"John Smith"}},
			}},
			want: `creator_ss:John\ Smith`,
		},
		{
			name: "eq value list",
			filter: query.Filter{Field: "creator_ss", Conditions: []query.Condition{
				{Op: query.OpEq, Values: []string{"a", "b"}},
			}},
			want: `creator_ss:(a OR b)`,
		},
		{
			name: "neq wraps in match-all subtraction",
			filter: query.Filter{Field: "creator_ss", Conditions: []query.Condition{
				{Op: query.OpNeq, Values: []string{"Smith"}},
			}},
			want: `(*:* NOT creator_ss:Smith)`,
		},
		{
			name: "in on string wildcards",
			filter: query.Filter{Field: "title_s", Conditions: []query.Condition{
				{Op: query.OpIn, Values: []string{"war"}},
			}},
			want: `title_s:*war*`,
		},
		{
			name: "in on integer stays exact",
			filter: query.Filter{Field: "year_i", Conditions: []query.Condition{
				{Op: query.OpIn, Values: []string{"1914"}},
			}},
			want: `year_i:1914`,
		},
		{
			name: "starts with",
			filter: query.Filter{Field: "title_s", Conditions: []query.Condition{
				{Op: query.OpSw, Values: []string{"The"}},
			}},
			want: `title_s:The*`,
		},
		{
			name: "ends with",
			filter: query.Filter{Field: "title_s", Conditions: []query.Condition{
				{Op: query.OpEw, Values: []string{"poems"}},
			}},
			want: `title_s:*poems`,
		},
		{
			name: "regex on string field",
			filter: query.Filter{Field: "title_s", Conditions: []query.Condition{
				{Op: query.OpMa, Values: []string{"19[0-9]{2}"}},
			}},
			want: `title_s:/19[0-9]{2}/`,
		},
		{
			name: "exists",
			filter: query.Filter{Field: "title_s", Conditions: []query.Condition{
				{Op: query.OpEx},
			}},
			want: `title_s:[* TO *]`,
		},
		{
			name: "not exists",
			filter: query.Filter{Field: "title_s", Conditions: []query.Condition{
				{Op: query.OpNex},
			}},
			want: `(*:* NOT title_s:[* TO *])`,
		},
		{
			name: "resource reference on integer field",
			filter: query.Filter{Field: "item_set_id_is", Conditions: []query.Condition{
				{Op: query.OpRes, Values: []string{"7", "12"}},
			}},
			want: `item_set_id_is:(7 OR 12)`,
		},
		{
			name: "lt on integer adjusts to inclusive",
			filter: query.Filter{Field: "year_i", Conditions: []query.Condition{
				{Op: query.OpLt, Values: []string{"1918"}},
			}},
			want: `year_i:[* TO 1917]`,
		},
		{
			name: "gt on integer adjusts to inclusive",
			filter: query.Filter{Field: "year_i", Conditions: []query.Condition{
				{Op: query.OpGt, Values: []string{"1914"}},
			}},
			want: `year_i:[1915 TO *]`,
		},
		{
			name: "lte on integer",
			filter: query.Filter{Field: "year_i", Conditions: []query.Condition{
				{Op: query.OpLte, Values: []string{"1918"}},
			}},
			want: `year_i:[* TO 1918]`,
		},
		{
			name: "lt on date uses exclusive bracket",
			filter: query.Filter{Field: "created_dt", Conditions: []query.Condition{
				{Op: query.OpLt, Values: []string{"1918-11-11"}},
			}},
			want: `created_dt:[* TO 1918-11-11T00:00:00Z}`,
		},
		{
			name: "gt on date uses exclusive bracket",
			filter: query.Filter{Field: "created_dt", Conditions: []query.Condition{
				{Op: query.OpGt, Values: []string{"1914"}},
			}},
			want: `created_dt:{1914-01-01T00:00:00Z TO *]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nq := c.Compile(query.New("").AddFilter(tt.filter))
			if got := singleFQ(t, nq); got != tt.want {
				t.Errorf("fq = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompile_FilterTypeGuards(t *testing.T) {
	c := newTestCompiler(t, Config{})
	tests := []struct {
		name   string
		filter query.Filter
	}{
		{"regex on non-string", query.Filter{Field: "year_i", Conditions: []query.Condition{
			{Op: query.OpMa, Values: []string{"19.."}},
		}}},
		{"res on non-integer", query.Filter{Field: "title_s", Conditions: []query.Condition{
			{Op: query.OpRes, Values: []string{"7"}},
		}}},
		{"res with non-numeric value", query.Filter{Field: "item_set_id_is", Conditions: []query.Condition{
			{Op: query.OpRes, Values: []string{"seven"}},
		}}},
		{"comparison with bad integer", query.Filter{Field: "year_i", Conditions: []query.Condition{
			{Op: query.OpLt, Values: []string{"not a year"}},
		}}},
		{"unresolvable field", query.Filter{Field: "bogus", Conditions: []query.Condition{
			{Op: query.OpEq, Values: []string{"x"}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nq := c.Compile(query.New("").AddFilter(tt.filter))
			if len(nq.FilterQueries) != 0 {
				t.Errorf("FilterQueries = %v, want clause dropped", nq.FilterQueries)
			}
		})
	}
}

func TestCompile_Joiners(t *testing.T) {
	c := newTestCompiler(t, Config{})
	f := query.Filter{Field: "subject_ss", Conditions: []query.Condition{
		{Joiner: query.JoinNot, Op: query.OpEq, Values: []string{"first"}},
		{Joiner: query.JoinOr, Op: query.OpEq, Values: []string{"second"}},
		{Joiner: query.JoinAnd, Op: query.OpSw, Values: []string{"th"}},
		{Joiner: query.JoinNot, Op: query.OpEq, Values: []string{"fourth"}},
	}}
	nq := c.Compile(query.New("").AddFilter(f))
	want := `subject_ss:first OR subject_ss:second AND subject_ss:th* AND (*:* NOT subject_ss:fourth)`
	if got := singleFQ(t, nq); got != want {
		t.Errorf("fq = %q\nwant %q", got, want)
	}
}

func TestCompile_YearOperators(t *testing.T) {
	c := newTestCompiler(t, Config{})
	tests := []struct {
		name   string
		field  string
		op     query.Operator
		want   string
	}{
		{"year eq on date", "created_dt", query.OpYrEq,
			`created_dt:[1914-01-01T00:00:00Z TO 1915-01-01T00:00:00Z}`},
		{"year lt on date", "created_dt", query.OpYrLt,
			`created_dt:[* TO 1914-01-01T00:00:00Z}`},
		{"year lte on date", "created_dt", query.OpYrLte,
			`created_dt:[* TO 1915-01-01T00:00:00Z}`},
		{"year gte on date", "created_dt", query.OpYrGte,
			`created_dt:[1914-01-01T00:00:00Z TO *]`},
		{"year gt on date", "created_dt", query.OpYrGt,
			`created_dt:[1915-01-01T00:00:00Z TO *]`},
		{"year eq on integer", "year_i", query.OpYrEq, `year_i:1914`},
		{"year gt on integer", "year_i", query.OpYrGt, `year_i:[1915 TO *]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nq := c.Compile(query.New("").AddFilter(query.Filter{
				Field:      tt.field,
				Conditions: []query.Condition{{Op: tt.op, Values: []string{"1914"}}},
			}))
			if got := singleFQ(t, nq); got != tt.want {
				t.Errorf("fq = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("negated year equality", func(t *testing.T) {
		nq := c.Compile(query.New("").AddFilter(query.Filter{
			Field:      "created_dt",
			Conditions: []query.Condition{{Op: query.OpNyrEq, Values: []string{"1914"}}},
		}))
		want := `(*:* NOT created_dt:[1914-01-01T00:00:00Z TO 1915-01-01T00:00:00Z})`
		if got := singleFQ(t, nq); got != want {
			t.Errorf("fq = %q, want %q", got, want)
		}
	})
}

func TestCompile_DateRanges(t *testing.T) {
	c := newTestCompiler(t, Config{})

	tests := []struct {
		name string
		dr   query.DateRange
		want string
	}{
		{
			"bare years normalize to period start",
			query.DateRange{Field: "created_dt", From: "1914", To: "1918"},
			`created_dt:[1914-01-01T00:00:00Z TO 1918-01-01T00:00:00Z]`,
		},
		{
			"partial month",
			query.DateRange{Field: "created_dt", From: "1914-07", To: ""},
			`created_dt:[1914-07-01T00:00:00Z TO *]`,
		},
		{
			"open lower bound",
			query.DateRange{Field: "created_dt", From: "", To: "1918-11-11"},
			`created_dt:[* TO 1918-11-11T00:00:00Z]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nq := c.Compile(query.New("").AddDateRange(tt.dr))
			if got := singleFQ(t, nq); got != tt.want {
				t.Errorf("fq = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("double open compiles to nothing", func(t *testing.T) {
		nq := c.Compile(query.New("").AddDateRange(query.DateRange{Field: "created_dt"}))
		if len(nq.FilterQueries) != 0 {
			t.Errorf("FilterQueries = %v", nq.FilterQueries)
		}
	})

	t.Run("non-date field skipped", func(t *testing.T) {
		nq := c.Compile(query.New("").AddDateRange(query.DateRange{Field: "title_s", From: "1914"}))
		if len(nq.FilterQueries) != 0 {
			t.Errorf("FilterQueries = %v", nq.FilterQueries)
		}
	})

	t.Run("unparseable bound drops the range", func(t *testing.T) {
		nq := c.Compile(query.New("").AddDateRange(query.DateRange{Field: "created_dt", From: "circa 1914"}))
		if len(nq.FilterQueries) != 0 {
			t.Errorf("FilterQueries = %v", nq.FilterQueries)
		}
	})
}

func TestCompile_ScopeFilters(t *testing.T) {
	c := newTestCompiler(t, Config{
		PublicOnly: true,
		SiteID:     4,
		IndexField: "index_name_s",
		IndexScope: "site-one",
	})
	nq := c.Compile(query.New("").SetKinds("items", "item_sets"))

	want := []string{
		"is_public_b:true",
		"site_id_is:4",
		`index_name_s:site\-one`,
		"resource_name_s:(items OR item_sets)",
	}
	if len(nq.FilterQueries) != len(want) {
		t.Fatalf("FilterQueries = %v, want %v", nq.FilterQueries, want)
	}
	for i, fq := range want {
		if nq.FilterQueries[i] != fq {
			t.Errorf("fq[%d] = %q, want %q", i, nq.FilterQueries[i], fq)
		}
	}
}

func TestCompile_SelectionsAndFacets(t *testing.T) {
	c := newTestCompiler(t, Config{})

	t.Run("selection tags its filter for facet exclusion", func(t *testing.T) {
		q := query.New("").
			Select("subject_ss", "History").
			AddFacet(query.Facet{Field: "subject_ss", Kind: query.FacetTerms})
		nq := c.Compile(q)

		if got := singleFQ(t, nq); got != "{!tag=facet_subject_ss}subject_ss:History" {
			t.Errorf("fq = %q", got)
		}
		if len(nq.TermFacets) != 1 {
			t.Fatalf("TermFacets = %v", nq.TermFacets)
		}
		tf := nq.TermFacets[0]
		if tf.Field != "subject_ss" || tf.Key != "subject_ss" || tf.ExcludeTag != "facet_subject_ss" {
			t.Errorf("term facet = %+v", tf)
		}
		if tf.MinCount != 1 || tf.Sort != "count" {
			t.Errorf("term facet defaults = %+v", tf)
		}
	})

	t.Run("multi-value selection", func(t *testing.T) {
		q := query.New("").Select("subject_ss", "History", "Art")
		nq := c.Compile(q)
		if got := singleFQ(t, nq); got != "{!tag=facet_subject_ss}subject_ss:(History OR Art)" {
			t.Errorf("fq = %q", got)
		}
	})

	t.Run("alphabetic sort and limit", func(t *testing.T) {
		q := query.New("").AddFacet(query.Facet{
			Field: "subject_ss", Kind: query.FacetTerms, Sort: query.FacetSortAlpha, Limit: 30,
		})
		nq := c.Compile(q)
		tf := nq.TermFacets[0]
		if tf.Sort != "index" || tf.Limit != 30 {
			t.Errorf("term facet = %+v", tf)
		}
	})

	t.Run("whitelist lifts the bucket limit", func(t *testing.T) {
		q := query.New("").AddFacet(query.Facet{
			Field: "subject_ss", Kind: query.FacetTerms, Values: []string{"A", "B", "C"},
		})
		nq := c.Compile(q)
		if nq.TermFacets[0].Limit != -1 {
			t.Errorf("Limit = %d, want -1", nq.TermFacets[0].Limit)
		}
	})

	t.Run("range facet widens the end to include it", func(t *testing.T) {
		q := query.New("").AddFacet(query.Facet{
			Field: "year_is", Kind: query.FacetRange, Start: "1900", End: "1950", Gap: "10",
		})
		nq := c.Compile(q)
		if len(nq.RangeFacets) != 1 {
			t.Fatalf("RangeFacets = %v", nq.RangeFacets)
		}
		rf := nq.RangeFacets[0]
		// The native end is exclusive; one extra gap keeps a value of
		// exactly 1950 inside the last bucket.
		if rf.Field != "year_is" || rf.Start != "1900" || rf.End != "1960" || rf.Gap != "10" {
			t.Errorf("range facet = %+v", rf)
		}
	})

	t.Run("range facet keeps non-numeric bounds verbatim", func(t *testing.T) {
		q := query.New("").AddFacet(query.Facet{
			Field: "created_dt", Kind: query.FacetRange,
			Start: "1914-01-01T00:00:00Z", End: "1918-01-01T00:00:00Z", Gap: "+1YEAR",
		})
		nq := c.Compile(q)
		if len(nq.RangeFacets) != 1 {
			t.Fatalf("RangeFacets = %v", nq.RangeFacets)
		}
		if got := nq.RangeFacets[0].End; got != "1918-01-01T00:00:00Z" {
			t.Errorf("End = %q, want untouched date bound", got)
		}
	})

	t.Run("range facet without bounds is skipped", func(t *testing.T) {
		q := query.New("").AddFacet(query.Facet{Field: "year_is", Kind: query.FacetRange})
		nq := c.Compile(q)
		if len(nq.RangeFacets) != 0 {
			t.Errorf("RangeFacets = %v, want skipped", nq.RangeFacets)
		}
	})
}

func TestCompile_Sort(t *testing.T) {
	c := newTestCompiler(t, Config{})
	tests := []struct {
		name string
		prep func(*query.Query)
		want string
	}{
		{"no sort is relevance", func(q *query.Query) {}, ""},
		{"relevance descending is native order", func(q *query.Query) {
			q.SetSort(query.RelevanceField, true)
		}, ""},
		{"relevance ascending inverts", func(q *query.Query) {
			q.SetSort(query.RelevanceField, false)
		}, "score asc"},
		{"field ascending", func(q *query.Query) {
			q.SetSort("dcterms:date", false)
		}, "date_sort_ld asc"},
		{"field descending", func(q *query.Query) {
			q.SetSort("title_s", true)
		}, "title_s desc"},
		{"unresolvable falls back to relevance", func(q *query.Query) {
			q.SetSort("bogus", true)
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := query.New("")
			tt.prep(q)
			if got := c.Compile(q).Sort; got != tt.want {
				t.Errorf("Sort = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompile_Pagination(t *testing.T) {
	c := newTestCompiler(t, Config{DefaultRows: 20, MaxRows: 100})

	t.Run("explicit page", func(t *testing.T) {
		q := query.New("")
		if err := q.SetPage(10, 30); err != nil {
			t.Fatal(err)
		}
		nq := c.Compile(q)
		if nq.Rows != 10 || nq.Start != 30 || nq.GroupLimit != 10 || nq.GroupOffset != 30 {
			t.Errorf("rows %d start %d group %d/%d", nq.Rows, nq.Start, nq.GroupLimit, nq.GroupOffset)
		}
	})

	t.Run("limit clamped to max", func(t *testing.T) {
		q := query.New("")
		if err := q.SetPage(5000, 0); err != nil {
			t.Fatal(err)
		}
		nq := c.Compile(q)
		if nq.Rows != 100 {
			t.Errorf("Rows = %d, want clamped to 100", nq.Rows)
		}
	})

	t.Run("zero limit means counts only", func(t *testing.T) {
		q := query.New("")
		if err := q.SetPage(0, 0); err != nil {
			t.Fatal(err)
		}
		nq := c.Compile(q)
		if !nq.RowsSet || nq.Rows != 0 {
			t.Errorf("Rows = %d RowsSet = %v", nq.Rows, nq.RowsSet)
		}
	})
}

func TestCompile_Text(t *testing.T) {
	cfg := Config{TextFields: []string{"full_text_txt", "title_txt"}}

	t.Run("plain text without expansion", func(t *testing.T) {
		c := newTestCompiler(t, cfg)
		nq := c.Compile(query.New("trench warfare"))
		if nq.Query != "trench warfare" {
			t.Errorf("Query = %q", nq.Query)
		}
	})

	t.Run("reserved characters escaped", func(t *testing.T) {
		c := newTestCompiler(t, cfg)
		nq := c.Compile(query.New("war (1914)"))
		if nq.Query != `war \(1914\)` {
			t.Errorf("Query = %q", nq.Query)
		}
	})

	t.Run("expansion builds a disjunction", func(t *testing.T) {
		c := newTestCompiler(t, cfg)
		nq := c.Compile(query.New("war").ExpandText(true))
		want := "(full_text_txt:(war) OR title_txt:(war))"
		if nq.Query != want {
			t.Errorf("Query = %q, want %q", nq.Query, want)
		}
	})

	t.Run("boosts attach weights", func(t *testing.T) {
		c := newTestCompiler(t, Config{
			TextFields: []string{"full_text_txt", "title_txt"},
			Boosts:     map[string]float64{"title_txt": 2},
		})
		nq := c.Compile(query.New("war").ExpandText(true))
		want := "(full_text_txt:(war) OR title_txt:(war)^2)"
		if nq.Query != want {
			t.Errorf("Query = %q, want %q", nq.Query, want)
		}
	})

	t.Run("query boost wins over configured boost", func(t *testing.T) {
		c := newTestCompiler(t, Config{
			TextFields: []string{"title_txt"},
			Boosts:     map[string]float64{"title_txt": 2},
		})
		nq := c.Compile(query.New("war").ExpandText(true).SetBoost("title_txt", 5))
		if nq.Query != "title_txt:(war)^5" {
			t.Errorf("Query = %q", nq.Query)
		}
	})

	t.Run("boost without expansion still targets the field", func(t *testing.T) {
		c := newTestCompiler(t, Config{})
		nq := c.Compile(query.New("war").SetBoost("title_txt", 3))
		if nq.Query != "title_txt:(war)^3" {
			t.Errorf("Query = %q", nq.Query)
		}
	})

	t.Run("clause clamp", func(t *testing.T) {
		c := newTestCompiler(t, Config{
			TextFields: []string{"full_text_txt", "title_txt", "description_txt"},
			MaxClauses: 2,
		})
		nq := c.Compile(query.New("war").ExpandText(true))
		if n := strings.Count(nq.Query, " OR "); n != 1 {
			t.Errorf("Query = %q, want 2 clauses", nq.Query)
		}
	})

	t.Run("match all ignores boosts", func(t *testing.T) {
		c := newTestCompiler(t, Config{Boosts: map[string]float64{"title_txt": 2}})
		nq := c.Compile(query.New("  "))
		if nq.Query != solr.MatchAll {
			t.Errorf("Query = %q", nq.Query)
		}
	})
}
