package format

import (
	"reflect"
	"testing"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/resource"
)

func lit(s string) resource.Value { return resource.NewLiteral(s, "", "") }

func TestFormat_Formatters(t *testing.T) {
	tests := []struct {
		name     string
		values   []resource.Value
		settings mapping.Settings
		want     []any
	}{
		{
			name:     "text passes through",
			values:   []resource.Value{lit("Hello World")},
			settings: mapping.Settings{Formatter: "text"},
			want:     []any{"Hello World"},
		},
		{
			name:     "unknown formatter falls back to text",
			values:   []resource.Value{lit("x")},
			settings: mapping.Settings{Formatter: "no-such-formatter"},
			want:     []any{"x"},
		},
		{
			name:     "html escapes markup",
			values:   []resource.Value{lit(`<b>&"`)},
			settings: mapping.Settings{Formatter: "html"},
			want:     []any{"&lt;b&gt;&amp;&#34;"},
		},
		{
			name:     "integer parses leading digits",
			values:   []resource.Value{lit("42 pages"), lit("not a number")},
			settings: mapping.Settings{Formatter: "integer"},
			want:     []any{int64(42)},
		},
		{
			name:     "integer keeps sign",
			values:   []resource.Value{lit("-7")},
			settings: mapping.Settings{Formatter: "integer"},
			want:     []any{int64(-7)},
		},
		{
			name:     "boolean recognizes common spellings",
			values:   []resource.Value{lit("yes"), lit("0"), lit("maybe")},
			settings: mapping.Settings{Formatter: "boolean"},
			want:     []any{true, false},
		},
		{
			name:     "date normalizes partial dates to period start",
			values:   []resource.Value{lit("1914"), lit("1925-03"), lit("2001-02-03")},
			settings: mapping.Settings{Formatter: "date"},
			want: []any{
				"1914-01-01T00:00:00Z",
				"1925-03-01T00:00:00Z",
				"2001-02-03T00:00:00Z",
			},
		},
		{
			name:     "date takes interval start",
			values:   []resource.Value{lit("1939/1945")},
			settings: mapping.Settings{Formatter: "date"},
			want:     []any{"1939-01-01T00:00:00Z"},
		},
		{
			name:     "year yields integer",
			values:   []resource.Value{lit("1914-07-28"), lit("not a date")},
			settings: mapping.Settings{Formatter: "year"},
			want:     []any{int64(1914)},
		},
		{
			name: "uri keeps only uri values",
			values: []resource.Value{
				resource.NewURI("http://example.org/a", "A"),
				lit("plain text"),
			},
			settings: mapping.Settings{Formatter: "uri"},
			want:     []any{"http://example.org/a"},
		},
		{
			name:   "table maps and drops unmapped",
			values: []resource.Value{lit("a"), lit("b"), lit("c")},
			settings: mapping.Settings{
				Formatter: "table",
				Table:     map[string]string{"a": "Alpha", "b": "Beta"},
			},
			want: []any{"Alpha", "Beta"},
		},
		{
			name:   "vocabulary expands broader terms",
			values: []resource.Value{lit("dog"), lit("rock")},
			settings: mapping.Settings{
				Formatter: "vocabulary",
				Table:     map[string]string{"dog": "mammal; animal"},
			},
			want: []any{"dog", "mammal", "animal", "rock"},
		},
		{
			name:     "point validates coordinates",
			values:   []resource.Value{lit("48.85, 2.35"), lit("99,200"), lit("nonsense")},
			settings: mapping.Settings{Formatter: "point"},
			want:     []any{"48.85,2.35"},
		},
		{
			name:     "alphanumeric collapses punctuation",
			values:   []resource.Value{lit("Hello, World! (2nd ed.)")},
			settings: mapping.Settings{Formatter: "alphanumeric"},
			want:     []any{"Hello World 2nd ed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.values, tt.settings)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Format() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFormat_Normalizations(t *testing.T) {
	tests := []struct {
		name     string
		values   []resource.Value
		settings mapping.Settings
		want     []any
	}{
		{
			name:   "lowercase",
			values: []resource.Value{lit("MiXeD")},
			settings: mapping.Settings{
				Normalizations: []string{"lowercase"},
			},
			want: []any{"mixed"},
		},
		{
			name:   "fixed order regardless of declaration order",
			values: []resource.Value{lit("CaFÉ")},
			settings: mapping.Settings{
				Normalizations: []string{"remove_diacritics", "lowercase"},
			},
			want: []any{"cafe"},
		},
		{
			name:   "strip tags",
			values: []resource.Value{lit("<p>Hello <em>world</em></p>")},
			settings: mapping.Settings{
				Normalizations: []string{"strip_tags"},
			},
			want: []any{"Hello world"},
		},
		{
			name:   "max length truncates runes",
			values: []resource.Value{lit("héllo world")},
			settings: mapping.Settings{
				Normalizations: []string{"max_length"},
				MaxLength:      5,
			},
			want: []any{"héllo"},
		},
		{
			name:   "integer normalization drops unparseable",
			values: []resource.Value{lit("12kg"), lit("heavy")},
			settings: mapping.Settings{
				Normalizations: []string{"integer"},
			},
			want: []any{int64(12)},
		},
		{
			name:   "table lookup drops unmapped",
			values: []resource.Value{lit("fr"), lit("xx")},
			settings: mapping.Settings{
				Normalizations: []string{"table"},
				Table:          map[string]string{"fr": "French"},
			},
			want: []any{"French"},
		},
		{
			name:   "ucfirst",
			values: []resource.Value{lit("hello")},
			settings: mapping.Settings{
				Normalizations: []string{"ucfirst"},
			},
			want: []any{"Hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.values, tt.settings)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Format() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFormat_Finalize(t *testing.T) {
	t.Run("dedupes preserving first-seen order", func(t *testing.T) {
		got := Format([]resource.Value{lit("b"), lit("a"), lit("b")}, mapping.Settings{})
		want := []any{"b", "a"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Format() = %#v, want %#v", got, want)
		}
	})

	t.Run("type distinguishes duplicates", func(t *testing.T) {
		values := []resource.Value{lit("1"), lit("1")}
		got := Format(values, mapping.Settings{})
		if len(got) != 1 {
			t.Fatalf("expected exact duplicates collapsed, got %#v", got)
		}
	})

	t.Run("drops empty strings", func(t *testing.T) {
		got := Format([]resource.Value{lit("")}, mapping.Settings{})
		if len(got) != 0 {
			t.Errorf("expected empty output, got %#v", got)
		}
	})
}
