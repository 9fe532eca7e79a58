package solr

import "strings"

// FieldType is the logical type of a physical engine field.
type FieldType string

// Field types reported by the schema.
const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeFloat   FieldType = "float"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeText    FieldType = "text"
)

// SchemaField is engine-reported metadata for one physical field name.
// Read-only snapshot, fetched once per indexing/query session.
type SchemaField struct {
	name        string
	typ         FieldType
	multivalued bool
}

// NewSchemaField creates a schema field descriptor.
func NewSchemaField(name string, typ FieldType, multivalued bool) SchemaField {
	return SchemaField{name: name, typ: typ, multivalued: multivalued}
}

// Name returns the physical field name.
func (f SchemaField) Name() string { return f.name }

// Type returns the logical field type.
func (f SchemaField) Type() FieldType { return f.typ }

// Multivalued reports whether the field accepts more than one value
// per document.
func (f SchemaField) Multivalued() bool { return f.multivalued }

// DynamicRule is a dynamic-field declaration such as "*_ss".
type DynamicRule struct {
	Pattern     string
	Type        FieldType
	Multivalued bool
}

// matches reports whether a field name matches the rule's glob. Solr
// dynamic fields carry a single leading or trailing "*".
func (r DynamicRule) matches(name string) bool {
	switch {
	case strings.HasPrefix(r.Pattern, "*"):
		return strings.HasSuffix(name, r.Pattern[1:])
	case strings.HasSuffix(r.Pattern, "*"):
		return strings.HasPrefix(name, r.Pattern[:len(r.Pattern)-1])
	}
	return name == r.Pattern
}

// Schema is the engine field metadata snapshot for one core.
type Schema struct {
	fields  map[string]SchemaField
	dynamic []DynamicRule
	unique  string
}

// NewSchema creates a schema snapshot from explicit fields and dynamic
// rules. Dynamic rules are consulted in declaration order.
func NewSchema(fields []SchemaField, dynamic []DynamicRule, uniqueKey string) *Schema {
	m := make(map[string]SchemaField, len(fields))
	for _, f := range fields {
		m[f.name] = f
	}
	return &Schema{fields: m, dynamic: dynamic, unique: uniqueKey}
}

// UniqueKey returns the document id field name ("id" by convention).
func (s *Schema) UniqueKey() string {
	if s.unique == "" {
		return "id"
	}
	return s.unique
}

// Field resolves a physical field name against explicit fields first,
// then dynamic rules. ok is false for names the schema cannot hold.
func (s *Schema) Field(name string) (SchemaField, bool) {
	if f, ok := s.fields[name]; ok {
		return f, true
	}
	for _, rule := range s.dynamic {
		if rule.matches(name) {
			return SchemaField{name: name, typ: rule.Type, multivalued: rule.Multivalued}, true
		}
	}
	return SchemaField{}, false
}

// Has reports whether the schema can hold the field name.
func (s *Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// suffixTypes maps the dynamic-field suffix conventions to their
// logical type and multivalue flag. Used to type fields when a core
// reports no metadata for them, and by DefaultDynamicRules.
var suffixTypes = []struct {
	suffix string
	typ    FieldType
	multi  bool
}{
	{"_ss", TypeString, true},
	{"_s", TypeString, false},
	{"_sl", TypeString, false},
	{"_ld", TypeString, true},
	{"_txt", TypeText, true},
	{"_t", TypeText, false},
	{"_is", TypeInteger, true},
	{"_i", TypeInteger, false},
	{"_fs", TypeFloat, true},
	{"_f", TypeFloat, false},
	{"_bs", TypeBoolean, true},
	{"_b", TypeBoolean, false},
	{"_dts", TypeDate, true},
	{"_dt", TypeDate, false},
	{"_p", TypeString, false},
}

// TypeForName derives a field's type and multivalue flag from its
// suffix alone. ok is false when no convention matches.
func TypeForName(name string) (FieldType, bool, bool) {
	for _, st := range suffixTypes {
		if strings.HasSuffix(name, st.suffix) {
			return st.typ, st.multi, true
		}
	}
	return "", false, false
}

// DefaultDynamicRules returns the suffix-convention dynamic rules for
// cores that follow the standard dynamic-field layout.
func DefaultDynamicRules() []DynamicRule {
	rules := make([]DynamicRule, 0, len(suffixTypes))
	for _, st := range suffixTypes {
		rules = append(rules, DynamicRule{Pattern: "*" + st.suffix, Type: st.typ, Multivalued: st.multi})
	}
	return rules
}
