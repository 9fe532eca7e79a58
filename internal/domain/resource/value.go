package resource

// Value is one extracted atomic unit before formatting: a literal, a
// URI+label pair, or a reference to a linked resource. Values are
// created during extraction, consumed during formatting, and discarded
// after document assembly.
type Value struct {
	literal  string
	uri      string
	label    string
	lang     string
	dataType string
	linked   Resource
	private  bool
}

// NewLiteral creates a literal value.
func NewLiteral(literal, lang, dataType string) Value {
	if dataType == "" {
		dataType = "literal"
	}
	return Value{literal: literal, lang: lang, dataType: dataType}
}

// NewURI creates a URI value with an optional label.
func NewURI(uri, label string) Value {
	return Value{uri: uri, label: label, dataType: "uri"}
}

// NewLink creates a value referencing a linked resource.
func NewLink(r Resource) Value {
	return Value{linked: r, dataType: "resource"}
}

// Literal returns the literal text, or "" for non-literal values.
func (v Value) Literal() string { return v.literal }

// URI returns the URI, or "".
func (v Value) URI() string { return v.uri }

// Label returns the URI label, or "".
func (v Value) Label() string { return v.label }

// Lang returns the language tag, or "".
func (v Value) Lang() string { return v.lang }

// DataType returns the data type tag ("literal", "uri", "resource", or
// a custom type such as "numeric:timestamp").
func (v Value) DataType() string { return v.dataType }

// Linked returns the linked resource, or nil.
func (v Value) Linked() Resource { return v.linked }

// IsLink reports whether the value references another resource.
func (v Value) IsLink() bool { return v.linked != nil }

// IsURI reports whether the value carries a URI.
func (v Value) IsURI() bool { return v.uri != "" }

// IsPublic reports the value's own visibility flag.
func (v Value) IsPublic() bool { return !v.private }

// AsPrivate returns a copy marked private.
func (v Value) AsPrivate() Value {
	v.private = true
	return v
}

// Text returns the most displayable text of the value: the literal,
// then the URI label, then the URI, then the linked resource's title.
func (v Value) Text() string {
	switch {
	case v.literal != "":
		return v.literal
	case v.label != "":
		return v.label
	case v.uri != "":
		return v.uri
	case v.linked != nil:
		return v.linked.Title()
	}
	return ""
}
