// Package template models the schema template that configuration documents
// are validated against.
//
// A template is a YAML mapping with a mandatory version field. Every other
// field declares what the matching document field should look like:
//
//	version: "1.0"
//	cohort: <string>          # Placeholder: the value must be a string
//	max_rows: <int>           # Placeholder: the value must be an integer
//	columns:                  # ListOf: a list of column specifications
//	  - <column_name_or_index>
//	options:                  # Nested: a mapping with its own fields
//	  sheet: <string>
//
// Raw template text is converted once into the closed Value variant, so the
// validator switches over types instead of inspecting string prefixes.
package template

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/kestrel/internal/document"
)

// VersionField is the reserved template field holding the schema version.
const VersionField = "version"

// PlaceholderMarker starts every type placeholder string.
const PlaceholderMarker = "<"

// TypeTag is a type placeholder string such as "<int>".
type TypeTag string

const (
	TagInt               TypeTag = "<int>"
	TagString            TypeTag = "<string>"
	TagColumnNameOrIndex TypeTag = "<column_name_or_index>"
)

// acceptedTypes maps known placeholders to the scalar types they accept.
var acceptedTypes = map[TypeTag][]document.ScalarType{
	TagInt:               {document.Int},
	TagString:            {document.String},
	TagColumnNameOrIndex: {document.String, document.Int},
}

// Known reports whether the tag maps to a type check. Unknown tags are
// unconstrained.
func (t TypeTag) Known() bool {
	_, ok := acceptedTypes[t]
	return ok
}

// Accepts reports whether n satisfies the tag. Unknown tags accept anything.
func (t TypeTag) Accepts(n document.Node) bool {
	types, ok := acceptedTypes[t]
	if !ok {
		return true
	}
	s, ok := n.(*document.Scalar)
	if !ok {
		return false
	}
	for _, typ := range types {
		if s.Type == typ {
			return true
		}
	}
	return false
}

// Value is the expected shape of one template field: Placeholder, ListOf,
// Nested or Literal.
type Value interface {
	isValue()
}

// Placeholder expects a scalar of the tagged type.
type Placeholder struct {
	Tag TypeTag
}

// ListOf expects a list of column specifications. Element is the template's
// first list item, or nil when the template list is empty.
type ListOf struct {
	Element Value
}

// Nested expects a mapping shaped like Fields.
type Nested struct {
	Fields []Field
}

// Literal is any other template value. It places no constraint on the
// document.
type Literal struct {
	Node document.Node
}

func (Placeholder) isValue() {}
func (ListOf) isValue()      {}
func (Nested) isValue()      {}
func (Literal) isValue()     {}

// Field is a named template field.
type Field struct {
	Name  string
	Value Value
	Line  int
}

// Template is a parsed schema template.
type Template struct {
	// Version is the version string as written, e.g. "1.2".
	Version string
	// Fields excludes the version field and keeps template order.
	Fields []Field
	// Root is the parsed template document, version included.
	Root *document.Mapping
}

// Names returns the top-level field names, version excluded.
func (t *Template) Names() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether the template declares a top-level field.
func (t *Template) Has(name string) bool {
	return name != VersionField && t.Root.Has(name)
}

// SchemaShapeError reports a template that lacks its mandatory structure.
type SchemaShapeError struct {
	Reason string
}

func (e *SchemaShapeError) Error() string {
	return "invalid schema template: " + e.Reason
}

// Parse builds a template from a parsed document.
func Parse(root document.Node) (*Template, error) {
	m, ok := root.(*document.Mapping)
	if !ok {
		return nil, &SchemaShapeError{Reason: fmt.Sprintf("template must be a mapping, got %s", root.Kind())}
	}

	v, ok := m.Get(VersionField)
	if !ok {
		return nil, &SchemaShapeError{Reason: "template must have a 'version' field"}
	}
	s, ok := v.(*document.Scalar)
	if !ok || s.Type == document.Null || strings.TrimSpace(s.Text) == "" {
		return nil, &SchemaShapeError{Reason: fmt.Sprintf("'version' must be a non-empty scalar (line %d)", v.Line())}
	}

	return &Template{
		Version: strings.TrimSpace(s.Text),
		Fields:  parseFields(m, true),
		Root:    m,
	}, nil
}

// ParseBytes parses template YAML text.
func ParseBytes(data []byte) (*Template, error) {
	root, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	return Parse(root)
}

// Load reads and parses the template at path.
func Load(fs afero.Fs, path string) (*Template, error) {
	root, err := document.LoadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return Parse(root)
}

func parseFields(m *document.Mapping, topLevel bool) []Field {
	fields := make([]Field, 0, m.Len())
	for _, e := range m.Entries {
		if topLevel && e.Key == VersionField {
			continue
		}
		fields = append(fields, Field{Name: e.Key, Value: parseValue(e.Value), Line: e.Value.Line()})
	}
	return fields
}

func parseValue(n document.Node) Value {
	switch v := n.(type) {
	case *document.Mapping:
		return Nested{Fields: parseFields(v, false)}
	case *document.Sequence:
		if len(v.Items) == 0 {
			return ListOf{}
		}
		return ListOf{Element: parseValue(v.Items[0])}
	case *document.Scalar:
		if v.Type == document.String && strings.HasPrefix(v.Text, PlaceholderMarker) {
			return Placeholder{Tag: TypeTag(v.Text)}
		}
	}
	return Literal{Node: n}
}
