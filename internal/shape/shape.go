// Package shape extracts structural summaries of documents and compares them
// for backwards compatibility.
//
// A Descriptor only records kinds and nesting, never values. Compatibility is
// one-directional: every field of the old descriptor must survive in the new
// one with the same kind. Fields that exist only in the new descriptor are
// additions and are always allowed.
//
// Sequence element shapes are captured but not compared. A sequence whose
// elements change shape is still compatible as long as it stays a sequence.
package shape

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/kestrel/internal/document"
)

// Shape is the structural summary of a single value.
type Shape struct {
	// Kind is "mapping", "sequence", or a scalar type name.
	Kind string
	// Fields is set when Kind is "mapping".
	Fields *Descriptor
	// Element is the shape of the first element when Kind is "sequence";
	// nil for an empty sequence.
	Element *Shape
}

// Descriptor maps field names to shapes, in document order.
type Descriptor struct {
	names  []string
	shapes map[string]Shape
}

// Names returns the field names in document order.
func (d *Descriptor) Names() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.names...)
}

// Lookup returns the shape of a field.
func (d *Descriptor) Lookup(name string) (Shape, bool) {
	if d == nil {
		return Shape{}, false
	}
	s, ok := d.shapes[name]
	return s, ok
}

// Len returns the number of fields.
func (d *Descriptor) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Of returns the descriptor of a document. Non-mapping documents have no
// fields and yield an empty descriptor.
func Of(n document.Node) *Descriptor {
	d := &Descriptor{shapes: make(map[string]Shape)}

	m, ok := n.(*document.Mapping)
	if !ok {
		return d
	}
	for _, e := range m.Entries {
		d.names = append(d.names, e.Key)
		d.shapes[e.Key] = shapeOf(e.Value)
	}
	return d
}

func shapeOf(n document.Node) Shape {
	switch v := n.(type) {
	case *document.Mapping:
		return Shape{Kind: document.KindMapping, Fields: Of(v)}
	case *document.Sequence:
		s := Shape{Kind: document.KindSequence}
		if len(v.Items) > 0 {
			elem := shapeOf(v.Items[0])
			s.Element = &elem
		}
		return s
	default:
		return Shape{Kind: n.Kind()}
	}
}

// Equal reports whether two descriptors describe the same structure,
// including field order.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d.Len() != other.Len() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	for i, name := range d.names {
		if other.names[i] != name {
			return false
		}
		if !d.shapes[name].equal(other.shapes[name]) {
			return false
		}
	}
	return true
}

func (s Shape) equal(o Shape) bool {
	if s.Kind != o.Kind {
		return false
	}
	if (s.Fields == nil) != (o.Fields == nil) || (s.Element == nil) != (o.Element == nil) {
		return false
	}
	if s.Fields != nil && !s.Fields.Equal(o.Fields) {
		return false
	}
	if s.Element != nil && !s.Element.equal(*o.Element) {
		return false
	}
	return true
}

// String renders the descriptor compactly, e.g.
// {cohort: string, range: mapping{start: int}, columns: sequence[string]}.
func (d *Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range d.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(d.shapes[name].String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (s Shape) String() string {
	switch {
	case s.Fields != nil:
		return s.Kind + s.Fields.String()
	case s.Kind == document.KindSequence && s.Element != nil:
		return fmt.Sprintf("%s[%s]", s.Kind, s.Element.String())
	case s.Kind == document.KindSequence:
		return s.Kind + "[]"
	default:
		return s.Kind
	}
}
