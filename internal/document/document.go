package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ScalarType names the primitive type of a scalar value.
type ScalarType string

const (
	String    ScalarType = "string"
	Int       ScalarType = "int"
	Float     ScalarType = "float"
	Bool      ScalarType = "bool"
	Null      ScalarType = "null"
	Timestamp ScalarType = "timestamp"
	Binary    ScalarType = "binary"
)

// Kind names for container nodes. Scalars report their ScalarType instead.
const (
	KindMapping  = "mapping"
	KindSequence = "sequence"
)

// Node is one value in a document tree: *Mapping, *Sequence or *Scalar.
type Node interface {
	// Kind returns "mapping", "sequence", or the scalar type name.
	Kind() string
	// Line is the 1-based source line, or 0 for synthesized nodes.
	Line() int
	node()
}

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Node
}

// Mapping is an ordered set of unique string keys.
type Mapping struct {
	Entries []Entry
	index   map[string]int
	line    int
}

// NewMapping builds a mapping from entries, keeping their order.
// Later duplicates of a key replace earlier values.
func NewMapping(entries ...Entry) *Mapping {
	m := &Mapping{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
	return m
}

func (m *Mapping) set(key string, value Node) {
	if i, ok := m.index[key]; ok {
		m.Entries[i].Value = value
		return
	}
	m.index[key] = len(m.Entries)
	m.Entries = append(m.Entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.Entries[i].Value, true
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Keys returns the keys in document order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.Entries) }

func (m *Mapping) Kind() string { return KindMapping }
func (m *Mapping) Line() int    { return m.line }
func (*Mapping) node()          {}

// Sequence is an ordered list of nodes.
type Sequence struct {
	Items []Node
	line  int
}

// NewSequence builds a sequence from items.
func NewSequence(items ...Node) *Sequence {
	return &Sequence{Items: items}
}

func (s *Sequence) Kind() string { return KindSequence }
func (s *Sequence) Line() int    { return s.line }
func (*Sequence) node()          {}

// Scalar is a leaf value. Text holds the source spelling, Value the decoded
// Go value (string, int, float64, bool, time.Time, []byte or nil).
type Scalar struct {
	Type  ScalarType
	Text  string
	Value any
	line  int
}

// NewScalar builds a scalar from a Go value.
func NewScalar(v any) *Scalar {
	switch x := v.(type) {
	case nil:
		return &Scalar{Type: Null, Text: "null"}
	case string:
		return &Scalar{Type: String, Text: x, Value: x}
	case int:
		return &Scalar{Type: Int, Text: fmt.Sprint(x), Value: x}
	case float64:
		return &Scalar{Type: Float, Text: fmt.Sprint(x), Value: x}
	case bool:
		return &Scalar{Type: Bool, Text: fmt.Sprint(x), Value: x}
	default:
		return &Scalar{Type: String, Text: fmt.Sprint(x), Value: fmt.Sprint(x)}
	}
}

func (s *Scalar) Kind() string { return string(s.Type) }
func (s *Scalar) Line() int    { return s.line }
func (*Scalar) node()          {}

// LoadError reports input that could not be read or parsed into a document.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse YAML: %v", e.Cause)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// ErrDuplicateKey is reported when a mapping repeats a key.
var ErrDuplicateKey = errors.New("duplicate mapping key")

// Parse decodes a single YAML document. An empty input yields a null scalar.
func Parse(data []byte) (Node, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &Scalar{Type: Null, Text: "null"}, nil
		}
		return nil, &LoadError{Cause: err}
	}

	n, err := newConverter().convert(&root)
	if err != nil {
		return nil, &LoadError{Cause: err}
	}
	return n, nil
}

// LoadFile reads and parses path from fs.
func LoadFile(fs afero.Fs, path string) (Node, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	n, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return n, nil
}

func convertScalar(y *yaml.Node) (*Scalar, error) {
	s := &Scalar{Text: y.Value, line: y.Line}

	switch y.ShortTag() {
	case "!!null":
		s.Type = Null
		return s, nil
	case "!!bool":
		s.Type = Bool
	case "!!int":
		s.Type = Int
	case "!!float":
		s.Type = Float
	case "!!timestamp":
		s.Type = Timestamp
	case "!!binary":
		s.Type = Binary
	default:
		s.Type = String
		s.Value = y.Value
		return s, nil
	}

	if err := y.Decode(&s.Value); err != nil {
		return nil, fmt.Errorf("line %d: decoding %s scalar %q: %w", y.Line, s.Type, y.Value, err)
	}
	return s, nil
}

// Equal reports whether a and b hold the same content. Mapping key order is
// ignored; sequence order is not.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, e := range x.Entries {
			other, ok := y.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true

	case *Sequence:
		y, ok := b.(*Sequence)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true

	case *Scalar:
		y, ok := b.(*Scalar)
		if !ok || x.Type != y.Type {
			return false
		}
		return reflect.DeepEqual(x.Value, y.Value)
	}
	return false
}
