package document

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrExcessiveAliasing is reported when aliases would expand a small input
// into a disproportionately large tree.
var ErrExcessiveAliasing = errors.New("document contains excessive aliasing")

const mergeTag = "!!merge"

// converted is a finished subtree and the number of nodes it stands for
// once every alias inside it is expanded.
type converted struct {
	node Node
	size int
}

// converter turns a yaml.v3 node tree into a document tree. Anchored
// subtrees are converted once and shared by every alias that names them.
type converter struct {
	anchors map[*yaml.Node]converted
	active  map[*yaml.Node]bool

	// decoded counts expanded nodes, aliased the share reached via aliases.
	decoded int
	aliased int
}

func newConverter() *converter {
	return &converter{
		anchors: make(map[*yaml.Node]converted),
		active:  make(map[*yaml.Node]bool),
	}
}

// allowedAliasRatio mirrors yaml.v3's own limit: small documents may be
// almost entirely aliases, large ones only a tenth.
func allowedAliasRatio(decoded int) float64 {
	switch {
	case decoded <= 400_000:
		return 0.99
	case decoded >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decoded-400_000)/3_600_000)
	}
}

func (c *converter) convert(y *yaml.Node) (Node, error) {
	n, err := c.walk(y)
	if err != nil {
		return nil, err
	}
	return n.node, nil
}

func (c *converter) walk(y *yaml.Node) (converted, error) {
	if y.Kind == yaml.AliasNode {
		return c.alias(y)
	}

	if y.Anchor != "" {
		if done, ok := c.anchors[y]; ok {
			return done, nil
		}
		c.active[y] = true
		defer delete(c.active, y)
	}

	n, err := c.build(y)
	if err != nil {
		return converted{}, err
	}
	if y.Anchor != "" {
		c.anchors[y] = n
	}
	return n, nil
}

func (c *converter) alias(y *yaml.Node) (converted, error) {
	target := y.Alias
	if target == nil {
		return converted{}, fmt.Errorf("line %d: unknown anchor %q", y.Line, y.Value)
	}
	if c.active[target] {
		return converted{}, fmt.Errorf("line %d: anchor %q refers to itself", y.Line, y.Value)
	}

	n, err := c.walk(target)
	if err != nil {
		return converted{}, err
	}

	c.decoded += n.size
	c.aliased += n.size
	if c.aliased > 100 && c.decoded > 1000 &&
		float64(c.aliased)/float64(c.decoded) > allowedAliasRatio(c.decoded) {
		return converted{}, fmt.Errorf("line %d: %w", y.Line, ErrExcessiveAliasing)
	}
	return n, nil
}

func (c *converter) build(y *yaml.Node) (converted, error) {
	c.decoded++

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return converted{node: &Scalar{Type: Null, Text: "null", line: y.Line}, size: 1}, nil
		}
		return c.walk(y.Content[0])

	case yaml.MappingNode:
		return c.mapping(y)

	case yaml.SequenceNode:
		s := &Sequence{Items: make([]Node, 0, len(y.Content)), line: y.Line}
		size := 1
		for _, child := range y.Content {
			item, err := c.walk(child)
			if err != nil {
				return converted{}, err
			}
			s.Items = append(s.Items, item.node)
			size += item.size
		}
		return converted{node: s, size: size}, nil

	case yaml.ScalarNode:
		s, err := convertScalar(y)
		if err != nil {
			return converted{}, err
		}
		return converted{node: s, size: 1}, nil
	}

	return converted{}, fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
}

// mapping converts a mapping node, resolving merge keys. Merged keys come
// first, in the order of their sources; explicit keys follow in document
// order and override merged ones. Among several sources the earlier wins.
func (c *converter) mapping(y *yaml.Node) (converted, error) {
	explicit := NewMapping()
	explicit.line = y.Line
	var sources []*Mapping
	size := 1

	for i := 0; i+1 < len(y.Content); i += 2 {
		keyNode, valueNode := y.Content[i], y.Content[i+1]

		value, err := c.walk(valueNode)
		if err != nil {
			return converted{}, err
		}
		size += value.size

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTag {
			merged, err := mergeSources(keyNode, value.node)
			if err != nil {
				return converted{}, err
			}
			sources = append(sources, merged...)
			continue
		}

		key := keyNode.Value
		if explicit.Has(key) {
			return converted{}, fmt.Errorf("line %d: %w %q", keyNode.Line, ErrDuplicateKey, key)
		}
		explicit.set(key, value.node)
	}

	if len(sources) == 0 {
		return converted{node: explicit, size: size}, nil
	}

	m := NewMapping()
	m.line = y.Line
	for _, src := range sources {
		for _, e := range src.Entries {
			if !m.Has(e.Key) && !explicit.Has(e.Key) {
				m.set(e.Key, e.Value)
			}
		}
	}
	for _, e := range explicit.Entries {
		m.set(e.Key, e.Value)
	}
	return converted{node: m, size: size}, nil
}

// mergeSources returns the mappings a merge key pulls in: a single mapping
// or a sequence of mappings.
func mergeSources(key *yaml.Node, value Node) ([]*Mapping, error) {
	switch v := value.(type) {
	case *Mapping:
		return []*Mapping{v}, nil
	case *Sequence:
		sources := make([]*Mapping, 0, len(v.Items))
		for _, item := range v.Items {
			m, ok := item.(*Mapping)
			if !ok {
				return nil, fmt.Errorf("line %d: merge sequence must contain only mappings, got %s", key.Line, item.Kind())
			}
			sources = append(sources, m)
		}
		return sources, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings, got %s", key.Line, value.Kind())
}
