package shape

import (
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/simonhull/firebird-suite/kestrel/internal/document"
)

// kindCount is the number of distinct value kinds buildValue can produce.
const kindCount = 6

// buildValue makes a document value of the given kind selector.
func buildValue(kind int) document.Node {
	switch kind % kindCount {
	case 0:
		return document.NewScalar("text")
	case 1:
		return document.NewScalar(42)
	case 2:
		return document.NewScalar(1.5)
	case 3:
		return document.NewScalar(true)
	case 4:
		return document.NewMapping(
			document.Entry{Key: "inner", Value: document.NewScalar(1)},
			document.Entry{Key: "deep", Value: document.NewMapping(
				document.Entry{Key: "leaf", Value: document.NewScalar("x")},
			)},
		)
	default:
		return document.NewSequence(document.NewScalar("a"))
	}
}

// buildDocument turns a generated field->kind map into a mapping with
// sorted keys, so the same input always builds the same document.
func buildDocument(fields map[string]int) *document.Mapping {
	keys := sortedKeys(fields)
	entries := make([]document.Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, document.Entry{Key: k, Value: buildValue(fields[k])})
	}
	return document.NewMapping(entries...)
}

func sortedKeys(fields map[string]int) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func genFields() gopter.Gen {
	return gen.MapOf(gen.Identifier(), gen.IntRange(0, kindCount-1))
}

func TestProperty_ShapeCompatibility(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("shape extraction is deterministic", prop.ForAll(
		func(fields map[string]int) bool {
			doc := buildDocument(fields)
			return Of(doc).Equal(Of(doc))
		},
		genFields(),
	))

	properties.Property("a shape is compatible with itself", prop.ForAll(
		func(fields map[string]int) bool {
			d := Of(buildDocument(fields))
			return len(CheckCompatible(d, d)) == 0
		},
		genFields(),
	))

	properties.Property("adding a top-level field is compatible", prop.ForAll(
		func(fields map[string]int, kind int) bool {
			old := buildDocument(fields)
			entries := append([]document.Entry(nil), old.Entries...)
			entries = append(entries, document.Entry{Key: "added_field", Value: buildValue(kind)})
			newer := document.NewMapping(entries...)
			return len(CheckCompatible(Of(old), Of(newer))) == 0
		},
		genFields(),
		gen.IntRange(0, kindCount-1),
	))

	properties.Property("removing one field yields exactly one missing issue", prop.ForAll(
		func(fields map[string]int) bool {
			if len(fields) == 0 {
				return true
			}
			removed := sortedKeys(fields)[0]
			reduced := make(map[string]int, len(fields)-1)
			for k, v := range fields {
				if k != removed {
					reduced[k] = v
				}
			}

			issues := CheckCompatible(Of(buildDocument(fields)), Of(buildDocument(reduced)))
			return len(issues) == 1 && issues[0].Code == Missing && issues[0].Path == removed
		},
		genFields(),
	))

	properties.Property("retyping one field yields exactly one type change", prop.ForAll(
		func(fields map[string]int) bool {
			if len(fields) == 0 {
				return true
			}
			retyped := sortedKeys(fields)[0]
			changed := make(map[string]int, len(fields))
			for k, v := range fields {
				changed[k] = v
			}
			changed[retyped] = (fields[retyped] + 1) % kindCount

			issues := CheckCompatible(Of(buildDocument(fields)), Of(buildDocument(changed)))
			return len(issues) == 1 && issues[0].Code == TypeChanged && issues[0].Path == retyped
		},
		genFields(),
	))

	properties.TestingRun(t)
}
