package shape

import "fmt"

// IssueCode classifies a compatibility issue.
type IssueCode string

const (
	// Missing means a field of the old shape is absent from the new one.
	Missing IssueCode = "MISSING"
	// TypeChanged means a field kept its name but changed kind.
	TypeChanged IssueCode = "TYPE_CHANGED"
)

// Issue is a single backwards-compatibility regression.
type Issue struct {
	Code IssueCode
	Path string // dot-joined field path, e.g. "options.range"
	Old  string // kind in the old shape
	New  string // kind in the new shape; empty for Missing
}

func (i Issue) String() string {
	switch i.Code {
	case Missing:
		return fmt.Sprintf("Missing required field: '%s'", i.Path)
	case TypeChanged:
		return fmt.Sprintf("Type changed for '%s': %s -> %s", i.Path, i.Old, i.New)
	default:
		return fmt.Sprintf("%s at '%s'", i.Code, i.Path)
	}
}

// CheckCompatible walks every field of old and reports the ones that the newer
// descriptor removed or retyped, in old's field order. A missing or retyped
// field is reported once and not descended into. An empty result means newer
// is backwards compatible with old.
func CheckCompatible(old, newer *Descriptor) []Issue {
	return checkCompatible(old, newer, "")
}

func checkCompatible(old, newer *Descriptor, path string) []Issue {
	var issues []Issue

	for _, name := range old.Names() {
		oldShape, _ := old.Lookup(name)
		current := name
		if path != "" {
			current = path + "." + name
		}

		newShape, ok := newer.Lookup(name)
		if !ok {
			issues = append(issues, Issue{Code: Missing, Path: current, Old: oldShape.Kind})
			continue
		}

		if oldShape.Kind != newShape.Kind {
			issues = append(issues, Issue{Code: TypeChanged, Path: current, Old: oldShape.Kind, New: newShape.Kind})
			continue
		}

		if oldShape.Fields != nil {
			issues = append(issues, checkCompatible(oldShape.Fields, newShape.Fields, current)...)
		}
	}

	return issues
}
