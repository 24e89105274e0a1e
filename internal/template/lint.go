package template

import "fmt"

// LintIssue is a template problem found by Lint.
type LintIssue struct {
	Path string
	Line int
	Tag  TypeTag
}

func (i LintIssue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("Field '%s' (line %d): unknown type placeholder '%s'", i.Path, i.Line, i.Tag)
	}
	return fmt.Sprintf("Field '%s': unknown type placeholder '%s'", i.Path, i.Tag)
}

// Lint reports placeholders that map to no type check. Such placeholders are
// accepted during validation but usually indicate a typo in the template.
func Lint(t *Template) []LintIssue {
	return lintFields(t.Fields, "")
}

func lintFields(fields []Field, prefix string) []LintIssue {
	var issues []LintIssue
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		issues = append(issues, lintValue(f.Value, path, f.Line)...)
	}
	return issues
}

func lintValue(v Value, path string, line int) []LintIssue {
	switch x := v.(type) {
	case Placeholder:
		if !x.Tag.Known() {
			return []LintIssue{{Path: path, Line: line, Tag: x.Tag}}
		}
	case ListOf:
		if x.Element != nil {
			return lintValue(x.Element, path+"[]", line)
		}
	case Nested:
		return lintFields(x.Fields, path)
	}
	return nil
}
