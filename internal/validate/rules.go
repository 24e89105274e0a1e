package validate

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/kestrel/internal/document"
	"github.com/simonhull/firebird-suite/kestrel/internal/template"
)

// RequiredFields must appear in every document. Other template fields are
// optional.
var RequiredFields = []string{"cohort", "task", "task_variation"}

func isRequired(name string) bool {
	for _, f := range RequiredFields {
		if f == name {
			return true
		}
	}
	return false
}

// TemplateFieldRule checks each template field against the document, in
// template order.
type TemplateFieldRule struct{}

func (r *TemplateFieldRule) Name() string {
	return "TemplateFieldRule"
}

func (r *TemplateFieldRule) Check(tmpl *template.Template, doc *document.Mapping) RuleResult {
	result := RuleResult{}

	for _, field := range tmpl.Fields {
		value, ok := doc.Get(field.Name)
		if !ok {
			if isRequired(field.Name) {
				result.addError(fmt.Sprintf("Missing required field: '%s'", field.Name))
			} else {
				result.addWarning(fmt.Sprintf("Optional field '%s' not provided", field.Name))
			}
			continue
		}
		checkValue(&result, field.Name, field.Value, value)
	}

	return result
}

// checkValue dispatches on the template variant.
func checkValue(result *RuleResult, path string, expected template.Value, actual document.Node) {
	switch want := expected.(type) {
	case template.Placeholder:
		if !want.Tag.Accepts(actual) {
			result.addError(fmt.Sprintf("Field '%s': Expected %s, got %s", path, want.Tag, actual.Kind()))
		}

	case template.ListOf:
		seq, ok := actual.(*document.Sequence)
		if !ok {
			result.addError(fmt.Sprintf("Field '%s': Must be a list", path))
			return
		}
		for i, item := range seq.Items {
			checkColumnSpec(result, fmt.Sprintf("%s[%d]", path, i), item)
		}

	case template.Nested:
		m, ok := actual.(*document.Mapping)
		if !ok {
			result.addError(fmt.Sprintf("Field '%s': Must be a mapping", path))
			return
		}
		for _, field := range want.Fields {
			nestedPath := path + "." + field.Name
			value, ok := m.Get(field.Name)
			if !ok {
				result.addWarning(fmt.Sprintf("Optional field '%s' not provided", nestedPath))
				continue
			}
			checkValue(result, nestedPath, field.Value, value)
		}

	case template.Literal:
		// Unconstrained.
	}
}

// checkColumnSpec accepts a column name, a column index, or
// {range: {start: ..., end: ...}}.
func checkColumnSpec(result *RuleResult, path string, spec document.Node) {
	switch v := spec.(type) {
	case *document.Scalar:
		if v.Type == document.String || v.Type == document.Int {
			return
		}

	case *document.Mapping:
		rng, ok := v.Get("range")
		if !ok {
			break
		}
		bounds, ok := rng.(*document.Mapping)
		if !ok {
			result.addError(fmt.Sprintf("Field '%s': Range must be a dictionary", path))
			return
		}
		if !bounds.Has("start") || !bounds.Has("end") {
			result.addError(fmt.Sprintf("Field '%s': Range must have 'start' and 'end'", path))
		}
		return
	}

	result.addError(fmt.Sprintf("Field '%s': Must be column name, index, or range specification", path))
}

// UnknownFieldRule reports document fields the template does not declare as
// one aggregated warning.
type UnknownFieldRule struct{}

func (r *UnknownFieldRule) Name() string {
	return "UnknownFieldRule"
}

func (r *UnknownFieldRule) Check(tmpl *template.Template, doc *document.Mapping) RuleResult {
	result := RuleResult{}

	var unknown []string
	for _, key := range doc.Keys() {
		if key == template.VersionField || tmpl.Has(key) {
			continue
		}
		unknown = append(unknown, key)
	}

	if len(unknown) > 0 {
		result.addWarning("Unknown fields found: " + strings.Join(unknown, ", "))
	}
	return result
}

// CohortRule requires cohort to be a string whatever the template says.
type CohortRule struct{}

func (r *CohortRule) Name() string {
	return "CohortRule"
}

func (r *CohortRule) Check(_ *template.Template, doc *document.Mapping) RuleResult {
	result := RuleResult{}

	value, ok := doc.Get("cohort")
	if !ok {
		return result
	}
	if s, isScalar := value.(*document.Scalar); !isScalar || s.Type != document.String {
		result.addError("Field 'cohort': Must be a string")
	}
	return result
}
