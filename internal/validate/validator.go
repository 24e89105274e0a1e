package validate

import (
	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/kestrel/internal/archive"
	"github.com/simonhull/firebird-suite/kestrel/internal/document"
	"github.com/simonhull/firebird-suite/kestrel/internal/template"
)

// Rule is a single validation step.
type Rule interface {
	Name() string
	Check(tmpl *template.Template, doc *document.Mapping) RuleResult
}

// Validator checks documents against one schema template.
type Validator struct {
	template *template.Template
	rules    []Rule
}

// New creates a validator with the default rules: template fields, unknown
// fields, then the cohort type constraint.
func New(tmpl *template.Template) *Validator {
	return &Validator{
		template: tmpl,
		rules: []Rule{
			&TemplateFieldRule{},
			&UnknownFieldRule{},
			&CohortRule{},
		},
	}
}

// NewFromFile creates a validator for the live template at path.
func NewFromFile(fs afero.Fs, path string) (*Validator, error) {
	tmpl, err := template.Load(fs, path)
	if err != nil {
		return nil, err
	}
	return New(tmpl), nil
}

// NewForVersion creates a validator for an archived template version. It
// fails before any validation when the version was never archived.
func NewForVersion(store *archive.Store, schemaVersion string) (*Validator, error) {
	tmpl, err := store.Load(schemaVersion)
	if err != nil {
		return nil, err
	}
	return New(tmpl), nil
}

// AddRule appends a custom rule to the pipeline.
func (v *Validator) AddRule(r Rule) {
	v.rules = append(v.rules, r)
}

// Template returns the template this validator checks against.
func (v *Validator) Template() *template.Template {
	return v.template
}

// Validate runs every rule over doc and aggregates their findings in rule
// order.
func (v *Validator) Validate(doc document.Node) *Result {
	m, ok := doc.(*document.Mapping)
	if !ok {
		return &Result{Errors: []string{"YAML must contain a dictionary at the root level"}}
	}

	result := &Result{}
	for _, rule := range v.rules {
		rr := rule.Check(v.template, m)
		result.Errors = append(result.Errors, rr.Errors...)
		result.Warnings = append(result.Warnings, rr.Warnings...)
	}
	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateFile loads and validates the document at path. Unreadable or
// unparseable input is returned as a *document.LoadError.
func (v *Validator) ValidateFile(fs afero.Fs, path string) (*Result, error) {
	doc, err := document.LoadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return v.Validate(doc), nil
}
