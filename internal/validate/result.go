package validate

import "errors"

var (
	// ErrValidationFailed is returned by Result.Err when errors were found.
	ErrValidationFailed = errors.New("validation failed")
	// ErrStrictWarnings is returned by Result.Err in strict mode when the
	// document is valid but produced warnings.
	ErrStrictWarnings = errors.New("validation produced warnings (strict mode)")
)

// Result is the complete outcome of validating one document.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Passed reports the pass/fail outcome. Strict mode also fails on warnings;
// the warnings themselves stay warnings.
func (r *Result) Passed(strict bool) bool {
	if !r.Valid {
		return false
	}
	return !strict || len(r.Warnings) == 0
}

// Err converts a failing outcome into an error, or nil when it passed.
func (r *Result) Err(strict bool) error {
	switch {
	case !r.Valid:
		return ErrValidationFailed
	case strict && len(r.Warnings) > 0:
		return ErrStrictWarnings
	default:
		return nil
	}
}

// RuleResult holds the findings of a single rule.
type RuleResult struct {
	Errors   []string
	Warnings []string
}

func (r *RuleResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *RuleResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
