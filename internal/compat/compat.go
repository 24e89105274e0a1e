// Package compat checks that a new schema template is backwards compatible
// with the most recently archived version and that its version was bumped.
package compat

import (
	"fmt"

	"github.com/simonhull/firebird-suite/kestrel/internal/archive"
	"github.com/simonhull/firebird-suite/kestrel/internal/logger"
	"github.com/simonhull/firebird-suite/kestrel/internal/shape"
	"github.com/simonhull/firebird-suite/kestrel/internal/template"
	"github.com/simonhull/firebird-suite/kestrel/internal/version"
)

// CompatibilityError lists every structural regression between the previous
// archived template and the current one.
type CompatibilityError struct {
	Previous string
	Current  string
	Issues   []shape.Issue
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("backwards compatibility check failed (v%s -> v%s): %d issue(s)", e.Previous, e.Current, len(e.Issues))
}

// VersionNotIncrementedError reports a current version that is not greater
// than the previous archived one.
type VersionNotIncrementedError struct {
	Previous string
	Current  string
}

func (e *VersionNotIncrementedError) Error() string {
	return fmt.Sprintf("version must be incremented. Current: %s, Previous: %s", e.Current, e.Previous)
}

// Report describes a successful check.
type Report struct {
	// FirstVersion is set when nothing was archived yet; no comparison ran.
	FirstVersion bool
	Previous     string
	Current      string
}

// Checker compares templates against an archive.
type Checker struct {
	store *archive.Store
	log   logger.Logger
}

// NewChecker returns a checker reading previous versions from store.
func NewChecker(store *archive.Store, log logger.Logger) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	return &Checker{store: store, log: log}
}

// Check compares current with the latest archived template. Structural
// regressions are reported together as a *CompatibilityError; only a
// structurally compatible template is then checked for a version increment.
func (c *Checker) Check(current *template.Template) (*Report, error) {
	latest, ok, err := c.store.Latest()
	if err != nil {
		return nil, err
	}
	if !ok {
		c.log.Debug("no archived versions", logger.F("archive", c.store.Dir()))
		return &Report{FirstVersion: true, Current: current.Version}, nil
	}

	previous, err := c.store.Load(latest)
	if err != nil {
		return nil, fmt.Errorf("loading previous schema: %w", err)
	}

	oldShape := shape.Of(previous.Root)
	newShape := shape.Of(current.Root)
	c.log.Debug("comparing shapes",
		logger.F("previous", previous.Version),
		logger.F("current", current.Version),
		logger.F("old", oldShape.String()),
		logger.F("new", newShape.String()))

	if issues := shape.CheckCompatible(oldShape, newShape); len(issues) > 0 {
		return nil, &CompatibilityError{Previous: previous.Version, Current: current.Version, Issues: issues}
	}

	if err := CheckIncrement(previous.Version, current.Version); err != nil {
		return nil, err
	}

	return &Report{Previous: previous.Version, Current: current.Version}, nil
}

// CheckIncrement requires current to sort strictly after previous.
func CheckIncrement(previous, current string) error {
	prev, err := version.Parse(previous)
	if err != nil {
		return err
	}
	cur, err := version.Parse(current)
	if err != nil {
		return err
	}
	if !prev.Less(cur) {
		return &VersionNotIncrementedError{Previous: previous, Current: current}
	}
	return nil
}
