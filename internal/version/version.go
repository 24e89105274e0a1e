// Package version parses and orders dotted-numeric schema versions such as
// "1.0", "1.2" or "2.0.1".
package version

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Version is a parsed dotted-numeric version. The zero value is invalid.
type Version struct {
	raw   string
	parts []int
}

// Parse parses a dotted-numeric version. Surrounding whitespace is ignored;
// every component must be a non-negative integer.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, fmt.Errorf("invalid version %q: empty", s)
	}

	fields := strings.Split(raw, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || strings.HasPrefix(f, "+") {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", s, f)
		}
		parts[i] = n
	}
	return Version{raw: raw, parts: parts}, nil
}

// String returns the version as written.
func (v Version) String() string { return v.raw }

// Compare orders versions component by component. When one version is a
// prefix of the other the shorter one sorts first, so 1 < 1.0 < 1.0.1.
func (v Version) Compare(other Version) int {
	return slices.Compare(v.parts, other.parts)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Compare parses and compares two version strings.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// Sort parses and sorts version strings in ascending order, returning them in
// their written form. Duplicates are kept.
func Sort(versions []string) ([]string, error) {
	parsed := make([]Version, 0, len(versions))
	for _, s := range versions {
		v, err := Parse(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, v)
	}

	slices.SortStableFunc(parsed, Version.Compare)

	out := make([]string, len(parsed))
	for i, v := range parsed {
		out[i] = v.String()
	}
	return out, nil
}
