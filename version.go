// Package kestrel validates cohort configuration files against a versioned
// YAML schema template and guards the template's backwards compatibility.
package kestrel

// Version is the kestrel release version.
const Version = "0.3.0"
