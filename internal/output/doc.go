// Package output provides styled terminal output for the kestrel CLI.
//
// # Usage
//
//	output.Success("Archived schema version 1.1")
//	output.Warn("Optional field 'notes' not provided")
//	output.Error("Validation FAILED")
//	output.Step("- Missing required field: 'cohort'")
//
// # Styling
//
// Messages are styled with lipgloss when the destination is a terminal.
// Anywhere else (CI logs, pipes, tests) the same text is written without
// ANSI sequences, so diagnostics stay grep-friendly:
//
//   - Success: ✅ green bold
//   - Error: ❌ red bold
//   - Warn: ⚠️ yellow
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
package output
