package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureOutput redirects output into a buffer for the duration of f.
func captureOutput(f func()) string {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	f()
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string)
		icon string
	}{
		{"success", Success, "✅"},
		{"error", Error, "❌"},
		{"warn", Warn, "⚠️"},
		{"info", Info, "ℹ️"},
		{"step", Step, "   "},
		{"plain", Plain, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := captureOutput(func() { tt.fn("schema message") })

			if !strings.Contains(got, tt.icon) {
				t.Errorf("output %q should contain %q", got, tt.icon)
			}
			if !strings.Contains(got, "schema message") {
				t.Errorf("output %q should contain the message", got)
			}
			if strings.Contains(got, "\x1b[") {
				t.Errorf("non-terminal output should not be styled: %q", got)
			}
		})
	}
}

func TestVerbose(t *testing.T) {
	SetVerbose(false)
	got := captureOutput(func() { Verbose("hidden detail") })
	if got != "" {
		t.Errorf("verbose output should be suppressed, got %q", got)
	}

	SetVerbose(true)
	defer SetVerbose(false)
	got = captureOutput(func() { Verbose("shown detail") })
	if !strings.Contains(got, "🔍 shown detail") {
		t.Errorf("verbose output missing, got %q", got)
	}
}
