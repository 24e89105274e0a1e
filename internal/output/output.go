package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	styled                = isTerminal(os.Stdout)
	verboseMode bool
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetOutput redirects all output to w. Styling stays on only if w is a
// terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	styled = isTerminal(w)
}

// SetVerbose enables or disables verbose output for debugging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

func write(style lipgloss.Style, text string) {
	mu.Lock()
	defer mu.Unlock()
	if styled {
		text = style.Render(text)
	}
	fmt.Fprintln(out, text)
}

// Success prints a completed-operation message in green.
func Success(msg string) {
	write(successStyle, "✅ "+msg)
}

// Error prints a failure message in red.
func Error(msg string) {
	write(errorStyle, "❌ "+msg)
}

// Warn prints a warning in yellow.
func Warn(msg string) {
	write(warnStyle, "⚠️  "+msg)
}

// Info prints an informational message in cyan.
func Info(msg string) {
	write(infoStyle, "ℹ️  "+msg)
}

// Step prints an indented detail line in gray, e.g. one item of a list of
// errors.
func Step(msg string) {
	write(stepStyle, "   "+msg)
}

// Plain prints msg unstyled.
func Plain(msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, msg)
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	mu.Lock()
	enabled := verboseMode
	mu.Unlock()
	if enabled {
		write(stepStyle, "🔍 "+msg)
	}
}
