package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
)

// exitUnclassified is returned for errors that carry no category.
const exitUnclassified = 1

// CLIErrorAdapter turns errors into a stderr message and a process exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter. A nil logger uses slog.Default.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr}
}

// WithOutput redirects the user-facing message (stderr by default).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor maps err to an exit code; nil is 0.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	c, ok := AsClassified(err)
	if !ok {
		return exitUnclassified
	}
	if info, known := categories[c.category]; known {
		return info.exitCode
	}
	return exitUnclassified
}

// FormatError renders err for the terminal. Verbose mode prints the whole
// chain; otherwise the message plus the fields a user acts on.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	c, ok := AsClassified(err)
	if !ok {
		return "Error: " + err.Error()
	}
	if a.verbose {
		return c.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error (%s): %s", c.category, c.message)
	for _, key := range []string{"path", "slug", "field"} {
		if v, ok := c.context.GetString(key); ok {
			fmt.Fprintf(&b, "\n  %s: %s", key, v)
		}
	}
	if c.cause != nil && c.category != CategoryInternal {
		fmt.Fprintf(&b, "\n  cause: %v", c.cause)
	}
	return b.String()
}

// HandleError reports err and exits. It returns when err is nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Report(err))
}

// Report logs and prints err and returns the exit code HandleError would use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if c, ok := AsClassified(err); ok {
		return c.IsFatal()
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	c, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(c.category))}
	for _, k := range slices.Sorted(maps.Keys(c.context)) {
		attrs = append(attrs, slog.Any(k, c.context[k]))
	}
	a.logger.LogAttrs(context.Background(), levelFor(c.severity), c.message, attrs...)
}

func levelFor(s ErrorSeverity) slog.Level {
	if s == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
