package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/glimmerlab/browserbox-ctl/internal/probe"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	tableStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// Reporter renders leveled probe output and the final summary table.
// Purely presentational; it makes no decisions.
type Reporter struct {
	Out io.Writer
	Err io.Writer
}

// NewReporter returns a Reporter writing to stdout/stderr.
func NewReporter() *Reporter {
	return &Reporter{Out: os.Stdout, Err: os.Stderr}
}

// Step announces an orchestration step.
func (r *Reporter) Step(format string, args ...interface{}) {
	fmt.Fprintf(r.Out, "ℹ "+format+"\n", args...)
}

// ProbeResult renders one finished probe, with its diagnostic when failed.
func (r *Reporter) ProbeResult(result probe.Result) {
	if result.Passed {
		fmt.Fprintf(r.Out, "✓ %s (%s, attempt %d)\n", result.Name, result.Elapsed.Round(roundTo(result)), result.Attempts)
		return
	}

	fmt.Fprintf(r.Err, "✗ %s (%s)\n", result.Name, result.Elapsed.Round(roundTo(result)))
	if result.Diagnostic != "" {
		for _, line := range strings.Split(result.Diagnostic, "\n") {
			fmt.Fprintf(r.Err, "    %s\n", line)
		}
	}
}

// Fatal renders a fatal abort with its captured container logs.
func (r *Reporter) Fatal(message, logs string) {
	fmt.Fprintf(r.Err, "✗ %s\n", message)
	if logs != "" {
		fmt.Fprintln(r.Err, "  recent container logs:")
		for _, line := range strings.Split(strings.TrimRight(logs, "\n"), "\n") {
			fmt.Fprintf(r.Err, "    %s\n", line)
		}
	}
}

// Summary renders the final table and the pass/fail counts.
func (r *Reporter) Summary(s *Summary) {
	nameWidth := len("PROBE")
	for _, result := range s.Results {
		if len(result.Name) > nameWidth {
			nameWidth = len(result.Name)
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s  %-6s  %s", nameWidth, "PROBE", "RESULT", "ELAPSED")))
	for _, result := range s.Results {
		verdict := passStyle.Render("pass")
		if !result.Passed {
			verdict = failStyle.Render("fail")
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-*s  %-6s  %s", nameWidth, result.Name, verdict, result.Elapsed.Round(roundTo(result))))
	}

	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, tableStyle.Render(b.String()))

	if s.OK() {
		fmt.Fprintf(r.Out, "✓ %d/%d probes passed\n", s.Passed, s.Total())
	} else {
		fmt.Fprintf(r.Err, "✗ %d/%d probes failed: %s\n", s.Failed, s.Total(), strings.Join(s.FailedNames, ", "))
	}
}

// roundTo picks a display resolution so sub-second probes stay readable.
func roundTo(result probe.Result) time.Duration {
	if result.Elapsed >= time.Second {
		return 100 * time.Millisecond
	}
	return time.Millisecond
}
