// Package steptable renders the end-of-run step summary as a table.
package steptable

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/designer-wrapper/model"
)

const maxCommandWidth = 80

// DrawStepTable writes one row per pipeline step followed by a status line.
func DrawStepTable(w io.Writer, summary model.RunSummary) {
	if len(summary.Steps) == 0 {
		return
	}

	title := "\nPipeline summary"
	if summary.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "   Subject: %s  Output: %s\n", summary.Subject, summary.OutputDir)
	fmt.Fprintf(w, "   Inputs: %d magnitude, %d phase, %d RPE\n",
		len(summary.Discovery.Magnitudes), len(summary.Discovery.Phases), len(summary.Discovery.RPEPairs))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Step", "Status", "Exit Code", "Duration", "Command"})
	for i, step := range summary.Steps {
		t.AppendRow(table.Row{
			i + 1,
			step.Name,
			colorStatus(step.Status()),
			step.ExitCode,
			step.Duration.Round(time.Millisecond).String(),
			truncate(strings.Join(step.Argv, " "), maxCommandWidth),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if summary.ExitCode == 0 {
		fmt.Fprintln(w, text.FgGreen.Sprintf("   Finished in %s", summary.Duration.Round(time.Millisecond)))
		return
	}
	fmt.Fprintln(w, text.FgRed.Sprintf("   Failed with exit code %d after %s", summary.ExitCode, summary.Duration.Round(time.Millisecond)))
}

func colorStatus(status string) string {
	switch status {
	case model.StatusOK:
		return text.FgGreen.Sprint(status)
	case model.StatusFailed:
		return text.FgRed.Sprint(status)
	default:
		return text.FgYellow.Sprint(status)
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
