// Package historytable renders stored pipeline runs.
package historytable

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/thirukguru/designer-wrapper/service/storage"
)

const timeLayout = "2006-01-02 15:04:05"

// RenderRunTable prints one row per stored run.
func RenderRunTable(w io.Writer, runs []storage.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Date", "Subject", "Session", "Exit", "Dry Run", "Steps", "Duration", "Output"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID,
			r.RunTimestamp.Local().Format(timeLayout),
			r.Subject,
			dash(r.SesPattern),
			r.ExitCode,
			r.DryRun,
			r.StepCount,
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
			r.OutputDir,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderRunDetail prints the steps and input images of one run.
func RenderRunDetail(w io.Writer, runID int64, steps []storage.StepRecord, inputs []storage.InputFile) {
	if len(steps) == 0 && len(inputs) == 0 {
		fmt.Fprintf(w, "No data for run %d\n", runID)
		return
	}

	fmt.Fprintf(w, "\nRun %d steps\n", runID)
	st := table.NewWriter()
	st.SetOutputMirror(w)
	st.AppendHeader(table.Row{"#", "Step", "Exit", "Skipped", "Duration", "Command"})
	for _, s := range steps {
		st.AppendRow(table.Row{
			s.Position,
			s.Name,
			s.ExitCode,
			s.Skipped,
			(time.Duration(s.DurationMs) * time.Millisecond).String(),
			s.Command,
		})
	}
	st.SetStyle(table.StyleRounded)
	st.Render()

	if len(inputs) == 0 {
		return
	}
	fmt.Fprintf(w, "\nRun %d inputs\n", runID)
	it := table.NewWriter()
	it.SetOutputMirror(w)
	it.AppendHeader(table.Row{"Kind", "Path"})
	for _, in := range inputs {
		it.AppendRow(table.Row{in.Kind, in.Path})
	}
	it.SetStyle(table.StyleRounded)
	it.Render()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
