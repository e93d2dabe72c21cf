// Package jsonoutput renders run summaries as JSON documents.
package jsonoutput

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/thirukguru/designer-wrapper/model"
)

// OutputRunJSON writes the run report for summary to w.
func OutputRunJSON(w io.Writer, summary model.RunSummary) error {
	report := BuildRunReport(summary, time.Now().UTC().Format(time.RFC3339))
	return printJSON(w, report)
}

// BuildRunReport builds the run JSON report model.
func BuildRunReport(summary model.RunSummary, generatedAt string) model.RunReportJSON {
	steps := make([]model.StepReportJSON, 0, len(summary.Steps))
	for _, s := range summary.Steps {
		steps = append(steps, model.StepReportJSON{
			Name:       s.Name,
			Command:    nonNil(s.Argv),
			Status:     s.Status(),
			ExitCode:   s.ExitCode,
			DurationMs: s.Duration.Milliseconds(),
		})
	}

	return model.RunReportJSON{
		RunUUID:     summary.RunUUID,
		Subject:     summary.Subject,
		OutputDir:   summary.OutputDir,
		GeneratedAt: generatedAt,
		DryRun:      summary.DryRun,
		Success:     summary.ExitCode == 0,
		ExitCode:    summary.ExitCode,
		DurationMs:  summary.Duration.Milliseconds(),
		Inputs: model.DiscoveryJSON{
			Magnitudes: nonNil(summary.Discovery.Magnitudes),
			Phases:     nonNil(summary.Discovery.Phases),
			RPEPairs:   nonNil(summary.Discovery.RPEPairs),
		},
		Steps: steps,
	}
}

// nonNil keeps empty lists as [] rather than null in the output.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
