package model

// RunReportJSON is the machine-readable run summary.
type RunReportJSON struct {
	RunUUID     string           `json:"run_uuid"`
	Subject     string           `json:"subject"`
	OutputDir   string           `json:"output_dir"`
	GeneratedAt string           `json:"generated_at"`
	DryRun      bool             `json:"dry_run"`
	Success     bool             `json:"success"`
	ExitCode    int              `json:"exit_code"`
	DurationMs  int64            `json:"duration_ms"`
	Inputs      DiscoveryJSON    `json:"inputs"`
	Steps       []StepReportJSON `json:"steps"`
}

// DiscoveryJSON lists the images a run was built from.
type DiscoveryJSON struct {
	Magnitudes []string `json:"magnitudes"`
	Phases     []string `json:"phases"`
	RPEPairs   []string `json:"rpe_pairs"`
}

// StepReportJSON is one step of the run report.
type StepReportJSON struct {
	Name       string   `json:"name"`
	Command    []string `json:"command"`
	Status     string   `json:"status"`
	ExitCode   int      `json:"exit_code"`
	DurationMs int64    `json:"duration_ms"`
}

// Step statuses shown in reports.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Status reports how a step ended.
func (r StepResult) Status() string {
	switch {
	case r.Skipped:
		return StatusSkipped
	case r.ExitCode != 0:
		return StatusFailed
	default:
		return StatusOK
	}
}
