package model

import "time"

// Step names, in pipeline order.
const (
	StepMrtrixConf = "mrtrix_conf"
	StepDesigner   = "designer"
	StepMrconvert  = "mrconvert"
	StepTmi        = "tmi"
	StepDTIQC      = "dtiQC"
)

// Step is one external program invocation. Env entries are added to the
// child's environment only; the wrapper's own environment is never changed.
type Step struct {
	Name    string
	Program string
	Args    []string
	Env     []string
}

// Argv returns the program followed by its arguments.
func (s Step) Argv() []string {
	return append([]string{s.Program}, s.Args...)
}

// StepResult records how one step ended.
type StepResult struct {
	Name      string
	Argv      []string
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
	Skipped   bool
}

// RunSummary is the outcome of a whole pipeline run.
type RunSummary struct {
	RunUUID   string
	Subject   string
	OutputDir string
	DryRun    bool
	ExitCode  int
	Discovery Discovery
	Steps     []StepResult
	Duration  time.Duration
}
