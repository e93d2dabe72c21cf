package storage

import (
	"context"
	"time"
)

// Service defines persistence and history queries for pipeline runs.
type Service interface {
	SaveRun(ctx context.Context, input SaveRunInput) (int64, error)
	GetRecentRuns(subject string, limit int) ([]RunSummary, error)
	ListSteps(runID int64) ([]StepRecord, error)
	ListInputs(runID int64) ([]InputFile, error)
	Vacuum(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveRunInput is the payload saved for a finished run.
type SaveRunInput struct {
	RunUUID    string
	Subject    string
	SesPattern string
	BIDSDir    string
	OutputDir  string
	Version    string
	FlagsJSON  string
	ExitCode   int
	DryRun     bool
	DurationMs int64
	Steps      []StepRecord
	Inputs     []InputFile
}

// StepRecord is one executed (or skipped) step.
type StepRecord struct {
	Position   int
	Name       string
	Command    string
	ExitCode   int
	Skipped    bool
	StartedAt  time.Time
	DurationMs int64
}

// Input kinds.
const (
	InputMagnitude = "magnitude"
	InputPhase     = "phase"
	InputRPE       = "rpe"
)

// InputFile is one discovered image used by a run.
type InputFile struct {
	Kind string
	Path string
}

// RunSummary provides compact run metadata.
type RunSummary struct {
	RunID        int64
	RunUUID      string
	Subject      string
	SesPattern   string
	OutputDir    string
	RunTimestamp time.Time
	ExitCode     int
	DryRun       bool
	StepCount    int
	DurationMs   int64
	Version      string
}
