package runner

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/model"
)

// Options configures how child processes are started.
type Options struct {
	// Env entries are appended to the inherited environment of every child,
	// before the step's own Env.
	Env []string
	// LogDir, when set, receives one <step>.log file per step instead of
	// streaming tool output to Stdout/Stderr.
	LogDir string
	// Spinner shows progress while output goes to LogDir.
	Spinner bool
	Stdout  io.Writer
	Stderr  io.Writer
}

type service struct {
	opts Options
	log  logrus.FieldLogger
}

// Service runs one external program to completion.
type Service interface {
	Run(ctx context.Context, step model.Step) (model.StepResult, error)
}
