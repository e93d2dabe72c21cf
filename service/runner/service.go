// Package runner executes external tools without a shell.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/shared/spinner"
)

// NewService creates a runner. Nil writers default to the process stdout/stderr.
func NewService(opts Options, log logrus.FieldLogger) Service {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &service{opts: opts, log: log}
}

// Run blocks until the step's process exits. A non-zero exit, or a failure
// to start the process, is returned as *model.ToolError.
func (s *service) Run(ctx context.Context, step model.Step) (model.StepResult, error) {
	argv := step.Argv()
	result := model.StepResult{Name: step.Name, Argv: argv, StartedAt: time.Now()}

	s.log.Infof("Running command: %s", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, step.Program, step.Args...)
	cmd.Env = append(os.Environ(), s.opts.Env...)
	cmd.Env = append(cmd.Env, step.Env...)
	cmd.Stdout = s.opts.Stdout
	cmd.Stderr = s.opts.Stderr

	if s.opts.LogDir != "" {
		f, err := s.openLog(step.Name)
		if err != nil {
			result.ExitCode = model.ExitInternal
			return result, err
		}
		defer f.Close()
		cmd.Stdout = f
		cmd.Stderr = f

		if s.opts.Spinner {
			spinner.StartSpinner(fmt.Sprintf(" Running %s...", step.Name))
			defer spinner.StopSpinner()
		}
	}

	err := cmd.Run()
	result.Duration = time.Since(result.StartedAt)
	if err == nil {
		s.log.Infof("%s completed successfully", step.Name)
		return result, nil
	}

	result.ExitCode = exitCode(err)
	s.log.Errorf("Error running %s: %v, code: %d", step.Name, err, result.ExitCode)
	s.log.Errorf("Command: %q", argv)

	return result, &model.ToolError{
		Step:     step.Name,
		Program:  step.Program,
		Args:     step.Args,
		ExitCode: result.ExitCode,
		Err:      err,
	}
}

func (s *service) openLog(name string) (*os.File, error) {
	if err := os.MkdirAll(s.opts.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tool log directory: %w", err)
	}
	path := filepath.Join(s.opts.LogDir, name+".log")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool log %s: %w", path, err)
	}
	s.log.Infof("Writing %s output to %s", name, path)
	return f, nil
}

// exitCode returns the child's exit status, 128+signal for a killed child and
// 127 when the program could not be started.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return model.ExitCommandNotFound
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	if code := exitErr.ExitCode(); code > 0 {
		return code
	}
	return model.ExitInternal
}
