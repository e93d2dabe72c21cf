package model

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by the wrapper.
const (
	ExitOK              = 0
	ExitInternal        = 1
	ExitValidation      = 2
	ExitCommandNotFound = 127
)

// ValidationError reports bad input: a missing flag, no matching files or a
// phase image without its magnitude companion.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ToolError reports an external program that exited non-zero or could not start.
type ToolError struct {
	Step     string
	Program  string
	Args     []string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed with code %d: %s %s: %v",
		e.Step, e.ExitCode, e.Program, strings.Join(e.Args, " "), e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ExitCodeFor maps an error returned by the pipeline to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ExitValidation
	}
	var terr *ToolError
	if errors.As(err, &terr) {
		if terr.ExitCode > 0 {
			return terr.ExitCode
		}
		return ExitInternal
	}
	return ExitInternal
}
