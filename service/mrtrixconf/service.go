// Package mrtrixconf prepares the MRtrix configuration file read by
// mrconvert and the other MRtrix-based tools.
package mrtrixconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/shared/numfmt"
	"github.com/thirukguru/designer-wrapper/shared/pathutil"
)

// EnvVar points MRtrix tools at the configuration file.
const EnvVar = "MRTRIX_CONFIGFILE"

// Result describes the prepared configuration.
type Result struct {
	Path    string
	Created bool
}

// Env returns the environment entry child processes need.
func (r Result) Env() []string {
	return []string{EnvVar + "=" + r.Path}
}

type service struct {
	path string
	log  logrus.FieldLogger
}

// Service writes the configuration file when it is missing.
type Service interface {
	Path() (string, error)
	Ensure(bzeroThreshold float64) (Result, error)
}

// NewService creates a service managing the file at path ("~/" is expanded).
func NewService(path string, log logrus.FieldLogger) Service {
	return &service{path: path, log: log}
}

// Path returns the absolute location of the configuration file.
func (s *service) Path() (string, error) {
	resolved, err := pathutil.ExpandHome(s.path)
	if err != nil {
		return "", err
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to resolve mrtrix config path: %w", err)
	}
	return resolved, nil
}

// Ensure creates the file with the given BZeroThreshold if it does not exist.
// An existing file is left untouched.
func (s *service) Ensure(bzeroThreshold float64) (Result, error) {
	resolved, err := s.Path()
	if err != nil {
		return Result{}, err
	}

	res := Result{Path: resolved}

	f, err := os.OpenFile(resolved, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		s.log.Infof("Using existing mrtrix configuration file at %s", resolved)
	case err != nil:
		return Result{}, fmt.Errorf("failed to create mrtrix config %s: %w", resolved, err)
	default:
		_, werr := fmt.Fprintf(f, "BZeroThreshold: %s\n", numfmt.Float(bzeroThreshold))
		cerr := f.Close()
		if werr != nil {
			return Result{}, fmt.Errorf("failed to write mrtrix config %s: %w", resolved, werr)
		}
		if cerr != nil {
			return Result{}, fmt.Errorf("failed to write mrtrix config %s: %w", resolved, cerr)
		}
		res.Created = true
		s.log.Infof("Created mrtrix configuration file at %s", resolved)
	}

	s.log.Infof("Set %s for tool processes to %s", EnvVar, resolved)
	return res, nil
}
