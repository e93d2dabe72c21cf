// Package discovery locates the diffusion images of one BIDS subject.
//
// For every phase image matching *<pattern>*_part-phase_dwi.nii* under
// <subject>[/ses-<pattern>*]/dwi, the magnitude image is the same file name
// without "_part-phase". A phase image without its magnitude fails the whole
// discovery; nothing is dropped silently.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/model"
)

// NewService creates a discovery service logging to log.
func NewService(log logrus.FieldLogger) Service {
	return &service{log: log}
}

// SplitPatterns splits a comma-separated pattern list, trimming blanks and
// dropping empty entries.
func SplitPatterns(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, patternDivider) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MagnitudeFor returns the magnitude image path paired with phasePath.
func MagnitudeFor(phasePath string) string {
	dir, base := filepath.Split(phasePath)
	return dir + strings.ReplaceAll(base, phaseMarker, "")
}

func (s *service) Discover(in Input) (model.Discovery, error) {
	var out model.Discovery

	patterns := SplitPatterns(in.FilePattern)
	if len(patterns) == 0 {
		return out, model.Validationf("--designer_file_pattern is required.")
	}

	bidsAbs, err := filepath.Abs(in.BIDSDir)
	if err != nil {
		return out, fmt.Errorf("failed to resolve BIDS directory: %w", err)
	}
	entries, err := os.ReadDir(bidsAbs)
	if err != nil {
		return out, model.Validationf("cannot read BIDS directory %s: %v", bidsAbs, err)
	}

	seen := map[string]bool{}
	found := false
	for _, entry := range entries {
		if entry.Name() != in.Subject {
			continue
		}
		found = true

		subjectAbs := filepath.Join(bidsAbs, entry.Name())
		units, err := s.units(subjectAbs, in.SesPattern)
		if err != nil {
			return out, err
		}

		for _, unit := range units {
			if err := s.scanUnit(unit, patterns, seen, &out); err != nil {
				return out, err
			}
		}
	}

	if !found {
		s.log.Warnf("Warning: subject %s not found in %s", in.Subject, bidsAbs)
	}

	return out, nil
}

// units returns the directories holding a dwi/ folder for the subject.
func (s *service) units(subjectAbs, sesPattern string) ([]string, error) {
	if sesPattern == "" {
		return []string{subjectAbs}, nil
	}

	matches, err := glob(filepath.Join(escapeGlob(subjectAbs), sessionPrefix+sesPattern+"*"))
	if err != nil {
		return nil, model.Validationf("invalid session pattern %q: %v", sesPattern, err)
	}

	units := make([]string, 0, len(matches))
	for _, m := range matches {
		if isDir(m) {
			units = append(units, m)
		}
	}
	s.log.Debugf("session directories: %v", units)
	return units, nil
}

func (s *service) scanUnit(unit string, patterns []string, seen map[string]bool, out *model.Discovery) error {
	dwiDir := filepath.Join(unit, dwiDirName)

	rpeFiles, err := glob(filepath.Join(escapeGlob(dwiDir), rpeGlob))
	if err != nil {
		return fmt.Errorf("failed to glob RPE images in %s: %w", dwiDir, err)
	}
	for _, rpe := range rpeFiles {
		abs, err := resolveExisting("RPE", rpe)
		if err != nil {
			return err
		}
		out.RPEPairs = append(out.RPEPairs, abs)
	}

	if !isDir(dwiDir) {
		s.log.Debugf("no %s directory in %s", dwiDirName, unit)
		return nil
	}

	for _, pattern := range patterns {
		phaseFiles, err := glob(filepath.Join(escapeGlob(dwiDir), "*"+pattern+"*"+phaseSuffix))
		if err != nil {
			return model.Validationf("invalid file pattern %q: %v", pattern, err)
		}
		s.log.Infof("phase_files: %v", phaseFiles)

		magnitudeFiles := make([]string, 0, len(phaseFiles))
		for _, phase := range phaseFiles {
			magnitude := MagnitudeFor(phase)
			if !exists(magnitude) {
				return model.Validationf("Extrapolated magnitude file not found for phase file %s", phase)
			}
			magnitudeFiles = append(magnitudeFiles, magnitude)
			s.log.Infof("Found pair: %s <-> %s", magnitude, phase)
		}

		for i, phase := range phaseFiles {
			phaseAbs, err := resolveExisting("Phase", phase)
			if err != nil {
				return err
			}
			magnitudeAbs, err := resolveExisting("Magnitude", magnitudeFiles[i])
			if err != nil {
				return err
			}
			if seen[phaseAbs] {
				s.log.Debugf("skipping %s: already matched by an earlier pattern", phaseAbs)
				continue
			}
			seen[phaseAbs] = true
			out.Phases = append(out.Phases, phaseAbs)
			out.Magnitudes = append(out.Magnitudes, magnitudeAbs)
		}
	}

	return nil
}

func resolveExisting(kind, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s file %s: %w", kind, path, err)
	}
	if !exists(abs) {
		return "", model.Validationf("%s file %s does not exist.", kind, abs)
	}
	return abs, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// glob is filepath.Glob without hidden entries: a wildcard never matches a
// leading dot, so AppleDouble files such as "._X_dwi.nii.gz" are not inputs.
func glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	visible := matches[:0]
	for _, m := range matches {
		if !strings.HasPrefix(filepath.Base(m), ".") {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// escapeGlob quotes glob metacharacters in a literal directory path.
func escapeGlob(path string) string {
	var b strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
