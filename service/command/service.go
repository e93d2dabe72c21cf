// Package command turns parsed flags and discovered images into tool argument lists.
package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/shared/numfmt"
)

// NewService creates a command builder invoking the given programs.
func NewService(programs model.Programs) Service {
	return &service{programs: programs}
}

// Artifact returns <outputDir>/DWI_designer<ext>.
func Artifact(outputDir, ext string) string {
	return filepath.Join(outputDir, ArtifactBase+ext)
}

func (s *service) Designer(flags model.Flags, found model.Discovery) (model.Step, error) {
	if len(found.Magnitudes) == 0 {
		return model.Step{}, model.Validationf("No magnitude files found based on the provided patterns.")
	}

	args := []string{}
	if flags.Denoise {
		args = append(args, "-denoise")
	}
	if flags.Shrinkage != "" {
		args = append(args, "-shrinkage", flags.Shrinkage)
	}
	if len(found.Phases) > 0 {
		args = append(args, "-phase", strings.Join(found.Phases, listSeparator))
	}
	if flags.Algorithm != "" {
		args = append(args, "-algorithm", flags.Algorithm)
	}
	if flags.Degibbs {
		args = append(args, "-degibbs")
	}
	if flags.PF != nil {
		args = append(args, "-pf", numfmt.Float(*flags.PF))
	}
	if flags.PEDir != "" {
		args = append(args, "-pe_dir", flags.PEDir)
	}
	if flags.Eddy {
		args = append(args, "-eddy")
	}
	if len(found.RPEPairs) > 0 {
		args = append(args, "-rpe_pair", strings.Join(found.RPEPairs, listSeparator))
	}
	if flags.Normalize {
		args = append(args, "-normalize")
	}
	if flags.B1Correct {
		args = append(args, "-b1correct")
	}
	if flags.Scratch != "" {
		scratch, err := filepath.Abs(flags.Scratch)
		if err != nil {
			return model.Step{}, fmt.Errorf("failed to resolve scratch directory: %w", err)
		}
		args = append(args, "-scratch", scratch)
	}
	if flags.NoCleanup {
		args = append(args, "-nocleanup")
	}

	args = append(args,
		strings.Join(found.Magnitudes, listSeparator),
		Artifact(flags.OutputAbsPath, ".nii"),
	)

	return model.Step{Name: model.StepDesigner, Program: s.programs.Designer, Args: args}, nil
}

func (s *service) Mrconvert(flags model.Flags) model.Step {
	args := []string{}
	if flags.FSLGrad {
		args = append(args, "-fslgrad")
	}
	args = append(args,
		Artifact(flags.OutputAbsPath, ".bvec"),
		Artifact(flags.OutputAbsPath, ".bval"),
		Artifact(flags.OutputAbsPath, ".nii"),
		Artifact(flags.OutputAbsPath, ".mif"),
	)

	return model.Step{Name: model.StepMrconvert, Program: s.programs.Mrconvert, Args: args}
}

func (s *service) Tmi(flags model.Flags) model.Step {
	args := []string{}
	if flags.TmiDKI {
		args = append(args, "-DKI")
	}
	if flags.TmiDTI {
		args = append(args, "-DTI")
	}
	if flags.TmiNoCleanup {
		args = append(args, "-nocleanup")
	}
	args = append(args,
		Artifact(flags.OutputAbsPath, ".mif"),
		tmiOutputDir(flags),
	)

	return model.Step{Name: model.StepTmi, Program: s.programs.Tmi, Args: args}
}

func (s *service) DTIQC(flags model.Flags) model.Step {
	args := []string{
		s.programs.DTIQCScript,
		"-i", flags.BIDSSubject,
		"-o", tmiOutputDir(flags),
	}

	return model.Step{Name: model.StepDTIQC, Program: s.programs.Bash, Args: args}
}

func tmiOutputDir(flags model.Flags) string {
	if flags.TmiOutputPhaseDir != "" {
		return flags.TmiOutputPhaseDir
	}
	return filepath.Join(flags.OutputAbsPath, TmiOutputDir)
}
