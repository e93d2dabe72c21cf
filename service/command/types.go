package command

import "github.com/thirukguru/designer-wrapper/model"

// Artifact names written under the output directory.
const (
	ArtifactBase  = "DWI_designer"
	TmiOutputDir  = "tmi_output_phase"
	listSeparator = ","
)

type service struct {
	programs model.Programs
}

// Service builds the argument list of every pipeline step. Builders are pure:
// the same flags and discovery always produce the same step.
type Service interface {
	Designer(flags model.Flags, found model.Discovery) (model.Step, error)
	Mrconvert(flags model.Flags) model.Step
	Tmi(flags model.Flags) model.Step
	DTIQC(flags model.Flags) model.Step
}
