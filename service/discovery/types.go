package discovery

import (
	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/model"
)

const (
	dwiDirName     = "dwi"
	phaseMarker    = "_part-phase"
	phaseSuffix    = "_part-phase_dwi.nii*"
	rpeGlob        = "*b0_dir-PA_dwi.nii*"
	sessionPrefix  = "ses-"
	patternDivider = ","
)

// Input selects what to scan.
type Input struct {
	BIDSDir     string
	Subject     string
	SesPattern  string
	FilePattern string
}

type service struct {
	log logrus.FieldLogger
}

// Service finds magnitude/phase pairs and RPE images for one BIDS subject.
type Service interface {
	Discover(in Input) (model.Discovery, error)
}
