package model

// Flags represents the parsed command line of one wrapper run.
type Flags struct {
	BIDSDir string
	Output  string

	// Derived from Output at parse time.
	OutputAbsPath     string
	TmiOutputPhaseDir string

	BIDSSubject string
	SesPattern  string
	FilePattern string

	// MRtrix
	BZeroThreshold *float64

	// designer
	Eddy      bool
	Denoise   bool
	Shrinkage string
	Algorithm string
	Degibbs   bool
	PF        *float64
	PEDir     string
	B1Correct bool
	Normalize bool
	Scratch   string
	NoCleanup bool

	// mrconvert
	FSLGrad bool

	// tmi
	TmiDKI       bool
	TmiDTI       bool
	TmiNoCleanup bool

	// wrapper
	SkipDTIQC    bool
	DryRun       bool
	ToolLogDir   string
	ConfigPath   string
	OutputFormat string
	Store        bool
	DBPath       string
	Version      bool
	NoBanner     bool
	Verbose      bool
}
