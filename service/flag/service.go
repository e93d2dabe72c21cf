// Package flag parses and validates the wrapper command line.
package flag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thirukguru/designer-wrapper/model"
)

const usageLine = "usage: designer-wrapper [flags] bids_dir output"

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags.
// Missing positionals or required flags are reported as *model.ValidationError.
func (s *service) GetParsedFlags() (model.Flags, error) {
	// Inputs/Outputs
	bidsSubject := pflag.String("designer_bids_subject", "", "Designer: BIDS subject name (required)")
	sesPattern := pflag.String("designer_ses_pattern", "", "Designer: session pattern")
	filePattern := pflag.String("designer_file_pattern", "", "Designer: comma-separated file patterns (required)")

	// mrtrix
	bzero := pflag.Float64("mrtrix_BZeroThreshold", 0, "mrtrix: BZeroThreshold value")

	// designer
	eddy := pflag.Bool("designer_eddy", false, "Designer: eddy flag")
	denoise := pflag.Bool("designer_denoise", false, "Designer: denoise flag")
	shrinkage := pflag.String("designer_shrinkage", "", "Designer: specify shrinkage type for MPPCA")
	algorithm := pflag.String("designer_algorithm", "", "Designer: algorithm string")
	degibbs := pflag.Bool("designer_degibbs", false, "Designer: degibbs flag")
	pf := pflag.Float64("designer_pf", 0, "Designer: pf number")
	peDir := pflag.String("designer_pe_dir", "", "Designer: pe_dir string")
	b1correct := pflag.Bool("designer_b1correct", false, "Designer: b1correct flag")
	normalize := pflag.Bool("designer_normalize", false, "Designer: normalize flag")
	scratch := pflag.String("designer_scratch", "", "Designer: scratch directory")
	noCleanup := pflag.Bool("designer_nocleanup", false, "Designer: nocleanup flag")

	// mrconvert
	fslgrad := pflag.Bool("mrconvert_fslgrad", false, "mrconvert: fslgrad flag")

	// tmi
	tmiDKI := pflag.Bool("tmi_DKI", false, "tmi: DKI flag")
	tmiDTI := pflag.Bool("tmi_DTI", false, "tmi: DTI flag")
	tmiNoCleanup := pflag.Bool("tmi_nocleanup", false, "tmi: nocleanup flag")

	// wrapper
	skipDTIQC := pflag.Bool("skip-dtiqc", false, "Do not run the dtiQC quality-control step")
	dryRun := pflag.Bool("dry-run", false, "Log the commands that would run without executing them")
	toolLogDir := pflag.String("tool-log-dir", "", "Write each tool's output to <dir>/<step>.log instead of stdout")
	configPath := pflag.String("config-path", "", "Path to designer-wrapper YAML config file")
	outputFormat := pflag.String("output-format", "text", "Run summary format (text or json)")
	store := pflag.Bool("store", false, "Record the run in the local SQLite history database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.designer-wrapper/history.db)")
	version := pflag.BoolP("version", "v", false, "Show version information")
	noBanner := pflag.Bool("no-banner", false, "Do not print the startup banner")
	verbose := pflag.Bool("verbose", false, "Log discovery details")

	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, usageLine)
		pflag.PrintDefaults()
	}

	pflag.Parse()

	flags := model.Flags{
		BIDSSubject:  strings.TrimSpace(*bidsSubject),
		SesPattern:   *sesPattern,
		FilePattern:  *filePattern,
		Eddy:         *eddy,
		Denoise:      *denoise,
		Shrinkage:    *shrinkage,
		Algorithm:    *algorithm,
		Degibbs:      *degibbs,
		PEDir:        *peDir,
		B1Correct:    *b1correct,
		Normalize:    *normalize,
		Scratch:      *scratch,
		NoCleanup:    *noCleanup,
		FSLGrad:      *fslgrad,
		TmiDKI:       *tmiDKI,
		TmiDTI:       *tmiDTI,
		TmiNoCleanup: *tmiNoCleanup,
		SkipDTIQC:    *skipDTIQC,
		DryRun:       *dryRun,
		ToolLogDir:   *toolLogDir,
		ConfigPath:   *configPath,
		OutputFormat: strings.ToLower(strings.TrimSpace(*outputFormat)),
		Store:        *store,
		DBPath:       *dbPath,
		Version:      *version,
		NoBanner:     *noBanner,
		Verbose:      *verbose,
	}
	if pflag.CommandLine.Changed("mrtrix_BZeroThreshold") {
		flags.BZeroThreshold = bzero
	}
	if pflag.CommandLine.Changed("designer_pf") {
		flags.PF = pf
	}

	if flags.Version {
		return flags, nil
	}

	if err := validate(&flags, pflag.Args()); err != nil {
		return flags, err
	}

	return flags, nil
}

func validate(flags *model.Flags, positional []string) error {
	if len(positional) != 2 {
		return model.Validationf("%s: expected 2 positional arguments, got %d", usageLine, len(positional))
	}
	flags.BIDSDir = positional[0]
	flags.Output = positional[1]

	if flags.BIDSSubject == "" {
		return model.Validationf("--designer_bids_subject is required.")
	}
	if strings.TrimSpace(flags.FilePattern) == "" {
		return model.Validationf("--designer_file_pattern is required.")
	}
	switch flags.OutputFormat {
	case "text", "json":
	default:
		return model.Validationf("unsupported --output-format %q (text or json)", flags.OutputFormat)
	}

	abs, err := filepath.Abs(flags.Output)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	flags.OutputAbsPath = abs
	flags.TmiOutputPhaseDir = filepath.Join(abs, "tmi_output_phase")

	return nil
}
