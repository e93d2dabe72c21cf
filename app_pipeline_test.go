package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/command"
)

type pipelineFixture struct {
	dir      string
	confPath string
	dbPath   string
	flags    model.Flags
}

func newPipelineFixture(t *testing.T, mrconvert string) *pipelineFixture {
	t.Helper()
	return newPipelineFixtureWithTools(t, "true", mrconvert)
}

// newPipelineFixtureWithTools builds a one-subject BIDS tree and a config file
// whose programs are replaced by the given commands.
func newPipelineFixtureWithTools(t *testing.T, designer, mrconvert string) *pipelineFixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses the true/false/echo commands")
	}
	for _, name := range []string{"true", designer, mrconvert} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}

	dir := t.TempDir()
	dwi := filepath.Join(dir, "bids", "sub-01", "dwi")
	require.NoError(t, os.MkdirAll(dwi, 0o755))
	for _, name := range []string{
		"sub-01_acq-a_part-phase_dwi.nii.gz",
		"sub-01_acq-a_dwi.nii.gz",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dwi, name), nil, 0o644))
	}

	f := &pipelineFixture{
		dir:      dir,
		confPath: filepath.Join(dir, ".mrtrix.conf"),
		dbPath:   filepath.Join(dir, "history.db"),
	}
	cfgPath := filepath.Join(dir, "wrapper.yaml")
	cfg := fmt.Sprintf(`programs:
  designer: %q
  mrconvert: %q
  tmi: "true"
  bash: "true"
mrtrix:
  config_path: %q
`, designer, mrconvert, f.confPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out := filepath.Join(dir, "out")
	f.flags = model.Flags{
		BIDSDir:           filepath.Join(dir, "bids"),
		Output:            out,
		OutputAbsPath:     out,
		TmiOutputPhaseDir: filepath.Join(out, command.TmiOutputDir),
		BIDSSubject:       "sub-01",
		FilePattern:       "acq-a",
		ConfigPath:        cfgPath,
		OutputFormat:      "text",
		NoBanner:          true,
		Store:             true,
		DBPath:            f.dbPath,
	}
	return f
}

func TestRunPipelineSuccess(t *testing.T) {
	f := newPipelineFixture(t, "true")
	var stdout, stderr bytes.Buffer

	err := runPipeline(context.Background(), f.flags, model.VersionInfo{Version: "1.0.0"}, &stdout, &stderr)

	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "Starting designer, mrconvert, tmi, and dtiQC wrapper script")
	assert.Contains(t, out, "Version: 1.0.0")
	assert.Contains(t, out, "Running command: true")
	assert.Contains(t, out, "Designer, mrconvert, tmi, and dtiQC commands completed successfully!")
	assert.Contains(t, out, "Pipeline summary")

	conf, err := os.ReadFile(f.confPath)
	require.NoError(t, err)
	assert.Equal(t, "BZeroThreshold: 61.0\n", string(conf))
	assert.DirExists(t, f.flags.OutputAbsPath)

	var history bytes.Buffer
	require.NoError(t, runStorageCommand("history", []string{"list", "--db-path", f.dbPath}, &history))
	assert.Contains(t, history.String(), "sub-01")
}

func TestRunPipelineToolFailure(t *testing.T) {
	f := newPipelineFixture(t, "false")
	f.flags.Store = false
	var stdout, stderr bytes.Buffer

	err := runPipeline(context.Background(), f.flags, model.VersionInfo{}, &stdout, &stderr)

	require.Error(t, err)
	var terr *model.ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, model.StepMrconvert, terr.Step)
	assert.Equal(t, 1, model.ExitCodeFor(err))
	assert.Contains(t, stdout.String(), "Error running mrconvert")
	assert.NotContains(t, stdout.String(), "tmi completed successfully")
	assert.NoFileExists(t, f.dbPath)
}

func TestRunPipelineNoMatchingFiles(t *testing.T) {
	f := newPipelineFixture(t, "true")
	f.flags.FilePattern = "acq-zzz"
	var stdout, stderr bytes.Buffer

	err := runPipeline(context.Background(), f.flags, model.VersionInfo{}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, model.ExitValidation, model.ExitCodeFor(err))
	assert.Contains(t, err.Error(), "No magnitude files found")
	assert.NoDirExists(t, f.flags.OutputAbsPath)
}

func TestRunPipelineDryRunJSON(t *testing.T) {
	f := newPipelineFixture(t, "true")
	f.flags.DryRun = true
	f.flags.Store = false
	f.flags.OutputFormat = "json"
	var stdout, stderr bytes.Buffer

	err := runPipeline(context.Background(), f.flags, model.VersionInfo{}, &stdout, &stderr)

	require.NoError(t, err)
	assert.NoFileExists(t, f.confPath)
	assert.NoDirExists(t, f.flags.OutputAbsPath)
	assert.Contains(t, stderr.String(), "Dry run: true")

	var report model.RunReportJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.True(t, report.DryRun)
	assert.True(t, report.Success)
	require.Len(t, report.Steps, 5)
	assert.Equal(t, model.StatusSkipped, report.Steps[1].Status)
	require.Len(t, report.Inputs.Phases, 1)
	assert.Equal(t, filepath.Join(f.dir, "bids", "sub-01", "dwi", "sub-01_acq-a_part-phase_dwi.nii.gz"), report.Inputs.Phases[0])
}

func TestRunPipelineMissingConfigFile(t *testing.T) {
	f := newPipelineFixture(t, "true")
	f.flags.ConfigPath = filepath.Join(f.dir, "missing.yaml")
	var stdout, stderr bytes.Buffer

	err := runPipeline(context.Background(), f.flags, model.VersionInfo{}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, model.ExitValidation, model.ExitCodeFor(err))
}

func TestRunPipelineJSONKeepsToolOutputOffStdout(t *testing.T) {
	f := newPipelineFixtureWithTools(t, "echo", "true")
	f.flags.Store = false
	f.flags.OutputFormat = "json"
	var stdout, stderr bytes.Buffer

	err := runPipeline(context.Background(), f.flags, model.VersionInfo{}, &stdout, &stderr)

	require.NoError(t, err)
	var report model.RunReportJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report), stdout.String())
	assert.True(t, report.Success)
	// echo's own output line, as opposed to the "Running command:" log line.
	assert.Regexp(t, `(?m)^-phase `, stderr.String())
}
