package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/command"
	"github.com/thirukguru/designer-wrapper/service/discovery"
	"github.com/thirukguru/designer-wrapper/service/mrtrixconf"
	"github.com/thirukguru/designer-wrapper/service/storage"
	"github.com/thirukguru/designer-wrapper/shared/logger"
)

type fakeDiscovery struct {
	found model.Discovery
	err   error
	got   discovery.Input
}

func (f *fakeDiscovery) Discover(in discovery.Input) (model.Discovery, error) {
	f.got = in
	return f.found, f.err
}

// fakeRunner records every step and fails the ones listed in fail.
type fakeRunner struct {
	fail map[string]int
	ran  []model.Step
}

func (f *fakeRunner) Run(_ context.Context, step model.Step) (model.StepResult, error) {
	f.ran = append(f.ran, step)
	res := model.StepResult{Name: step.Name, Argv: step.Argv()}
	if code, ok := f.fail[step.Name]; ok {
		res.ExitCode = code
		return res, &model.ToolError{Step: step.Name, Program: step.Program, Args: step.Args, ExitCode: code, Err: errors.New("exit status")}
	}
	return res, nil
}

func (f *fakeRunner) names() []string {
	out := []string{}
	for _, s := range f.ran {
		out = append(out, s.Name)
	}
	return out
}

type fakeOutput struct {
	rendered []model.RunSummary
}

func (f *fakeOutput) RenderSummary(summary model.RunSummary) error {
	f.rendered = append(f.rendered, summary)
	return nil
}

func (f *fakeOutput) StopSpinner() {}

type fixture struct {
	svc      *service
	disc     *fakeDiscovery
	run      *fakeRunner
	out      *fakeOutput
	confPath string
	flags    model.Flags
}

func newFixture(t *testing.T, store storage.Service) *fixture {
	t.Helper()
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	f := &fixture{
		disc: &fakeDiscovery{found: model.Discovery{
			Magnitudes: []string{"/bids/sub-01/dwi/sub-01_run-1_dwi.nii.gz"},
			Phases:     []string{"/bids/sub-01/dwi/sub-01_run-1_part-phase_dwi.nii.gz"},
		}},
		run:      &fakeRunner{fail: map[string]int{}},
		out:      &fakeOutput{},
		confPath: filepath.Join(dir, ".mrtrix.conf"),
		flags: model.Flags{
			BIDSDir:           "/bids",
			Output:            outDir,
			OutputAbsPath:     outDir,
			TmiOutputPhaseDir: filepath.Join(outDir, command.TmiOutputDir),
			BIDSSubject:       "sub-01",
			FilePattern:       "run-1",
		},
	}

	log := logger.Discard()
	f.svc = NewService(
		f.disc,
		command.NewService(model.DefaultPrograms()),
		mrtrixconf.NewService(f.confPath, log),
		f.run,
		f.out,
		store,
		model.VersionInfo{Version: "1.2.0", Commit: "abc123", Date: "2024-05-01"},
		log,
	).(*service)
	return f
}

func TestOrchestrateRunsStepsInOrder(t *testing.T) {
	f := newFixture(t, nil)

	summary, err := f.svc.Orchestrate(context.Background(), f.flags)

	require.NoError(t, err)
	assert.Equal(t, []string{model.StepDesigner, model.StepMrconvert, model.StepTmi, model.StepDTIQC}, f.run.names())
	assert.Equal(t, 0, summary.ExitCode)
	assert.NotEmpty(t, summary.RunUUID)
	require.Len(t, summary.Steps, 5)
	assert.Equal(t, model.StepMrtrixConf, summary.Steps[0].Name)

	conf, err := os.ReadFile(f.confPath)
	require.NoError(t, err)
	assert.Equal(t, "BZeroThreshold: 61.0\n", string(conf))
	assert.DirExists(t, f.flags.OutputAbsPath)

	for _, step := range f.run.ran {
		assert.Equal(t, []string{mrtrixconf.EnvVar + "=" + f.confPath}, step.Env, step.Name)
	}
	assert.Equal(t, "sub-01", f.disc.got.Subject)
	assert.Equal(t, "run-1", f.disc.got.FilePattern)
	require.Len(t, f.out.rendered, 1)
}

func TestOrchestrateUsesBZeroThresholdFlag(t *testing.T) {
	f := newFixture(t, nil)
	v := 0.75
	f.flags.BZeroThreshold = &v

	_, err := f.svc.Orchestrate(context.Background(), f.flags)

	require.NoError(t, err)
	conf, err := os.ReadFile(f.confPath)
	require.NoError(t, err)
	assert.Equal(t, "BZeroThreshold: 0.75\n", string(conf))
}

func TestOrchestrateSkipDTIQC(t *testing.T) {
	f := newFixture(t, nil)
	f.flags.SkipDTIQC = true

	summary, err := f.svc.Orchestrate(context.Background(), f.flags)

	require.NoError(t, err)
	assert.Equal(t, []string{model.StepDesigner, model.StepMrconvert, model.StepTmi}, f.run.names())
	assert.Len(t, summary.Steps, 4)
}

func TestOrchestrateStopsAtFailingTool(t *testing.T) {
	f := newFixture(t, nil)
	f.run.fail[model.StepMrconvert] = 3

	summary, err := f.svc.Orchestrate(context.Background(), f.flags)

	require.Error(t, err)
	assert.Equal(t, 3, model.ExitCodeFor(err))
	assert.Equal(t, 3, summary.ExitCode)
	assert.Equal(t, []string{model.StepDesigner, model.StepMrconvert}, f.run.names())

	require.Len(t, summary.Steps, 5)
	assert.Equal(t, model.StatusOK, summary.Steps[1].Status())
	assert.Equal(t, model.StatusFailed, summary.Steps[2].Status())
	assert.Equal(t, model.StatusSkipped, summary.Steps[3].Status())
	assert.Equal(t, model.StatusSkipped, summary.Steps[4].Status())
	require.Len(t, f.out.rendered, 1)
}

func TestOrchestrateValidationFailuresRunNothing(t *testing.T) {
	tests := []struct {
		name  string
		found model.Discovery
		err   error
	}{
		{name: "zero magnitudes"},
		{
			name: "missing magnitude companion",
			err:  model.Validationf("Extrapolated magnitude file not found for phase file /p.nii"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.disc.found = tt.found
			f.disc.err = tt.err

			summary, err := f.svc.Orchestrate(context.Background(), f.flags)

			require.Error(t, err)
			var verr *model.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, model.ExitValidation, summary.ExitCode)
			assert.Empty(t, f.run.ran)
			assert.NoDirExists(t, f.flags.OutputAbsPath)
		})
	}
}

func TestOrchestrateDryRun(t *testing.T) {
	f := newFixture(t, nil)
	f.flags.DryRun = true

	summary, err := f.svc.Orchestrate(context.Background(), f.flags)

	require.NoError(t, err)
	assert.Empty(t, f.run.ran)
	assert.NoFileExists(t, f.confPath)
	assert.NoDirExists(t, f.flags.OutputAbsPath)
	assert.True(t, summary.DryRun)
	require.Len(t, summary.Steps, 5)
	for _, s := range summary.Steps {
		assert.True(t, s.Skipped, s.Name)
	}
	assert.Equal(t, "designer", summary.Steps[1].Argv[0])
}

func TestOrchestrateCancelledContext(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.svc.Orchestrate(ctx, f.flags)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.ExitInternal, summary.ExitCode)
	assert.Empty(t, f.run.ran)
}

func TestOrchestrateVersion(t *testing.T) {
	f := newFixture(t, nil)
	var buf bytes.Buffer
	f.svc.versionOut = &buf

	_, err := f.svc.Orchestrate(context.Background(), model.Flags{Version: true})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "designer-wrapper version 1.2.0")
	assert.Contains(t, buf.String(), "commit: abc123")
	assert.Empty(t, f.run.ran)
	assert.NoFileExists(t, f.confPath)
}

func TestOrchestratePersistsRunWhenStoreEnabled(t *testing.T) {
	store, err := storage.NewService(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := newFixture(t, store)
	f.run.fail[model.StepTmi] = 2

	// Without --store nothing is written.
	_, _ = f.svc.Orchestrate(context.Background(), f.flags)
	runs, err := store.GetRecentRuns("", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	f.flags.Store = true
	summary, _ := f.svc.Orchestrate(context.Background(), f.flags)

	runs, err = store.GetRecentRuns("sub-01", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, summary.RunUUID, runs[0].RunUUID)
	assert.Equal(t, 2, runs[0].ExitCode)
	assert.Equal(t, "1.2.0", runs[0].Version)

	steps, err := store.ListSteps(runs[0].RunID)
	require.NoError(t, err)
	require.Len(t, steps, 5)
	assert.Equal(t, model.StepTmi, steps[3].Name)
	assert.Equal(t, 2, steps[3].ExitCode)
	assert.True(t, steps[4].Skipped)

	inputs, err := store.ListInputs(runs[0].RunID)
	require.NoError(t, err)
	assert.Len(t, inputs, 2)
}

// failingRunner returns a plain error, like a runner that could not open its log.
type failingRunner struct{}

func (failingRunner) Run(_ context.Context, step model.Step) (model.StepResult, error) {
	return model.StepResult{Name: step.Name, Argv: step.Argv(), ExitCode: model.ExitInternal}, errors.New("failed to create tool log")
}

func TestOrchestrateRunnerErrorIsReportedFailed(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.runnerService = failingRunner{}

	summary, err := f.svc.Orchestrate(context.Background(), f.flags)

	require.Error(t, err)
	assert.Equal(t, model.ExitInternal, summary.ExitCode)
	require.Len(t, summary.Steps, 5)
	assert.Equal(t, model.StatusFailed, summary.Steps[1].Status())
	assert.Equal(t, model.StatusSkipped, summary.Steps[2].Status())
}
