// Package orchestrator runs the designer, mrconvert, tmi and dtiQC pipeline.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/command"
	"github.com/thirukguru/designer-wrapper/service/config"
	"github.com/thirukguru/designer-wrapper/service/discovery"
	"github.com/thirukguru/designer-wrapper/service/mrtrixconf"
	"github.com/thirukguru/designer-wrapper/service/output"
	"github.com/thirukguru/designer-wrapper/service/runner"
	"github.com/thirukguru/designer-wrapper/service/storage"
)

// NewService creates a new orchestrator service. storageService may be nil
// when run history is disabled.
func NewService(
	discoveryService discovery.Service,
	commandService command.Service,
	mrtrixService mrtrixconf.Service,
	runnerService runner.Service,
	outputService output.Service,
	storageService storage.Service,
	versionInfo model.VersionInfo,
	log logrus.FieldLogger,
) Service {
	return &service{
		discoveryService: discoveryService,
		commandService:   commandService,
		mrtrixService:    mrtrixService,
		runnerService:    runnerService,
		outputService:    outputService,
		storageService:   storageService,
		versionInfo:      versionInfo,
		versionOut:       os.Stdout,
		log:              log,
	}
}

func (s *service) Orchestrate(ctx context.Context, flags model.Flags) (model.RunSummary, error) {
	if flags.Version {
		return model.RunSummary{}, s.versionWorkflow()
	}

	return s.pipelineWorkflow(ctx, flags)
}

func (s *service) versionWorkflow() error {
	s.outputService.StopSpinner()

	fmt.Fprintf(s.versionOut, "designer-wrapper version %s\n", s.versionInfo.Version)
	fmt.Fprintf(s.versionOut, "commit: %s\n", s.versionInfo.Commit)
	fmt.Fprintf(s.versionOut, "built at: %s\n", s.versionInfo.Date)

	return nil
}

func (s *service) pipelineWorkflow(ctx context.Context, flags model.Flags) (model.RunSummary, error) {
	startedAt := time.Now()
	run := &pipelineRun{
		flags: flags,
		summary: model.RunSummary{
			RunUUID:   uuid.NewString(),
			Subject:   flags.BIDSSubject,
			OutputDir: flags.OutputAbsPath,
			DryRun:    flags.DryRun,
		},
	}

	stages := []stage{
		{name: "configure", fn: s.configure},
		{name: "discover", fn: s.discover},
		{name: "prepare", fn: s.prepareOutput},
		{name: "plan", fn: s.plan},
		{name: "execute", fn: s.execute},
	}

	var err error
	for _, st := range stages {
		s.log.Debugf("Pipeline stage: %s", st.name)
		if err = st.fn(ctx, run); err != nil {
			break
		}
	}

	run.summary.ExitCode = model.ExitCodeFor(err)
	run.summary.Duration = time.Since(startedAt)

	if perr := s.persistRunIfEnabled(ctx, flags, run.summary); perr != nil {
		s.log.Warnf("Failed to save run history: %v", perr)
	}
	if len(run.summary.Steps) > 0 {
		if rerr := s.outputService.RenderSummary(run.summary); rerr != nil {
			s.log.Warnf("Failed to render run summary: %v", rerr)
		}
	}

	return run.summary, err
}

// configure prepares the MRtrix configuration file and the environment every
// tool process receives.
func (s *service) configure(_ context.Context, run *pipelineRun) error {
	started := time.Now()
	bzero := config.DefaultBZeroThreshold
	if run.flags.BZeroThreshold != nil {
		bzero = *run.flags.BZeroThreshold
	}

	var path string
	if run.flags.DryRun {
		p, err := s.mrtrixService.Path()
		if err != nil {
			return fmt.Errorf("failed to resolve mrtrix configuration: %w", err)
		}
		path = p
		s.log.Infof("Dry run: mrtrix configuration file %s would be ensured", path)
	} else {
		res, err := s.mrtrixService.Ensure(bzero)
		if err != nil {
			return fmt.Errorf("failed to prepare mrtrix configuration: %w", err)
		}
		path = res.Path
		run.env = res.Env()
	}
	if run.env == nil {
		run.env = mrtrixconf.Result{Path: path}.Env()
	}

	run.summary.Steps = append(run.summary.Steps, model.StepResult{
		Name:      model.StepMrtrixConf,
		Argv:      []string{path},
		StartedAt: started,
		Duration:  time.Since(started),
		Skipped:   run.flags.DryRun,
	})
	return nil
}

func (s *service) discover(_ context.Context, run *pipelineRun) error {
	found, err := s.discoveryService.Discover(discovery.Input{
		BIDSDir:     run.flags.BIDSDir,
		Subject:     run.flags.BIDSSubject,
		SesPattern:  run.flags.SesPattern,
		FilePattern: run.flags.FilePattern,
	})
	if err != nil {
		return err
	}
	run.summary.Discovery = found

	s.log.Infof("Found %d magnitude, %d phase and %d RPE images",
		len(found.Magnitudes), len(found.Phases), len(found.RPEPairs))
	return nil
}

// prepareOutput creates the output directory. Nothing is created in a dry run.
func (s *service) prepareOutput(_ context.Context, run *pipelineRun) error {
	if len(run.summary.Discovery.Magnitudes) == 0 {
		return model.Validationf("No magnitude files found based on the provided patterns.")
	}
	if run.flags.DryRun {
		return nil
	}
	if err := os.MkdirAll(run.flags.OutputAbsPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", run.flags.OutputAbsPath, err)
	}
	return nil
}

func (s *service) plan(_ context.Context, run *pipelineRun) error {
	designer, err := s.commandService.Designer(run.flags, run.summary.Discovery)
	if err != nil {
		return err
	}

	steps := []model.Step{
		designer,
		s.commandService.Mrconvert(run.flags),
		s.commandService.Tmi(run.flags),
	}
	if run.flags.SkipDTIQC {
		s.log.Debugf("Skipping %s", model.StepDTIQC)
	} else {
		steps = append(steps, s.commandService.DTIQC(run.flags))
	}

	for i := range steps {
		steps[i].Env = run.env
	}
	run.steps = steps
	return nil
}

// execute runs every planned step in order. After a failure the remaining
// steps are recorded as skipped.
func (s *service) execute(ctx context.Context, run *pipelineRun) error {
	if run.flags.DryRun {
		for _, step := range run.steps {
			s.log.Infof("Dry run: %s", strings.Join(step.Argv(), " "))
			run.summary.Steps = append(run.summary.Steps, model.StepResult{
				Name:    step.Name,
				Argv:    step.Argv(),
				Skipped: true,
			})
		}
		return nil
	}

	for i, step := range run.steps {
		if err := ctx.Err(); err != nil {
			s.skipFrom(run, i)
			return fmt.Errorf("pipeline interrupted before %s: %w", step.Name, err)
		}

		res, err := s.runnerService.Run(ctx, step)
		run.summary.Steps = append(run.summary.Steps, res)
		if err != nil {
			s.skipFrom(run, i+1)
			return err
		}
	}

	if run.flags.SkipDTIQC {
		s.log.Info("Designer, mrconvert, and tmi commands completed successfully!")
	} else {
		s.log.Info("Designer, mrconvert, tmi, and dtiQC commands completed successfully!")
	}
	return nil
}

func (s *service) skipFrom(run *pipelineRun, from int) {
	for _, step := range run.steps[from:] {
		run.summary.Steps = append(run.summary.Steps, model.StepResult{
			Name:    step.Name,
			Argv:    step.Argv(),
			Skipped: true,
		})
	}
}
