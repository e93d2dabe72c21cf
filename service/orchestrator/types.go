package orchestrator

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/command"
	"github.com/thirukguru/designer-wrapper/service/discovery"
	"github.com/thirukguru/designer-wrapper/service/mrtrixconf"
	"github.com/thirukguru/designer-wrapper/service/output"
	"github.com/thirukguru/designer-wrapper/service/runner"
	"github.com/thirukguru/designer-wrapper/service/storage"
)

type service struct {
	discoveryService discovery.Service
	commandService   command.Service
	mrtrixService    mrtrixconf.Service
	runnerService    runner.Service
	outputService    output.Service
	storageService   storage.Service
	versionInfo      model.VersionInfo
	versionOut       io.Writer
	log              logrus.FieldLogger
}

// Service is the interface for orchestrator service.
type Service interface {
	Orchestrate(ctx context.Context, flags model.Flags) (model.RunSummary, error)
}

// stage is one fallible step of the pipeline. The first error stops the run.
type stage struct {
	name string
	fn   func(ctx context.Context, run *pipelineRun) error
}

// pipelineRun carries state between stages.
type pipelineRun struct {
	flags   model.Flags
	env     []string
	steps   []model.Step
	summary model.RunSummary
}
