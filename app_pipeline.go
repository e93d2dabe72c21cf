package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/command"
	"github.com/thirukguru/designer-wrapper/service/config"
	"github.com/thirukguru/designer-wrapper/service/discovery"
	"github.com/thirukguru/designer-wrapper/service/mrtrixconf"
	"github.com/thirukguru/designer-wrapper/service/orchestrator"
	"github.com/thirukguru/designer-wrapper/service/output"
	"github.com/thirukguru/designer-wrapper/service/runner"
	"github.com/thirukguru/designer-wrapper/service/storage"
	"github.com/thirukguru/designer-wrapper/shared/banner"
	"github.com/thirukguru/designer-wrapper/shared/logger"
	"golang.org/x/term"
)

const creditLine = "By Natacha Beck nbeck@mcin.ca, based on code from Alex Pastor Bernier"

// runPipeline wires the services for one wrapper invocation. Log lines go to
// stdout, except with a JSON summary where stdout carries only the document.
func runPipeline(ctx context.Context, flags model.Flags, versionInfo model.VersionInfo, stdout, stderr io.Writer) error {
	logOut := stdout
	if flags.OutputFormat == string(output.FormatJSON) {
		logOut = stderr
	}
	log := logger.New(logOut, flags.Verbose)
	outputService := output.NewService(flags.OutputFormat, stdout)

	if flags.Version {
		orchestratorService := orchestrator.NewService(nil, nil, nil, nil, outputService, nil, versionInfo, log)
		_, err := orchestratorService.Orchestrate(ctx, flags)
		return err
	}

	if !flags.NoBanner && flags.OutputFormat != string(output.FormatJSON) {
		banner.DrawBannerTitle(stdout)
	}
	logHeader(log, flags, versionInfo)

	cfgService := config.NewService()
	cfg, err := cfgService.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	cfgService.Apply(cfg, &flags)

	var storageService storage.Service
	if flags.Store {
		storageService, err = storage.NewService(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer storageService.Close()
	}

	// Tool output shares the log stream so a JSON summary stays parseable.
	runnerService := runner.NewService(runner.Options{
		LogDir:  flags.ToolLogDir,
		Spinner: flags.ToolLogDir != "" && isTerminal(stdout),
		Stdout:  logOut,
		Stderr:  stderr,
	}, log)

	orchestratorService := orchestrator.NewService(
		discovery.NewService(log),
		command.NewService(cfg.Programs),
		mrtrixconf.NewService(cfg.Mrtrix.ConfigPath, log),
		runnerService,
		outputService,
		storageService,
		versionInfo,
		log,
	)

	_, err = orchestratorService.Orchestrate(ctx, flags)
	return err
}

func logHeader(log logrus.FieldLogger, flags model.Flags, versionInfo model.VersionInfo) {
	if flags.SkipDTIQC {
		log.Info("Starting designer, mrconvert, and tmi wrapper script")
	} else {
		log.Info("Starting designer, mrconvert, tmi, and dtiQC wrapper script")
	}
	log.Info(creditLine)
	log.Infof("Version: %s", versionInfo.Version)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
