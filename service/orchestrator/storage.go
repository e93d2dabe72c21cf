package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/storage"
)

func (s *service) persistRunIfEnabled(ctx context.Context, flags model.Flags, summary model.RunSummary) error {
	if s.storageService == nil || !flags.Store {
		return nil
	}

	steps := make([]storage.StepRecord, 0, len(summary.Steps))
	for i, r := range summary.Steps {
		steps = append(steps, storage.StepRecord{
			Position:   i + 1,
			Name:       r.Name,
			Command:    strings.Join(r.Argv, " "),
			ExitCode:   r.ExitCode,
			Skipped:    r.Skipped,
			StartedAt:  r.StartedAt,
			DurationMs: r.Duration.Milliseconds(),
		})
	}

	inputs := []storage.InputFile{}
	add := func(kind string, paths []string) {
		for _, p := range paths {
			inputs = append(inputs, storage.InputFile{Kind: kind, Path: p})
		}
	}
	add(storage.InputMagnitude, summary.Discovery.Magnitudes)
	add(storage.InputPhase, summary.Discovery.Phases)
	add(storage.InputRPE, summary.Discovery.RPEPairs)

	flagsJSON, _ := json.Marshal(flags)
	// An interrupted run is still recorded.
	_, err := s.storageService.SaveRun(context.WithoutCancel(ctx), storage.SaveRunInput{
		RunUUID:    summary.RunUUID,
		Subject:    summary.Subject,
		SesPattern: flags.SesPattern,
		BIDSDir:    flags.BIDSDir,
		OutputDir:  summary.OutputDir,
		Version:    s.versionInfo.Version,
		FlagsJSON:  string(flagsJSON),
		ExitCode:   summary.ExitCode,
		DryRun:     summary.DryRun,
		DurationMs: summary.Duration.Milliseconds(),
		Steps:      steps,
		Inputs:     inputs,
	})
	if err != nil {
		return err
	}
	s.log.Infof("Saved run %s to history", summary.RunUUID)
	return nil
}
