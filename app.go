// Package main is the entry point for the designer-wrapper application.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/flag"
	"github.com/thirukguru/designer-wrapper/shared/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run()
	if err != nil {
		reportError(err)
	}
	os.Exit(model.ExitCodeFor(err))
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db", "history":
			return runStorageCommand(os.Args[1], os.Args[2:], os.Stdout)
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return err
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPipeline(ctx, flags, versionInfo, os.Stdout, os.Stderr)
}

// reportError logs the final error. Tool failures were already logged by the
// runner with their command line.
func reportError(err error) {
	var terr *model.ToolError
	if errors.As(err, &terr) {
		return
	}
	logger.New(os.Stdout, false).Errorf("Error: %v", err)
}
