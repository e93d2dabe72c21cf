package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/thirukguru/designer-wrapper/model"
	"github.com/thirukguru/designer-wrapper/service/config"
	"github.com/thirukguru/designer-wrapper/service/storage"
	historytable "github.com/thirukguru/designer-wrapper/shared/history_table"
)

func runStorageCommand(cmd string, args []string, w io.Writer) error {
	switch cmd {
	case "db":
		return runDBCommand(args, w)
	case "history":
		return runHistoryCommand(args, w)
	default:
		return model.Validationf("unsupported command: %s", cmd)
	}
}

// openStore opens the history database. --db-path wins over the config file,
// matching the resolution used by --store runs.
func openStore(dbPath, configPath string) (storage.Service, error) {
	cfgService := config.NewService()
	cfg, err := cfgService.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := model.Flags{DBPath: dbPath}
	cfgService.Apply(cfg, &flags)
	return storage.NewService(flags.DBPath)
}

func runDBCommand(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	fs.SetOutput(w)
	dbPath := fs.String("db-path", "", "SQLite database path")
	configPath := fs.String("config-path", "", "YAML config file whose db_path is used when --db-path is not set")
	olderThan := fs.Int("older-than", 30, "Purge runs older than N days")
	if err := fs.Parse(args); err != nil {
		return model.Validationf("%v", err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return model.Validationf("usage: designer-wrapper db <vacuum|purge> [--db-path ...]")
	}

	store, err := openStore(*dbPath, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "vacuum":
		return store.Vacuum(context.Background())
	case "purge":
		count, err := store.PurgeOlderThan(context.Background(), *olderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Purged %d runs\n", count)
		return nil
	default:
		return model.Validationf("unsupported db command: %s", sub)
	}
}

func runHistoryCommand(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	fs.SetOutput(w)
	dbPath := fs.String("db-path", "", "SQLite database path")
	configPath := fs.String("config-path", "", "YAML config file whose db_path is used when --db-path is not set")
	subject := fs.String("subject", "", "BIDS subject filter")
	limit := fs.Int("limit", 20, "Number of rows to list")
	if err := fs.Parse(args); err != nil {
		return model.Validationf("%v", err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return model.Validationf("usage: designer-wrapper history <list|show>")
	}

	store, err := openStore(*dbPath, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "list":
		runs, err := store.GetRecentRuns(*subject, *limit)
		if err != nil {
			return err
		}
		historytable.RenderRunTable(w, runs)
		return nil
	case "show":
		if len(rest) < 2 {
			return model.Validationf("usage: designer-wrapper history show <run-id>")
		}
		runID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return model.Validationf("invalid run id %q", rest[1])
		}
		steps, err := store.ListSteps(runID)
		if err != nil {
			return err
		}
		inputs, err := store.ListInputs(runID)
		if err != nil {
			return err
		}
		historytable.RenderRunDetail(w, runID, steps, inputs)
		return nil
	default:
		return model.Validationf("unsupported history command: %s", sub)
	}
}
