package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/punchgrid/internal/cli"
	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/config"
	"github.com/Veraticus/punchgrid/internal/engine"
	"github.com/Veraticus/punchgrid/internal/loader"
	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage opens the punch archive with proper path expansion and runs
// pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString(config.KeyDatabasePath)
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not open the punch archive at %s.", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// interruptible wraps the command context so Ctrl+C prints a friendly
// message instead of killing the process mid-write.
func interruptible(cmd *cobra.Command, operation, hint string) (context.Context, *cli.InterruptHandler) {
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), operation).WithHint(hint)
	return handler.HandleInterrupts(cmd.Context()), handler
}

// loadSettings reads report settings after flag overrides are applied.
func loadSettings() (*config.ReportSettings, error) {
	settings, err := config.LoadReportOptions()
	if err != nil {
		return nil, common.NewUserError("The report configuration is invalid: "+err.Error(), err)
	}
	return settings, nil
}

// loadRecords reads every input file and applies roster aliases.
func loadRecords(ctx context.Context, paths []string, settings *config.ReportSettings) ([]model.RawRecord, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Cannot read %s.", path), err)
		}
		if !loader.Supported(path) {
			return nil, common.NewUserError(fmt.Sprintf("%s is not a supported export (%v).", path, loader.Formats()), loader.ErrUnsupportedFormat)
		}
	}

	records, err := loader.New(slog.Default()).LoadAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	if settings.Roster != nil {
		records = settings.Roster.Apply(records)
	}
	return records, nil
}

func newConverter(settings *config.ReportSettings) (*engine.Converter, error) {
	return engine.New(settings.Options, slog.Default())
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(cmd *cobra.Command, name string) (*model.CalendarDate, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil || raw == "" {
		return nil, err
	}
	d, err := model.ParseCalendarDate(raw)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("--%s must be a date like 2024-01-31.", name), err)
	}
	return &d, nil
}

// archiveFilter builds a filter from --from, --to and --employee flags.
func archiveFilter(cmd *cobra.Command) (model.PunchFilter, error) {
	var filter model.PunchFilter
	var err error
	if filter.Start, err = parseDateFlag(cmd, "from"); err != nil {
		return filter, err
	}
	if filter.End, err = parseDateFlag(cmd, "to"); err != nil {
		return filter, err
	}
	if cmd.Flags().Lookup("employee") != nil {
		if filter.Employees, err = cmd.Flags().GetStringSlice("employee"); err != nil {
			return filter, err
		}
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return filter, common.NewUserError("--to must not be before --from.", storage.ErrInvalidDateRange)
	}
	return filter, nil
}

func addArchiveFilterFlags(cmd *cobra.Command, withEmployee bool) {
	cmd.Flags().String("from", "", "first date to include (format: 2006-01-02)")
	cmd.Flags().String("to", "", "last date to include (format: 2006-01-02)")
	if withEmployee {
		cmd.Flags().StringSlice("employee", nil, "only these employees (comma-separated)")
	}
}

// printOut writes a line to the command's stdout. cobra's Println goes to stderr.
func printOut(cmd *cobra.Command, a ...any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), a...)
}
