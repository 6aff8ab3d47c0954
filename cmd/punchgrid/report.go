package main

import (
	"fmt"

	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build an attendance workbook from the punch archive",
		Long: `Build an attendance workbook from punches previously stored with
'punchgrid import', optionally limited to a date range and some employees.`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}

	addArchiveFilterFlags(cmd, true)
	addOutputFlags(cmd)

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, _ := interruptible(cmd, "Report", "")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	filter, err := archiveFilter(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	punches, err := store.GetPunches(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if len(punches) == 0 {
		return common.NewUserError("No archived punches match; import an export first.", common.ErrNotFound)
	}

	converter, err := newConverter(settings)
	if err != nil {
		return err
	}
	result, err := converter.ConvertPunches(ctx, punches)
	if err != nil {
		return err
	}

	showResult(cmd, settings.Style, result)
	return publish(ctx, cmd, settings, result.Grid)
}
