package main

import (
	"github.com/Veraticus/punchgrid/internal/cli"
	"github.com/Veraticus/punchgrid/internal/tui"
	"github.com/spf13/cobra"
)

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <export> [export...]",
		Short: "Show the attendance grid in the terminal",
		Long: `Convert exports and show the resulting grid without writing a workbook.
Late check-ins are shown in red and estimated times in yellow.

With --interactive the grid opens in a full screen browser with week jumps
and a late-days filter.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPreview,
	}

	cmd.Flags().BoolP("interactive", "i", false, "Browse the grid full screen")
	cmd.Flags().Int("rows", 30, "Rows to print (0 prints all)")
	cmd.Flags().Int("show-skipped", 10, "How many skipped records to list (0 lists all)")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	records, err := loadRecords(ctx, args, settings)
	if err != nil {
		return err
	}
	converter, err := newConverter(settings)
	if err != nil {
		return err
	}
	result, err := converter.Convert(ctx, records)
	if err != nil {
		return err
	}

	layout := settings.Style.Layout(result.Grid)

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		cfg := tui.DefaultConfig()
		cfg.Title = cli.CalendarIcon + " " + result.Summary.First.String() + " to " + result.Summary.Last.String()
		return tui.Run(ctx, layout, cfg)
	}

	rows, _ := cmd.Flags().GetInt("rows")
	printOut(cmd, cli.FormatTitle("Attendance "+result.Summary.First.String()+" to "+result.Summary.Last.String()))
	printOut(cmd, cli.RenderLayout(layout, rows))
	showResult(cmd, settings.Style, result)
	return nil
}
