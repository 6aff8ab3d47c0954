package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/punchgrid/internal/cli"
	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/config"
	"github.com/Veraticus/punchgrid/internal/engine"
	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/report"
	"github.com/Veraticus/punchgrid/internal/service"
	"github.com/Veraticus/punchgrid/internal/sheets"
	"github.com/spf13/cobra"
)

// defaultOutput is the file name the converter has always produced.
const defaultOutput = "converted_file.xlsx"

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <export> [export...]",
		Short: "Convert terminal exports into an attendance workbook",
		Long: `Convert one or more attendance terminal exports (.xlsx, .xls, .xml, .html,
.csv) into a calendar attendance workbook.

Records from all inputs are merged. Punches with unreadable timestamps are
skipped and listed; the run fails only if nothing can be read at all.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runConvert,
	}

	addOutputFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Show the summary without writing anything")

	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", defaultOutput, "Workbook to write")
	cmd.Flags().Bool("sheets", false, "Also publish the grid to Google Sheets")
	cmd.Flags().Int("show-skipped", 10, "How many skipped records to list (0 lists all)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, _ := interruptible(cmd, "Convert", "")

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
		if errors.Is(err, engine.ErrNoValidPunches) || errors.Is(err, engine.ErrNoRecords) {
			return common.NewUserError("No usable punches were found in the input; nothing was written.", err)
		}
		return err
	}

	showResult(cmd, settings.Style, result)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		printOut(cmd, cli.FormatWarning("Dry run - no workbook written"))
		return nil
	}

	return publish(ctx, cmd, settings, result.Grid)
}

func showResult(cmd *cobra.Command, style report.Style, result *engine.Result) {
	layout := style.Layout(result.Grid)
	printOut(cmd, cli.RenderSummary(result.Summary, layout.Count()))

	if skipped := cli.RenderSkipped(result.Skipped, showSkippedLimit(cmd)); skipped != "" {
		printOut(cmd, skipped)
	}
}

// reportWriters returns the destinations selected by the output flags.
func reportWriters(ctx context.Context, cmd *cobra.Command, settings *config.ReportSettings) ([]service.ReportWriter, error) {
	renderer, err := report.NewRenderer(settings.Style, slog.Default())
	if err != nil {
		return nil, err
	}
	output, _ := cmd.Flags().GetString("output")
	writers := []service.ReportWriter{renderer.ToFile(config.ExpandPath(output))}

	if useSheets, _ := cmd.Flags().GetBool("sheets"); useSheets {
		cfg, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, common.NewUserError("Google Sheets is not configured. Set sheets.* in the config or run `punchgrid auth sheets`.", err)
		}
		writer, err := sheets.NewWriter(ctx, *cfg, settings.Style, slog.Default())
		if err != nil {
			return nil, err
		}
		writers = append(writers, writer)
	}
	return writers, nil
}

func publish(ctx context.Context, cmd *cobra.Command, settings *config.ReportSettings, grid model.Grid) error {
	writers, err := reportWriters(ctx, cmd, settings)
	if err != nil {
		return err
	}

	for _, w := range writers {
		if err := w.WriteGrid(ctx, grid); err != nil {
			if errors.Is(err, common.ErrSheetsUnavailable) || errors.Is(err, common.ErrRateLimit) {
				return common.NewUserError("Google Sheets did not accept the update; try again later.", err)
			}
			return fmt.Errorf("failed to write report: %w", err)
		}
		switch w := w.(type) {
		case *report.FileWriter:
			printOut(cmd, cli.FormatSuccess("Wrote " + w.Path()))
		case *sheets.Writer:
			printOut(cmd, cli.FormatSuccess("Published to Google Sheets"))
		}
	}
	return nil
}
