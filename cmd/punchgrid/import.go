package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Veraticus/punchgrid/internal/cli"
	"github.com/Veraticus/punchgrid/internal/punch"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <export> [export...]",
		Short: "Archive terminal exports in the local punch database",
		Long: `Load one or more attendance terminal exports into the local punch archive.

Punches are deduplicated, so overlapping exports can be imported repeatedly.
Use 'punchgrid report' to build a workbook from the archive afterwards.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse the exports without saving")
	cmd.Flags().Int("show-skipped", 10, "How many skipped records to list (0 lists all)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, handler := interruptible(cmd, "Import", "Files imported so far are archived; re-run to finish the rest.")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	parser := punch.NewParser(slog.Default())
	progress := cli.NewProgress(cmd.ErrOrStderr(), len(args), "Importing exports")

	var total, inserted, processed int
	var skipped []punch.Skipped
	for _, path := range args {
		if handler.WasInterrupted() {
			break
		}
		progress.Step(filepath.Base(path))

		records, err := loadRecords(ctx, []string{path}, settings)
		if err != nil {
			progress.Done()
			return err
		}
		punches, parsed := parser.Parse(records)
		skipped = append(skipped, parsed.Skipped...)
		total += len(punches)
		processed++

		if dryRun || len(punches) == 0 {
			continue
		}
		n, err := store.SavePunches(ctx, path, punches)
		if err != nil {
			progress.Done()
			return fmt.Errorf("failed to archive %s: %w", path, err)
		}
		inserted += n
	}
	progress.Done()

	if s := cli.RenderSkipped(skipped, showSkippedLimit(cmd)); s != "" {
		printOut(cmd, s)
	}
	if dryRun {
		printOut(cmd, cli.FormatWarning(fmt.Sprintf("Dry run - %d punches parsed, nothing saved", total)))
		return nil
	}
	printOut(cmd, cli.FormatSuccess(importSummary(inserted, total, processed, len(args))))
	return nil
}

// importSummary describes an archive run. Files left unread after an
// interrupt are reported alongside the ones that were imported.
func importSummary(inserted, total, processed, requested int) string {
	summary := fmt.Sprintf("Archived %d new punches (%d already known) from %d files",
		inserted, total-inserted, processed)
	if processed < requested {
		summary += fmt.Sprintf(" (%d of %d not read)", requested-processed, requested)
	}
	return summary
}

func showSkippedLimit(cmd *cobra.Command) int {
	limit, _ := cmd.Flags().GetInt("show-skipped")
	return limit
}
