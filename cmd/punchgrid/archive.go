package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/punchgrid/internal/cli"
	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/storage"
	"github.com/spf13/cobra"
)

func employeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "employees",
		Short: "List employees in the punch archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			employees, err := store.GetEmployees(ctx)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}
			if len(employees) == 0 {
				printOut(cmd, cli.FormatInfo("The archive is empty."))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("EMPLOYEE"),
				cli.BoldStyle.Render("FIRST"),
				cli.BoldStyle.Render("LAST"),
				cli.BoldStyle.Render("PUNCHES"))
			for _, e := range employees {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Name, e.FirstDate, e.LastDate, e.Punches)
			}
			return w.Flush()
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			imports, err := store.GetImports(ctx)
			if err != nil {
				return fmt.Errorf("failed to list imports: %w", err)
			}
			if len(imports) == 0 {
				printOut(cmd, cli.FormatInfo("Nothing has been imported yet."))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("IMPORTED"),
				cli.BoldStyle.Render("RECORDS"),
				cli.BoldStyle.Render("NEW"),
				cli.BoldStyle.Render("SOURCE"))
			for _, imp := range imports {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n",
					imp.ID, imp.ImportedAt.Local().Format("2006-01-02 15:04"), imp.Records, imp.Inserted, imp.Source)
			}
			return w.Flush()
		},
	}
}

func pruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete punches from the archive",
		Long: `Delete archived punches matching --from, --to and --employee.
At least one filter is required.`,
		Args: cobra.NoArgs,
		RunE: runPrune,
	}

	addArchiveFilterFlags(cmd, true)
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func runPrune(cmd *cobra.Command, _ []string) error {
	ctx, _ := interruptible(cmd, "Prune", "")

	filter, err := archiveFilter(cmd)
	if err != nil {
		return err
	}
	if filter.Start == nil && filter.End == nil && len(filter.Employees) == 0 {
		return common.NewUserError("Refusing to delete the whole archive; pass --from, --to or --employee.", storage.ErrUnboundedDelete)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	matches, err := store.GetPunches(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if len(matches) == 0 {
		printOut(cmd, cli.FormatInfo("No archived punches match."))
		return nil
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		question := fmt.Sprintf("Delete %d punches%s?", len(matches), describeFilter(cmd))
		ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(os.Stdin), cmd.OutOrStdout(), question)
		if err != nil {
			return err
		}
		if !ok {
			printOut(cmd, cli.SubtleStyle.Render("Nothing deleted."))
			return nil
		}
	}

	deleted, err := store.DeletePunches(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete punches: %w", err)
	}
	printOut(cmd, cli.FormatSuccess(fmt.Sprintf("Deleted %d punches", deleted)))
	return nil
}

func describeFilter(cmd *cobra.Command) string {
	var parts []string
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		parts = append(parts, "from "+from)
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		parts = append(parts, "to "+to)
	}
	if employees, _ := cmd.Flags().GetStringSlice("employee"); len(employees) > 0 {
		parts = append(parts, "for "+strings.Join(employees, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func closeStore(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
	}
}
