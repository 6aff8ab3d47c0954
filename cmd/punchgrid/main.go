package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/punchgrid/internal/cli"
	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "punchgrid",
		Short: "⏱️  Attendance terminal export to calendar grid converter",
		Long: `punchgrid turns raw punch exports from a biometric attendance terminal into
a calendar-shaped attendance sheet: one row per business day, a check-in and
check-out column per employee, late arrivals highlighted and missing punches
estimated from the other one.

Exports can be converted directly or archived first so several months and
terminals can be combined into one report.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/punchgrid/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("db", "", "punch archive path (default: $HOME/.local/share/punchgrid/punchgrid.db)")

	// Report flags shared by every command that builds a grid
	flags.String("late-threshold", "", "latest on-time check-in, HH:MM:SS (default 08:30:59)")
	flags.StringSlice("employees", nil, "employee column order (comma-separated)")
	flags.String("roster", "", "YAML roster file with column order and name aliases")
	flags.String("unlisted", "", "employees missing from the order: append or drop")
	flags.String("labels", "", "header and weekday labels: en or ko")
	flags.String("sheet-name", "", "worksheet name")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyDatabasePath, flags.Lookup("db"))
	_ = viper.BindPFlag(config.KeyLateThreshold, flags.Lookup("late-threshold"))
	_ = viper.BindPFlag(config.KeyEmployeeOrder, flags.Lookup("employees"))
	_ = viper.BindPFlag(config.KeyRosterFile, flags.Lookup("roster"))
	_ = viper.BindPFlag(config.KeyUnlisted, flags.Lookup("unlisted"))
	_ = viper.BindPFlag(config.KeyLabels, flags.Lookup("labels"))
	_ = viper.BindPFlag(config.KeySheetName, flags.Lookup("sheet-name"))

	// Add commands
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(employeesCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(pruneCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		if msg, ok := common.UserMessage(err); ok {
			fmt.Fprintln(os.Stderr, cli.FormatError(msg))
		} else if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		}
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// .env files only fill in what the environment does not already set
	if err := config.LoadDotEnv(".env", filepath.Join(config.ConfigDir(), ".env")); err != nil {
		return err
	}

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. PUNCHGRID_REPORT_LATE_THRESHOLD
	viper.SetEnvPrefix("PUNCHGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			printOut(cmd, "punchgrid "+version)
		},
	}
}
