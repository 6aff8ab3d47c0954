package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/punchgrid/internal/cli"
	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/config"
	"github.com/Veraticus/punchgrid/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
		Long:  `Authenticate with external services like Google Sheets.`,
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a URL to authenticate with Google
2. Wait for the browser to redirect back to a local callback
3. Save the token next to your config for future publishes

You'll need to run this once before using --sheets with an OAuth client.`,
		Args: cobra.NoArgs,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", "localhost:8080", "host:port for the OAuth2 redirect listener")
	cmd.Flags().Duration("timeout", 5*time.Minute, "How long to wait for the browser")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Get OAuth2 config
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	// Override with flags if provided
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	// Check for environment variables as fallback
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret in the config or pass --client-id and --client-secret.",
			common.ErrMissingConfig)
	}

	tokenFile := config.SheetsTokenFile()
	callback, _ := cmd.Flags().GetString("callback")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
		Timeout:      timeout,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if token.RefreshToken == "" {
		printOut(cmd, cli.FormatWarning("Google returned no refresh token; revoke the app's access and run this again."))
		return nil
	}

	printOut(cmd, cli.FormatSuccess("Google Sheets authentication saved to "+tokenFile))
	return nil
}
