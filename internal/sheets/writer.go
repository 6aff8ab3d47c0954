package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/report"
	"github.com/Veraticus/punchgrid/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer publishes attendance grids to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
	style   report.Style
}

var _ service.ReportWriter = (*Writer)(nil)

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, style report.Style, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
		style:   style,
	}, nil
}

// WriteGrid replaces the attendance tab with grid and applies the same
// formatting the xlsx renderer uses.
func (w *Writer) WriteGrid(ctx context.Context, grid model.Grid) error {
	layout := w.style.Layout(grid)
	w.logger.Info("starting sheet publish",
		"employees", len(grid.Employees),
		"rows", len(grid.Rows))

	retryOpts := common.DefaultRetryOptions()
	if w.config.RetryAttempts > 0 {
		retryOpts.MaxAttempts = w.config.RetryAttempts
	}
	if w.config.RetryDelay > 0 {
		retryOpts.InitialDelay = w.config.RetryDelay
	}

	var spreadsheetID string
	var sheetID int64
	err := common.WithRetry(ctx, func() error {
		var err error
		spreadsheetID, sheetID, err = w.prepareSheet(ctx)
		return classify(err)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to prepare spreadsheet: %w", err)
	}

	rows := values(layout)
	err = common.WithRetry(ctx, func() error {
		return classify(w.writeData(ctx, spreadsheetID, rows))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	requests := formatRequests(sheetID, layout, w.style)
	err = common.WithRetry(ctx, func() error {
		_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		return classify(err)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to apply formatting: %w", err)
	}

	counts := layout.Count()
	w.logger.Info("sheet publish completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(rows),
		"late_cells", counts.Late,
		"estimated_cells", counts.Estimated)

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// prepareSheet returns the spreadsheet and the attendance tab, creating
// either when missing, with the tab's previous values cleared.
func (w *Writer) prepareSheet(ctx context.Context) (string, int64, error) {
	title := w.style.SheetName

	if w.config.SpreadsheetID == "" {
		created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
			Sheets: []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: title}}},
		}).Context(ctx).Do()
		if err != nil {
			return "", 0, fmt.Errorf("unable to create spreadsheet: %w", err)
		}

		w.logger.Info("created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)
		// Reuse it on retries and later calls.
		w.config.SpreadsheetID = created.SpreadsheetId
		return created.SpreadsheetId, created.Sheets[0].Properties.SheetId, nil
	}

	spreadsheetID := w.config.SpreadsheetID
	existing, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}

	if id, ok := findSheet(existing, title); ok {
		_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range(title, 1)+":ZZ", &sheets.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return "", 0, fmt.Errorf("unable to clear sheet %q: %w", title, err)
		}
		return spreadsheetID, id, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: title},
		}}},
	}).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("unable to add sheet %q: %w", title, err)
	}
	return spreadsheetID, resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func findSheet(s *sheets.Spreadsheet, title string) (int64, bool) {
	for _, sheet := range s.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, true
		}
	}
	return 0, false
}

// writeData writes rows in batches. Values go in RAW so times stay text.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, rows [][]any) error {
	for i := 0; i < len(rows); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(rows))
		batch := rows[i:end]

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, a1Range(w.style.SheetName, i+1), &sheets.ValueRange{
			Values: batch,
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

// classify marks API errors for the retry loop: quota errors wait out the
// rate limit, server errors retry, other client errors fail immediately.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", common.ErrSheetsUnavailable, err)
	default:
		return common.Permanent(err)
	}
}
