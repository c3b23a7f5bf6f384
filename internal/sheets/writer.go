package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dispatchd/bookingflow/internal/common"
	"github.com/dispatchd/bookingflow/internal/model"
)

// RowWriter is the interface the CLI depends on for exporting bookings.
type RowWriter interface {
	Append(ctx context.Context, records []model.BookingRecord) error
}

// Writer appends booking rows to a Google Sheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a Google Sheets booking writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Append writes records to the end of the booking sheet, creating the
// spreadsheet and the header row on first use. Rows are never rewritten;
// the sheet is an append-only dispatch log.
func (w *Writer) Append(ctx context.Context, records []model.BookingRecord) error {
	if len(records) == 0 {
		return nil
	}

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if err := w.ensureHeader(ctx, spreadsheetID); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	values := make([][]any, 0, len(records))
	for i := range records {
		row := records[i].Row()
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values = append(values, cells)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	for start := 0; start < len(values); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}
		batch := &sheets.ValueRange{Values: values[start:end]}

		err = common.WithRetry(ctx, func() error {
			_, appendErr := w.service.Spreadsheets.Values.Append(spreadsheetID, w.config.SheetName, batch).
				ValueInputOption("USER_ENTERED").
				InsertDataOption("INSERT_ROWS").
				Context(ctx).
				Do()
			return classifyAPIError(appendErr)
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to append batch starting at record %d: %w", start, err)
		}
	}

	w.logger.Info("bookings exported",
		"spreadsheet_id", spreadsheetID,
		"rows", len(values))

	return nil
}

// classifyAPIError tags Sheets API failures for the retry helper. Quota
// errors back off at the maximum delay; other client errors will not
// succeed on retry and fail immediately.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == 429:
		return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	default:
		return err
	}
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
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: w.config.SheetName,
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	w.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

// ensureHeader writes the column header row when the sheet is still empty.
func (w *Writer) ensureHeader(ctx context.Context, spreadsheetID string) error {
	resp, err := w.service.Spreadsheets.Values.Get(spreadsheetID, w.config.SheetName+"!A1:T1").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to read header row: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]any, len(model.BookingColumns))
	for i, col := range model.BookingColumns {
		header[i] = col
	}

	_, err = w.service.Spreadsheets.Values.Update(spreadsheetID, w.config.SheetName+"!A1", &sheets.ValueRange{
		Values: [][]any{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to write header row: %w", err)
	}

	return nil
}
