package output

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/okian/warcut/internal/domain/report"
	"github.com/okian/warcut/pkg/logger"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`) //nolint:gochecknoglobals // compiled once

// SheetsClient uploads the summary table to a Google Sheet.
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        logger.Logger
}

// NewSheetsClient creates a client from service account credentials.
func NewSheetsClient(ctx context.Context, credentialsJSON []byte, sheetURL, sheetName string) (*SheetsClient, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewSheetsClientWithService(srv, sheetURL, sheetName)
}

// NewSheetsClientWithService wraps an existing Sheets service.
func NewSheetsClientWithService(srv *sheets.Service, sheetURL, sheetName string) (*SheetsClient, error) {
	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, err
	}
	if sheetName == "" {
		sheetName = "Summary"
	}
	return &SheetsClient{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.Get().Named("sheets"),
	}, nil
}

func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: %s", ErrSpreadsheetURL, url)
	}
	return matches[1], nil
}

// Name identifies the sink in logs and metrics.
func (c *SheetsClient) Name() string { return "sheets" }

// Write replaces the sheet contents with the summary table.
func (c *SheetsClient) Write(ctx context.Context, r *report.Report) error {
	t := r.SummaryTable()

	rows := make([][]interface{}, 0, len(t.Rows)+1)
	rows = append(rows, toCells(t.Header))
	for _, row := range t.Rows {
		rows = append(rows, toCells(row))
	}

	clearRange := fmt.Sprintf("%s!A:ZZ", c.sheetName)
	_, err := c.service.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	_, err = c.service.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to sheet: %w", err)
	}

	c.logger.Info(ctx, "summary uploaded",
		logger.String("spreadsheet", c.spreadsheetID),
		logger.String("sheet", c.sheetName),
		logger.Int("rows", len(t.Rows)),
	)
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
