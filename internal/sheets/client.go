// Package sheets wraps the Google Sheets API behind the narrow surface the
// export bridge needs.  The client is constructed once at bootstrap and
// injected; when no credentials file or spreadsheet id is configured it is
// disabled and every call is a no-op, so the rest of the application never
// has to care whether the integration exists.
package sheets

import (
	"context"
	"log"
	"os"

	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// Client talks to one spreadsheet.  A nil service means disabled.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewFromEnv builds a Client from GOOGLE_CREDENTIALS_PATH and
// GOOGLE_SHEET_ID.  Missing configuration or an unreadable credentials file
// yields a disabled client rather than an error: the survey must run even
// when the export integration is absent.
func NewFromEnv(ctx context.Context) *Client {
	credPath := os.Getenv("GOOGLE_CREDENTIALS_PATH")
	sheetID := os.Getenv("GOOGLE_SHEET_ID")
	if credPath == "" || sheetID == "" {
		log.Printf("sheets: not configured, export disabled")
		return &Client{}
	}
	if _, err := os.Stat(credPath); err != nil {
		log.Printf("sheets: credentials file %s not readable, export disabled: %v", credPath, err)
		return &Client{}
	}
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credPath),
		option.WithScopes(gsheets.SpreadsheetsScope))
	if err != nil {
		log.Printf("sheets: init failed, export disabled: %v", err)
		return &Client{}
	}
	return &Client{svc: svc, spreadsheetID: sheetID}
}

// Enabled reports whether the client can reach a spreadsheet.
func (c *Client) Enabled() bool { return c != nil && c.svc != nil }

// Append adds rows after the last row of the given A1 range.
func (c *Client) Append(ctx context.Context, rangeA1 string, rows [][]any) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rangeA1, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	return err
}

// Rewrite clears the given range and writes rows starting at startCell.
func (c *Client) Rewrite(ctx context.Context, clearRange, startCell string, rows [][]any) error {
	if !c.Enabled() {
		return nil
	}
	if _, err := c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, clearRange, &gsheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return err
	}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, startCell, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	return err
}
