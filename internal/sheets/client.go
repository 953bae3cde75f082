package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Tab is one worksheet of the destination spreadsheet.
type Tab struct {
	ID    int64
	Title string
}

// Client wraps the Sheets API for a single spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

func New(ctx context.Context, spreadsheetID string, httpClient *http.Client) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Tabs lists the spreadsheet's worksheets as (id, title) pairs.
func (c *Client) Tabs(ctx context.Context) ([]Tab, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.sheetId", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	tabs := make([]Tab, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties == nil {
			continue
		}
		tabs = append(tabs, Tab{ID: s.Properties.SheetId, Title: s.Properties.Title})
	}
	return tabs, nil
}

// Clear wipes a tab's contents by title.
func (c *Client) Clear(ctx context.Context, title string) error {
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, title, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear tab %q: %w", title, err)
	}
	return nil
}

// Write replaces a tab's values starting at its top-left cell, RAW input.
func (c *Client) Write(ctx context.Context, title string, values [][]interface{}) error {
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, title, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write tab %q: %w", title, err)
	}
	return nil
}

// Duplicate copies an existing tab within the spreadsheet and renames the
// copy, returning the new tab's id.
func (c *Client) Duplicate(ctx context.Context, sheetID int64, title string) (int64, error) {
	copied, err := c.svc.Spreadsheets.Sheets.CopyTo(c.spreadsheetID, sheetID,
		&sheetsapi.CopySheetToAnotherSpreadsheetRequest{DestinationSpreadsheetId: c.spreadsheetID}).
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("copy tab %d: %w", sheetID, err)
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{
					SheetId: copied.SheetId,
					Title:   title,
				},
				Fields: "title",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("rename tab %d to %q: %w", copied.SheetId, title, err)
	}
	return copied.SheetId, nil
}

// BatchDelete removes the given tabs in one batchUpdate. An empty id list is
// a no-op.
func (c *Client) BatchDelete(ctx context.Context, sheetIDs []int64) error {
	if len(sheetIDs) == 0 {
		return nil
	}
	reqs := make([]*sheetsapi.Request, 0, len(sheetIDs))
	for _, id := range sheetIDs {
		reqs = append(reqs, &sheetsapi.Request{
			DeleteSheet: &sheetsapi.DeleteSheetRequest{SheetId: id},
		})
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch delete %d tabs: %w", len(sheetIDs), err)
	}
	return nil
}

// IsRateLimit reports whether err is a Sheets quota/rate-limit rejection,
// the only class of destination error worth retrying.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return true
		}
		if apiErr.Code == http.StatusForbidden && strings.Contains(apiErr.Message, "Quota exceeded") {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "RATE_LIMIT_EXCEEDED") || strings.Contains(msg, "Quota exceeded")
}
