// Package google appends exported ledger rows to a Google spreadsheet.
// Authentication uses the OAuth client and token produced by the
// oauth-init command.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/AlvaroPereir4/FinScope/internal/export"
)

// Options configure the spreadsheet target. Either the JSON or the
// file variant of each credential must be set; JSON wins when both
// are.
type Options struct {
	SpreadsheetID string
	SheetName     string
	ClientJSON    string
	ClientFile    string
	TokenJSON     string
	TokenFile     string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var (
	_ export.RowWriter  = (*Client)(nil)
	_ export.RowDeleter = (*Client)(nil)
)

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	clientBytes, err := readCredential(opts.ClientJSON, opts.ClientFile)
	if err != nil {
		return nil, fmt.Errorf("oauth client: %w", err)
	}
	tokenBytes, err := readCredential(opts.TokenJSON, opts.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	cfg, err := googleoauth.ConfigFromJSON(clientBytes, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenBytes, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(cfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

func readCredential(inline, file string) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, errors.New("no credential provided")
	}
}

// Append adds the row after the sheet's last non-empty row. Column
// layout: id, kind, owner, date, description, amount, category, buyer.
func (c *Client) Append(ctx context.Context, row export.Row) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		row.ID, row.Kind, row.Owner, string(row.Date),
		row.Description, row.Amount, row.Category, row.Buyer,
	}}}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:H", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	if resp.Updates != nil {
		return resp.Updates.UpdatedRange, nil
	}
	return c.sheetName, nil
}

// Delete clears the row whose first column holds the record id. Rows
// are located by scanning the id column, so the sheet must not be
// reordered by hand.
func (c *Client) Delete(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:A").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read id column: %w", err)
	}

	for i, cells := range resp.Values {
		if len(cells) == 0 {
			continue
		}
		if fmt.Sprint(cells[0]) != id {
			continue
		}
		rng := fmt.Sprintf("%s!A%d:H%d", c.sheetName, i+1, i+1)
		if _, err := c.svc.Spreadsheets.Values.
			Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do(); err != nil {
			return fmt.Errorf("clear row %s: %w", rng, err)
		}
		return nil
	}
	// Row already absent; deletion is idempotent.
	return nil
}
