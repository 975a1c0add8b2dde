package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	ports "github.com/Karlitosc01/Budget-Analysis/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads a bill catalogue from a Google Sheet. Rows are expected to
// have the columns name, type, amount, day, lastDate; the first row is a
// header and is skipped.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.BillSource = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Bills"),
// GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS for service account auth.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Bills"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using service account
// credentials from GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON"))
	credentialsFile := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_FILE"))
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var creds []byte
	var err error

	switch {
	case credentialsJSON != "":
		creds = []byte(credentialsJSON)
	case credentialsFile != "":
		creds, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
	default:
		return nil, errors.New("missing credentials (set GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// LoadBills reads the configured sheet and converts each row to a bill.
// Rows that fail validation are skipped with a warning rather than failing
// the whole load.
func (c *Client) LoadBills(ctx context.Context) ([]core.Bill, error) {
	rng := fmt.Sprintf("%s!A2:E", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", c.sheetName, err)
	}

	bills := make([]core.Bill, 0, len(resp.Values))
	for i, row := range resp.Values {
		bill, err := billFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping sheet row", "row", i+2, "error", err)
			continue
		}
		bills = append(bills, bill)
	}

	slog.InfoContext(ctx, "Loaded bills from sheet",
		"sheet", c.sheetName,
		"count", len(bills))
	return bills, nil
}

func billFromRow(row []any) (core.Bill, error) {
	if len(row) < 4 {
		return core.Bill{}, fmt.Errorf("expected at least 4 columns, got %d", len(row))
	}

	name := strings.TrimSpace(cellString(row[0]))
	billType := core.BillType(strings.TrimSpace(cellString(row[1])))

	amount, err := core.ParseDecimalToCents(cellString(row[2]))
	if err != nil {
		return core.Bill{}, fmt.Errorf("amount: %w", err)
	}

	day, err := strconv.Atoi(strings.TrimSpace(cellString(row[3])))
	if err != nil {
		return core.Bill{}, fmt.Errorf("day: %w", err)
	}

	bill := core.Bill{
		Name:   name,
		Type:   billType,
		Amount: core.Money{Cents: amount},
		Day:    day,
	}

	if len(row) > 4 {
		if raw := strings.TrimSpace(cellString(row[4])); raw != "" {
			date, err := core.ParseDate(raw)
			if err != nil {
				return core.Bill{}, fmt.Errorf("lastDate: %w", err)
			}
			bill.LastDate = date
		}
	}

	if err := bill.Validate(); err != nil {
		return core.Bill{}, err
	}
	return bill, nil
}

func cellString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
