package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bachat/internal/core"
)

// SheetsClient exports expenses to a Google Sheets spreadsheet. Each expense
// occupies one row with its record id in column A, which is how deletions
// find the row again.
type SheetsClient struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var (
	_ ExpenseWriter  = (*SheetsClient)(nil)
	_ ExpenseDeleter = (*SheetsClient)(nil)
)

// NewSheetsClient creates a Sheets client authenticated with service-account
// credentials taken from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsClient(ctx context.Context, spreadsheetID, sheetName string) (*SheetsClient, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsClient{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendExpense writes the expense to the next free row. Layout:
// A id, B user, C date, D category, E amount in rupees, F description, G tags.
func (c *SheetsClient) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:G%d", c.sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		strconv.FormatInt(e.ID, 10),
		e.UserID,
		e.Date.Format("2006-01-02"),
		e.Category,
		e.Amount.Rupees(),
		e.Description,
		strings.Join(e.Tags, ","),
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update row in sheet %s: %w", c.sheetName, err)
	}

	return dataRange, nil
}

// DeleteExpense clears the row whose column A matches the record id. A row
// that was never exported is not an error; there is simply nothing to clear.
func (c *SheetsClient) DeleteExpense(ctx context.Context, id int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read ids from %s: %w", c.sheetName, err)
	}

	want := strconv.FormatInt(id, 10)
	for i, row := range resp.Values {
		if len(row) == 0 || strings.TrimSpace(fmt.Sprint(row[0])) != want {
			continue
		}
		rowNum := i + 1
		clearRange := fmt.Sprintf("%s!A%d:G%d", c.sheetName, rowNum, rowNum)
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clear row %d in sheet %s: %w", rowNum, c.sheetName, err)
		}
		return nil
	}

	slog.InfoContext(ctx, "Expense row not found in sheet, nothing to clear", "expense_id", id)
	return nil
}
