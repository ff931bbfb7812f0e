// Package sheets exports a finished scrape to Google Sheets.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Comba92/paginegialle-scraper/models"

	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer handles writing businesses to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a Google Sheets writer. Credentials come from the
// given file path or from the GOOGLE_SHEETS_CREDENTIALS environment
// variable.
func NewWriter(spreadsheetID, credentialsPath string) (*Writer, error) {
	ctx := context.Background()

	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file, got type: %v", creds["type"])
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// CreateSheetAndWriteBusinesses creates a new sheet at the front of the
// spreadsheet and writes the records to it. The query string, when not
// empty, lands in a metadata row above the header. Returns the created
// sheet's name and ID (gid).
func (w *Writer) CreateSheetAndWriteBusinesses(sheetName string, businesses []models.Business, query string) (string, int64, error) {
	sheetName = sanitizeSheetName(sheetName)
	if len(sheetName) > 100 {
		sheetName = sheetName[:100]
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						Index: 0,
					},
				},
			},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}

	var values [][]interface{}
	if query != "" {
		values = append(values, []interface{}{"Query", query})
	}
	values = append(values, []interface{}{"Name", "Address", "Phones", "City"})
	for _, b := range businesses {
		values = append(values, []interface{}{b.Name, b.Address, b.Phones, b.City})
	}

	valueRange := &sheets.ValueRange{Values: values}
	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("%s!A1", sheetName), valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	log.Info("wrote businesses to Google Sheets", "count", len(businesses), "sheet", sheetName)
	return sheetName, sheetID, nil
}

// sanitizeSheetName removes characters Google Sheets rejects in names
func sanitizeSheetName(name string) string {
	result := name
	for _, char := range []string{"/", "\\", "?", "*", "[", "]"} {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
