package rules

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsReader reads rule sheets from a Google Sheets spreadsheet.
type SheetsReader struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsReader creates a reader for spreadsheetID. Client options carry
// credentials and endpoint; see CredentialsOption.
func NewSheetsReader(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsReader, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &SheetsReader{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// CredentialsOption returns the client option for a service-account
// credentials file.
func CredentialsOption(path string) option.ClientOption {
	return option.WithCredentialsFile(path)
}

func (s *SheetsReader) ReadRange(ctx context.Context, sheet, rangeSpec string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, a1Range(sheet, rangeSpec)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", sheet, rangeSpec, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = fmt.Sprint(c)
		}
		rows[i] = cells
	}
	return rows, nil
}

// a1Range builds "Sheet!A1:F" notation, quoting sheet names that need it.
func a1Range(sheet, rangeSpec string) string {
	name := sheet
	if strings.ContainsAny(sheet, " !'") {
		name = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	if rangeSpec == "" {
		return name
	}
	return name + "!" + rangeSpec
}
