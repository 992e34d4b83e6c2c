package recipients

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers a recipient file must have.
const (
	NameColumn  = "Names"
	EmailColumn = "Emails"
)

// Recipient is one row of an imported file.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Parse reads recipients from r, picking the format by the file extension:
// .csv, or .xlsx/.xlsm for spreadsheets (first sheet).
func Parse(filename string, r io.Reader) ([]Recipient, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ParseCSV reads a CSV file with a header row.
func ParseCSV(r io.Reader) ([]Recipient, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return fromRows(rows)
}

// ParseXLSX reads the first sheet of a spreadsheet with a header row.
func ParseXLSX(r io.Reader) ([]Recipient, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return fromRows(rows)
}

// fromRows maps rows onto recipients using the header in rows[0].
// Rows without a name or an email are dropped.
func fromRows(rows [][]string) ([]Recipient, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	nameIdx, emailIdx := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case NameColumn:
			nameIdx = i
		case EmailColumn:
			emailIdx = i
		}
	}
	if nameIdx < 0 || emailIdx < 0 {
		return nil, ErrMissingColumns
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]Recipient, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name, email := cell(row, nameIdx), cell(row, emailIdx)
		if name == "" || email == "" {
			continue
		}
		out = append(out, Recipient{Name: name, Email: email})
	}
	return out, nil
}
