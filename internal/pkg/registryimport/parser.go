// Package registryimport parses bulk student registry uploads. Admins
// upload a CSV or XLSX sheet with a "Register Number" and "Email" column;
// every row becomes a pending registry entry for their college.
package registryimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one registry entry parsed from an uploaded sheet.
type Row struct {
	RegisterNumber string
	Email          string
}

// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format: expected .csv or .xlsx")

// Parse reads registry rows from the uploaded file. The filename extension
// selects the format. The sheet must carry "Register Number" and "Email"
// headers (case-insensitive, surrounding whitespace ignored); a malformed
// row aborts the whole import so a partial batch is never admitted.
func Parse(r io.Reader, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx":
		return parseXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rowsFromRecords(records)
}

func parseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read xlsx rows: %w", err)
	}
	return rowsFromRecords(records)
}

func rowsFromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	regIdx, emailIdx := -1, -1
	for i, header := range records[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "register number":
			regIdx = i
		case "email":
			emailIdx = i
		}
	}
	if regIdx < 0 || emailIdx < 0 {
		return nil, fmt.Errorf(`missing required columns: file must have "Register Number" and "Email" headers`)
	}

	rows := make([]Row, 0, len(records)-1)
	for n, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		if regIdx >= len(record) || emailIdx >= len(record) {
			return nil, fmt.Errorf("row %d is malformed: missing columns", n+2)
		}

		reg := strings.TrimSpace(record[regIdx])
		email := strings.TrimSpace(record[emailIdx])
		if reg == "" || email == "" {
			return nil, fmt.Errorf("row %d is malformed: empty register number or email", n+2)
		}

		rows = append(rows, Row{RegisterNumber: reg, Email: email})
	}
	return rows, nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
