package registryimport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := "Register Number,Email\nREG001,alice@college.edu\nREG002,bob@college.edu\n"

	rows, err := Parse(strings.NewReader(data), "students.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{RegisterNumber: "REG001", Email: "alice@college.edu"}, rows[0])
	assert.Equal(t, Row{RegisterNumber: "REG002", Email: "bob@college.edu"}, rows[1])
}

func TestParseCSVHeaderVariants(t *testing.T) {
	// Extra columns, mixed case and padded headers are accepted.
	data := "Name,  register number , EMAIL\nAlice,REG001,alice@college.edu\n"

	rows, err := Parse(strings.NewReader(data), "students.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "REG001", rows[0].RegisterNumber)
	assert.Equal(t, "alice@college.edu", rows[0].Email)
}

func TestParseCSVMissingColumns(t *testing.T) {
	data := "Register Number,Name\nREG001,Alice\n"

	_, err := Parse(strings.NewReader(data), "students.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestParseCSVMalformedRowAborts(t *testing.T) {
	data := "Register Number,Email\nREG001,alice@college.edu\nREG002,\n"

	_, err := Parse(strings.NewReader(data), "students.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseSkipsBlankRows(t *testing.T) {
	data := "Register Number,Email\nREG001,alice@college.edu\n,\n"

	rows, err := Parse(strings.NewReader(data), "students.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse(strings.NewReader("x"), "students.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Register Number", "Email"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"REG010", "carol@college.edu"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := Parse(&buf, "students.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{RegisterNumber: "REG010", Email: "carol@college.edu"}, rows[0])
}
