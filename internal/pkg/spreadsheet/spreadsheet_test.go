package spreadsheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndReadXLSX(t *testing.T) {
	data, err := Build(
		Sheet{
			Name:   "Call Logs",
			Header: []string{"employee_id", "call_date", "call_duration_minutes", "call_count"},
			Rows: [][]interface{}{
				{"emp-1", "2024-01-15", 180, 25},
				{"emp-2", "2024-01-15", 90, 10},
			},
		},
		Sheet{Name: "Instructions", Header: []string{"note"}, Rows: [][]interface{}{{"one row per employee per day"}}},
	)
	require.NoError(t, err)

	rows, err := ReadRows(bytes.NewReader(data), "upload.XLSX")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"employee_id", "call_date", "call_duration_minutes", "call_count"}, rows[0])
	assert.Equal(t, []string{"emp-1", "2024-01-15", "180", "25"}, rows[1])
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffemployee_id, call_date,call_duration_minutes,call_count\nemp-1,2024-01-15,180,25\nemp-2,2024-01-15,90\n"

	rows, err := ReadRows(strings.NewReader(input), "logs.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	idx := HeaderIndex(rows[0])
	assert.Equal(t, 0, idx["employee_id"])
	assert.Equal(t, 1, idx["call_date"])
	assert.Equal(t, "", Cell(rows[2], idx["call_count"]))
	assert.Equal(t, "90", Cell(rows[2], idx["call_duration_minutes"]))
}

func TestReadRows_Unsupported(t *testing.T) {
	_, err := ReadRows(strings.NewReader("x"), "logs.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-01-15", "01-15-24", "1/15/24", "15/01/2024", "15-Jan-2024", " 2024/01/15 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank([]string{"", "  "}))
	assert.True(t, IsBlank(nil))
	assert.False(t, IsBlank([]string{"", "x"}))
}
