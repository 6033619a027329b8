package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toplinecli/internal/diagnostics"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseActuals(t *testing.T) {
	path := writeCSV(t, `Date,Country,Value
2026-01-01,US,1234.50
2026-01-02,US,2345.00
2026-01-01,DE,999.99
`)

	actuals, err := ParseActuals(path, nil)
	require.NoError(t, err)
	require.Len(t, actuals, 3)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), actuals[0].Date)
	assert.Equal(t, "US", actuals[0].Country)
	assert.InDelta(t, 1234.50, actuals[0].Value, 1e-9)
	assert.Equal(t, "DE", actuals[2].Country)
}

func TestParseActualsColumnAliases(t *testing.T) {
	path := writeCSV(t, `date,country,revenue
2026-01-01,US,100
`)

	actuals, err := ParseActuals(path, nil)
	require.NoError(t, err)
	require.Len(t, actuals, 1)
	assert.InDelta(t, 100, actuals[0].Value, 1e-9)
}

func TestParseActualsDateFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"iso", "2026-01-15", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"slashes", "2026/01/15", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"us style", "01/15/2026", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, "Date,Country,Value\n"+tt.raw+",US,100\n")
			actuals, err := ParseActuals(path, nil)
			require.NoError(t, err)
			require.Len(t, actuals, 1)
			assert.Equal(t, tt.want, actuals[0].Date)
		})
	}
}

func TestParseActualsBlankValueIsGap(t *testing.T) {
	path := writeCSV(t, `Date,Country,Value
2026-01-01,US,100
2026-01-02,US,
2026-01-03,US,300
`)

	diags := diagnostics.NewCollector(nil)
	actuals, err := ParseActuals(path, diags)
	require.NoError(t, err)

	assert.Len(t, actuals, 2)
	assert.Equal(t, 1, diags.CountByCode()[diagnostics.CodeSkippedRow])
	assert.Equal(t, 3, diags.All()[0].Row)
}

func TestParseActualsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			"bad date",
			"Date,Country,Value\nnot-a-date,US,100\n",
			"row 2: field date",
		},
		{
			"bad value",
			"Date,Country,Value\n2026-01-01,US,abc\n",
			"row 2: field value",
		},
		{
			"empty country",
			"Date,Country,Value\n2026-01-01,,100\n",
			"row 2: empty country",
		},
		{
			"missing column",
			"Date,Region,Value\n2026-01-01,US,100\n",
			`missing required column "country"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			_, err := ParseActuals(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestParseActualsMissingFile(t *testing.T) {
	_, err := ParseActuals(filepath.Join(t.TempDir(), "absent.csv"), nil)
	require.Error(t, err)
}
