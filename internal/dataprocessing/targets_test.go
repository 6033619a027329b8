package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargets(t *testing.T) {
	path := writeCSV(t, `Month,Country,Target
2026-01,US,3100000
2026-02,US,2800000
2026-01,DE,1200000
`)

	targets, err := ParseTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.Equal(t, 2026, targets[0].Year)
	assert.Equal(t, time.January, targets[0].Month)
	assert.Equal(t, "US", targets[0].Country)
	assert.InDelta(t, 3_100_000, targets[0].Value, 1e-9)

	assert.Equal(t, time.February, targets[1].Month)
	assert.Equal(t, "DE", targets[2].Country)
}

func TestParseTargetsValueAlias(t *testing.T) {
	path := writeCSV(t, `month,country,value
2026-03,US,1000
`)

	targets, err := ParseTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.InDelta(t, 1000, targets[0].Value, 1e-9)
}

func TestParseTargetsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			"bad month format",
			"Month,Country,Target\nJanuary 2026,US,100\n",
			"row 2: field month",
		},
		{
			"full date instead of month",
			"Month,Country,Target\n2026-01-15,US,100\n",
			"row 2: field month",
		},
		{
			"bad target",
			"Month,Country,Target\n2026-01,US,lots\n",
			"row 2: field target",
		},
		{
			"negative target",
			"Month,Country,Target\n2026-01,US,-5\n",
			"row 2",
		},
		{
			"empty country",
			"Month,Country,Target\n2026-01,,100\n",
			"row 2",
		},
		{
			"duplicate target",
			"Month,Country,Target\n2026-01,US,100\n2026-01,US,200\n",
			"duplicate target for US/2026-01",
		},
		{
			"no rows",
			"Month,Country,Target\n",
			"no rows",
		},
		{
			"missing column",
			"Period,Country,Target\n2026-01,US,100\n",
			`missing required column "month"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			_, err := ParseTargets(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}
