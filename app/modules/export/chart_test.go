package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderProgressionChart(t *testing.T) {
	l := buildSheet(t)

	data, err := RenderProgressionChart(l)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngMagic))
	assert.Equal(t, pngMagic, data[:len(pngMagic)])
}

func TestRenderProgressionChartPlaceholder(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *ledger.Ledger
	}{
		{
			name:  "empty ledger",
			build: func(t *testing.T) *ledger.Ledger { return ledger.New() },
		},
		{
			name: "players without recorded scores",
			build: func(t *testing.T) *ledger.Ledger {
				l := ledger.New()
				l.AddPlayer()
				l.AddPlayer()
				return l
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderProgressionChart(tt.build(t))
			require.NoError(t, err)
			require.Greater(t, len(data), len(pngMagic))
			assert.Equal(t, pngMagic, data[:len(pngMagic)])
		})
	}
}

func TestChartFilename(t *testing.T) {
	now := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "score-stats-2026-08-24.png", ChartFilename(now))
}
