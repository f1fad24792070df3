package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Force TrueColor output in tests so we can verify ANSI color codes
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestPeak(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"all zero", []float64{0, 0, 0}, 0},
		{"mixed", []float64{10, 2048, 512}, 2048},
		{"negatives ignored", []float64{-5, -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, peak(tt.data))
		})
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		name     string
		val      int
		maxVal   int
		expected int
	}{
		{"below zero", -5, 10, 0},
		{"within range", 5, 10, 5},
		{"above max", 15, 10, 10},
		{"at max", 10, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clampInt(tt.val, tt.maxVal))
		})
	}
}

func TestResampleData(t *testing.T) {
	tests := []struct {
		name       string
		data       []float64
		targetSize int
		expected   []float64
	}{
		{"empty", nil, 5, nil},
		{"zero target", []float64{1, 2}, 0, nil},
		{"shorter than target is unchanged", []float64{1, 2, 3}, 10, []float64{1, 2, 3}},
		{"exact size is unchanged", []float64{1, 2, 3}, 3, []float64{1, 2, 3}},
		{"halved keeps bucket max", []float64{1, 5, 2, 8, 3, 4}, 3, []float64{5, 8, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resampleData(tt.data, tt.targetSize))
		})
	}
}

func TestResampleData_DownsamplingPreservesPeaks(t *testing.T) {
	data := make([]float64, 100)
	data[37] = 99

	result := resampleData(data, 10)
	require.Len(t, result, 10)
	assert.Contains(t, result, 99.0)
}

func TestRenderSparkline(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		assert.Empty(t, RenderSparkline(nil, 10, 0, ColorGraph))
	})

	t.Run("zero width", func(t *testing.T) {
		assert.Empty(t, RenderSparkline([]float64{1}, 0, 0, ColorGraph))
	})

	t.Run("right aligned when short", func(t *testing.T) {
		out := RenderSparkline([]float64{0, 100}, 6, 100, ColorGraph)
		assert.Equal(t, 6, lipgloss.Width(out))
		assert.Contains(t, out, "    ▁█")
	})

	t.Run("all zero rates stay flat", func(t *testing.T) {
		out := RenderSparkline([]float64{0, 0, 0}, 3, 0, ColorGraph)
		assert.Contains(t, out, "▁▁▁")
	})

	t.Run("scales to peak", func(t *testing.T) {
		out := RenderSparkline([]float64{0, 1024, 2048}, 3, 0, ColorGraph)
		assert.Contains(t, out, "▁")
		assert.Contains(t, out, "█")
		assert.Equal(t, 3, lipgloss.Width(out))
	})

	t.Run("long series is compressed to width", func(t *testing.T) {
		data := make([]float64, 50)
		for i := range data {
			data[i] = float64(i)
		}
		out := RenderSparkline(data, 20, 0, ColorGraph)
		assert.Equal(t, 20, lipgloss.Width(out))
		assert.False(t, strings.HasPrefix(out, " "))
	})
}
