package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestMetricColor(t *testing.T) {
	tests := []struct {
		name       string
		percent    float64
		thresholds Thresholds
		expected   lipgloss.Color
	}{
		{"default healthy", 0, DefaultThresholds, ColorHealthy},
		{"default just below warning", 69.9, DefaultThresholds, ColorHealthy},
		{"default at warning", 70, DefaultThresholds, ColorWarning},
		{"default at critical", 90, DefaultThresholds, ColorCritical},
		{"default over 100", 150, DefaultThresholds, ColorCritical},
		{"core healthy", 49.9, CoreThresholds, ColorHealthy},
		{"core warning", 50, CoreThresholds, ColorWarning},
		{"core critical", 80, CoreThresholds, ColorCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MetricColor(tt.percent, tt.thresholds))
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		percent    float64
		wantFilled int
		wantWidth  int
	}{
		{"empty", 10, 0, 0, 10},
		{"half", 10, 50, 5, 10},
		{"full", 10, 100, 10, 10},
		{"clamped above", 10, 180, 10, 10},
		{"clamped below", 10, -20, 0, 10},
		{"minimum width", 0, 50, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.width, tt.percent, DefaultThresholds)
			assert.Equal(t, tt.wantWidth, lipgloss.Width(bar))
			assert.Equal(t, tt.wantFilled, strings.Count(bar, "▰"))
		})
	}
}

func TestThresholdValues(t *testing.T) {
	assert.Equal(t, Thresholds{Warning: 70, Critical: 90}, DefaultThresholds)
	assert.Equal(t, Thresholds{Warning: 50, Critical: 80}, CoreThresholds)
}
