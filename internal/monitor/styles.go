package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for metrics
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

// Thresholds is a warning/critical pair of percentages.
type Thresholds struct {
	Warning  float64
	Critical float64
}

var (
	// DefaultThresholds color memory, disk and GPU gauges.
	DefaultThresholds = Thresholds{Warning: 70, Critical: 90}

	// CoreThresholds color individual cores, which spike more often.
	CoreThresholds = Thresholds{Warning: 50, Critical: 80}
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	borderStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)
)

// MetricColor returns green, amber or red for a percentage using t.
func MetricColor(percent float64, t Thresholds) lipgloss.Color {
	switch {
	case percent >= t.Critical:
		return ColorCritical
	case percent >= t.Warning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyle returns a style colored by MetricColor.
func MetricStyle(percent float64, t Thresholds) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColor(percent, t))
}

// ProgressBar renders a bracketless gauge of the given width, colored by t.
func ProgressBar(width int, percent float64, t Thresholds) string {
	if width < 1 {
		width = 1
	}
	percent = clampPercent(percent)

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return MetricStyle(percent, t).Render(bar)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
