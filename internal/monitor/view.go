package monitor

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/litemon/internal/metrics"
)

const (
	// defaultWidth is used until the terminal reports a size.
	defaultWidth = 80

	// twoColumnWidth is the narrowest terminal that gets two columns.
	twoColumnWidth = 80

	// chromeRows is the height taken by everything around the core list:
	// header, footer, CPU panel borders and its model, gauge and load lines.
	chromeRows = 7
)

// CoreRows returns the rows left for the core list on a terminal of the
// given height.
func CoreRows(height int) int {
	if rows := height - chromeRows; rows > 0 {
		return rows
	}
	return 0
}

// CoreSlots returns how many cores fit on one page at the given terminal
// height. The list is two cores wide, so each row holds two.
func CoreSlots(height int) int {
	return PageSizeFor(2 * CoreRows(height))
}

// FrameConfig carries the display settings BuildFrame needs besides the
// engine and state.
type FrameConfig struct {
	Hostname string
	Keys     KeyMap
}

// Frame is the layout tree for one screen: a header, two columns of panels
// and a footer, or the help overlay.
type Frame struct {
	Width  int
	Height int

	Header string
	Left   []Panel
	Right  []Panel
	Footer string

	// Help is the rendered help box. When set it replaces the body.
	Help string
}

// BuildFrame assembles the layout tree from the engine's latest results.
// A category that is unavailable this tick simply has no panel.
func BuildFrame(engine *metrics.Engine, state *State, cfg FrameConfig, width, height int) Frame {
	if width <= 0 {
		width = defaultWidth
	}

	f := Frame{Width: width, Height: height}
	snap := engine.Snapshot()
	f.Header = renderHeader(cfg.Hostname, snap.Time, width)
	f.Footer = renderFooter(cfg.Keys, width)

	if state.ShowHelp {
		f.Help = renderHelp(cfg.Keys)
		return f
	}

	leftWidth, rightWidth := columnWidths(width)

	if cpu, err := engine.CPUStats(); err == nil {
		f.Left = append(f.Left, cpuPanel(cpu, state, leftWidth))
	}

	if mem, err := engine.MemoryStats(); err == nil {
		f.Right = append(f.Right, memoryPanel(mem, rightWidth))
	}
	if disks, err := engine.DiskStats(); err == nil {
		f.Right = append(f.Right, diskPanel(disks, rightWidth))
	}
	if nets, err := engine.NetworkStats(); err == nil {
		for _, n := range nets {
			f.Right = append(f.Right, networkPanel(n, engine.History().Series(n.Interface), rightWidth))
		}
	}
	if engine.Categories().GPU {
		f.Right = append(f.Right, gpuPanel(engine.GPU(), engine.History().Series(metrics.KeyGPU), rightWidth))
	}

	return f
}

// columnWidths splits the terminal width between the two columns. Narrow
// terminals stack both columns at full width.
func columnWidths(width int) (left, right int) {
	if width < twoColumnWidth {
		return width, width
	}
	left = width / 2
	return left, width - left
}

// Render composes the frame into the string handed to the backend.
func (f Frame) Render() string {
	if f.Help != "" {
		return lipgloss.Place(
			f.Width,
			f.Height,
			lipgloss.Center,
			lipgloss.Center,
			f.Help,
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(ColorDarkBg),
		)
	}

	leftWidth, rightWidth := columnWidths(f.Width)
	left := renderColumn(f.Left, leftWidth)
	right := renderColumn(f.Right, rightWidth)

	var body string
	switch {
	case f.Width < twoColumnWidth:
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	var b strings.Builder
	b.WriteString(f.Header)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(f.Footer)
	return b.String()
}

func renderColumn(panels []Panel, width int) string {
	if len(panels) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(panels))
	for _, p := range panels {
		rendered = append(rendered, p.Render(width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

// renderHeader renders the title bar with the host name and refresh time.
func renderHeader(hostname string, refreshed time.Time, width int) string {
	title := TitleStyle.Render("litemon")

	var parts []string
	if hostname != "" {
		parts = append(parts, hostname)
	}
	if refreshed.IsZero() {
		parts = append(parts, "waiting for first sample")
	} else {
		parts = append(parts, "updated "+refreshed.Format("15:04:05"))
	}

	stats := LabelStyle.Render(" | " + strings.Join(parts, " | "))
	return HeaderStyle.MaxWidth(width).Render(title + stats)
}

// renderFooter renders the short key help, truncated to fit inside the
// footer padding.
func renderFooter(keys KeyMap, width int) string {
	h := help.New()
	h.Width = width - FooterStyle.GetHorizontalPadding()
	return FooterStyle.Render(h.ShortHelpView(keys.ShortHelp()))
}
