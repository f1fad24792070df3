package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/litemon/internal/metrics"
)

// Panel is one bordered box in the layout tree.
type Panel struct {
	Title string
	Value string
	Lines []string
}

// Height returns the rendered height including borders.
func (p Panel) Height() int {
	return len(p.Lines) + 2
}

// Render draws the panel at the given outer width:
//
//	╭─ Title ─────────────── Value ╮
//	│ line                         │
//	╰──────────────────────────────╯
func (p Panel) Render(width int) string {
	if width < 10 {
		width = 10
	}

	lines := make([]string, 0, len(p.Lines)+2)
	lines = append(lines, panelHeader(p.Title, p.Value, width))
	for _, l := range p.Lines {
		lines = append(lines, panelLine(l, width))
	}
	lines = append(lines, borderStyle.Render("╰"+strings.Repeat("─", width-2)+"╯"))
	return strings.Join(lines, "\n")
}

func panelHeader(title, value string, width int) string {
	// "╭─ " + title + " " ... " " + value + " ╮"
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2
	if value == "" {
		rightWidth = 1
	}

	fill := width - leftWidth - rightWidth
	if fill < 1 {
		fill = 1
	}

	if value == "" {
		return borderStyle.Render("╭─ ") + TitleStyle.Render(title) +
			borderStyle.Render(" "+strings.Repeat("─", fill)+"╮")
	}
	return borderStyle.Render("╭─ ") +
		TitleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fill)+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

func panelLine(content string, width int) string {
	inner := width - 4
	if lipgloss.Width(content) > inner {
		content = lipgloss.NewStyle().MaxWidth(inner).Render(content)
	}
	padding := inner - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}
	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// innerWidth is the content width of a panel with the given outer width.
func innerWidth(width int) int {
	if w := width - 4; w > 0 {
		return w
	}
	return 1
}

// gaugeLine renders "label ▰▰▱▱ detail". The bar takes whatever width is
// left after the label and detail.
func gaugeLine(label string, percent float64, detail string, inner int, t Thresholds) string {
	labelWidth := lipgloss.Width(label)
	detailWidth := lipgloss.Width(detail)
	barWidth := inner - labelWidth - detailWidth - 2
	if barWidth < 4 {
		barWidth = 4
	}
	return LabelStyle.Render(label) + " " + ProgressBar(barWidth, percent, t) + " " + ValueStyle.Render(detail)
}

// usageDetail formats "used / total (pct%)".
func usageDetail(used, total uint64, percent float64) string {
	return fmt.Sprintf("%s / %s (%.1f%%)", metrics.FormatBytes(used), metrics.FormatBytes(total), percent)
}

// cpuPanel shows the CPU model, the mean gauge, load averages and one page
// of the per-core list in two columns.
func cpuPanel(cpu metrics.CPUStats, state *State, width int) Panel {
	inner := innerWidth(width)
	lines := []string{
		gaugeLine("Avg", cpu.Mean, fmt.Sprintf("%5.1f%%", cpu.Mean), inner, CoreThresholds),
		LabelStyle.Render("Load ") + ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", cpu.LoadAvg[0], cpu.LoadAvg[1], cpu.LoadAvg[2])),
	}
	if cpu.Brand != "" {
		lines = append([]string{MutedStyle.Render(cpu.Brand)}, lines...)
	}

	start, end := visibleRange(state.ScrollOffset, state.PageSize, cpu.Cores)
	cellWidth := (inner - 1) / 2
	for i := start; i < end; i += 2 {
		row := coreCell(cpu, i, cellWidth)
		if i+1 < end {
			row += " " + coreCell(cpu, i+1, cellWidth)
		}
		lines = append(lines, row)
	}

	return Panel{
		Title: "CPU",
		Value: coreIndicator(start, end, cpu.Cores),
		Lines: lines,
	}
}

// visibleRange returns the half-open index range shown for one page.
func visibleRange(offset, pageSize, total int) (start, end int) {
	start = offset
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

// coreIndicator formats the 1-based visible range, e.g. "Cores 1-8/16".
func coreIndicator(start, end, total int) string {
	if total == 0 {
		return "Cores 0/0"
	}
	return fmt.Sprintf("Cores %d-%d/%d", start+1, end, total)
}

func coreCell(cpu metrics.CPUStats, i, width int) string {
	usage := cpu.Usage[i]
	label := fmt.Sprintf("C%-2d", i)
	detail := fmt.Sprintf("%5.1f%%", usage)
	if i < len(cpu.FrequencyMHz) && cpu.FrequencyMHz[i] > 0 {
		detail = fmt.Sprintf("%.2fGHz %s", float64(cpu.FrequencyMHz[i])/1000, detail)
	}
	cell := gaugeLine(label, usage, detail, width, CoreThresholds)
	if pad := width - lipgloss.Width(cell); pad > 0 {
		cell += strings.Repeat(" ", pad)
	}
	return cell
}

func memoryPanel(mem metrics.MemoryStats, width int) Panel {
	inner := innerWidth(width)
	lines := []string{
		gaugeLine("RAM ", mem.UsedPercent(), usageDetail(mem.Used, mem.Total, mem.UsedPercent()), inner, DefaultThresholds),
	}
	if mem.SwapTotal > 0 {
		lines = append(lines, gaugeLine("Swap", mem.SwapPercent(), usageDetail(mem.SwapUsed, mem.SwapTotal, mem.SwapPercent()), inner, DefaultThresholds))
	} else {
		lines = append(lines, LabelStyle.Render("Swap ")+MutedStyle.Render("none"))
	}
	return Panel{Title: "Memory", Value: metrics.FormatBytes(mem.Total), Lines: lines}
}

func diskPanel(disks []metrics.DiskStats, width int) Panel {
	inner := innerWidth(width)
	lines := make([]string, 0, len(disks))
	for _, d := range disks {
		label := d.MountPoint
		if d.Removable {
			label += " [removable]"
		}
		lines = append(lines, gaugeLine(label, d.UsedPercent(), usageDetail(d.Used, d.Total, d.UsedPercent()), inner, DefaultThresholds))
	}
	if len(lines) == 0 {
		lines = append(lines, MutedStyle.Render("No mounted filesystems"))
	}
	return Panel{Title: "Disks", Lines: lines}
}

// networkPanel titles the panel with the interface and its current rates and
// draws the combined rate history as a sparkline.
func networkPanel(n metrics.NetworkStats, history []float64, width int) Panel {
	title := fmt.Sprintf("%s: ↓%s ↑%s", n.Interface, metrics.FormatRate(n.RxRate), metrics.FormatRate(n.TxRate))
	spark := RenderSparkline(history, innerWidth(width), 0, ColorGraph)
	if spark == "" {
		spark = MutedStyle.Render("collecting...")
	}
	return Panel{Title: title, Lines: []string{spark}}
}

func gpuPanel(reading metrics.GPUReading, history []float64, width int) Panel {
	if !reading.Available() {
		return Panel{Title: "GPU", Lines: []string{MutedStyle.Render("No GPU detected")}}
	}

	g := reading.Stats
	inner := innerWidth(width)
	lines := []string{
		gaugeLine("Util", g.Utilization, fmt.Sprintf("%5.1f%%", g.Utilization), inner, DefaultThresholds),
		gaugeLine("VRAM", g.MemoryPercent(), usageDetail(g.MemoryUsed, g.MemoryTotal, g.MemoryPercent()), inner, DefaultThresholds),
		LabelStyle.Render("Temp ") + ValueStyle.Render(fmt.Sprintf("%d°C", g.Temperature)) +
			LabelStyle.Render("  Power ") + ValueStyle.Render(fmt.Sprintf("%dW", g.PowerWatts)),
	}
	if spark := RenderSparkline(history, inner, 100, ColorGraph); spark != "" {
		lines = append(lines, spark)
	}
	return Panel{Title: "GPU", Value: g.Name, Lines: lines}
}
