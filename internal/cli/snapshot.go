package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/litemon/internal/errors"
	"github.com/rileyhilliard/litemon/internal/metrics"
	"github.com/rileyhilliard/litemon/internal/monitor"
	"github.com/rileyhilliard/litemon/internal/provider"
	"github.com/rileyhilliard/litemon/internal/util"
)

// DefaultSnapshotWait is the gap between the two refreshes of a snapshot.
// Rates need two samples.
const DefaultSnapshotWait = time.Second

var (
	snapshotJSON bool
	snapshotWait time.Duration
)

// snapshotCmd prints one report and exits.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one metrics report and exit",
	Long: `Sample the machine twice and print the derived metrics once.

The two samples are --wait apart so network rates and CPU usage have a
baseline. Categories that could not be read are listed as unavailable.

Examples:
  litemon snapshot
  litemon snapshot --json
  litemon snapshot --wait 2s --gpu=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the report as JSON")
	snapshotCmd.Flags().DurationVar(&snapshotWait, "wait", DefaultSnapshotWait, "time between the two samples")
}

// Report is the snapshot output.
type Report struct {
	System      provider.System        `json:"system"`
	Time        time.Time              `json:"time"`
	CPU         *metrics.CPUStats      `json:"cpu,omitempty"`
	Memory      *metrics.MemoryStats   `json:"memory,omitempty"`
	Disks       []metrics.DiskStats    `json:"disks,omitempty"`
	Network     []metrics.NetworkStats `json:"network,omitempty"`
	GPU         *metrics.GPUStats      `json:"gpu,omitempty"`
	Unavailable map[string]string      `json:"unavailable,omitempty"`
}

func snapshotCommand(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		if snapshotJSON {
			_ = WriteJSONFromError(out, err)
		}
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	engine := newEngine(cfg)
	if err := sample(ctx, engine, snapshotWait); err != nil {
		if snapshotJSON {
			_ = WriteJSONFromError(out, err)
		}
		return err
	}

	report := buildReport(engine, provider.ReadSystem(ctx))
	return emitReport(out, report, gpuProbeError(engine), snapshotJSON)
}

// emitReport prints the report. A GPU probe failure still prints everything
// that was collected, then fails the command.
func emitReport(w io.Writer, report Report, gpuErr error, asJSON bool) error {
	if asJSON {
		env := JSONEnvelope{Success: gpuErr == nil, Data: report, Error: ErrorToJSON(gpuErr)}
		if err := writeJSONEnvelope(w, env); err != nil {
			return err
		}
		return gpuErr
	}
	writeReport(w, report)
	return gpuErr
}

// gpuProbeError reports a GPU that is present but could not be read. A
// machine without a GPU is not an error.
func gpuProbeError(engine *metrics.Engine) error {
	err := engine.GPUProbeErr()
	if err == nil {
		return nil
	}
	return errors.WrapWithCode(err, errors.ErrGPU,
		"GPU probe failed",
		"Check that nvidia-smi runs on its own, or pass --gpu=false")
}

// sample refreshes the engine twice, wait apart.
func sample(ctx context.Context, engine *metrics.Engine, wait time.Duration) error {
	engine.Refresh(ctx)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.WrapWithCode(ctx.Err(), errors.ErrCollect,
			"Snapshot interrupted before the second sample", "")
	case <-timer.C:
	}

	engine.Refresh(ctx)
	return nil
}

// buildReport collects the engine's latest results. Disabled categories are
// left out entirely; other failures are listed under Unavailable.
func buildReport(engine *metrics.Engine, sys provider.System) Report {
	r := Report{
		System:      sys,
		Time:        engine.Snapshot().Time,
		Unavailable: map[string]string{},
	}

	note := func(c metrics.Category, err error) {
		var ce *metrics.CategoryError
		if stderrors.Is(err, metrics.ErrCategoryDisabled) {
			return
		}
		if stderrors.As(err, &ce) && ce.Cause != nil {
			r.Unavailable[string(c)] = ce.Cause.Error()
			return
		}
		r.Unavailable[string(c)] = err.Error()
	}

	if cpu, err := engine.CPUStats(); err == nil {
		r.CPU = &cpu
	} else {
		note(metrics.CategoryCPU, err)
	}
	if mem, err := engine.MemoryStats(); err == nil {
		r.Memory = &mem
	} else {
		note(metrics.CategoryMemory, err)
	}
	if disks, err := engine.DiskStats(); err == nil {
		r.Disks = disks
	} else {
		note(metrics.CategoryDisk, err)
	}
	if nets, err := engine.NetworkStats(); err == nil {
		r.Network = nets
	} else {
		note(metrics.CategoryNetwork, err)
	}
	if gpu, err := engine.GPUStats(); err == nil {
		r.GPU = &gpu
	} else if probeErr := engine.GPUProbeErr(); probeErr != nil {
		r.Unavailable[string(metrics.CategoryGPU)] = probeErr.Error()
	} else {
		note(metrics.CategoryGPU, err)
	}

	if len(r.Unavailable) == 0 {
		r.Unavailable = nil
	}
	return r
}

// reportOrder is the order and label of each category in the plain report.
var reportOrder = []struct {
	category metrics.Category
	label    string
}{
	{metrics.CategoryCPU, "CPU"},
	{metrics.CategoryMemory, "Memory"},
	{metrics.CategoryDisk, "Disk"},
	{metrics.CategoryNetwork, "Network"},
	{metrics.CategoryGPU, "GPU"},
}

// writeReport prints the report as aligned plain text.
func writeReport(w io.Writer, r Report) {
	header := []string{monitor.TitleStyle.Render("litemon")}
	if r.System.Hostname != "" {
		header = append(header, r.System.Hostname)
	}
	if r.System.Platform != "" {
		header = append(header, r.System.Platform)
	}
	if !r.Time.IsZero() {
		header = append(header, r.Time.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w, strings.Join(header, " | "))

	row := func(label, format string, args ...interface{}) {
		fmt.Fprintf(w, "%s %s\n", monitor.LabelStyle.Render(fmt.Sprintf("%-8s", label)), fmt.Sprintf(format, args...))
	}
	pct := func(p float64, t monitor.Thresholds) string {
		return monitor.MetricStyle(p, t).Render(fmt.Sprintf("%.1f%%", p))
	}

	if c := r.CPU; c != nil {
		row("CPU", "%s avg %s load %.2f %.2f %.2f (%s)",
			c.Brand, pct(c.Mean, monitor.CoreThresholds), c.LoadAvg[0], c.LoadAvg[1], c.LoadAvg[2],
			util.Count(c.Cores, "core", "cores"))
	}
	if m := r.Memory; m != nil {
		row("Memory", "%s / %s (%s)",
			metrics.FormatBytes(m.Used), metrics.FormatBytes(m.Total), pct(m.UsedPercent(), monitor.DefaultThresholds))
		if m.SwapTotal > 0 {
			row("Swap", "%s / %s (%s)",
				metrics.FormatBytes(m.SwapUsed), metrics.FormatBytes(m.SwapTotal), pct(m.SwapPercent(), monitor.DefaultThresholds))
		}
	}
	for _, d := range r.Disks {
		marker := ""
		if d.Removable {
			marker = " [removable]"
		}
		row("Disk", "%s (%s) %s / %s (%s)%s",
			d.MountPoint, d.Kind, metrics.FormatBytes(d.Used), metrics.FormatBytes(d.Total),
			pct(d.UsedPercent(), monitor.DefaultThresholds), marker)
	}
	for _, n := range r.Network {
		row("Network", "%s ↓%s ↑%s", n.Interface, metrics.FormatRate(n.RxRate), metrics.FormatRate(n.TxRate))
	}
	if g := r.GPU; g != nil {
		row("GPU", "%s util %s VRAM %s / %s temp %d°C power %dW",
			g.Name, pct(g.Utilization, monitor.DefaultThresholds),
			metrics.FormatBytes(g.MemoryUsed), metrics.FormatBytes(g.MemoryTotal), g.Temperature, g.PowerWatts)
	}

	for _, c := range reportOrder {
		if reason, ok := r.Unavailable[string(c.category)]; ok {
			row(c.label, "%s", monitor.MutedStyle.Render("unavailable: "+reason))
		}
	}
}
