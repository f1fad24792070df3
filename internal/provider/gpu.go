package provider

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/litemon/internal/metrics"
)

// DefaultGPUTimeout bounds a single nvidia-smi invocation.
const DefaultGPUTimeout = 2 * time.Second

// nvidiaSMIArgs selects the fields ParseNvidiaSMI expects, in order.
var nvidiaSMIArgs = []string{
	"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw",
	"--format=csv,noheader,nounits",
}

// NvidiaSMI reads the first NVIDIA GPU through the nvidia-smi tool.
type NvidiaSMI struct {
	// Path is the nvidia-smi binary. Empty means look it up on PATH.
	Path string

	// Timeout bounds each invocation. Zero uses DefaultGPUTimeout.
	Timeout time.Duration

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewNvidiaSMI creates a probe that looks nvidia-smi up on PATH.
func NewNvidiaSMI() *NvidiaSMI {
	return &NvidiaSMI{run: runCommand}
}

// Probe returns the current stats of the first GPU, or metrics.ErrNoGPU when
// the tool is missing or reports no devices.
func (n *NvidiaSMI) Probe(ctx context.Context) (metrics.GPUStats, error) {
	path := n.Path
	if path == "" {
		found, err := exec.LookPath("nvidia-smi")
		if err != nil {
			return metrics.GPUStats{}, metrics.ErrNoGPU
		}
		path = found
	}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = DefaultGPUTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := n.run
	if run == nil {
		run = runCommand
	}
	out, err := run(ctx, path, nvidiaSMIArgs...)
	if err != nil {
		if ctx.Err() != nil {
			return metrics.GPUStats{}, fmt.Errorf("nvidia-smi timed out after %s: %w", timeout, ctx.Err())
		}
		// nvidia-smi exits non-zero when the driver has no devices.
		if noDevice(string(out)) {
			return metrics.GPUStats{}, metrics.ErrNoGPU
		}
		return metrics.GPUStats{}, fmt.Errorf("nvidia-smi failed: %w", err)
	}

	stats, err := ParseNvidiaSMI(string(out))
	if err != nil {
		return metrics.GPUStats{}, err
	}
	if stats == nil {
		return metrics.GPUStats{}, metrics.ErrNoGPU
	}
	return *stats, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ParseNvidiaSMI parses the first line of nvidia-smi CSV output.
// Expected input is from: nvidia-smi --query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw --format=csv,noheader,nounits
//
// Returns nil, nil if no GPU is present (empty output or an error message).
func ParseNvidiaSMI(output string) (*metrics.GPUStats, error) {
	output = strings.TrimSpace(output)
	if output == "" || noDevice(output) {
		return nil, nil
	}

	// Only the first GPU is shown.
	line := output
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	// Example: "NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65, 220"
	fields := strings.Split(line, ",")
	if len(fields) < 6 {
		return nil, fmt.Errorf("nvidia-smi output has insufficient fields: expected 6, got %d", len(fields))
	}

	stats := &metrics.GPUStats{Name: strings.TrimSpace(fields[0])}

	if s, ok := field(fields[1]); ok {
		util, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU utilization '%s': %w", s, err)
		}
		stats.Utilization = util
	}

	// Memory is reported in MiB.
	if s, ok := field(fields[2]); ok {
		used, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU memory used '%s': %w", s, err)
		}
		stats.MemoryUsed = used * 1024 * 1024
	}

	if s, ok := field(fields[3]); ok {
		total, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU memory total '%s': %w", s, err)
		}
		stats.MemoryTotal = total * 1024 * 1024
	}

	if s, ok := field(fields[4]); ok {
		temp, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU temperature '%s': %w", s, err)
		}
		stats.Temperature = temp
	}

	if s, ok := field(fields[5]); ok {
		// Power might have decimal places
		power, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU power '%s': %w", s, err)
		}
		stats.PowerWatts = int(power)
	}

	return stats, nil
}

// field trims a CSV cell and reports whether it carries a value.
func field(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "[N/A]" || s == "[Not Supported]" {
		return "", false
	}
	return s, true
}

func noDevice(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "no devices") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "error")
}
