// Package provider reads raw metrics from the local host.
//
// Host implements metrics.Provider on top of gopsutil. NvidiaSMI implements
// metrics.GPUProbe by querying the nvidia-smi tool.
package provider

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/rileyhilliard/litemon/internal/metrics"
)

// sysClassBlock is where Linux exposes block device attributes.
var sysClassBlock = "/sys/class/block"

// Host reads CPU, memory, disk and network counters through gopsutil.
// Each category is read in Refresh and cached, along with its error, until
// the next Refresh.
type Host struct {
	// Sources, replaceable in tests.
	times      func(ctx context.Context) ([]cpu.TimesStat, error)
	info       func(ctx context.Context) ([]cpu.InfoStat, error)
	loadAvg    func(ctx context.Context) (*load.AvgStat, error)
	virtual    func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swap       func(ctx context.Context) (*mem.SwapMemoryStat, error)
	partitions func(ctx context.Context) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	counters   func(ctx context.Context) ([]net.IOCountersStat, error)
	removable  func(device string) bool

	prevTimes []cpu.TimesStat

	cpu    metrics.RawCPU
	cpuErr error

	memory    metrics.RawMemory
	memoryErr error

	disks    []metrics.RawDisk
	disksErr error

	networks    []metrics.RawNetwork
	networksErr error
}

// NewHost creates a provider for the local machine.
func NewHost() *Host {
	return &Host{
		times:   func(ctx context.Context) ([]cpu.TimesStat, error) { return cpu.TimesWithContext(ctx, true) },
		info:    cpu.InfoWithContext,
		loadAvg: load.AvgWithContext,
		virtual: mem.VirtualMemoryWithContext,
		swap:    mem.SwapMemoryWithContext,
		partitions: func(ctx context.Context) ([]disk.PartitionStat, error) {
			return disk.PartitionsWithContext(ctx, false)
		},
		usage:     disk.UsageWithContext,
		counters:  func(ctx context.Context) ([]net.IOCountersStat, error) { return net.IOCountersWithContext(ctx, true) },
		removable: isRemovable,
	}
}

// Refresh reads every category from the OS.
func (h *Host) Refresh(ctx context.Context) {
	h.cpu, h.cpuErr = h.readCPU(ctx)
	h.memory, h.memoryErr = h.readMemory(ctx)
	h.disks, h.disksErr = h.readDisks(ctx)
	h.networks, h.networksErr = h.readNetworks(ctx)
}

// CPU returns the CPU reading from the last Refresh.
func (h *Host) CPU() (metrics.RawCPU, error) {
	return h.cpu, h.cpuErr
}

// Memory returns the memory reading from the last Refresh.
func (h *Host) Memory() (metrics.RawMemory, error) {
	return h.memory, h.memoryErr
}

// Disks returns the mounted filesystems from the last Refresh.
func (h *Host) Disks() ([]metrics.RawDisk, error) {
	return h.disks, h.disksErr
}

// Networks returns per-interface counters from the last Refresh.
func (h *Host) Networks() ([]metrics.RawNetwork, error) {
	return h.networks, h.networksErr
}

// readCPU computes per-core usage from the delta between this read and the
// previous one. The first read reports 0 for every core.
func (h *Host) readCPU(ctx context.Context) (metrics.RawCPU, error) {
	times, err := h.times(ctx)
	if err != nil {
		return metrics.RawCPU{}, err
	}

	usage := coreUsage(h.prevTimes, times)
	h.prevTimes = times

	raw := metrics.RawCPU{
		Usage:        usage,
		FrequencyMHz: make([]uint64, len(usage)),
	}

	// Model and clock speed are best effort; usage alone is a valid reading.
	if infos, err := h.info(ctx); err == nil && len(infos) > 0 {
		raw.Brand = strings.TrimSpace(infos[0].ModelName)
		for i := range raw.FrequencyMHz {
			src := infos[0]
			if i < len(infos) {
				src = infos[i]
			}
			raw.FrequencyMHz[i] = uint64(src.Mhz)
		}
	}

	if avg, err := h.loadAvg(ctx); err == nil && avg != nil {
		raw.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	}

	return raw, nil
}

// coreUsage returns the busy percentage of each core between two reads.
func coreUsage(prev, cur []cpu.TimesStat) []float64 {
	usage := make([]float64, len(cur))
	for i, c := range cur {
		if i >= len(prev) {
			continue
		}
		p := prev[i]
		dt := totalTime(c) - totalTime(p)
		di := (c.Idle + c.Iowait) - (p.Idle + p.Iowait)
		if dt > 0 {
			usage[i] = clampPercent(100 * (1 - di/dt))
		}
	}
	return usage
}

// totalTime sums the CPU time columns. Guest time is already counted in
// user time on Linux.
func totalTime(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func (h *Host) readMemory(ctx context.Context) (metrics.RawMemory, error) {
	vm, err := h.virtual(ctx)
	if err != nil {
		return metrics.RawMemory{}, err
	}

	raw := metrics.RawMemory{
		Total:     vm.Total,
		Used:      vm.Used,
		Free:      vm.Free,
		Available: vm.Available,
	}

	// Hosts without swap report an error on some platforms; treat as none.
	if sw, err := h.swap(ctx); err == nil && sw != nil {
		raw.SwapTotal = sw.Total
		raw.SwapUsed = sw.Used
		raw.SwapFree = sw.Free
	}

	return raw, nil
}

func (h *Host) readDisks(ctx context.Context) ([]metrics.RawDisk, error) {
	parts, err := h.partitions(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(parts))
	disks := make([]metrics.RawDisk, 0, len(parts))
	for _, p := range parts {
		if seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true

		u, err := h.usage(ctx, p.Mountpoint)
		if err != nil || u.Total == 0 {
			continue
		}

		disks = append(disks, metrics.RawDisk{
			Name:       p.Device,
			MountPoint: p.Mountpoint,
			Kind:       p.Fstype,
			Removable:  h.removable(p.Device),
			Total:      u.Total,
			Available:  u.Free,
		})
	}
	return disks, nil
}

func (h *Host) readNetworks(ctx context.Context) ([]metrics.RawNetwork, error) {
	counters, err := h.counters(ctx)
	if err != nil {
		return nil, err
	}

	nets := make([]metrics.RawNetwork, 0, len(counters))
	for _, c := range counters {
		nets = append(nets, metrics.RawNetwork{
			Name:    c.Name,
			RxBytes: c.BytesRecv,
			TxBytes: c.BytesSent,
		})
	}
	return nets, nil
}

// isRemovable reads the kernel's removable flag for a block device. For a
// partition the flag lives on the parent disk.
func isRemovable(device string) bool {
	name := filepath.Base(device)
	if name == "" || name == "." || name == "/" {
		return false
	}

	dir := filepath.Join(sysClassBlock, name)
	if readFlag(filepath.Join(dir, "removable")) {
		return true
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	return readFlag(filepath.Join(filepath.Dir(resolved), "removable"))
}

func readFlag(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}
