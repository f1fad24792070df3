package metrics

import "time"

// CPUStats contains per-core and aggregate CPU usage.
type CPUStats struct {
	Brand        string     `json:"brand"`
	Cores        int        `json:"cores"`
	Usage        []float64  `json:"usage"` // percent 0-100 per core
	FrequencyMHz []uint64   `json:"frequency_mhz"`
	Mean         float64    `json:"mean"`
	LoadAvg      [3]float64 `json:"load_avg"`
}

// MemoryStats contains primary memory and swap usage in bytes.
type MemoryStats struct {
	Total     uint64 `json:"total"`
	Used      uint64 `json:"used"`
	Free      uint64 `json:"free"`
	Available uint64 `json:"available"`

	SwapTotal uint64 `json:"swap_total"`
	SwapUsed  uint64 `json:"swap_used"`
	SwapFree  uint64 `json:"swap_free"`
}

// UsedPercent returns used memory as a percentage of total.
func (m MemoryStats) UsedPercent() float64 {
	return UsagePercent(m.Used, m.Total)
}

// SwapPercent returns used swap as a percentage of total swap.
func (m MemoryStats) SwapPercent() float64 {
	return UsagePercent(m.SwapUsed, m.SwapTotal)
}

// DiskStats contains capacity information for one mounted filesystem.
type DiskStats struct {
	Name       string `json:"name"`
	MountPoint string `json:"mount_point"`
	Kind       string `json:"kind"`
	Removable  bool   `json:"removable"`
	Total      uint64 `json:"total"`
	Available  uint64 `json:"available"`
	Used       uint64 `json:"used"`
}

// UsedPercent returns used space as a percentage of total.
func (d DiskStats) UsedPercent() float64 {
	return UsagePercent(d.Used, d.Total)
}

// NetworkStats contains lifetime counters and derived throughput for one interface.
type NetworkStats struct {
	Interface string  `json:"interface"`
	RxBytes   uint64  `json:"rx_bytes"`
	TxBytes   uint64  `json:"tx_bytes"`
	RxRate    float64 `json:"rx_rate"` // bytes/second
	TxRate    float64 `json:"tx_rate"` // bytes/second
}

// GPUStats contains usage information for the first GPU.
type GPUStats struct {
	Name        string  `json:"name"`
	Utilization float64 `json:"utilization"`
	MemoryUsed  uint64  `json:"memory_used"`
	MemoryTotal uint64  `json:"memory_total"`
	Temperature int     `json:"temperature"`
	PowerWatts  int     `json:"power_watts"`
}

// MemoryPercent returns VRAM usage as a percentage of total.
func (g GPUStats) MemoryPercent() float64 {
	return UsagePercent(g.MemoryUsed, g.MemoryTotal)
}

// GPUStatus is the availability tag of a GPUReading.
type GPUStatus int

const (
	GPUUnavailable GPUStatus = iota
	GPUAvailable
)

// String returns a human-readable status string.
func (s GPUStatus) String() string {
	switch s {
	case GPUAvailable:
		return "available"
	default:
		return "unavailable"
	}
}

// GPUReading is either Unavailable or Available with the last good stats.
type GPUReading struct {
	Status GPUStatus
	Stats  GPUStats
}

// Available reports whether the reading carries stats.
func (r GPUReading) Available() bool {
	return r.Status == GPUAvailable
}

// Snapshot is one immutable batch of derived metrics taken at a single instant.
// Each category is independently present or failed.
type Snapshot struct {
	Time time.Time

	CPU    CPUStats
	CPUErr error

	Memory    MemoryStats
	MemoryErr error

	Disks    []DiskStats
	DisksErr error

	Network    []NetworkStats
	NetworkErr error

	GPU GPUReading
}
