package metrics

import "context"

// Provider supplies raw counters from the host. Refresh pulls a fresh
// reading; the accessors return the values captured by the last Refresh.
// Each accessor fails independently.
type Provider interface {
	Refresh(ctx context.Context)
	CPU() (RawCPU, error)
	Memory() (RawMemory, error)
	Disks() ([]RawDisk, error)
	Networks() ([]RawNetwork, error)
}

// GPUProbe reads the first GPU. It returns ErrNoGPU when no compatible
// device exists.
type GPUProbe interface {
	Probe(ctx context.Context) (GPUStats, error)
}

// RawCPU is the provider's CPU reading.
type RawCPU struct {
	Brand        string
	Usage        []float64
	FrequencyMHz []uint64
	LoadAvg      [3]float64
}

// RawMemory is the provider's memory reading.
type RawMemory struct {
	Total     uint64
	Used      uint64
	Free      uint64
	Available uint64
	SwapTotal uint64
	SwapUsed  uint64
	SwapFree  uint64
}

// RawDisk is the provider's reading for one mounted filesystem.
// Used is not trusted; the engine derives it from Total and Available.
type RawDisk struct {
	Name       string
	MountPoint string
	Kind       string
	Removable  bool
	Total      uint64
	Available  uint64
}

// RawNetwork carries lifetime byte counters for one interface.
type RawNetwork struct {
	Name    string
	RxBytes uint64
	TxBytes uint64
}

// noGPU is the probe used when GPU collection is disabled.
type noGPU struct{}

func (noGPU) Probe(context.Context) (GPUStats, error) {
	return GPUStats{}, ErrNoGPU
}
