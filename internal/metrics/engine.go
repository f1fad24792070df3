package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/rileyhilliard/litemon/internal/logger"
)

// DefaultGPUInterval is how often an available GPU is re-read.
const DefaultGPUInterval = 2 * time.Second

// Categories selects which metric groups the engine collects.
type Categories struct {
	CPU     bool
	Memory  bool
	Disk    bool
	Network bool
	GPU     bool
}

// AllCategories enables every category.
func AllCategories() Categories {
	return Categories{CPU: true, Memory: true, Disk: true, Network: true, GPU: true}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source. Tests use it to control elapsed time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHistorySize sets the per-series history capacity.
func WithHistorySize(n int) Option {
	return func(e *Engine) {
		e.history = NewHistory(n)
	}
}

// WithGPUInterval sets the GPU re-read cadence.
func WithGPUInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.gpuInterval = d
		}
	}
}

// WithCategories restricts collection to the enabled categories.
func WithCategories(c Categories) Option {
	return func(e *Engine) {
		e.categories = c
	}
}

// WithLogger sets the logger used for collection failures.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine turns raw provider readings into derived metrics. It keeps the
// previous network counters to compute rates and pushes derived values
// into its History after every refresh.
//
// Engine is owned by a single goroutine.
type Engine struct {
	provider    Provider
	gpu         GPUProbe
	now         func() time.Time
	log         logger.Logger
	categories  Categories
	gpuInterval time.Duration
	history     *History

	cores int // fixed at the first successful CPU sample

	cpu    CPUStats
	cpuErr error

	memory    MemoryStats
	memoryErr error

	disks    []DiskStats
	disksErr error

	network    []NetworkStats
	networkErr error

	prevNet   map[string]RawNetwork
	prevNetAt time.Time

	gpuReading GPUReading
	gpuReadAt  time.Time
	gpuErr     error

	snapshot *Snapshot
}

// NewEngine creates an engine over the given provider. The GPU probe is
// consulted once here; if it reports no device the engine never asks again.
// A nil probe means no GPU.
func NewEngine(p Provider, gpu GPUProbe, opts ...Option) *Engine {
	e := &Engine{
		provider:    p,
		gpu:         gpu,
		now:         time.Now,
		log:         logger.Noop(),
		categories:  AllCategories(),
		gpuInterval: DefaultGPUInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = NewHistory(DefaultHistorySize)
	}
	if e.gpu == nil || !e.categories.GPU {
		e.gpu = noGPU{}
	}

	e.cpuErr = e.initialErr(CategoryCPU, e.categories.CPU)
	e.memoryErr = e.initialErr(CategoryMemory, e.categories.Memory)
	e.disksErr = e.initialErr(CategoryDisk, e.categories.Disk)
	e.networkErr = e.initialErr(CategoryNetwork, e.categories.Network)

	e.probeGPU()
	e.snapshot = e.buildSnapshot(time.Time{})
	return e
}

func (e *Engine) initialErr(c Category, enabled bool) error {
	if !enabled {
		return unavailable(c, ErrCategoryDisabled)
	}
	return unavailable(c, ErrNotSampled)
}

// probeGPU decides GPU availability for the lifetime of the engine.
func (e *Engine) probeGPU() {
	stats, err := e.gpu.Probe(context.Background())
	if err != nil {
		if !errors.Is(err, ErrNoGPU) {
			e.gpuErr = err
			e.log.Warn("gpu probe failed, treating as absent: %v", err)
		}
		e.gpuReading = GPUReading{Status: GPUUnavailable}
		return
	}
	e.gpuReading = GPUReading{Status: GPUAvailable, Stats: stats}
	e.gpuReadAt = e.now()
}

// Refresh pulls fresh data from the provider and recomputes every enabled
// category. A failure in one category does not affect the others.
func (e *Engine) Refresh(ctx context.Context) {
	now := e.now()
	e.provider.Refresh(ctx)

	if e.categories.CPU {
		e.refreshCPU()
	}
	if e.categories.Memory {
		e.refreshMemory()
	}
	if e.categories.Disk {
		e.refreshDisks()
	}
	if e.categories.Network {
		e.refreshNetwork(now)
	}
	e.refreshGPU(ctx, now)

	e.record()
	e.snapshot = e.buildSnapshot(now)
}

func (e *Engine) refreshCPU() {
	raw, err := e.provider.CPU()
	if err != nil {
		e.cpuErr = e.failed(CategoryCPU, e.cpuErr, err)
		return
	}

	if e.cores == 0 {
		e.cores = len(raw.Usage)
	}

	usage := make([]float64, e.cores)
	copy(usage, raw.Usage)
	freq := make([]uint64, e.cores)
	copy(freq, raw.FrequencyMHz)

	e.cpu = CPUStats{
		Brand:        raw.Brand,
		Cores:        e.cores,
		Usage:        usage,
		FrequencyMHz: freq,
		Mean:         mean(usage),
		LoadAvg:      raw.LoadAvg,
	}
	e.cpuErr = nil
}

func (e *Engine) refreshMemory() {
	raw, err := e.provider.Memory()
	if err != nil {
		e.memoryErr = e.failed(CategoryMemory, e.memoryErr, err)
		return
	}
	e.memory = MemoryStats(raw)
	e.memoryErr = nil
}

func (e *Engine) refreshDisks() {
	raw, err := e.provider.Disks()
	if err != nil {
		e.disksErr = e.failed(CategoryDisk, e.disksErr, err)
		return
	}

	disks := make([]DiskStats, 0, len(raw))
	for _, d := range raw {
		disks = append(disks, DiskStats{
			Name:       d.Name,
			MountPoint: d.MountPoint,
			Kind:       d.Kind,
			Removable:  d.Removable,
			Total:      d.Total,
			Available:  d.Available,
			Used:       saturatingSub(d.Total, d.Available),
		})
	}
	e.disks = disks
	e.disksErr = nil
}

// failed logs a collection failure and returns the category's new error.
// The first failure after a good or unsampled state is logged at warn,
// repeats at debug.
func (e *Engine) failed(c Category, prev, err error) error {
	if prev == nil || errors.Is(prev, ErrNotSampled) {
		e.log.Warn("%s collection failed: %v", c, err)
	} else {
		e.log.Debug("%s collection still failing: %v", c, err)
	}
	return unavailable(c, err)
}

// refreshNetwork derives rates from the previous counters. The baseline is
// only replaced on success, so after a failed tick the next rate covers the
// longer interval.
func (e *Engine) refreshNetwork(now time.Time) {
	raw, err := e.provider.Networks()
	if err != nil {
		e.networkErr = e.failed(CategoryNetwork, e.networkErr, err)
		return
	}

	seconds := now.Sub(e.prevNetAt).Seconds()
	stats := make([]NetworkStats, 0, len(raw))
	next := make(map[string]RawNetwork, len(raw))

	for _, n := range raw {
		s := NetworkStats{
			Interface: n.Name,
			RxBytes:   n.RxBytes,
			TxBytes:   n.TxBytes,
		}
		if prev, ok := e.prevNet[n.Name]; ok {
			s.RxRate = Rate(prev.RxBytes, n.RxBytes, seconds)
			s.TxRate = Rate(prev.TxBytes, n.TxBytes, seconds)
		}
		stats = append(stats, s)
		next[n.Name] = n
	}

	e.network = stats
	e.networkErr = nil
	e.prevNet = next
	e.prevNetAt = now
}

// refreshGPU re-reads an available GPU on its own cadence. A failed re-read
// keeps the last good value until the next cycle.
func (e *Engine) refreshGPU(ctx context.Context, now time.Time) {
	if !e.gpuReading.Available() {
		return
	}
	if now.Sub(e.gpuReadAt) < e.gpuInterval {
		return
	}
	e.gpuReadAt = now

	stats, err := e.gpu.Probe(ctx)
	if err != nil {
		e.log.Debug("gpu read failed, keeping last value: %v", err)
		return
	}
	e.gpuReading.Stats = stats
}

// record pushes this refresh's derived values into the history.
func (e *Engine) record() {
	if e.cpuErr == nil {
		e.history.Push(KeyCPU, e.cpu.Mean)
	}
	if e.memoryErr == nil {
		e.history.Push(KeyMemory, e.memory.UsedPercent())
	}
	if e.networkErr == nil {
		for _, n := range e.network {
			e.history.Push(n.Interface, n.RxRate+n.TxRate)
		}
	}
	if e.gpuReading.Available() {
		e.history.Push(KeyGPU, e.gpuReading.Stats.Utilization)
	}
}

func (e *Engine) buildSnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		Time:       at,
		CPU:        e.cpu,
		CPUErr:     e.cpuErr,
		Memory:     e.memory,
		MemoryErr:  e.memoryErr,
		Disks:      e.disks,
		DisksErr:   e.disksErr,
		Network:    e.network,
		NetworkErr: e.networkErr,
		GPU:        e.gpuReading,
	}
}

// CPUStats returns the CPU reading from the last refresh.
func (e *Engine) CPUStats() (CPUStats, error) {
	if e.cpuErr != nil {
		return CPUStats{}, e.cpuErr
	}
	return e.cpu, nil
}

// MemoryStats returns the memory reading from the last refresh.
func (e *Engine) MemoryStats() (MemoryStats, error) {
	if e.memoryErr != nil {
		return MemoryStats{}, e.memoryErr
	}
	return e.memory, nil
}

// DiskStats returns the mounted filesystems from the last refresh.
func (e *Engine) DiskStats() ([]DiskStats, error) {
	if e.disksErr != nil {
		return nil, e.disksErr
	}
	return e.disks, nil
}

// NetworkStats returns per-interface counters and rates from the last refresh.
func (e *Engine) NetworkStats() ([]NetworkStats, error) {
	if e.networkErr != nil {
		return nil, e.networkErr
	}
	return e.network, nil
}

// GPUStats returns the last good GPU reading. When no GPU was found the
// error wraps ErrNoGPU on every call.
func (e *Engine) GPUStats() (GPUStats, error) {
	if !e.categories.GPU {
		return GPUStats{}, unavailable(CategoryGPU, ErrCategoryDisabled)
	}
	if !e.gpuReading.Available() {
		return GPUStats{}, unavailable(CategoryGPU, ErrNoGPU)
	}
	return e.gpuReading.Stats, nil
}

// GPUProbeErr returns why the startup GPU probe failed, or nil when a GPU
// was found or there simply is none.
func (e *Engine) GPUProbeErr() error {
	return e.gpuErr
}

// GPU returns the tagged GPU reading.
func (e *Engine) GPU() GPUReading {
	return e.gpuReading
}

// Snapshot returns the snapshot produced by the last refresh. Before the
// first refresh every enabled category reports ErrNotSampled.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot
}

// History returns the engine's sample history.
func (e *Engine) History() *History {
	return e.history
}

// Categories returns the enabled categories.
func (e *Engine) Categories() Categories {
	return e.categories
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
