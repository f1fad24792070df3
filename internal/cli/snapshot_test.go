package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lmerrors "github.com/rileyhilliard/litemon/internal/errors"
	"github.com/rileyhilliard/litemon/internal/metrics"
	"github.com/rileyhilliard/litemon/internal/provider"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// fakeProvider serves fixed readings; network counters advance by step on
// every refresh.
type fakeProvider struct {
	refreshes int
	rx, tx    uint64
	step      uint64
	diskErr   error
}

func (p *fakeProvider) Refresh(context.Context) {
	if p.refreshes > 0 {
		p.rx += p.step
		p.tx += p.step / 2
	}
	p.refreshes++
}

func (p *fakeProvider) CPU() (metrics.RawCPU, error) {
	return metrics.RawCPU{
		Brand:        "Test CPU",
		Usage:        []float64{20, 40},
		FrequencyMHz: []uint64{2000, 3000},
		LoadAvg:      [3]float64{0.5, 0.25, 0.1},
	}, nil
}

func (p *fakeProvider) Memory() (metrics.RawMemory, error) {
	return metrics.RawMemory{Total: 4 << 30, Used: 1 << 30, Free: 3 << 30, Available: 3 << 30}, nil
}

func (p *fakeProvider) Disks() ([]metrics.RawDisk, error) {
	if p.diskErr != nil {
		return nil, p.diskErr
	}
	return []metrics.RawDisk{
		{Name: "/dev/sda1", MountPoint: "/", Kind: "ext4", Total: 100 << 30, Available: 75 << 30},
		{Name: "/dev/sdb1", MountPoint: "/media/usb", Kind: "vfat", Removable: true, Total: 8 << 30, Available: 8 << 30},
	}, nil
}

func (p *fakeProvider) Networks() ([]metrics.RawNetwork, error) {
	return []metrics.RawNetwork{{Name: "eth0", RxBytes: p.rx, TxBytes: p.tx}}, nil
}

type fixedGPU struct {
	stats metrics.GPUStats
	err   error
}

func (g fixedGPU) Probe(context.Context) (metrics.GPUStats, error) { return g.stats, g.err }

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(time.Second)
	return now
}

func sampledEngine(t *testing.T, p *fakeProvider, gpu metrics.GPUProbe, opts ...metrics.Option) *metrics.Engine {
	t.Helper()
	clock := &stepClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]metrics.Option{metrics.WithClock(clock.Now)}, opts...)
	engine := metrics.NewEngine(p, gpu, opts...)
	require.NoError(t, sample(context.Background(), engine, time.Millisecond))
	return engine
}

func TestSampleRefreshesTwice(t *testing.T) {
	p := &fakeProvider{step: 2048}
	engine := sampledEngine(t, p, fixedGPU{err: metrics.ErrNoGPU})

	assert.Equal(t, 2, p.refreshes)

	nets, err := engine.NetworkStats()
	require.NoError(t, err)
	require.Len(t, nets, 1)
	assert.Greater(t, nets[0].RxRate, 0.0)
}

func TestSampleCancelled(t *testing.T) {
	p := &fakeProvider{}
	engine := metrics.NewEngine(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sample(ctx, engine, time.Hour)
	require.Error(t, err)
	assert.True(t, lmerrors.IsCode(err, lmerrors.ErrCollect))
	assert.Equal(t, 1, p.refreshes)
}

func TestBuildReport(t *testing.T) {
	gpu := fixedGPU{stats: metrics.GPUStats{Name: "RTX", Utilization: 45, MemoryUsed: 1 << 30, MemoryTotal: 8 << 30, Temperature: 60, PowerWatts: 120}}

	t.Run("all categories", func(t *testing.T) {
		engine := sampledEngine(t, &fakeProvider{step: 1024}, gpu)
		r := buildReport(engine, provider.System{Hostname: "box"})

		assert.Equal(t, "box", r.System.Hostname)
		assert.False(t, r.Time.IsZero())
		require.NotNil(t, r.CPU)
		assert.InDelta(t, 30.0, r.CPU.Mean, 0.001)
		require.NotNil(t, r.Memory)
		assert.InDelta(t, 25.0, r.Memory.UsedPercent(), 0.001)
		assert.Len(t, r.Disks, 2)
		assert.Len(t, r.Network, 1)
		require.NotNil(t, r.GPU)
		assert.Equal(t, "RTX", r.GPU.Name)
		assert.Nil(t, r.Unavailable)
	})

	t.Run("failed and absent categories", func(t *testing.T) {
		p := &fakeProvider{diskErr: errors.New("statfs failed")}
		engine := sampledEngine(t, p, fixedGPU{err: metrics.ErrNoGPU})
		r := buildReport(engine, provider.System{})

		assert.Nil(t, r.Disks)
		assert.Nil(t, r.GPU)
		assert.Equal(t, map[string]string{
			"disk": "statfs failed",
			"gpu":  metrics.ErrNoGPU.Error(),
		}, r.Unavailable)
	})

	t.Run("gpu probe failure", func(t *testing.T) {
		engine := sampledEngine(t, &fakeProvider{}, fixedGPU{err: errors.New("NVML: driver/library version mismatch")})
		r := buildReport(engine, provider.System{})

		assert.Nil(t, r.GPU)
		assert.Equal(t, map[string]string{"gpu": "NVML: driver/library version mismatch"}, r.Unavailable)
	})

	t.Run("disabled categories are omitted", func(t *testing.T) {
		cats := metrics.AllCategories()
		cats.GPU = false
		cats.Disk = false
		engine := sampledEngine(t, &fakeProvider{}, gpu, metrics.WithCategories(cats))
		r := buildReport(engine, provider.System{})

		assert.Nil(t, r.Disks)
		assert.Nil(t, r.GPU)
		assert.Nil(t, r.Unavailable)
	})
}

func TestWriteReport(t *testing.T) {
	gpu := fixedGPU{stats: metrics.GPUStats{Name: "RTX", Utilization: 45, MemoryUsed: 1 << 30, MemoryTotal: 8 << 30, Temperature: 60, PowerWatts: 120}}
	engine := sampledEngine(t, &fakeProvider{step: 2000}, gpu)
	r := buildReport(engine, provider.System{Hostname: "box", Platform: "ubuntu 24.04"})
	r.Unavailable = map[string]string{"network": "no counters"}

	var buf bytes.Buffer
	writeReport(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "litemon | box | ubuntu 24.04 | 2025-01-01 12:00:02")
	assert.Contains(t, out, "Test CPU avg 30.0% load 0.50 0.25 0.10 (2 cores)")
	assert.Contains(t, out, "1.00 GB / 4.00 GB (25.0%)")
	assert.Contains(t, out, "/ (ext4) 25.00 GB / 100.00 GB (25.0%)")
	assert.Contains(t, out, "/media/usb (vfat) 0 B / 8.00 GB (0.0%) [removable]")
	assert.Contains(t, out, "eth0 ↓1.95 KB/s ↑1000 B/s")
	assert.Contains(t, out, "RTX util 45.0% VRAM 1.00 GB / 8.00 GB temp 60°C power 120W")
	assert.Contains(t, out, "unavailable: no counters")
	assert.NotContains(t, out, "Swap")
}

func TestReportJSON(t *testing.T) {
	engine := sampledEngine(t, &fakeProvider{step: 1024}, fixedGPU{err: metrics.ErrNoGPU})
	r := buildReport(engine, provider.System{Hostname: "box"})

	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, r))

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			System struct {
				Hostname string `json:"hostname"`
			} `json:"system"`
			CPU struct {
				Cores int       `json:"cores"`
				Usage []float64 `json:"usage"`
			} `json:"cpu"`
			Network []struct {
				Interface string  `json:"interface"`
				RxRate    float64 `json:"rx_rate"`
			} `json:"network"`
			GPU         *json.RawMessage  `json:"gpu"`
			Unavailable map[string]string `json:"unavailable"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Equal(t, "box", env.Data.System.Hostname)
	assert.Equal(t, 2, env.Data.CPU.Cores)
	assert.Equal(t, []float64{20, 40}, env.Data.CPU.Usage)
	require.Len(t, env.Data.Network, 1)
	assert.Equal(t, "eth0", env.Data.Network[0].Interface)
	assert.InDelta(t, 1024.0, env.Data.Network[0].RxRate, 0.001)
	assert.Nil(t, env.Data.GPU)
	assert.Contains(t, env.Data.Unavailable, "gpu")
}

func TestGPUProbeError(t *testing.T) {
	tests := []struct {
		name    string
		gpu     metrics.GPUProbe
		wantErr bool
	}{
		{name: "gpu present", gpu: fixedGPU{stats: metrics.GPUStats{Name: "RTX"}}},
		{name: "no gpu", gpu: fixedGPU{err: metrics.ErrNoGPU}},
		{name: "no probe", gpu: nil},
		{name: "probe failed", gpu: fixedGPU{err: errors.New("exit status 9")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := metrics.NewEngine(&fakeProvider{}, tt.gpu)
			err := gpuProbeError(engine)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, lmerrors.IsCode(err, lmerrors.ErrGPU))
			assert.Contains(t, err.Error(), "exit status 9")
		})
	}
}

func TestEmitReportWithGPUError(t *testing.T) {
	engine := sampledEngine(t, &fakeProvider{step: 1024}, fixedGPU{err: errors.New("exit status 9")})
	r := buildReport(engine, provider.System{Hostname: "box"})
	gpuErr := gpuProbeError(engine)
	require.Error(t, gpuErr)

	t.Run("json keeps the data", func(t *testing.T) {
		var buf bytes.Buffer
		err := emitReport(&buf, r, gpuErr, true)
		assert.True(t, lmerrors.IsCode(err, lmerrors.ErrGPU))

		var env struct {
			Success bool            `json:"success"`
			Data    json.RawMessage `json:"data"`
			Error   *JSONError      `json:"error"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
		assert.False(t, env.Success)
		assert.Contains(t, string(env.Data), `"hostname": "box"`)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeCollect, env.Error.Code)
		assert.Equal(t, "GPU probe failed", env.Error.Message)
	})

	t.Run("text prints the report", func(t *testing.T) {
		var buf bytes.Buffer
		err := emitReport(&buf, r, gpuErr, false)
		assert.True(t, lmerrors.IsCode(err, lmerrors.ErrGPU))
		assert.Contains(t, buf.String(), "litemon | box")
		assert.Contains(t, buf.String(), "exit status 9")
	})

	t.Run("no error", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, emitReport(&buf, r, nil, true))
		assert.Contains(t, buf.String(), `"success": true`)
		assert.NotContains(t, buf.String(), `"error"`)
	})
}
