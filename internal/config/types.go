package config

import "time"

// Config keys, shared by the config file, LITEMON_* environment variables
// and the flag bindings.
const (
	KeyInterval       = "interval"
	KeyCPU            = "cpu"
	KeyMemory         = "memory"
	KeyDisk           = "disk"
	KeyNetwork        = "network"
	KeyGPU            = "gpu"
	KeyHistorySize    = "history_size"
	KeyPollTimeout    = "poll_timeout"
	KeyScrollDebounce = "scroll_debounce"
	KeyGPUInterval    = "gpu_interval"
	KeyColor          = "color"
	KeyLogFile        = "log_file"
)

// Defaults.
const (
	DefaultInterval       = time.Second
	DefaultHistorySize    = 50
	DefaultPollTimeout    = 100 * time.Millisecond
	DefaultScrollDebounce = 50 * time.Millisecond
	DefaultGPUInterval    = 2 * time.Second
	DefaultColor          = "auto"

	// MinInterval is the shortest refresh interval accepted.
	MinInterval = 100 * time.Millisecond
)

// Config is the effective litemon configuration.
type Config struct {
	// Interval is the time between metric refreshes.
	Interval time.Duration

	// Category toggles. A disabled category is never sampled or drawn.
	CPU     bool
	Memory  bool
	Disk    bool
	Network bool
	GPU     bool

	// HistorySize is the number of samples kept per sparkline series.
	HistorySize int

	// PollTimeout bounds each wait for keyboard input.
	PollTimeout time.Duration

	// ScrollDebounce is the minimum gap between two scroll steps.
	ScrollDebounce time.Duration

	// GPUInterval is how often the GPU is re-read.
	GPUInterval time.Duration

	// Color is auto, always or never.
	Color string

	// LogFile receives the debug log while the dashboard runs.
	LogFile string

	// Path is the config file that was read, if any.
	Path string
}

// File is the on-disk YAML form of Config. Durations are written as
// strings like "1s" so the file stays readable.
type File struct {
	Interval       string `yaml:"interval"`
	CPU            bool   `yaml:"cpu"`
	Memory         bool   `yaml:"memory"`
	Disk           bool   `yaml:"disk"`
	Network        bool   `yaml:"network"`
	GPU            bool   `yaml:"gpu"`
	HistorySize    int    `yaml:"history_size"`
	PollTimeout    string `yaml:"poll_timeout"`
	ScrollDebounce string `yaml:"scroll_debounce"`
	GPUInterval    string `yaml:"gpu_interval"`
	Color          string `yaml:"color"`
	LogFile        string `yaml:"log_file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Interval:       DefaultInterval,
		CPU:            true,
		Memory:         true,
		Disk:           true,
		Network:        true,
		GPU:            true,
		HistorySize:    DefaultHistorySize,
		PollTimeout:    DefaultPollTimeout,
		ScrollDebounce: DefaultScrollDebounce,
		GPUInterval:    DefaultGPUInterval,
		Color:          DefaultColor,
	}
}

// File converts the config to its YAML form.
func (c *Config) File() File {
	return File{
		Interval:       c.Interval.String(),
		CPU:            c.CPU,
		Memory:         c.Memory,
		Disk:           c.Disk,
		Network:        c.Network,
		GPU:            c.GPU,
		HistorySize:    c.HistorySize,
		PollTimeout:    c.PollTimeout.String(),
		ScrollDebounce: c.ScrollDebounce.String(),
		GPUInterval:    c.GPUInterval.String(),
		Color:          c.Color,
		LogFile:        c.LogFile,
	}
}
