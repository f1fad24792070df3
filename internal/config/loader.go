package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/litemon/internal/errors"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. LITEMON_INTERVAL.
	EnvPrefix = "LITEMON"
	// GlobalConfigDir is the directory for the config file, relative to home.
	GlobalConfigDir = ".config/litemon"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
)

// FlagKeys maps command-line flag names to config keys. Flags not listed
// here are not bound.
var FlagKeys = map[string]string{
	"interval":        KeyInterval,
	"cpu":             KeyCPU,
	"memory":          KeyMemory,
	"disk":            KeyDisk,
	"network":         KeyNetwork,
	"gpu":             KeyGPU,
	"history":         KeyHistorySize,
	"poll-timeout":    KeyPollTimeout,
	"scroll-debounce": KeyScrollDebounce,
	"gpu-interval":    KeyGPUInterval,
	"color":           KeyColor,
	"log-file":        KeyLogFile,
}

// DefaultPath returns ~/.config/litemon/config.yaml, or "" when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// Find resolves the config file to read. An explicit path must exist; the
// default path is used only when present. Returns "" when there is no file.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path, or run 'litemon config init' to create one")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	path := DefaultPath()
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// Load builds the effective config. Precedence, lowest first: defaults,
// config file, LITEMON_* environment, flags that were set on the command
// line. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.WrapWithCode(err, errors.ErrConfig,
						"Failed to bind flag --"+name, "")
				}
			}
		}
	}

	found, err := Find(path)
	if err != nil {
		return nil, err
	}
	if found != "" {
		v.SetConfigFile(found)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file "+found,
				"Check the file is valid YAML")
		}
	}

	cfg, err := parseConfig(v)
	if err != nil {
		return nil, err
	}
	cfg.Path = found

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault(KeyInterval, def.Interval.String())
	v.SetDefault(KeyCPU, def.CPU)
	v.SetDefault(KeyMemory, def.Memory)
	v.SetDefault(KeyDisk, def.Disk)
	v.SetDefault(KeyNetwork, def.Network)
	v.SetDefault(KeyGPU, def.GPU)
	v.SetDefault(KeyHistorySize, def.HistorySize)
	v.SetDefault(KeyPollTimeout, def.PollTimeout.String())
	v.SetDefault(KeyScrollDebounce, def.ScrollDebounce.String())
	v.SetDefault(KeyGPUInterval, def.GPUInterval.String())
	v.SetDefault(KeyColor, def.Color)
	v.SetDefault(KeyLogFile, "")
}

// parseConfig reads every key out of v. Durations go through
// parseDuration so "2" and "2s" mean the same thing everywhere.
func parseConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		CPU:         v.GetBool(KeyCPU),
		Memory:      v.GetBool(KeyMemory),
		Disk:        v.GetBool(KeyDisk),
		Network:     v.GetBool(KeyNetwork),
		GPU:         v.GetBool(KeyGPU),
		HistorySize: v.GetInt(KeyHistorySize),
		Color:       strings.ToLower(strings.TrimSpace(v.GetString(KeyColor))),
		LogFile:     v.GetString(KeyLogFile),
	}

	interval, err := ParseInterval(v.GetString(KeyInterval))
	if err != nil {
		return nil, err
	}
	cfg.Interval = interval

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{KeyPollTimeout, &cfg.PollTimeout},
		{KeyScrollDebounce, &cfg.ScrollDebounce},
		{KeyGPUInterval, &cfg.GPUInterval},
	}
	for _, d := range durations {
		parsed, err := parseDuration(v.GetString(d.key))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid %s %q", d.key, v.GetString(d.key)),
				"Use seconds like \"2\" or a duration like \"500ms\"")
		}
		*d.dst = parsed
	}

	return cfg, nil
}

// ParseInterval parses a refresh interval given as whole or fractional
// seconds ("2", "0.5") or as a Go duration ("500ms", "1m"). The result must
// be at least MinInterval.
func ParseInterval(s string) (time.Duration, error) {
	d, err := parseDuration(s)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid interval %q", s),
			"Use seconds like \"2\" or a duration like \"500ms\"")
	}
	if d < MinInterval {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short", d),
			fmt.Sprintf("Use at least %s", MinInterval))
	}
	return d, nil
}

// maxSeconds is the largest number of seconds a time.Duration holds.
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// parseDuration reads a bare number as seconds, anything else as a Go
// duration. Negative values are rejected.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		switch {
		case math.IsNaN(secs) || math.IsInf(secs, 0):
			return 0, fmt.Errorf("not a finite number of seconds")
		case secs < 0:
			return 0, fmt.Errorf("negative duration")
		case secs >= maxSeconds:
			return 0, fmt.Errorf("longer than %.0f seconds", maxSeconds)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration")
	}
	return d, nil
}

// Marshal renders the config as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg.File())
}

// WriteFile writes cfg as YAML to path, creating the parent directory.
// An existing file is only replaced when overwrite is set.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite it")
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file "+path,
			"Check file permissions")
	}
	return nil
}
