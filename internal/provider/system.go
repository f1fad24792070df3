package provider

import (
	"context"
	"os"
	"time"

	gohost "github.com/shirou/gopsutil/v4/host"
)

// System describes the machine being monitored.
type System struct {
	Hostname      string        `json:"hostname"`
	OS            string        `json:"os"`
	Platform      string        `json:"platform,omitempty"`
	KernelVersion string        `json:"kernel_version,omitempty"`
	Uptime        time.Duration `json:"uptime"`
}

// hostInfo is replaceable in tests.
var hostInfo = gohost.InfoWithContext

// ReadSystem reads host identity and uptime. When gopsutil fails it falls
// back to os.Hostname so the dashboard header still has a name.
func ReadSystem(ctx context.Context) System {
	info, err := hostInfo(ctx)
	if err != nil || info == nil {
		name, _ := os.Hostname()
		return System{Hostname: name}
	}

	sys := System{
		Hostname:      info.Hostname,
		OS:            info.OS,
		Platform:      info.Platform,
		KernelVersion: info.KernelVersion,
		Uptime:        time.Duration(info.Uptime) * time.Second,
	}
	if info.PlatformVersion != "" {
		sys.Platform += " " + info.PlatformVersion
	}
	if sys.Hostname == "" {
		sys.Hostname, _ = os.Hostname()
	}
	return sys
}
