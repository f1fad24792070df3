package provider

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	gohost "github.com/shirou/gopsutil/v4/host"
	"github.com/stretchr/testify/assert"
)

func TestReadSystem(t *testing.T) {
	orig := hostInfo
	t.Cleanup(func() { hostInfo = orig })

	fallback, _ := os.Hostname()

	tests := []struct {
		name string
		info *gohost.InfoStat
		err  error
		want System
	}{
		{
			name: "full info",
			info: &gohost.InfoStat{
				Hostname:        "build-01",
				OS:              "linux",
				Platform:        "ubuntu",
				PlatformVersion: "24.04",
				KernelVersion:   "6.8.0",
				Uptime:          3600,
			},
			want: System{
				Hostname:      "build-01",
				OS:            "linux",
				Platform:      "ubuntu 24.04",
				KernelVersion: "6.8.0",
				Uptime:        time.Hour,
			},
		},
		{
			name: "missing hostname falls back",
			info: &gohost.InfoStat{OS: "linux"},
			want: System{Hostname: fallback, OS: "linux"},
		},
		{
			name: "error falls back",
			err:  errors.New("no /proc"),
			want: System{Hostname: fallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hostInfo = func(context.Context) (*gohost.InfoStat, error) { return tt.info, tt.err }
			assert.Equal(t, tt.want, ReadSystem(context.Background()))
		})
	}
}
