package termui

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyColor(t *testing.T) {
	orig := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(orig) })

	tests := []struct {
		name    string
		mode    string
		noColor bool
		start   termenv.Profile
		want    termenv.Profile
		wantErr bool
	}{
		{name: "always", mode: ColorAlways, start: termenv.Ascii, want: termenv.TrueColor},
		{name: "never", mode: ColorNever, start: termenv.TrueColor, want: termenv.Ascii},
		{name: "auto keeps detection", mode: ColorAuto, start: termenv.ANSI256, want: termenv.ANSI256},
		{name: "empty is auto", mode: "", start: termenv.ANSI, want: termenv.ANSI},
		{name: "auto honors NO_COLOR", mode: ColorAuto, noColor: true, start: termenv.TrueColor, want: termenv.Ascii},
		{name: "unknown", mode: "rainbow", start: termenv.ANSI, want: termenv.ANSI, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.noColor {
				t.Setenv("NO_COLOR", "1")
			} else {
				t.Setenv("NO_COLOR", "")
				os.Unsetenv("NO_COLOR")
			}
			lipgloss.SetColorProfile(tt.start)

			err := ApplyColor(tt.mode)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, lipgloss.ColorProfile())
		})
	}
}

func TestRedirectLog(t *testing.T) {
	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "litemon.log")

		closer, err := RedirectLog(path)
		require.NoError(t, err)
		log.Print("sampling")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "sampling")
	})

	t.Run("discard", func(t *testing.T) {
		closer, err := RedirectLog("")
		require.NoError(t, err)
		assert.Equal(t, io.Discard, log.Writer())
		require.NoError(t, closer.Close())
		assert.Equal(t, os.Stderr, log.Writer())
	})

	t.Run("bad path", func(t *testing.T) {
		_, err := RedirectLog(filepath.Join(t.TempDir(), "missing", "x.log"))
		assert.Error(t, err)
	})
}
