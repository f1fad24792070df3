package termui

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rileyhilliard/litemon/internal/errors"
)

// Color modes accepted by ApplyColor.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ApplyColor sets the lipgloss color profile. "auto" keeps terminal
// detection but honors NO_COLOR.
func ApplyColor(mode string) error {
	switch mode {
	case "", ColorAuto:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	case ColorAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	case ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown color mode %q", mode),
			"Use one of: auto, always, never")
	}
	return nil
}

// RedirectLog points the standard logger away from the terminal while the
// dashboard owns it: to path when set, otherwise nowhere. The returned
// closer restores stderr.
func RedirectLog(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return restoreLog{}, nil
	}

	f, err := tea.LogToFile(path, "litemon")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+path,
			"Check the --log-file path and its directory permissions")
	}
	return restoreLog{file: f}, nil
}

type restoreLog struct {
	file *os.File
}

func (r restoreLog) Close() error {
	log.SetOutput(os.Stderr)
	log.SetPrefix("")
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
