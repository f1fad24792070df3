// Package termui is the terminal backend for the dashboard loop.
//
// Screen runs a Bubble Tea program that owns raw mode, the alternate screen
// and key decoding. The program only forwards input to the loop and shows
// the last frame it was given; all dashboard state stays with the loop.
package termui

import (
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/litemon/internal/errors"
	"github.com/rileyhilliard/litemon/internal/monitor"
)

// eventBuffer is how many input events can queue while the loop is busy.
const eventBuffer = 64

// frameMsg carries a rendered frame into the program.
type frameMsg string

// screenModel is the Bubble Tea model behind Screen.
type screenModel struct {
	frame  string
	screen *Screen
}

func (m screenModel) Init() tea.Cmd {
	return nil
}

func (m screenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = string(msg)

	case tea.KeyMsg:
		m.screen.forward(monitor.Event{Kind: monitor.EventKey, Key: msg.String()})

	case tea.WindowSizeMsg:
		m.screen.setSize(msg.Width, msg.Height)
		m.screen.forward(monitor.Event{Kind: monitor.EventResize, Width: msg.Width, Height: msg.Height})
	}
	return m, nil
}

func (m screenModel) View() string {
	return m.frame
}

// Options configures a Screen.
type Options struct {
	// Input and Output default to the process's stdin and stdout.
	Input  io.Reader
	Output io.Writer

	// AltScreen draws on the alternate screen buffer.
	AltScreen bool
}

// Screen implements monitor.Backend on a Bubble Tea program.
type Screen struct {
	program *tea.Program
	events  chan monitor.Event
	done    chan struct{}

	mu     sync.Mutex
	width  int
	height int
	runErr error

	closeOnce sync.Once
}

// Open checks that stdout is a terminal and starts the program. The caller
// must Close the screen to restore the terminal.
func Open(opts Options) (*Screen, error) {
	if opts.Output == nil {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New(errors.ErrTerminal,
				"stdout is not a terminal",
				"Run litemon in an interactive terminal, or use 'litemon snapshot' for plain output.")
		}
	}

	s := newScreen()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		s.setSize(w, h)
	}

	progOpts := []tea.ProgramOption{tea.WithoutSignalHandler()}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	s.program = tea.NewProgram(screenModel{screen: s}, progOpts...)
	go s.run()
	return s, nil
}

func newScreen() *Screen {
	return &Screen{
		events: make(chan monitor.Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

func (s *Screen) run() {
	_, err := s.program.Run()
	s.mu.Lock()
	s.runErr = err
	s.mu.Unlock()
	close(s.done)
}

// forward queues an event for the loop. Events are dropped when the queue
// is full so the program never blocks on a busy loop.
func (s *Screen) forward(ev monitor.Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *Screen) setSize(w, h int) {
	s.mu.Lock()
	s.width, s.height = w, h
	s.mu.Unlock()
}

// PollEvent waits up to timeout for one input event. Once the program has
// exited it reports EventClosed.
func (s *Screen) PollEvent(timeout time.Duration) (monitor.Event, bool, error) {
	select {
	case ev := <-s.events:
		return ev, true, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-s.events:
		return ev, true, nil
	case <-s.done:
		if err := s.err(); err != nil {
			return monitor.Event{}, false, err
		}
		return monitor.Event{Kind: monitor.EventClosed}, true, nil
	case <-timer.C:
		return monitor.Event{}, false, nil
	}
}

// Draw hands a frame to the program. It is a no-op after the program exits.
func (s *Screen) Draw(frame string) error {
	select {
	case <-s.done:
		return s.err()
	default:
	}
	s.program.Send(frameMsg(frame))
	return nil
}

// Size returns the last known terminal size.
func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Close stops the program and waits for it to restore the terminal. It is
// safe to call more than once.
func (s *Screen) Close() error {
	s.closeOnce.Do(func() {
		if s.program != nil {
			s.program.Quit()
			<-s.done
		}
	})
	return s.err()
}

func (s *Screen) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}
