package monitor

import (
	"context"
	"time"

	"github.com/rileyhilliard/litemon/internal/errors"
	"github.com/rileyhilliard/litemon/internal/logger"
	"github.com/rileyhilliard/litemon/internal/metrics"
)

// Default loop timings.
const (
	DefaultTickInterval = time.Second
	DefaultPollTimeout  = 100 * time.Millisecond
)

// EventKind identifies what a backend event carries.
type EventKind int

const (
	EventKey EventKind = iota
	EventResize
	EventClosed
)

// Event is one input event from the terminal backend.
type Event struct {
	Kind EventKind

	// Key is the decoded key name for EventKey, e.g. "q", "up", "ctrl+c".
	Key string

	// Width and Height are the new size for EventResize.
	Width  int
	Height int
}

// Backend is the terminal the loop draws to and reads input from.
type Backend interface {
	// PollEvent waits up to timeout for one input event. ok is false when
	// the wait timed out.
	PollEvent(timeout time.Duration) (ev Event, ok bool, err error)

	// Draw replaces the screen contents with frame.
	Draw(frame string) error

	// Size returns the current terminal size.
	Size() (width, height int)
}

// Phase is the loop's lifecycle state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseShuttingDown
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	if p == PhaseShuttingDown {
		return "shutting down"
	}
	return "running"
}

// LoopConfig holds the loop timings and display settings.
type LoopConfig struct {
	TickInterval   time.Duration
	PollTimeout    time.Duration
	ScrollDebounce time.Duration
	Hostname       string
}

// DefaultLoopConfig returns the default timings.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TickInterval:   DefaultTickInterval,
		PollTimeout:    DefaultPollTimeout,
		ScrollDebounce: DefaultScrollDebounce,
	}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopClock overrides the time source.
func WithLoopClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLoopLogger sets the loop logger.
func WithLoopLogger(log logger.Logger) LoopOption {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keys KeyMap) LoopOption {
	return func(l *Loop) {
		l.keys = keys
	}
}

// Loop drives the dashboard: it refreshes the engine on the tick, redraws
// when state changes, and polls the backend for input in between. All of it
// runs on the caller's goroutine.
type Loop struct {
	engine  *metrics.Engine
	backend Backend
	cfg     LoopConfig
	keys    KeyMap
	state   *State
	now     func() time.Time
	log     logger.Logger

	phase        Phase
	width        int
	height       int
	forceRefresh bool
}

// NewLoop creates a loop over engine and backend.
func NewLoop(engine *metrics.Engine, backend Backend, cfg LoopConfig, opts ...LoopOption) *Loop {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}

	l := &Loop{
		engine:  engine,
		backend: backend,
		cfg:     cfg,
		keys:    DefaultKeyMap(),
		state:   NewState(cfg.ScrollDebounce),
		now:     time.Now,
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.width, l.height = backend.Size()
	l.state.SetPageSize(CoreSlots(l.height))
	return l
}

// Run iterates until the user quits, the backend closes, or ctx is
// cancelled. Backend failures are returned; restoring the terminal is left
// to the backend's owner.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("loop started: tick=%s poll=%s", l.cfg.TickInterval, l.cfg.PollTimeout)
	for l.phase == PhaseRunning {
		if err := l.Step(ctx); err != nil {
			l.phase = PhaseShuttingDown
			l.log.Error("terminal failed: %v", err)
			return err
		}
	}
	l.log.Info("loop stopped")
	return nil
}

// Step runs one iteration: refresh or redraw as needed, then wait for one
// input event or until the next tick, whichever comes first.
func (l *Loop) Step(ctx context.Context) error {
	if ctx.Err() != nil {
		l.phase = PhaseShuttingDown
		return nil
	}

	now := l.now()
	switch {
	case l.tickDue(now):
		l.engine.Refresh(ctx)
		l.state.Clamp(l.coreCount())
		l.state.LastTick = now
		l.forceRefresh = false
		if err := l.draw(); err != nil {
			return err
		}
		l.state.ClearDirty()
	case l.state.Dirty():
		if err := l.draw(); err != nil {
			return err
		}
		l.state.ClearDirty()
	}

	ev, ok, err := l.backend.PollEvent(l.pollWait(l.now()))
	l.state.LastInputPoll = l.now()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Lost the terminal while reading input",
			"Check that litemon is running in an interactive terminal.")
	}
	if ok {
		l.handle(ev)
	}
	return nil
}

// Phase returns the current lifecycle phase.
func (l *Loop) Phase() Phase {
	return l.phase
}

// State returns the dashboard state.
func (l *Loop) State() *State {
	return l.state
}

func (l *Loop) tickDue(now time.Time) bool {
	return l.forceRefresh || l.state.LastTick.IsZero() || now.Sub(l.state.LastTick) >= l.cfg.TickInterval
}

// pollWait is the poll timeout capped at the time left until the next tick.
func (l *Loop) pollWait(now time.Time) time.Duration {
	wait := l.cfg.PollTimeout
	if untilTick := l.cfg.TickInterval - now.Sub(l.state.LastTick); untilTick < wait {
		wait = untilTick
	}
	if wait < 0 {
		wait = 0
	}
	return wait
}

func (l *Loop) handle(ev Event) {
	switch ev.Kind {
	case EventClosed:
		l.log.Debug("backend closed")
		l.phase = PhaseShuttingDown

	case EventResize:
		l.width, l.height = ev.Width, ev.Height
		l.state.SetPageSize(CoreSlots(l.height))
		l.state.MarkDirty()

	case EventKey:
		l.handleKey(ev.Key)
	}
}

func (l *Loop) handleKey(name string) {
	act, dir := l.keys.resolve(name)
	switch act {
	case actionQuit:
		l.phase = PhaseShuttingDown

	case actionToggleHelp:
		l.state.ShowHelp = !l.state.ShowHelp
		l.state.MarkDirty()

	case actionCloseHelp:
		if l.state.ShowHelp {
			l.state.ShowHelp = false
			l.state.MarkDirty()
		}

	case actionRefresh:
		l.forceRefresh = true

	case actionScroll:
		l.state.Scroll(dir, l.coreCount(), l.state.PageSize, l.now())
	}
}

func (l *Loop) coreCount() int {
	cpu, err := l.engine.CPUStats()
	if err != nil {
		return 0
	}
	return cpu.Cores
}

func (l *Loop) draw() error {
	frame := BuildFrame(l.engine, l.state, FrameConfig{
		Hostname: l.cfg.Hostname,
		Keys:     l.keys,
	}, l.width, l.height)

	if err := l.backend.Draw(frame.Render()); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Couldn't draw to the terminal",
			"Check that litemon is running in an interactive terminal.")
	}
	return nil
}
