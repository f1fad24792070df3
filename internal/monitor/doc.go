// Package monitor implements the live dashboard loop and its layout.
//
// # Architecture
//
// The dashboard is a single cooperative loop that owns all interactive
// state. Each iteration:
//
//  1. Refreshes the metrics engine when the tick interval has elapsed and
//     draws a new frame.
//  2. Otherwise redraws only if input made the state dirty.
//  3. Waits for one input event, bounded by the poll timeout and by the
//     time left until the next tick.
//
// The loop talks to the terminal through the Backend interface, so it can
// be driven by a fake backend and clock in tests.
//
// # Key Components
//
//	Loop   - The refresh/redraw/poll cycle and key handling
//	State  - Scroll offset, page size, timestamps and the dirty flag
//	Frame  - Layout tree of panels built from the engine's latest results
//	KeyMap - Key bindings shared by the footer and the help overlay
//
// # Pagination
//
// The core list shows CoreSlots(height) cores, two per row, always an even
// number so the two columns stay balanced. Scrolling moves a whole page and is clamped so
// the last page is always full when there are enough cores.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	↑/k, ↓/j    - Previous / next page of cores
//	Home/g      - First page
//	End/G       - Last page
//	?           - Toggle help overlay
package monitor
