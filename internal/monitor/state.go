package monitor

import "time"

// DefaultScrollDebounce is the minimum spacing between accepted scrolls.
const DefaultScrollDebounce = 50 * time.Millisecond

// Direction is a scroll request from the keyboard.
type Direction int

const (
	ScrollUp Direction = iota
	ScrollDown
	ScrollHome
	ScrollEnd
)

// String returns a human-readable label for the direction.
func (d Direction) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	case ScrollHome:
		return "home"
	case ScrollEnd:
		return "end"
	default:
		return "unknown"
	}
}

// State is the interactive state of the dashboard. It is owned by the loop
// goroutine.
type State struct {
	// ScrollOffset is the index of the first visible core.
	ScrollOffset int

	// PageSize is how many cores fit on screen at once.
	PageSize int

	LastTick      time.Time
	LastInputPoll time.Time
	LastScroll    time.Time

	// ShowHelp is true while the help overlay is open.
	ShowHelp bool

	debounce time.Duration
	items    int // item count from the last Scroll or Clamp
	redraw   bool
}

// NewState creates dashboard state. It starts dirty so the first
// iteration draws.
func NewState(debounce time.Duration) *State {
	if debounce < 0 {
		debounce = 0
	}
	return &State{
		PageSize: PageSizeFor(0),
		debounce: debounce,
		redraw:   true,
	}
}

// PageSizeFor returns how many items a list with availableRows rows shows.
// The core list has two columns, so the result is always even and at least 2.
func PageSizeFor(availableRows int) int {
	half := availableRows / 2
	if half < 1 {
		half = 1
	}
	return half * 2
}

// maxOffset is the largest offset that still fills a page.
func maxOffset(totalItems, pageSize int) int {
	if m := totalItems - pageSize; m > 0 {
		return m
	}
	return 0
}

// Scroll moves the offset one page in the given direction, or to either end.
// Requests inside the debounce window of the last accepted scroll are
// dropped. Returns true when the offset changed, which also marks the state
// dirty.
func (s *State) Scroll(dir Direction, totalItems, pageSize int, now time.Time) bool {
	if !s.LastScroll.IsZero() && now.Sub(s.LastScroll) < s.debounce {
		return false
	}
	s.LastScroll = now
	s.items = totalItems

	if pageSize < 1 {
		pageSize = 1
	}
	upper := maxOffset(totalItems, pageSize)

	offset := s.ScrollOffset
	switch dir {
	case ScrollUp:
		offset -= pageSize
	case ScrollDown:
		offset += pageSize
	case ScrollHome:
		offset = 0
	case ScrollEnd:
		offset = upper
	}
	offset = clampOffset(offset, upper)

	if offset == s.ScrollOffset {
		return false
	}
	s.ScrollOffset = offset
	s.MarkDirty()
	return true
}

// Clamp pulls the offset back into range for totalItems with the current
// page size.
func (s *State) Clamp(totalItems int) {
	s.items = totalItems
	offset := clampOffset(s.ScrollOffset, maxOffset(totalItems, s.PageSize))
	if offset != s.ScrollOffset {
		s.ScrollOffset = offset
		s.MarkDirty()
	}
}

// SetPageSize recomputes the page size for a new terminal height and
// re-clamps the offset. It returns the new page size.
func (s *State) SetPageSize(availableRows int) int {
	size := PageSizeFor(availableRows)
	if size != s.PageSize {
		s.PageSize = size
		s.MarkDirty()
	}
	s.Clamp(s.items)
	return size
}

// MarkDirty requests a redraw on the next iteration.
func (s *State) MarkDirty() {
	s.redraw = true
}

// ClearDirty is called after a frame is drawn.
func (s *State) ClearDirty() {
	s.redraw = false
}

// Dirty reports whether a redraw is pending.
func (s *State) Dirty() bool {
	return s.redraw
}

func clampOffset(offset, upper int) int {
	if offset < 0 {
		return 0
	}
	if offset > upper {
		return upper
	}
	return offset
}
