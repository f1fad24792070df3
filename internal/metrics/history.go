package metrics

import "sort"

// DefaultHistorySize is the default number of samples retained per series.
const DefaultHistorySize = 50

// Reserved history keys. Network series are keyed by interface name, which
// never contains a colon.
const (
	KeyCPU    = ":cpu"
	KeyMemory = ":memory"
	KeyGPU    = ":gpu"
)

// History stores recent samples per key in fixed-size ring buffers for
// sparkline rendering. It has a single owner and is not safe for
// concurrent use.
type History struct {
	capacity int
	series   map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
}

// NewHistory creates a history with the given per-series capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		capacity: capacity,
		series:   make(map[string]*ringBuffer),
	}
}

// Push appends a sample to the series for key, creating it on first use.
// Once the series is full the oldest sample is evicted.
func (h *History) Push(key string, value float64) {
	rb, ok := h.series[key]
	if !ok {
		rb = &ringBuffer{data: make([]float64, h.capacity)}
		h.series[key] = rb
	}
	rb.push(value)
}

// Series returns all samples for key, oldest first. The slice is a copy.
func (h *History) Series(key string) []float64 {
	rb, ok := h.series[key]
	if !ok {
		return nil
	}
	return rb.last(rb.count)
}

// Last returns up to n of the most recent samples for key, oldest first.
func (h *History) Last(key string, n int) []float64 {
	rb, ok := h.series[key]
	if !ok {
		return nil
	}
	return rb.last(n)
}

// Len returns the number of samples stored for key.
func (h *History) Len(key string) int {
	rb, ok := h.series[key]
	if !ok {
		return 0
	}
	return rb.count
}

// Capacity returns the per-series capacity.
func (h *History) Capacity() int {
	return h.capacity
}

// Keys returns the known series keys in sorted order.
func (h *History) Keys() []string {
	keys := make([]string, 0, len(h.series))
	for k := range h.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// last returns the last n values in chronological order.
func (r *ringBuffer) last(n int) []float64 {
	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	size := len(r.data)
	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - n + size) % size

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = r.data[(start+i)%size]
	}
	return out
}
