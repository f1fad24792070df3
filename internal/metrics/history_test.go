package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistory(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected int
	}{
		{"default size", 0, DefaultHistorySize},
		{"negative size", -1, DefaultHistorySize},
		{"custom size", 100, 100},
		{"small size", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.size)
			require.NotNil(t, h)
			assert.Equal(t, tt.expected, h.Capacity())
			assert.Empty(t, h.Keys())
		})
	}
}

func TestHistoryPushMultiple(t *testing.T) {
	h := NewHistory(10)

	for i := 0; i < 5; i++ {
		h.Push(KeyCPU, float64(i*10))
	}

	assert.Equal(t, 5, h.Len(KeyCPU))
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, h.Series(KeyCPU))
}

func TestHistoryRingBufferOverflow(t *testing.T) {
	const capacity = 5
	h := NewHistory(capacity)

	// capacity + 3 pushes evicts the three oldest values
	for i := 0; i < capacity+3; i++ {
		h.Push("eth0", float64(i))
	}

	assert.Equal(t, capacity, h.Len("eth0"))
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, h.Series("eth0"))
}

func TestHistoryLast(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 6; i++ {
		h.Push(KeyMemory, float64(i))
	}

	tests := []struct {
		name     string
		n        int
		expected []float64
	}{
		{"fewer than stored", 3, []float64{4, 5, 6}},
		{"exactly stored", 6, []float64{1, 2, 3, 4, 5, 6}},
		{"more than stored", 20, []float64{1, 2, 3, 4, 5, 6}},
		{"zero", 0, nil},
		{"negative", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.Last(KeyMemory, tt.n))
		})
	}
}

func TestHistoryUnknownKey(t *testing.T) {
	h := NewHistory(10)

	assert.Nil(t, h.Series("missing"))
	assert.Nil(t, h.Last("missing", 5))
	assert.Equal(t, 0, h.Len("missing"))
}

func TestHistorySeriesIsCopy(t *testing.T) {
	h := NewHistory(3)
	h.Push("wlan0", 1)

	series := h.Series("wlan0")
	series[0] = 99

	assert.Equal(t, []float64{1}, h.Series("wlan0"))
}

func TestHistoryKeysSortedAndIndependent(t *testing.T) {
	h := NewHistory(2)
	h.Push("wlan0", 1)
	h.Push(KeyCPU, 2)
	h.Push("eth0", 3)
	h.Push("eth0", 4)
	h.Push("eth0", 5)

	assert.Equal(t, []string{":cpu", "eth0", "wlan0"}, h.Keys())
	assert.Equal(t, []float64{4, 5}, h.Series("eth0"))
	assert.Equal(t, []float64{1}, h.Series("wlan0"))
}
