package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"with cause", unavailable(CategoryDisk, errors.New("statfs failed")), "disk unavailable: statfs failed"},
		{"without cause", &CategoryError{Category: CategoryGPU}, "gpu unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.True(t, IsUnavailable(tt.err))
		})
	}
}

func TestCategoryErrorMatching(t *testing.T) {
	err := fmt.Errorf("tick: %w", unavailable(CategoryGPU, ErrNoGPU))

	assert.ErrorIs(t, err, ErrCategoryUnavailable)
	assert.ErrorIs(t, err, ErrNoGPU)
	assert.NotErrorIs(t, err, ErrCategoryDisabled)
	assert.False(t, IsUnavailable(errors.New("plain")))
	assert.False(t, IsUnavailable(nil))
}
