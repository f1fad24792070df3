package metrics

import (
	"errors"
	"fmt"
)

// Category names one independently collected group of metrics.
type Category string

const (
	CategoryCPU     Category = "cpu"
	CategoryMemory  Category = "memory"
	CategoryDisk    Category = "disk"
	CategoryNetwork Category = "network"
	CategoryGPU     Category = "gpu"
)

var (
	// ErrCategoryUnavailable matches every CategoryError.
	ErrCategoryUnavailable = errors.New("category unavailable")

	// ErrCategoryDisabled is the cause for categories turned off in config.
	ErrCategoryDisabled = errors.New("category disabled")

	// ErrNotSampled is the cause before the first Refresh.
	ErrNotSampled = errors.New("not sampled yet")

	// ErrNoGPU reports that no compatible GPU was found at startup.
	// It is a steady state, not a failure.
	ErrNoGPU = errors.New("no GPU found")
)

// CategoryError reports that one category could not be produced this tick.
type CategoryError struct {
	Category Category
	Cause    error
}

func (e *CategoryError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s unavailable", e.Category)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Category, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CategoryError) Unwrap() error {
	return e.Cause
}

// Is makes every CategoryError match ErrCategoryUnavailable.
func (e *CategoryError) Is(target error) bool {
	return target == ErrCategoryUnavailable
}

func unavailable(c Category, cause error) error {
	return &CategoryError{Category: c, Cause: cause}
}

// IsUnavailable reports whether err marks a category as missing for this tick.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrCategoryUnavailable)
}
