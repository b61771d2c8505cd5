package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data-level errors, recovered locally by the orchestrator
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNotComparable    = errors.New("fewer than two comparable groups")

	// Structural errors, fatal to the caller
	ErrEmptyDataset   = errors.New("grouped dataset is empty")
	ErrUnknownMeasure = errors.New("unknown measure")
	ErrUnknownOrgType = errors.New("unknown education organization level")
)

// Error constructors with context
func NewInsufficientDataError(what string, have, need int) error {
	return fmt.Errorf("%w: %s has %d observations, need at least %d", ErrInsufficientData, what, have, need)
}

func NewUnknownMeasureError(measure string) error {
	return fmt.Errorf("%w: %s", ErrUnknownMeasure, measure)
}

// Error checking helpers
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsNotComparable(err error) bool {
	return errors.Is(err, ErrNotComparable)
}

func IsStructural(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrUnknownMeasure) ||
		errors.Is(err, ErrUnknownOrgType)
}
