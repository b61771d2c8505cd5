package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific key types
type (
	ReportID    ID
	MeasureKey  string
	CategoryKey string
	GroupLabel  string
)

func (id ReportID) String() string   { return ID(id).String() }
func (k MeasureKey) String() string  { return string(k) }
func (k CategoryKey) String() string { return string(k) }
func (l GroupLabel) String() string  { return string(l) }

// ParseMeasureKey parses a string into MeasureKey
func ParseMeasureKey(s string) (MeasureKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("measure key cannot be empty")
	}
	return MeasureKey(s), nil
}

// ParseCategoryKey parses a string into CategoryKey
func ParseCategoryKey(s string) (CategoryKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("category key cannot be empty")
	}
	return CategoryKey(s), nil
}
