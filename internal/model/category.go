// Package model defines the core domain models for the recognition engine.
package model

import (
	"fmt"
	"time"

	"github.com/workshopkit/wrench/internal/common"
)

// Dimension is one of the two independent classification axes.
type Dimension string

const (
	// DimensionParts classifies which spare parts were used.
	DimensionParts Dimension = "parts"
	// DimensionLabor classifies which kind of work was performed.
	DimensionLabor Dimension = "labor"
)

// Dimensions lists both classification axes in canonical order.
func Dimensions() []Dimension {
	return []Dimension{DimensionParts, DimensionLabor}
}

// ParseDimension converts a string into a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionParts:
		return DimensionParts, nil
	case DimensionLabor:
		return DimensionLabor, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", common.ErrInvalidDimension, s, DimensionParts, DimensionLabor)
	}
}

// Category is a named bucket within one dimension. A category belongs to
// exactly one dimension for its lifetime.
type Category struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Dimension Dimension `json:"dimension"`
	ID        int64     `json:"id"`
	IsActive  bool      `json:"is_active"`
}
