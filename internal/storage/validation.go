package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/workshopkit/wrench/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidRecord = errors.New("invalid classification record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDimension ensures a dimension is one of the two known axes.
func validateDimension(dim model.Dimension) error {
	_, err := model.ParseDimension(string(dim))
	return err
}

// validateRecords validates a slice of classification records.
func validateRecords(records []model.ClassificationRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}
	for i, rec := range records {
		if err := validateDimension(rec.Dimension); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
		if rec.CategoryID <= 0 {
			return fmt.Errorf("record at index %d: %w: missing category id", i, ErrInvalidRecord)
		}
		if rec.Confidence < 0 || rec.Confidence > 100 {
			return fmt.Errorf("record at index %d: %w: confidence out of range", i, ErrInvalidRecord)
		}
	}
	return nil
}
