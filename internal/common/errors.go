// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Rule errors.
	ErrRuleLoad         = errors.New("rule load failed")
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrInvalidKeyword   = errors.New("invalid keyword")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RuleLoadError indicates that the persistent store could not be reached on
// a required first load for a dimension.
type RuleLoadError struct {
	Err       error
	Dimension string
}

func (e *RuleLoadError) Error() string {
	return fmt.Sprintf("loading %s rules: %v", e.Dimension, e.Err)
}

func (e *RuleLoadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is treat every RuleLoadError as ErrRuleLoad.
func (e *RuleLoadError) Is(target error) bool {
	return target == ErrRuleLoad
}

// NewRuleLoadError wraps a store failure with its dimension.
func NewRuleLoadError(dimension string, err error) error {
	return &RuleLoadError{Dimension: dimension, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
