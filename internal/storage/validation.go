// Package storage provides the SQLite punch archive.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/punchgrid/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidPunch     = errors.New("invalid punch")
	ErrUnboundedDelete  = errors.New("refusing to delete without a filter")
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

// validatePunches validates a slice of punches.
func validatePunches(punches []model.PunchRecord) error {
	if len(punches) == 0 {
		return fmt.Errorf("%w: punches", ErrEmptySlice)
	}
	for i, p := range punches {
		if err := validatePunch(p); err != nil {
			return fmt.Errorf("punch at index %d: %w", i, err)
		}
	}
	return nil
}

func validatePunch(p model.PunchRecord) error {
	if strings.TrimSpace(p.Employee) == "" {
		return fmt.Errorf("%w: missing employee", ErrInvalidPunch)
	}
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidPunch, p.Mode)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidPunch)
	}
	if p.Time < 0 || p.Time >= model.ClockTime(24*60*60) {
		return fmt.Errorf("%w: time out of range", ErrInvalidPunch)
	}
	return nil
}

// validateFilter rejects inverted date ranges.
func validateFilter(filter model.PunchFilter) error {
	if filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, filter.Start, filter.End)
	}
	return nil
}

func isEmptyFilter(filter model.PunchFilter) bool {
	return filter.Start == nil && filter.End == nil && len(filter.Employees) == 0
}
