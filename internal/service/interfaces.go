// Package service defines the interfaces shared between packages.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
)

// Storage defines the contract for the punch archive.
type Storage interface {
	// Punch operations
	SavePunches(ctx context.Context, source string, punches []model.PunchRecord) (int, error)
	GetPunches(ctx context.Context, filter model.PunchFilter) ([]model.PunchRecord, error)
	DeletePunches(ctx context.Context, filter model.PunchFilter) (int, error)

	// Reporting helpers
	GetEmployees(ctx context.Context) ([]model.EmployeeSummary, error)
	GetImports(ctx context.Context) ([]model.ImportRecord, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter publishes a finished attendance grid somewhere outside the
// process, such as a spreadsheet service.
type ReportWriter interface {
	WriteGrid(ctx context.Context, grid model.Grid) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
