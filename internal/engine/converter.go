// Package engine reconciles parsed punches into a calendar attendance grid.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/punch"
)

// Conversion errors. Both are terminal for a run.
var (
	ErrNoRecords      = errors.New("no punch records in input")
	ErrNoValidPunches = errors.New("no valid punches in input")
)

// Options configures a conversion.
type Options struct {
	EmployeeOrder []string
	Unlisted      UnlistedPolicy
	WeekdayLabels WeekdayLabels
	// Workers > 1 aggregates date partitions concurrently.
	Workers int
}

// DefaultOptions returns lexicographic columns with English labels.
func DefaultOptions() Options {
	return Options{
		Unlisted:      UnlistedAppend,
		WeekdayLabels: DefaultWeekdayLabels(),
		Workers:       1,
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if !o.Unlisted.Valid() {
		return fmt.Errorf("unknown unlisted employee policy %q", o.Unlisted)
	}
	for i, label := range o.WeekdayLabels {
		if label == "" {
			return fmt.Errorf("weekday label %d is empty", i)
		}
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	return nil
}

// Summary describes what a conversion produced.
type Summary struct {
	First          model.CalendarDate
	Last           model.CalendarDate
	Records        int
	Punches        int
	Skipped        int
	Days           int // dates with at least one punch, weekends included
	Rows           int
	Employees      int
	EstimatedCells int
}

// Result is the outcome of a conversion.
type Result struct {
	Grid    model.Grid
	Skipped []punch.Skipped
	Summary Summary
}

// Converter runs parse, aggregate and row generation in sequence.
type Converter struct {
	parser  *punch.Parser
	logger  *slog.Logger
	options Options
}

// New creates a converter. A nil logger falls back to slog.Default().
func New(options Options, logger *slog.Logger) (*Converter, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		parser:  punch.NewParser(logger),
		logger:  logger,
		options: options,
	}, nil
}

// Convert parses raw records and builds the grid. Unreadable records are
// skipped; a run where nothing survives parsing fails with ErrNoValidPunches.
func (c *Converter) Convert(ctx context.Context, records []model.RawRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	punches, report := c.parser.Parse(records)
	if len(punches) == 0 {
		return nil, fmt.Errorf("%w: all %d records were rejected", ErrNoValidPunches, report.Total)
	}

	result, err := c.ConvertPunches(ctx, punches)
	if err != nil {
		return nil, err
	}

	result.Skipped = report.Skipped
	result.Summary.Records = report.Total
	result.Summary.Skipped = len(report.Skipped)
	return result, nil
}

// ConvertPunches builds the grid from already parsed punches.
func (c *Converter) ConvertPunches(ctx context.Context, punches []model.PunchRecord) (*Result, error) {
	if len(punches) == 0 {
		return nil, ErrNoValidPunches
	}

	idx, err := c.aggregate(ctx, punches)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate punches: %w", err)
	}

	employees := ResolveEmployees(idx.Employees(), c.options.EmployeeOrder, c.options.Unlisted, c.logger)

	rows, err := BuildRows(idx, employees, c.options.WeekdayLabels)
	if err != nil {
		return nil, fmt.Errorf("failed to build rows: %w", err)
	}

	first, last, _ := idx.Span()
	summary := Summary{
		First:     first,
		Last:      last,
		Records:   len(punches),
		Punches:   len(punches),
		Days:      len(idx),
		Rows:      len(rows),
		Employees: len(employees),
	}
	for _, row := range rows {
		for _, pair := range row.Cells {
			if pair.CheckIn.Estimated {
				summary.EstimatedCells++
			}
			if pair.CheckOut.Estimated {
				summary.EstimatedCells++
			}
		}
	}

	c.logger.Debug("Built attendance grid",
		"first", first.String(),
		"last", last.String(),
		"rows", summary.Rows,
		"employees", summary.Employees,
		"estimated_cells", summary.EstimatedCells)

	return &Result{
		Grid:    model.Grid{Employees: employees, Rows: rows},
		Summary: summary,
	}, nil
}

func (c *Converter) aggregate(ctx context.Context, punches []model.PunchRecord) (model.AttendanceIndex, error) {
	if c.options.Workers > 1 {
		return AggregateByDate(ctx, punches, c.options.Workers)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Aggregate(punches), nil
}
