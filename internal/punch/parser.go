package punch

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/punchgrid/internal/model"
)

// Record-level errors. None of them stops a batch.
var (
	ErrUnknownMode   = errors.New("unknown punch mode")
	ErrEmptyEmployee = errors.New("employee name is empty")
)

var modeTokens = map[string]model.PunchMode{
	"출근":        model.ModeCheckIn,
	"check-in":  model.ModeCheckIn,
	"check in":  model.ModeCheckIn,
	"checkin":   model.ModeCheckIn,
	"clock-in":  model.ModeCheckIn,
	"in":        model.ModeCheckIn,
	"퇴근":        model.ModeCheckOut,
	"check-out": model.ModeCheckOut,
	"check out": model.ModeCheckOut,
	"checkout":  model.ModeCheckOut,
	"clock-out": model.ModeCheckOut,
	"out":       model.ModeCheckOut,
}

// ParseMode maps a terminal mode token onto a PunchMode.
func ParseMode(token string) (model.PunchMode, error) {
	mode, ok := modeTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, token)
	}
	return mode, nil
}

// Skipped describes one raw record the parser discarded.
type Skipped struct {
	Err    error
	Record model.RawRecord
}

// Report summarizes a parse run.
type Report struct {
	Skipped  []Skipped
	Total    int
	Accepted int
}

// Parser converts raw loader records into punches.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser that reports skipped records to logger.
// A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse converts every record it can. Records with an unreadable timestamp,
// an unknown mode or no employee are logged, listed in the report and dropped.
func (p *Parser) Parse(records []model.RawRecord) ([]model.PunchRecord, Report) {
	report := Report{Total: len(records)}
	punches := make([]model.PunchRecord, 0, len(records))

	for _, rec := range records {
		punch, err := ParseRecord(rec)
		if err != nil {
			p.logger.Warn("Skipping punch",
				"source", rec.Source,
				"employee", rec.Employee,
				"timestamp", rec.Timestamp,
				"error", err)
			report.Skipped = append(report.Skipped, Skipped{Record: rec, Err: err})
			continue
		}
		punches = append(punches, punch)
	}

	report.Accepted = len(punches)
	if len(report.Skipped) > 0 {
		p.logger.Info("Parsed punches with skips",
			"accepted", report.Accepted,
			"skipped", len(report.Skipped))
	}

	return punches, report
}

// ParseRecord converts a single raw record.
func ParseRecord(rec model.RawRecord) (model.PunchRecord, error) {
	employee := strings.TrimSpace(rec.Employee)
	if employee == "" {
		return model.PunchRecord{}, ErrEmptyEmployee
	}

	mode, err := ParseMode(rec.Mode)
	if err != nil {
		return model.PunchRecord{}, err
	}

	date, clock, err := ParseTimestamp(rec.Timestamp)
	if err != nil {
		return model.PunchRecord{}, err
	}

	return model.PunchRecord{
		Employee: employee,
		Mode:     mode,
		Date:     date,
		Time:     clock,
	}, nil
}
