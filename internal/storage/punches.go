package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
)

// dateLayout is the stored form of punch dates. It sorts lexically.
const dateLayout = "2006-01-02"

// SavePunches archives punches under one import entry for source and returns
// how many were new. Punches already archived, from any import, are ignored.
func (s *SQLiteStorage) SavePunches(ctx context.Context, source string, punches []model.PunchRecord) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(source, "source"); err != nil {
		return 0, err
	}
	if err := validatePunches(punches); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO imports (source, imported_at, records) VALUES (?, ?, ?)`,
		source, time.Now().UTC(), len(punches))
	if err != nil {
		return 0, fmt.Errorf("failed to record import: %w", err)
	}
	importID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO punches (hash, employee, mode, date, time, import_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, p := range punches {
		res, err := stmt.ExecContext(ctx,
			p.Hash(), p.Employee, string(p.Mode), p.Date.Format(dateLayout), int(p.Time), importID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert punch for %s on %s: %w", p.Employee, p.Date, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE imports SET inserted = ? WHERE id = ?`, inserted, importID); err != nil {
		return 0, fmt.Errorf("failed to update import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit punches: %w", err)
	}

	slog.Info("Archived punches",
		"source", source,
		"records", len(punches),
		"inserted", inserted,
		"duplicates", len(punches)-inserted)
	return inserted, nil
}

// GetPunches returns archived punches matching filter ordered by date, time,
// employee and mode.
func (s *SQLiteStorage) GetPunches(ctx context.Context, filter model.PunchFilter) ([]model.PunchRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	where, args := filterClause(filter)
	query := `SELECT employee, mode, date, time FROM punches` + where +
		` ORDER BY date, time, employee, mode`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var punches []model.PunchRecord
	for rows.Next() {
		var (
			p       model.PunchRecord
			mode    string
			date    string
			seconds int
		)
		if err := rows.Scan(&p.Employee, &mode, &date, &seconds); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		p.Mode = model.PunchMode(mode)
		p.Date, err = model.ParseCalendarDate(date)
		if err != nil {
			return nil, fmt.Errorf("corrupt punch date %q: %w", date, err)
		}
		p.Time = model.ClockTime(seconds)
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating punches: %w", err)
	}

	return punches, nil
}

// DeletePunches removes archived punches matching filter. An empty filter
// is rejected rather than wiping the archive.
func (s *SQLiteStorage) DeletePunches(ctx context.Context, filter model.PunchFilter) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if isEmptyFilter(filter) {
		return 0, ErrUnboundedDelete
	}
	if err := validateFilter(filter); err != nil {
		return 0, err
	}

	where, args := filterClause(filter)
	res, err := s.db.ExecContext(ctx, `DELETE FROM punches`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete punches: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// GetEmployees summarizes archived punches per employee, ordered by name.
func (s *SQLiteStorage) GetEmployees(ctx context.Context) ([]model.EmployeeSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee, COUNT(*), MIN(date), MAX(date)
		FROM punches
		GROUP BY employee
		ORDER BY employee
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var employees []model.EmployeeSummary
	for rows.Next() {
		var (
			e           model.EmployeeSummary
			first, last string
		)
		if err := rows.Scan(&e.Name, &e.Punches, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if e.FirstDate, err = model.ParseCalendarDate(first); err != nil {
			return nil, fmt.Errorf("corrupt punch date %q: %w", first, err)
		}
		if e.LastDate, err = model.ParseCalendarDate(last); err != nil {
			return nil, fmt.Errorf("corrupt punch date %q: %w", last, err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetImports returns the import history, newest first.
func (s *SQLiteStorage) GetImports(ctx context.Context) ([]model.ImportRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, imported_at, records, inserted
		FROM imports
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var imports []model.ImportRecord
	for rows.Next() {
		var rec model.ImportRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.ImportedAt, &rec.Records, &rec.Inserted); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		imports = append(imports, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating imports: %w", err)
	}

	return imports, nil
}

// filterClause renders filter as a WHERE clause with positional arguments.
func filterClause(filter model.PunchFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if filter.Start != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.Start.Format(dateLayout))
	}
	if filter.End != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.End.Format(dateLayout))
	}
	if len(filter.Employees) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Employees)), ", ")
		conditions = append(conditions, "employee IN ("+placeholders+")")
		for _, e := range filter.Employees {
			args = append(args, e)
		}
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
