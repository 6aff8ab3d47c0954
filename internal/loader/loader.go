// Package loader reads attendance terminal exports into raw punch records.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/punchgrid/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrEmptyInput is returned when a file holds no sheet or no data rows.
	ErrEmptyInput = errors.New("input contains no rows")
	// ErrMissingColumn is returned when a required column has no header.
	ErrMissingColumn = errors.New("required column not found")
)

// rowReader turns file contents into a matrix of cell texts.
type rowReader func(data []byte, logger *slog.Logger) ([][]string, error)

var readers = map[string]rowReader{
	".xlsx": readXLSX,
	".xlsm": readXLSX,
	".xls":  readXLS,
	".xml":  readMarkup,
	".html": readMarkup,
	".htm":  readMarkup,
	".csv":  readCSV,
}

// Formats lists the file extensions Load accepts.
func Formats() []string {
	return []string{".xlsx", ".xlsm", ".xls", ".xml", ".html", ".htm", ".csv"}
}

// Supported reports whether path has an extension Load can read.
func Supported(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Loader reads exports from disk or from a stream.
type Loader struct {
	logger *slog.Logger
}

// New creates a Loader. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the export at path.
func (l *Loader) Load(ctx context.Context, path string) ([]model.RawRecord, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	return l.Read(ctx, f, path)
}

// Read parses an export from r. The name selects the format by extension and
// prefixes the Source of every record.
func (l *Loader) Read(ctx context.Context, r io.Reader, name string) ([]model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(name))
	read, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	// Terminals commonly save HTML tables under an .xls name.
	if ext == ".xls" && looksLikeMarkup(data) {
		read = readMarkup
	}

	rows, err := read(data, l.logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := extract(rows, filepath.Base(name))
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Loaded export",
		"file", name,
		"rows", len(rows),
		"records", len(records))
	return records, nil
}

// LoadAll reads every path in order and concatenates the records.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]model.RawRecord, error) {
	var all []model.RawRecord
	for _, path := range paths {
		records, err := l.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, records...)
	}
	return all, nil
}

func looksLikeMarkup(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<")) &&
		(bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<table")) ||
			bytes.Contains(head, []byte("<?xml")))
}
