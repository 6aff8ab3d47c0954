package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/xuri/excelize/v2"
)

// borderDouble is excelize's identifier for a double line border.
const borderDouble = 6

// Renderer writes attendance grids as xlsx workbooks.
type Renderer struct {
	logger *slog.Logger
	style  Style
}

// NewRenderer creates a renderer for the given style.
func NewRenderer(style Style, logger *slog.Logger) (*Renderer, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{style: style, logger: logger}, nil
}

// Style returns the style the renderer was built with.
func (r *Renderer) Style() Style {
	return r.style
}

// Render builds a workbook with a single attendance sheet. The caller owns
// the returned file and must Close it.
func (r *Renderer) Render(grid model.Grid) (*excelize.File, error) {
	layout := r.style.Layout(grid)

	f := excelize.NewFile()
	sheet := r.style.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := r.render(f, sheet, layout); err != nil {
		_ = f.Close()
		return nil, err
	}

	counts := layout.Count()
	r.logger.Debug("Rendered attendance sheet",
		"rows", len(layout.Body),
		"columns", layout.Columns,
		"late_cells", counts.Late,
		"estimated_cells", counts.Estimated)

	return f, nil
}

// Write renders the grid and serializes the workbook to w.
func (r *Renderer) Write(w io.Writer, grid model.Grid) error {
	f, err := r.Render(grid)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return nil
}

// WriteFile renders the grid to path. The workbook is written to a
// temporary file next to path and renamed into place only on success, so a
// failed run never leaves a partial document behind.
func (r *Renderer) WriteFile(path string, grid model.Grid) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".punchgrid-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := r.Write(tmp, grid); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}
	return nil
}

// FileWriter writes every grid it is given to the same xlsx path.
type FileWriter struct {
	renderer *Renderer
	path     string
}

// ToFile returns a writer bound to path.
func (r *Renderer) ToFile(path string) *FileWriter {
	return &FileWriter{renderer: r, path: path}
}

// Path returns the destination file.
func (w *FileWriter) Path() string {
	return w.path
}

// WriteGrid renders grid to the writer's path.
func (w *FileWriter) WriteGrid(ctx context.Context, grid model.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.renderer.WriteFile(w.path, grid); err != nil {
		return err
	}
	w.renderer.logger.Info("Wrote attendance workbook", "path", w.path, "rows", len(grid.Rows))
	return nil
}

func (r *Renderer) render(f *excelize.File, sheet string, layout Layout) error {
	styles := newStyleCache(f, r.style)

	base, err := styles.get(Flags{})
	if err != nil {
		return err
	}

	for i, header := range layout.Header {
		for col, text := range header {
			if err := setCell(f, sheet, col+1, i+1, text, base); err != nil {
				return err
			}
		}
	}

	for _, m := range layout.Merges {
		from, _ := excelize.CoordinatesToCellName(m.FromCol, m.FromRow)
		to, _ := excelize.CoordinatesToCellName(m.ToCol, m.ToRow)
		if err := f.MergeCell(sheet, from, to); err != nil {
			return fmt.Errorf("failed to merge %s:%s: %w", from, to, err)
		}
	}

	for i, row := range layout.Body {
		for j, cell := range row {
			id, err := styles.get(cell.Flags)
			if err != nil {
				return err
			}
			if err := setCell(f, sheet, j+1, FirstBodyRow+i, cell.Text, id); err != nil {
				return err
			}
		}
	}

	for i, width := range layout.Widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	topLeft, _ := excelize.CoordinatesToCellName(NoteColumn, FirstBodyRow)
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      NoteColumn - 1,
		YSplit:      HeaderRows,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, text string, styleID int) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if text != "" {
		if err := f.SetCellStr(sheet, name, text); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := f.SetCellStyle(sheet, name, name, styleID); err != nil {
		return fmt.Errorf("failed to style %s: %w", name, err)
	}
	return nil
}

// styleCache registers one excelize style per distinct flag combination.
type styleCache struct {
	file  *excelize.File
	ids   map[Flags]int
	style Style
}

func newStyleCache(f *excelize.File, style Style) *styleCache {
	return &styleCache{file: f, style: style, ids: make(map[Flags]int)}
}

func (c *styleCache) get(flags Flags) (int, error) {
	if id, ok := c.ids[flags]; ok {
		return id, nil
	}
	id, err := c.file.NewStyle(c.style.cellStyle(flags))
	if err != nil {
		return 0, fmt.Errorf("failed to register cell style: %w", err)
	}
	c.ids[flags] = id
	return id, nil
}

// cellStyle composes the formatting layers in a fixed order: week border,
// then the late fill and font, then the estimated fill. A cell that is both
// late and estimated therefore shows the estimated fill with the late font.
func (s Style) cellStyle(flags Flags) *excelize.Style {
	st := &excelize.Style{
		Font: &excelize.Font{
			Family: s.FontFamily,
			Size:   s.FontSize,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	}

	if flags.WeekStart {
		st.Border = []excelize.Border{{Type: "top", Color: s.BorderColor, Style: borderDouble}}
	}
	if flags.Late {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.LateFill}}
		st.Font.Color = s.LateFont
	}
	if flags.Estimated {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.EstimatedFill}}
	}
	return st
}
