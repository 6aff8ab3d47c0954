package loader

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTerminalExport writes a workbook shaped like the terminal's export:
// two title rows, then the header, then data.
func writeTerminalExport(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"출입 기록"},
		{"2024-01-01 ~ 2024-01-02"},
		{"인증일시", "요일", "사원번호", "이름", "인증모드", "부서"},
		{"2024-01-01 오전 08:40:00", "월", "1001", "A", "출근", "개발"},
		{"2024-01-01 오후 06:00:00", "월", "1001", "A", "퇴근", "개발"},
		{},
		{nil, "화", "1002", "B", "출근", "운영"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	// A real date cell instead of text.
	require.NoError(t, f.SetCellValue(sheet, "A7", time.Date(2024, 1, 2, 9, 10, 0, 0, time.UTC)))

	path := filepath.Join(dir, "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_XLSX(t *testing.T) {
	path := writeTerminalExport(t, t.TempDir())

	records, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []model.RawRecord{
		{Timestamp: "2024-01-01 오전 08:40:00", Mode: "출근", Employee: "A", Source: "export.xlsx:4"},
		{Timestamp: "2024-01-01 오후 06:00:00", Mode: "퇴근", Employee: "A", Source: "export.xlsx:5"},
		{Timestamp: "2024-01-02 09:10:00", Mode: "출근", Employee: "B", Source: "export.xlsx:7"},
	}, records)
}

func TestRead_HTMLTable(t *testing.T) {
	html := `<html><body>
<table><tr><td>Attendance report</td></tr></table>
<table>
  <tr><th>Name</th><th>Timestamp</th><th>Mode</th></tr>
  <tr><td> Kim </td><td>2024-01-03 08:00:00</td><td>Check-in</td></tr>
  <tr><td>Kim</td><td>2024-01-03 PM 05:00:00</td><td>Check-out</td></tr>
</table>
</body></html>`

	records, err := New(nil).Read(context.Background(), strings.NewReader(html), "report.html")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.RawRecord{
		Timestamp: "2024-01-03 08:00:00",
		Mode:      "Check-in",
		Employee:  "Kim",
		Source:    "report.html:2",
	}, records[0])
	assert.Equal(t, "2024-01-03 PM 05:00:00", records[1].Timestamp)
}

func TestRead_MarkupSavedAsXLS(t *testing.T) {
	html := `<table>
<tr><td>인증일시</td><td>이름</td><td>인증모드</td></tr>
<tr><td>2024-01-04 오전 07:55:00</td><td>C</td><td>출근</td></tr>
</table>`

	records, err := New(nil).Read(context.Background(), strings.NewReader(html), "legacy.xls")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "C", records[0].Employee)
	assert.Equal(t, "legacy.xls:2", records[0].Source)
}

func TestRead_CSV(t *testing.T) {
	csv := "\xEF\xBB\xBFtitle\n" +
		"Employee ID,Date Time,Action\n" +
		"1001,2024-01-05 08:31:00,in\n" +
		",,\n" +
		"1001,2024-01-05 17:00:00,out\n"

	records, err := New(nil).Read(context.Background(), strings.NewReader(csv), "punches.csv")
	require.NoError(t, err)
	assert.Equal(t, []model.RawRecord{
		{Timestamp: "2024-01-05 08:31:00", Mode: "in", Employee: "1001", Source: "punches.csv:3"},
		{Timestamp: "2024-01-05 17:00:00", Mode: "out", Employee: "1001", Source: "punches.csv:5"},
	}, records)
}

func TestRead_PrefersNameOverEmployeeNumber(t *testing.T) {
	csv := "사원번호,인증일시,이름,인증모드\n7,2024-01-05 08:00:00,D,출근\n"

	records, err := New(nil).Read(context.Background(), strings.NewReader(csv), "x.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "D", records[0].Employee)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		file    string
		wantErr error
	}{
		{
			name:    "unsupported extension",
			content: "a,b",
			file:    "input.txt",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "empty file",
			content: "  \n",
			file:    "input.csv",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "header only",
			content: "Timestamp,Mode,Name\n",
			file:    "input.csv",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "no timestamp column",
			content: "When,Mode,Name\n2024-01-01 08:00:00,in,A\n",
			file:    "input.csv",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "no mode column",
			content: "Timestamp,Name\n2024-01-01 08:00:00,A\n",
			file:    "input.csv",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "no employee column",
			content: "Timestamp,Mode\n2024-01-01 08:00:00,in\n",
			file:    "input.csv",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "markup without tables",
			content: "<html><body><p>nothing</p></body></html>",
			file:    "input.html",
			wantErr: ErrEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Read(context.Background(), strings.NewReader(tt.content), tt.file)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRead_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Read(ctx, strings.NewReader("Timestamp,Mode,Name\n"), "x.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRead_LogsToInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	csv := "Name,Timestamp,Mode\nA,2024-01-01 08:00:00,in\n"
	records, err := New(logger).Read(context.Background(), strings.NewReader(csv), "punches.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Contains(t, buf.String(), "Loaded export")
	assert.Contains(t, buf.String(), "file=punches.csv")
	assert.Contains(t, buf.String(), "records=1")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New(nil).Load(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	first := writeTerminalExport(t, dir)
	second := filepath.Join(dir, "more.csv")
	require.NoError(t, os.WriteFile(second, []byte("Name,Timestamp,Mode\nE,2024-01-08 08:00:00,in\n"), 0600))

	records, err := New(nil).LoadAll(context.Background(), []string{first, second})
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "more.csv:2", records[3].Source)

	_, err = New(nil).LoadAll(context.Background(), []string{first, filepath.Join(dir, "bad.txt")})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "2024-01-01 08:00:00", want: "2024-01-01 08:00:00"},
		{in: "45292.5", want: "2024-01-01 12:00:00"},
		{in: "0.5", want: "0.5"},
		{in: "garbage", want: "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTimestamp(tt.in))
		})
	}
}

func TestFormats(t *testing.T) {
	for _, ext := range Formats() {
		_, ok := readers[ext]
		assert.True(t, ok, ext)
	}
}
