package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/engine"
	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/report"
	"github.com/Veraticus/punchgrid/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const rosterYAML = `
employees:
  - 강희경(Sophie)
  - name: 김민수
    aliases: [Minsu, M. Kim]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseRoster(t *testing.T) {
	r, err := ParseRoster([]byte(rosterYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"강희경(Sophie)", "김민수"}, r.Names())
	assert.Equal(t, "김민수", r.Resolve("Minsu"))
	assert.Equal(t, "김민수", r.Resolve(" M. Kim "))
	assert.Equal(t, "Unknown", r.Resolve("Unknown"))
}

func TestParseRoster_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "blank name", yaml: "employees:\n  - name: \"\"\n"},
		{name: "duplicate name", yaml: "employees:\n  - A\n  - A\n"},
		{name: "alias shadows name", yaml: "employees:\n  - A\n  - name: B\n    aliases: [A]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoster([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidRoster)
		})
	}

	_, err := ParseRoster([]byte("employees: {"))
	assert.Error(t, err)
}

func TestRosterApply(t *testing.T) {
	r, err := ParseRoster([]byte(rosterYAML))
	require.NoError(t, err)

	in := []model.RawRecord{
		{Employee: "Minsu", Timestamp: "2024-01-01 08:00:00", Mode: "출근"},
		{Employee: "Other", Timestamp: "2024-01-01 08:00:00", Mode: "출근"},
	}
	out := r.Apply(in)

	assert.Equal(t, "김민수", out[0].Employee)
	assert.Equal(t, "Other", out[1].Employee)
	assert.Equal(t, "Minsu", in[0].Employee, "input is not modified")
}

func TestLoadRoster_Missing(t *testing.T) {
	_, err := LoadRoster(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadReportOptionsFrom_Defaults(t *testing.T) {
	settings, err := LoadReportOptionsFrom(newViper())
	require.NoError(t, err)

	assert.Nil(t, settings.Roster)
	assert.Equal(t, report.DefaultStyle(), settings.Style)
	assert.Equal(t, engine.DefaultOptions().WeekdayLabels, settings.Options.WeekdayLabels)
	assert.Equal(t, engine.UnlistedAppend, settings.Options.Unlisted)
	assert.Empty(t, settings.Options.EmployeeOrder)
}

func TestLoadReportOptionsFrom(t *testing.T) {
	v := newViper()
	v.Set(KeyLateThreshold, "09:00:00")
	v.Set(KeyLabels, "KO")
	v.Set(KeyUnlisted, "drop")
	v.Set(KeySheetName, "근태")
	v.Set(KeyEmployeeOrder, []string{"B, A", "C"})
	v.Set(KeyWorkers, 4)

	settings, err := LoadReportOptionsFrom(v)
	require.NoError(t, err)

	assert.Equal(t, model.NewClockTime(9, 0, 0), settings.Style.LateThreshold)
	assert.Equal(t, report.KoreanLabels(), settings.Style.Labels)
	assert.Equal(t, "근태", settings.Style.SheetName)
	assert.Equal(t, engine.KoreanWeekdayLabels(), settings.Options.WeekdayLabels)
	assert.Equal(t, engine.UnlistedDrop, settings.Options.Unlisted)
	assert.Equal(t, []string{"B", "A", "C"}, settings.Options.EmployeeOrder)
	assert.Equal(t, 4, settings.Options.Workers)
}

func TestLoadReportOptionsFrom_RosterOverridesOrder(t *testing.T) {
	v := newViper()
	v.Set(KeyEmployeeOrder, []string{"Z"})
	v.Set(KeyRosterFile, writeFile(t, "roster.yaml", rosterYAML))

	settings, err := LoadReportOptionsFrom(v)
	require.NoError(t, err)
	require.NotNil(t, settings.Roster)
	assert.Equal(t, []string{"강희경(Sophie)", "김민수"}, settings.Options.EmployeeOrder)
}

func TestLoadReportOptionsFrom_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "bad threshold", key: KeyLateThreshold, value: "8:30"},
		{name: "unknown labels", key: KeyLabels, value: "fr"},
		{name: "unknown policy", key: KeyUnlisted, value: "ignore"},
		{name: "negative workers", key: KeyWorkers, value: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := LoadReportOptionsFrom(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}

	v := newViper()
	v.Set(KeyRosterFile, writeFile(t, "roster.yaml", "employees:\n  - A\n  - A\n"))
	_, err := LoadReportOptionsFrom(v)
	assert.ErrorIs(t, err, ErrInvalidRoster)
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, splitNames([]string{" A ,B", "", "C,"}))
	assert.Nil(t, splitNames(nil))
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("PUNCHGRID_TEST_KEEP", "original")
	os.Unsetenv("PUNCHGRID_TEST_NEW")
	t.Cleanup(func() { os.Unsetenv("PUNCHGRID_TEST_NEW") })

	path := writeFile(t, ".env", "PUNCHGRID_TEST_NEW=loaded\nPUNCHGRID_TEST_KEEP=overridden\n")
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))

	assert.Equal(t, "loaded", os.Getenv("PUNCHGRID_TEST_NEW"))
	assert.Equal(t, "original", os.Getenv("PUNCHGRID_TEST_KEEP"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PUNCHGRID_TEST_DIR", "/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "x.db"), ExpandPath("~/x.db"))
	assert.Equal(t, "/data/x.db", ExpandPath("$PUNCHGRID_TEST_DIR/x.db"))
	assert.Equal(t, "/abs/~x", ExpandPath("/abs/~x"))
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	assert.Equal(t, "/cfg/punchgrid", ConfigDir())
	assert.Equal(t, "/data/punchgrid/punchgrid.db", DefaultDatabasePath())
	assert.Equal(t, "/cfg/punchgrid/sheets-token.json", SheetsTokenFile())
}

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadSheetsConfigFrom(t *testing.T) {
	clearSheetsEnv(t)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "env-token")

	v := viper.New()
	v.Set("sheets.client_id", "viper-client")
	v.Set("sheets.spreadsheet_id", "sheet-123")
	v.Set("sheets.time_zone", "UTC")

	cfg, err := LoadSheetsConfigFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "viper-client", cfg.ClientID, "viper wins over env")
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "sheet-123", cfg.SpreadsheetID)
	assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestLoadSheetsConfigFrom_SavedToken(t *testing.T) {
	clearSheetsEnv(t)
	require.NoError(t, sheets.SaveToken(SheetsTokenFile(), &oauth2.Token{RefreshToken: "saved"}))

	v := viper.New()
	v.Set("sheets.client_id", "client")
	v.Set("sheets.client_secret", "secret")

	cfg, err := LoadSheetsConfigFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "saved", cfg.RefreshToken)
}

func TestLoadSheetsConfigFrom_NoAuth(t *testing.T) {
	clearSheetsEnv(t)
	_, err := LoadSheetsConfigFrom(viper.New())
	assert.ErrorIs(t, err, sheets.ErrNoAuth)
}
