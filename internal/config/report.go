package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/punchgrid/internal/common"
	"github.com/Veraticus/punchgrid/internal/engine"
	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/report"
	"github.com/spf13/viper"
)

// Viper keys for report settings.
const (
	KeyLateThreshold = "report.late_threshold"
	KeyEmployeeOrder = "report.employee_order"
	KeyRosterFile    = "report.roster_file"
	KeyUnlisted      = "report.unlisted"
	KeyLabels        = "report.labels"
	KeySheetName     = "report.sheet_name"
	KeyWorkers       = "report.workers"
	KeyDatabasePath  = "database.path"
)

// Label sets selectable with report.labels.
const (
	LabelsEnglish = "en"
	LabelsKorean  = "ko"
)

// SetDefaults registers defaults for every report key on v.
func SetDefaults(v *viper.Viper) {
	style := report.DefaultStyle()
	v.SetDefault(KeyLateThreshold, style.LateThreshold.String())
	v.SetDefault(KeyUnlisted, string(engine.UnlistedAppend))
	v.SetDefault(KeyLabels, LabelsEnglish)
	v.SetDefault(KeySheetName, style.SheetName)
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
}

// ReportSettings is everything needed to convert and render a report.
type ReportSettings struct {
	Roster  *Roster
	Style   report.Style
	Options engine.Options
}

// LoadReportOptions reads report settings from the global viper instance.
func LoadReportOptions() (*ReportSettings, error) {
	return LoadReportOptionsFrom(viper.GetViper())
}

// LoadReportOptionsFrom reads and validates report settings from v. A
// roster file, when configured, decides the employee order.
func LoadReportOptionsFrom(v *viper.Viper) (*ReportSettings, error) {
	opts := engine.DefaultOptions()
	style := report.DefaultStyle()

	if raw := v.GetString(KeyLateThreshold); raw != "" {
		threshold, err := model.ParseClockTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyLateThreshold, err)
		}
		style.LateThreshold = threshold
	}

	switch strings.ToLower(v.GetString(KeyLabels)) {
	case "", LabelsEnglish:
	case LabelsKorean:
		opts.WeekdayLabels = engine.KoreanWeekdayLabels()
		style.Labels = report.KoreanLabels()
	default:
		return nil, fmt.Errorf("%w: %s must be %q or %q, got %q",
			common.ErrInvalidConfig, KeyLabels, LabelsEnglish, LabelsKorean, v.GetString(KeyLabels))
	}

	if name := v.GetString(KeySheetName); name != "" {
		style.SheetName = name
	}
	if unlisted := v.GetString(KeyUnlisted); unlisted != "" {
		opts.Unlisted = engine.UnlistedPolicy(strings.ToLower(unlisted))
	}
	if v.IsSet(KeyWorkers) {
		opts.Workers = v.GetInt(KeyWorkers)
	}

	settings := &ReportSettings{}
	opts.EmployeeOrder = splitNames(v.GetStringSlice(KeyEmployeeOrder))
	if path := v.GetString(KeyRosterFile); path != "" {
		roster, err := LoadRoster(path)
		if err != nil {
			return nil, err
		}
		settings.Roster = roster
		opts.EmployeeOrder = roster.Names()
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	settings.Options = opts
	settings.Style = style
	return settings, nil
}

// splitNames accepts both YAML lists and a comma separated env value.
func splitNames(values []string) []string {
	var names []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
