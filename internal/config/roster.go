package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/punchgrid/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRoster is returned for rosters with blank or repeated names.
var ErrInvalidRoster = errors.New("invalid roster")

// RosterEntry is one employee column. Aliases are other spellings the
// terminal may record for the same person.
type RosterEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// UnmarshalYAML accepts either a bare name or a mapping.
func (e *RosterEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.Name = value.Value
		return nil
	}
	type plain RosterEntry
	return value.Decode((*plain)(e))
}

// Roster lists employees in column order.
//
//	employees:
//	  - 강희경(Sophie)
//	  - name: 김민수
//	    aliases: [Minsu, M. Kim]
type Roster struct {
	Employees []RosterEntry `yaml:"employees"`
}

// LoadRoster reads and validates a roster file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(ExpandPath(path)) // #nosec G304 -- roster path comes from the operator's config
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes and validates roster YAML.
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate rejects blank names and any name or alias used twice.
func (r *Roster) Validate() error {
	seen := make(map[string]string)
	for i, e := range r.Employees {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidRoster, i+1)
		}
		for _, key := range append([]string{name}, e.Aliases...) {
			key = strings.TrimSpace(key)
			if owner, dup := seen[key]; dup {
				return fmt.Errorf("%w: %q is listed for both %q and %q", ErrInvalidRoster, key, owner, name)
			}
			seen[key] = name
		}
	}
	return nil
}

// Names returns the display names in column order.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.Employees))
	for _, e := range r.Employees {
		names = append(names, strings.TrimSpace(e.Name))
	}
	return names
}

// Resolve maps an alias to its display name. Unknown names pass through.
func (r *Roster) Resolve(name string) string {
	name = strings.TrimSpace(name)
	for _, e := range r.Employees {
		for _, alias := range e.Aliases {
			if strings.TrimSpace(alias) == name {
				return strings.TrimSpace(e.Name)
			}
		}
	}
	return name
}

// Apply rewrites aliased employee names in records, returning a new slice.
func (r *Roster) Apply(records []model.RawRecord) []model.RawRecord {
	out := make([]model.RawRecord, len(records))
	for i, rec := range records {
		rec.Employee = r.Resolve(rec.Employee)
		out[i] = rec
	}
	return out
}
