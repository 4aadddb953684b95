package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority modes for an export profile.
const (
	PriorityColumn = "column"
	PriorityFixed  = "fixed"
)

// Columns maps the logical task fields to source column names. Binding by
// name replaces the positional offsets the legacy exporters used, so a
// reordered source table cannot silently shift fields.
type Columns struct {
	ID       string `yaml:"id"`
	Content  string `yaml:"content"`
	Due      string `yaml:"due"`
	Reminder string `yaml:"reminder"`
	Status   string `yaml:"status"`
	Metadata string `yaml:"metadata"`
	Priority string `yaml:"priority"`
}

// Profile describes one export flavor: which table and columns to read,
// which status marks a task active, and how the output is shaped.
type Profile struct {
	Name         string  `yaml:"name"`
	Table        string  `yaml:"table"`
	ActiveStatus string  `yaml:"activeStatus"`
	Timezone     string  `yaml:"timezone"`
	PriorityMode string  `yaml:"priority"`
	Description  bool    `yaml:"description"`
	Columns      Columns `yaml:"columns"`
}

func defaultColumns() Columns {
	return Columns{
		ID:       "_id",
		Content:  "title",
		Due:      "due_date",
		Reminder: "reminder_date",
		Status:   "status",
		Metadata: "metadata",
		Priority: "priority",
	}
}

// BuiltinProfile returns one of the shipped export profiles. The standard
// profile maps a priority column into the 4-level output scale; the
// supernote profile instead decodes the metadata blob into a DESCRIPTION
// column and pins every task to the lowest priority, matching the legacy
// Supernote exporter.
func BuiltinProfile(name string) (Profile, error) {
	base := Profile{
		Table:        "task",
		ActiveStatus: "needsAction",
		Columns:      defaultColumns(),
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard", "":
		base.Name = "standard"
		base.PriorityMode = PriorityColumn
		return base, nil
	case "supernote":
		base.Name = "supernote"
		base.PriorityMode = PriorityFixed
		base.Description = true
		return base, nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q (builtin profiles: standard, supernote)", name)
	}
}

// LoadProfile overlays a YAML mapping file onto base. Keys absent from the
// file keep the base value, so a mapping file only has to name what differs.
func LoadProfile(path string, base Profile) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read mapping file: %w", err)
	}
	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse mapping file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("mapping file %s: %w", path, err)
	}
	return p, nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Table) == "" {
		return fmt.Errorf("table must not be empty")
	}
	if strings.TrimSpace(p.ActiveStatus) == "" {
		return fmt.Errorf("activeStatus must not be empty")
	}
	if p.PriorityMode != PriorityColumn && p.PriorityMode != PriorityFixed {
		return fmt.Errorf("priority must be %q or %q, got %q", PriorityColumn, PriorityFixed, p.PriorityMode)
	}
	required := map[string]string{
		"columns.id":       p.Columns.ID,
		"columns.content":  p.Columns.Content,
		"columns.due":      p.Columns.Due,
		"columns.reminder": p.Columns.Reminder,
		"columns.status":   p.Columns.Status,
	}
	if p.Description {
		required["columns.metadata"] = p.Columns.Metadata
	}
	if p.PriorityMode == PriorityColumn {
		required["columns.priority"] = p.Columns.Priority
	}
	for key, val := range required {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

// Headers returns the CSV header row for this profile.
func (p Profile) Headers() []string {
	if p.Description {
		return []string{"TYPE", "CONTENT", "DESCRIPTION", "PRIORITY", "DATE"}
	}
	return []string{"TYPE", "CONTENT", "PRIORITY", "DATE"}
}
