// Package export turns task rows into a Todoist import CSV: a header row
// for the active profile, then one data row per task in source order.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"taskport/internal/config"
	"taskport/internal/taskdb"
)

// Placeholder emitted when a task has no content.
const UntitledContent = "Untitled Task"

// Render produces the complete CSV as a byte slice. Building the file in
// memory keeps the on-disk write atomic: either the whole export lands or
// nothing does.
func Render(tasks []taskdb.Task, p config.Profile, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(p.Headers()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, t := range tasks {
		if err := w.Write(record(t, p, loc)); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV renders the tasks and commits them to path atomically. It
// returns the number of data rows written.
func WriteCSV(path string, tasks []taskdb.Task, p config.Profile, loc *time.Location) (int, error) {
	data, err := Render(tasks, p, loc)
	if err != nil {
		return 0, err
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(tasks), nil
}

func record(t taskdb.Task, p config.Profile, loc *time.Location) []string {
	content := t.Content.String
	if content == "" {
		content = UntitledContent
	}

	date := ""
	if t.Due.Valid {
		date = FormatMillis(t.Due.Int64, loc)
	}
	if date == "" && t.Reminder.Valid {
		date = FormatMillis(t.Reminder.Int64, loc)
	}

	priority := 1
	if p.PriorityMode == config.PriorityColumn && t.Priority.Valid {
		priority = MapPriority(t.Priority.String)
	}

	if !p.Description {
		return []string{"task", content, strconv.Itoa(priority), date}
	}

	description := ""
	if t.Metadata.Valid && t.Metadata.String != "" {
		filePath, page, err := DecodeMetadata(t.Metadata.String)
		if err != nil {
			slog.Warn("could not decode task metadata", "task_id", t.ID.String, "err", err)
		}
		description = SourceDescription(filePath, page)
	}
	return []string{"task", content, description, strconv.Itoa(priority), date}
}
