package export

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// FormatMillis converts an epoch-millisecond timestamp to the date format
// Todoist accepts in import files, e.g. "Apr 01 2025". Zero and negative
// values mean "no date" and yield the empty string. The location decides
// which calendar day an instant falls on.
func FormatMillis(ms int64, loc *time.Location) string {
	if ms <= 0 {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(ms/1000, 0).In(loc).Format("Jan 02 2006")
}

// MapPriority buckets a raw source priority (an assumed 1-10ish scale) into
// Todoist's four levels, where 4 is the most urgent. Anything absent or
// unparseable lands on 1.
func MapPriority(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	switch {
	case n >= 7:
		return 4
	case n >= 5:
		return 3
	case n >= 3:
		return 2
	default:
		return 1
	}
}

// DecodeMetadata unpacks the Base64(JSON) provenance blob the Supernote app
// attaches to synced tasks and returns its filePath and page values. A
// missing blob returns two empty strings with no error; a malformed blob
// returns two empty strings plus the decode error so the caller can warn
// and keep going.
func DecodeMetadata(encoded string) (filePath, page string, err error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", fmt.Errorf("decode base64: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", "", fmt.Errorf("metadata is not valid UTF-8")
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", "", fmt.Errorf("parse metadata json: %w", err)
	}
	if v, ok := meta["filePath"].(string); ok {
		filePath = v
	}
	if v, ok := meta["page"]; ok && v != nil {
		switch n := v.(type) {
		case float64:
			page = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			page = fmt.Sprint(n)
		}
	}
	return filePath, page, nil
}

// SourceDescription builds the human-readable provenance line shown in the
// DESCRIPTION column. Only the file name survives; directory segments are
// noise from the source device.
func SourceDescription(filePath, page string) string {
	if filePath == "" {
		return ""
	}
	return fmt.Sprintf("Supernote Source: %s, Page: %s", path.Base(filePath), page)
}
