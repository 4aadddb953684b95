package export

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestFormatMillisEmptyInputs(t *testing.T) {
	for _, ms := range []int64{0, -1, -1743500400000} {
		if got := FormatMillis(ms, time.UTC); got != "" {
			t.Fatalf("FormatMillis(%d) = %q, want empty", ms, got)
		}
	}
}

func TestFormatMillisKnownEpoch(t *testing.T) {
	// 2025-04-01T07:00:00Z
	if got := FormatMillis(1743500400000, time.UTC); got != "Apr 01 2025" {
		t.Fatalf("FormatMillis = %q, want %q", got, "Apr 01 2025")
	}
}

func TestFormatMillisRespectsLocation(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 2025-04-01T00:30:00Z is still March 31 on the US west coast.
	if got := FormatMillis(1743467400000, la); got != "Mar 31 2025" {
		t.Fatalf("FormatMillis = %q, want %q", got, "Mar 31 2025")
	}
	if got := FormatMillis(1743467400000, time.UTC); got != "Apr 01 2025" {
		t.Fatalf("FormatMillis = %q, want %q", got, "Apr 01 2025")
	}
}

func TestMapPriorityBuckets(t *testing.T) {
	cases := map[string]int{
		"7":   4,
		"8":   4,
		"9":   4,
		"10":  4,
		"5":   3,
		"6":   3,
		"3":   2,
		"4":   2,
		"0":   1,
		"1":   1,
		"2":   1,
		"":    1,
		"abc": 1,
		" 8 ": 4,
	}
	for raw, want := range cases {
		if got := MapPriority(raw); got != want {
			t.Fatalf("MapPriority(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestDecodeMetadataRoundTrip(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"filePath":"/Note/Projects/Ideas.note","page":3}`))
	filePath, page, err := DecodeMetadata(encoded)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if filePath != "/Note/Projects/Ideas.note" {
		t.Fatalf("filePath = %q", filePath)
	}
	if page != "3" {
		t.Fatalf("page = %q, want %q", page, "3")
	}
}

func TestDecodeMetadataStringPage(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"filePath":"Ideas.note","page":"12"}`))
	_, page, err := DecodeMetadata(encoded)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if page != "12" {
		t.Fatalf("page = %q, want %q", page, "12")
	}
}

func TestDecodeMetadataMissingKeys(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{}`))
	filePath, page, err := DecodeMetadata(encoded)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if filePath != "" || page != "" {
		t.Fatalf("expected empty pair, got (%q, %q)", filePath, page)
	}
}

func TestDecodeMetadataEmpty(t *testing.T) {
	filePath, page, err := DecodeMetadata("")
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if filePath != "" || page != "" {
		t.Fatalf("expected empty pair, got (%q, %q)", filePath, page)
	}
}

func TestDecodeMetadataInvalidBase64(t *testing.T) {
	filePath, page, err := DecodeMetadata("not base64!!!")
	if err == nil {
		t.Fatalf("expected error for invalid base64")
	}
	if filePath != "" || page != "" {
		t.Fatalf("expected empty pair on failure, got (%q, %q)", filePath, page)
	}
}

func TestDecodeMetadataInvalidJSON(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"filePath": nope`))
	_, _, err := DecodeMetadata(encoded)
	if err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestSourceDescription(t *testing.T) {
	if got := SourceDescription("", "4"); got != "" {
		t.Fatalf("expected empty description without file path, got %q", got)
	}
	got := SourceDescription("/Note/Work/Meeting Notes.note", "4")
	want := "Supernote Source: Meeting Notes.note, Page: 4"
	if got != want {
		t.Fatalf("SourceDescription = %q, want %q", got, want)
	}
}
