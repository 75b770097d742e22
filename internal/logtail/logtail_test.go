package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ideas.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, all},
		{"read all (negative)", -1, all},
		{"read partial (5)", 5, all[5:]},
		{"read exactly all (10)", 10, all},
		{"read more than exists (20)", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Read = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "missing.log"), 5)
	if err != nil || got != nil {
		t.Fatalf("Read = %v, %v, want nil, nil", got, err)
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 3, 5, 10, 4, 5, 0, time.Local).Format(time.RFC3339)
	line := fmt.Sprintf(`{"level":"warn","error":"boom","page":3,"time":%q,"message":"Listing fetch failed"}`, ts)

	if got, want := Format(line), "10:04:05 WRN Listing fetch failed error=boom page=3"; got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
	if got := Format("plain text"); got != "plain text" {
		t.Fatalf("Format(plain) = %q", got)
	}
	if got := Format(`{"message":"no level"}`); got != "??? no level" {
		t.Fatalf("Format(no level) = %q", got)
	}
}
