package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewWriter(dir, "txt")
	day := time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)

	path, err := w.Write("1. Something happened [https://example.com/a]", day)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	want := filepath.Join(dir, "news_summary_2026-10-15.txt")
	if path != want {
		t.Errorf("Expected path %s, got %s", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	expected := "Daily News Summary - 2026-10-15\n" +
		"Note: Links in square brackets [] are clickable in most text editors.\n\n" +
		"1. Something happened [https://example.com/a]"
	if string(data) != expected {
		t.Errorf("Unexpected report content:\n%q\nwant:\n%q", string(data), expected)
	}
}

func TestWriteOverwritesSameDay(t *testing.T) {
	w := NewWriter(t.TempDir(), "txt")
	day := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	if _, err := w.Write("first", day); err != nil {
		t.Fatal(err)
	}
	path, err := w.Write("second", day.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != Header(day)+"second" {
		t.Errorf("Expected overwritten report, got %q", string(data))
	}
}

func TestPathExtension(t *testing.T) {
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		ext  string
		want string
	}{
		{"txt", "news_summary_2026-01-02.txt"},
		{".md", "news_summary_2026-01-02.md"},
		{"", "news_summary_2026-01-02.txt"},
	}
	for _, tt := range tests {
		w := NewWriter("out", tt.ext)
		if got := w.Path(day); got != filepath.Join("out", tt.want) {
			t.Errorf("Path with ext %q = %s, want %s", tt.ext, got, tt.want)
		}
	}
}

func TestWriteUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(filepath.Join(blocker, "reports"), "txt")
	if _, err := w.Write("summary", time.Now()); err == nil {
		t.Fatal("Expected error when reports directory cannot be created")
	}
}
