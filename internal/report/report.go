// Package report writes the daily summary to a dated text file.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileDateLayout is the date in report file names, independent of the
// configured article date layout.
const FileDateLayout = "2006-01-02"

const clickableNote = "Note: Links in square brackets [] are clickable in most text editors."

type Writer struct {
	Dir       string
	Extension string
}

func NewWriter(dir, ext string) *Writer {
	return &Writer{Dir: dir, Extension: ext}
}

// Path returns the report path for the given day.
func (w *Writer) Path(day time.Time) string {
	ext := strings.TrimPrefix(w.Extension, ".")
	if ext == "" {
		ext = "txt"
	}
	name := fmt.Sprintf("news_summary_%s.%s", day.Format(FileDateLayout), ext)
	return filepath.Join(w.Dir, name)
}

// Header renders the two header lines and the blank separator line.
func Header(day time.Time) string {
	return fmt.Sprintf("Daily News Summary - %s\n%s\n\n", day.Format(FileDateLayout), clickableNote)
}

// Write creates the reports directory if needed and writes the summary,
// replacing any report already written for that day.
func (w *Writer) Write(summary string, day time.Time) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory %s: %w", w.Dir, err)
	}

	path := w.Path(day)
	content := Header(day) + summary
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}
