package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileArchive keeps runs in a JSON file. Runs older than the retention
// window are dropped on load and on every write.
type FileArchive struct {
	filePath      string
	retentionDays int
	runs          []Run
	mu            sync.RWMutex
}

func NewFileArchive(filePath string, retentionDays int) *FileArchive {
	return &FileArchive{
		filePath:      filePath,
		retentionDays: retentionDays,
	}
}

// Load reads existing runs from disk. A missing or empty file is an empty archive.
func (fa *FileArchive) Load() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	data, err := os.ReadFile(fa.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read archive file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var runs []Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return fmt.Errorf("failed to unmarshal archive: %w", err)
	}
	fa.runs = fa.prune(runs, time.Now())
	return nil
}

func (fa *FileArchive) Record(_ context.Context, run Run) error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	fa.runs = fa.prune(append(fa.runs, run), time.Now())
	return fa.save()
}

func (fa *FileArchive) Recent(_ context.Context, limit int) ([]Run, error) {
	fa.mu.RLock()
	defer fa.mu.RUnlock()

	runs := make([]Run, len(fa.runs))
	copy(runs, fa.runs)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (fa *FileArchive) Close() error {
	return nil
}

func (fa *FileArchive) prune(runs []Run, now time.Time) []Run {
	if fa.retentionDays <= 0 {
		return runs
	}

	cutoff := now.AddDate(0, 0, -fa.retentionDays)
	kept := runs[:0]
	for _, r := range runs {
		if r.CreatedAt.After(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}

// save writes through a temp file so a crash never leaves a half-written archive.
func (fa *FileArchive) save() error {
	data, err := json.MarshalIndent(fa.runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}

	if dir := filepath.Dir(fa.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	tmp := fa.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := os.Rename(tmp, fa.filePath); err != nil {
		return fmt.Errorf("failed to replace archive file: %w", err)
	}
	return nil
}
