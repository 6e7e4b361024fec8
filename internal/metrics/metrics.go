// Package metrics collects counters for a single digest run.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched       int64
	FeedsFailed        int64
	EntriesExamined    int64
	EntriesSkipped     int64
	EntriesOutOfWindow int64
	ArticlesCollected  int64
	ArticlesSelected   int64
	SummaryAttempts    int64

	// Timings
	StartedAt time.Time
	Duration  time.Duration

	// Status
	LastError string
}

func New() *Metrics {
	return &Metrics{StartedAt: time.Now()}
}

func (m *Metrics) IncrementFeedsFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
}

func (m *Metrics) IncrementFeedsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFailed++
}

// AddEntries accumulates per-feed normalization counts.
func (m *Metrics) AddEntries(examined, skipped, outOfWindow int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesExamined += int64(examined)
	m.EntriesSkipped += int64(skipped)
	m.EntriesOutOfWindow += int64(outOfWindow)
}

func (m *Metrics) SetArticles(collected, selected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesCollected = int64(collected)
	m.ArticlesSelected = int64(selected)
}

func (m *Metrics) IncrementSummaryAttempts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryAttempts++
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
}

// Finish records the elapsed time since New.
func (m *Metrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartedAt)
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":         m.FeedsFetched,
		"feeds_failed":          m.FeedsFailed,
		"entries_examined":      m.EntriesExamined,
		"entries_skipped":       m.EntriesSkipped,
		"entries_out_of_window": m.EntriesOutOfWindow,
		"articles_collected":    m.ArticlesCollected,
		"articles_selected":     m.ArticlesSelected,
		"summary_attempts":      m.SummaryAttempts,
		"duration_ms":           m.Duration.Milliseconds(),
		"last_error":            m.LastError,
	}
}
