// Package storage keeps a history of digest runs.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deusflow/newsdigest/internal/config"
)

type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Run is one archived pipeline execution.
type Run struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
	ReportPath   string    `json:"report_path"`
	Status       Status    `json:"status"`
	Summary      string    `json:"summary"`
	ArticleCount int       `json:"article_count"`
	Links        []string  `json:"links"`
}

// NewRunID returns a random identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

type Archive interface {
	Record(ctx context.Context, run Run) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// New opens the archive selected by cfg.Type. Type "" and "none" give a
// no-op archive.
func New(ctx context.Context, cfg config.ArchiveConfig) (Archive, error) {
	switch cfg.Type {
	case "", "none":
		return Nop{}, nil
	case "file":
		fa := NewFileArchive(cfg.Path, cfg.RetentionDays)
		if err := fa.Load(); err != nil {
			return nil, err
		}
		return fa, nil
	case "postgres":
		return NewPostgresArchive(ctx, cfg.DSN, cfg.RetentionDays)
	default:
		return nil, fmt.Errorf("storage: unsupported archive type %q", cfg.Type)
	}
}

// Nop discards every run.
type Nop struct{}

func (Nop) Record(context.Context, Run) error          { return nil }
func (Nop) Recent(context.Context, int) ([]Run, error) { return nil, nil }
func (Nop) Close() error                               { return nil }
