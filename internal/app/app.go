// Package app runs the digest pipeline: fetch, normalize, select, summarize,
// write the report and archive the run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/newsdigest/internal/config"
	"github.com/deusflow/newsdigest/internal/metrics"
	"github.com/deusflow/newsdigest/internal/news"
	"github.com/deusflow/newsdigest/internal/prompt"
	"github.com/deusflow/newsdigest/internal/report"
	"github.com/deusflow/newsdigest/internal/rss"
	"github.com/deusflow/newsdigest/internal/storage"
	"github.com/deusflow/newsdigest/internal/summarizer"
)

// Fixed summaries written when there is nothing to summarize or the
// summarizer failed.
const (
	NoArticlesSummary = "No news articles found for today."
	ErrorSummary      = "Error generating summary. Please try again."
)

// Deps are the collaborators of a Pipeline. Archive, Logger and Now are optional.
type Deps struct {
	Fetcher    rss.Fetcher
	Summarizer summarizer.Summarizer
	Archive    storage.Archive
	Logger     *slog.Logger
	Now        func() time.Time
}

type Pipeline struct {
	cfg        *config.Config
	fetcher    rss.Fetcher
	summarizer summarizer.Summarizer
	archive    storage.Archive
	writer     *report.Writer
	normalizer news.Normalizer
	scorer     *news.Scorer
	assembler  prompt.Assembler
	log        *slog.Logger
	now        func() time.Time
}

func New(cfg *config.Config, deps Deps) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		fetcher:    deps.Fetcher,
		summarizer: deps.Summarizer,
		archive:    deps.Archive,
		writer:     report.NewWriter(cfg.Output.ReportsDirectory, cfg.Output.FileExtension),
		normalizer: news.Normalizer{
			DaysToInclude: cfg.RSS.DaysToInclude,
			MaxPerFeed:    cfg.Articles.MaxArticlesPerFeed,
			DateLayout:    cfg.Output.DateFormat,
		},
		scorer:    news.NewScorer(cfg.Scoring.CriticalKeywords, cfg.Scoring.ImportantKeywords, cfg.Output.DateFormat),
		assembler: prompt.Assembler{MaxDescriptionLength: cfg.RSS.MaxDescriptionLength},
		log:       deps.Logger,
		now:       deps.Now,
	}

	if p.archive == nil {
		p.archive = storage.Nop{}
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Result describes a finished run.
type Result struct {
	RunID      string
	ReportPath string
	Summary    string
	Status     storage.Status
	Selected   []news.Article
	Stats      map[string]interface{}
}

// Run executes one digest. Feed and summarizer failures are logged and
// degrade the report; only a missing feed list or an unwritable report
// directory is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	m := metrics.New()
	now := p.now()
	runID := storage.NewRunID()
	log := p.log.With("run_id", runID)

	feeds, err := rss.LoadFeeds(p.cfg.RSS.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed list: %w", err)
	}
	log.Info("starting digest", "feeds", len(feeds))

	articles := p.collect(ctx, log, feeds, now, m)
	selected := p.scorer.Select(articles, p.cfg.Articles.MaxArticlesToProcess, now)
	m.SetArticles(len(articles), len(selected))
	log.Info("articles selected", "collected", len(articles), "selected", len(selected))

	summary, status := p.summarize(ctx, log, selected, m)

	path, err := p.writer.Write(summary, now)
	if err != nil {
		return nil, err
	}
	log.Info("report written", "path", path, "status", status)

	links := make([]string, 0, len(selected))
	for _, a := range selected {
		links = append(links, a.Link)
	}
	run := storage.Run{
		ID:           runID,
		Date:         now.Format(report.FileDateLayout),
		CreatedAt:    now,
		ReportPath:   path,
		Status:       status,
		Summary:      summary,
		ArticleCount: len(selected),
		Links:        links,
	}
	if err := p.archive.Record(ctx, run); err != nil {
		log.Warn("failed to archive run", "error", err)
	}

	m.Finish()
	stats := m.GetStats()
	log.Info("digest finished", "stats", stats)

	return &Result{
		RunID:      runID,
		ReportPath: path,
		Summary:    summary,
		Status:     status,
		Selected:   selected,
		Stats:      stats,
	}, nil
}

func (p *Pipeline) collect(ctx context.Context, log *slog.Logger, feeds []string, now time.Time, m *metrics.Metrics) []news.Article {
	var articles []news.Article
	for _, url := range feeds {
		entries, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			m.IncrementFeedsFailed()
			log.Warn("failed to fetch feed", "url", url, "error", err)
			continue
		}
		m.IncrementFeedsFetched()

		feedArticles, stats := p.normalizer.NormalizeFeed(log, url, entries, now)
		m.AddEntries(stats.Examined, stats.Skipped, stats.OutOfWindow)
		log.Debug("feed processed", "url", url, "entries", len(entries), "kept", stats.Kept)

		articles = append(articles, feedArticles...)
	}
	return articles
}

// summarize asks the summarizer once and, when the prompt was too large,
// once more with the first half of the article blocks.
func (p *Pipeline) summarize(ctx context.Context, log *slog.Logger, selected []news.Article, m *metrics.Metrics) (string, storage.Status) {
	if len(selected) == 0 {
		log.Info("no articles to summarize")
		return NoArticlesSummary, storage.StatusEmpty
	}

	blocks := p.assembler.Blocks(selected)
	text, err := p.request(ctx, blocks, m)
	if errors.Is(err, summarizer.ErrContextLength) {
		half := prompt.Halve(blocks)
		log.Warn("prompt too large, retrying with fewer articles", "articles", len(blocks), "retry_articles", len(half), "error", err)
		text, err = p.request(ctx, half, m)
	}
	if err != nil {
		m.SetError(err.Error())
		log.Error("failed to generate summary", "error", err)
		return ErrorSummary, storage.StatusFailed
	}
	return text, storage.StatusOK
}

func (p *Pipeline) request(ctx context.Context, blocks []string, m *metrics.Metrics) (string, error) {
	m.IncrementSummaryAttempts()
	return p.summarizer.Summarize(ctx, summarizer.Request{
		System: prompt.SystemPrompt(p.cfg.OpenAI.MaxNewsItems),
		User:   prompt.UserPrompt(prompt.Join(blocks)),
	})
}
