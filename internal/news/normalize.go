package news

import (
	"log/slog"
	"time"

	"github.com/deusflow/newsdigest/internal/rss"
)

// Normalizer converts raw entries into articles and applies the date window
// and the per-feed cap.
type Normalizer struct {
	DaysToInclude int
	MaxPerFeed    int
	DateLayout    string
}

// FeedStats counts what happened to the entries of one feed.
type FeedStats struct {
	Examined    int
	Skipped     int // unreadable dates
	OutOfWindow int
	Kept        int
}

// Normalize converts one entry. ok is false when the entry is outside the
// date window; err is a *DateError when its timestamp cannot be read.
func (n Normalizer) Normalize(e rss.Entry, now time.Time) (Article, bool, error) {
	published, err := resolveDate(e, now)
	if err != nil {
		return Article{}, false, err
	}

	if daysBetween(published, now) > n.DaysToInclude {
		return Article{}, false, nil
	}

	desc := e.Description
	if desc == "" {
		desc = NoDescription
	}

	date := published.Format(n.DateLayout)
	if p, err := time.ParseInLocation(n.DateLayout, date, now.Location()); err == nil {
		published = p
	}

	return Article{
		Title:       e.Title,
		Description: desc,
		Link:        e.Link,
		Source:      e.Source,
		Published:   published,
		Date:        date,
	}, true, nil
}

// NormalizeFeed normalizes at most MaxPerFeed entries of one feed, logging
// and skipping entries it cannot use.
func (n Normalizer) NormalizeFeed(log *slog.Logger, url string, entries []rss.Entry, now time.Time) ([]Article, FeedStats) {
	var stats FeedStats

	if n.MaxPerFeed > 0 && len(entries) > n.MaxPerFeed {
		entries = entries[:n.MaxPerFeed]
	}

	articles := make([]Article, 0, len(entries))
	for _, e := range entries {
		stats.Examined++

		a, ok, err := n.Normalize(e, now)
		if err != nil {
			stats.Skipped++
			log.Warn("skipping entry", "feed", url, "title", e.Title, "error", err)
			continue
		}
		if !ok {
			stats.OutOfWindow++
			log.Debug("entry outside date window", "feed", url, "title", e.Title)
			continue
		}

		stats.Kept++
		articles = append(articles, a)
	}

	return articles, stats
}

// resolveDate picks published, then updated, then now. A timestamp that has
// text but no parsed value is an error rather than a fallthrough.
func resolveDate(e rss.Entry, now time.Time) (time.Time, error) {
	switch {
	case e.PublishedParsed != nil:
		return e.PublishedParsed.In(now.Location()), nil
	case e.Published != "":
		return time.Time{}, &DateError{Title: e.Title, Field: "published", Value: e.Published}
	case e.UpdatedParsed != nil:
		return e.UpdatedParsed.In(now.Location()), nil
	case e.Updated != "":
		return time.Time{}, &DateError{Title: e.Title, Field: "updated", Value: e.Updated}
	default:
		return now, nil
	}
}

// daysBetween counts calendar days from published to now in now's location.
// Future dates give a negative count.
func daysBetween(published, now time.Time) int {
	py, pm, pd := published.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	p := time.Date(py, pm, pd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(p).Hours() / 24)
}
