package rss

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one raw feed item as handed to the normalizer. Published and
// Updated keep the source text; the *Parsed fields are nil when the text was
// absent or could not be parsed.
type Entry struct {
	Title           string
	Description     string
	Link            string
	Source          string
	Published       string
	PublishedParsed *time.Time
	Updated         string
	UpdatedParsed   *time.Time
}

// Fetcher returns the raw entries of one feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Entry, error)
}

// FetchError reports a feed that could not be downloaded or parsed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// LoadFeeds reads the feed list: one URL per line, blank lines and
// lines starting with '#' are ignored.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed list: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read feed list %s: %w", path, err)
	}
	return urls, nil
}

// GofeedFetcher downloads RSS/Atom/JSON feeds with gofeed.
type GofeedFetcher struct {
	parser *gofeed.Parser
}

// NewGofeedFetcher builds a fetcher whose HTTP client gives up after timeout.
func NewGofeedFetcher(timeout time.Duration, userAgent string) *GofeedFetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &GofeedFetcher{parser: p}
}

func (f *GofeedFetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, fromItem(item))
	}
	return entries, nil
}

func fromItem(item *gofeed.Item) Entry {
	desc := item.Description
	if strings.TrimSpace(desc) == "" {
		desc = item.Content
	}

	e := Entry{
		Title:           strings.TrimSpace(item.Title),
		Description:     PlainText(desc),
		Link:            strings.TrimSpace(item.Link),
		Published:       item.Published,
		PublishedParsed: item.PublishedParsed,
		Updated:         item.Updated,
		UpdatedParsed:   item.UpdatedParsed,
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Source) > 0 {
		e.Source = strings.TrimSpace(item.DublinCoreExt.Source[0])
	}
	return e
}
