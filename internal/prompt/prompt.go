// Package prompt renders selected articles into the text sent to the
// summarization model.
package prompt

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deusflow/newsdigest/internal/news"
)

const (
	Ellipsis      = "..."
	UnknownSource = "Unknown Source"
)

const systemPrompt = `You are a news editor preparing a daily briefing from RSS articles.
Group related stories, drop duplicates and write one short paragraph per item.
End every item with its source link in square brackets, for example [https://example.com/story].
Write plain text without markdown headings.`

const userPromptTemplate = `Here are today's news articles:

%s
Write the daily news summary from the articles above.`

// Assembler renders articles into per-article blocks.
type Assembler struct {
	MaxDescriptionLength int
}

// Blocks renders one five-line block per article, each ending with a blank
// line. Joining the blocks gives the article section of the prompt.
func (a Assembler) Blocks(articles []news.Article) []string {
	blocks := make([]string, 0, len(articles))
	for _, art := range articles {
		blocks = append(blocks, a.block(art))
	}
	return blocks
}

func (a Assembler) block(art news.Article) string {
	source := art.Source
	if source == "" {
		source = SourceFromLink(art.Link)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", art.Title)
	fmt.Fprintf(&b, "Source: %s\n", source)
	fmt.Fprintf(&b, "Date: %s\n", art.Date)
	fmt.Fprintf(&b, "Description: %s\n", Truncate(art.Description, a.MaxDescriptionLength))
	fmt.Fprintf(&b, "Link: %s\n\n", art.Link)
	return b.String()
}

// Join concatenates rendered blocks.
func Join(blocks []string) string {
	return strings.Join(blocks, "")
}

// Halve keeps the first half of blocks by count, never less than one block
// when there is at least one.
func Halve(blocks []string) []string {
	if len(blocks) <= 1 {
		return blocks
	}
	return blocks[:len(blocks)/2]
}

// Truncate cuts s to max characters and appends Ellipsis. Strings within the
// limit are returned unchanged.
func Truncate(s string, max int) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + Ellipsis
}

// SourceFromLink derives a display name from the link host:
// "https://www.example.com/a" gives "Example".
func SourceFromLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return UnknownSource
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return UnknownSource
	}

	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// SystemPrompt is the instruction sent with every request; maxItems is the
// number of news items the model should produce.
func SystemPrompt(maxItems int) string {
	return systemPrompt + fmt.Sprintf("\nImportant: Select and summarize EXACTLY %d most important news items, prioritizing by category (security/defense, political, economic, technology, other).", maxItems)
}

// UserPrompt wraps the rendered article section.
func UserPrompt(articles string) string {
	return fmt.Sprintf(userPromptTemplate, articles)
}
