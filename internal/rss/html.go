package rss

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText turns an HTML fragment from a feed description into a single
// line of text. Input that goquery cannot parse is returned with its
// whitespace collapsed.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpaces(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}

	// Block elements run into each other in Text(); pad them first.
	doc.Find("p, br, div, li, h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("script, style").Remove()

	return collapseSpaces(doc.Text())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
