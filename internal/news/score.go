package news

import (
	"sort"
	"strings"
	"time"
)

// Weights are the points awarded per keyword occurrence.
type Weights struct {
	CriticalTitle        int
	CriticalDescription  int
	ImportantTitle       int
	ImportantDescription int
}

var DefaultWeights = Weights{
	CriticalTitle:        5,
	CriticalDescription:  3,
	ImportantTitle:       3,
	ImportantDescription: 1,
}

var (
	DefaultCriticalKeywords  = []string{"breaking", "urgent", "critical", "emergency", "alert", "crisis"}
	DefaultImportantKeywords = []string{"announced", "official", "update", "major", "significant"}
)

// Scorer assigns priority scores. Keyword matching is plain substring
// counting on lower-cased text, so "alerts" also counts as "alert".
type Scorer struct {
	Critical   []string
	Important  []string
	Weights    Weights
	DateLayout string
}

// NewScorer lower-cases the keyword lists and drops blanks.
func NewScorer(critical, important []string, layout string) *Scorer {
	return &Scorer{
		Critical:   normalizeKeywords(critical),
		Important:  normalizeKeywords(important),
		Weights:    DefaultWeights,
		DateLayout: layout,
	}
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Score computes the priority of a relative to now.
func (s *Scorer) Score(a Article, now time.Time) int {
	title := strings.ToLower(a.Title)
	desc := strings.ToLower(a.Description)

	score := 0
	for _, k := range s.Critical {
		score += strings.Count(title, k) * s.Weights.CriticalTitle
		score += strings.Count(desc, k) * s.Weights.CriticalDescription
	}
	for _, k := range s.Important {
		score += strings.Count(title, k) * s.Weights.ImportantTitle
		score += strings.Count(desc, k) * s.Weights.ImportantDescription
	}

	return score + s.recencyBonus(a.Date, now)
}

// recencyBonus re-reads the rendered date so the bonus depends only on what
// the layout keeps. Unparsable dates get no bonus.
func (s *Scorer) recencyBonus(date string, now time.Time) int {
	published, err := time.ParseInLocation(s.DateLayout, date, now.Location())
	if err != nil {
		return 0
	}

	age := now.Sub(published)
	switch {
	case age < 6*time.Hour:
		return 4
	case age < 12*time.Hour:
		return 2
	case age < 24*time.Hour:
		return 1
	default:
		return 0
	}
}

// Select scores every article and returns the top n ordered by score, then
// publish date, newest first. Ties keep the input order. The input slice is
// not modified.
func (s *Scorer) Select(articles []Article, n int, now time.Time) []Article {
	if n <= 0 || len(articles) == 0 {
		return []Article{}
	}

	scored := make([]Article, len(articles))
	for i, a := range articles {
		a.Score = s.Score(a, now)
		scored[i] = a
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Published.After(scored[j].Published)
	})

	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}
