// Package news turns raw feed entries into articles and ranks them.
package news

import (
	"fmt"
	"time"
)

// NoDescription replaces descriptions that are missing in the feed.
const NoDescription = "No description available"

// Article is a normalized feed entry. It is treated as a value: the scorer
// fills Score on its own copy.
type Article struct {
	Title       string
	Description string
	Link        string
	Source      string // explicit source name from the feed, may be empty

	Published time.Time // truncated to the precision of the date layout
	Date      string    // Published rendered with the date layout
	Score     int
}

// DateError marks an entry whose timestamp is present but unreadable.
type DateError struct {
	Title string
	Field string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("entry %q: cannot parse %s date %q", e.Title, e.Field, e.Value)
}
