package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the textual timestamp format used inside serialized
// post records. Precision is one second.
const TimestampLayout = "2006-01-02 15:04:05"

// fieldSep delimits the fields of a serialized post record. Post text may
// itself contain the separator, so parsing is limited to three fields.
const fieldSep = "|"

// Post represents one feed item: who posted, when, and what.
type Post struct {
	ID        int64
	AuthorID  int64
	CreatedAt time.Time
	Text      string
}

// NewDraft returns a post that has not been persisted yet. The ID is -1 and
// the timestamp is zero until the store assigns them at insertion time.
func NewDraft(authorID int64, text string) Post {
	return Post{ID: -1, AuthorID: authorID, Text: text}
}

// Compare orders posts by recency. It returns a negative value if a is more
// recent than b, a positive value if b is more recent than a, and zero when
// both timestamp and ID match. Posts sharing a timestamp order by ID
// descending, since a higher ID means a later insertion.
func Compare(a, b Post) int {
	if a.CreatedAt.After(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return 1
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	default:
		return 0
	}
}

// SortByRecency sorts posts in place, newest first, using Compare.
func SortByRecency(posts []Post) {
	sort.Slice(posts, func(i, j int) bool {
		return Compare(posts[i], posts[j]) < 0
	})
}

// Encode serializes the post as "author|timestamp|text". The ID is not part
// of the record; it lives in the key the record is stored under.
func (p Post) Encode() string {
	return strconv.FormatInt(p.AuthorID, 10) + fieldSep +
		p.CreatedAt.Format(TimestampLayout) + fieldSep +
		p.Text
}

// ParsePost reconstructs a post from its serialized record and the ID it was
// stored under. The record splits into at most three fields so that text
// containing the separator survives the round trip.
func ParsePost(id int64, record string) (Post, error) {
	parts := strings.SplitN(record, fieldSep, 3)
	if len(parts) != 3 {
		return Post{}, fmt.Errorf("malformed post record %q", record)
	}

	authorID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Post{}, fmt.Errorf("parse post author id %q: %w", parts[0], err)
	}

	createdAt, err := time.Parse(TimestampLayout, parts[1])
	if err != nil {
		return Post{}, fmt.Errorf("parse post timestamp %q: %w", parts[1], err)
	}

	return Post{
		ID:        id,
		AuthorID:  authorID,
		CreatedAt: createdAt,
		Text:      parts[2],
	}, nil
}
