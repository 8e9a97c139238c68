package timeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/store"
)

// PullService assembles timelines at read time (fan-out-on-read). Posting
// touches only the author's own post list, so write cost stays O(1)
// regardless of follower count; reading gathers the most recent posts of
// every followee and merges them in process.
type PullService struct {
	graphReader
	kv  store.KV
	now func() time.Time
}

// NewPullService creates a pull-strategy timeline service over kv.
func NewPullService(kv store.KV) *PullService {
	return &PullService{graphReader: graphReader{kv: kv}, kv: kv, now: time.Now}
}

// Post stores the serialized post under a fresh ID and prepends the ID to
// the author's own post list. No fan-out writes happen here.
func (s *PullService) Post(ctx context.Context, authorID int64, text string) error {
	post := domain.Post{AuthorID: authorID, CreatedAt: s.now(), Text: text}

	id, err := s.kv.Incr(ctx, store.CounterKey)
	if err != nil {
		return fmt.Errorf("assign post id: %w", err)
	}
	if err := s.kv.Set(ctx, store.PostKey(id), post.Encode()); err != nil {
		return fmt.Errorf("store post %d: %w", id, err)
	}

	if err := s.kv.LPush(ctx, store.UserPostsKey(authorID), strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("index post %d for author %d: %w", id, authorID, err)
	}
	return nil
}

// PostBatch posts each draft in turn.
func (s *PullService) PostBatch(ctx context.Context, drafts []domain.Post) error {
	for _, d := range drafts {
		if err := s.Post(ctx, d.AuthorID, d.Text); err != nil {
			return err
		}
	}
	return nil
}

// Timeline gathers the PageSize most recent post IDs of every followee,
// materializes the whole candidate set, sorts it by recency, and returns
// the first PageSize entries. A user with no followees gets an empty
// timeline, not an error.
func (s *PullService) Timeline(ctx context.Context, userID int64) ([]domain.Post, error) {
	l := pkglog.Ctx(ctx)

	followees, err := s.Followees(ctx, userID)
	if err != nil {
		l.Error().Err(err).Int64(pkglog.FieldUserID, userID).Msg("followee fetch failed")
		return []domain.Post{}, nil
	}

	var candidateIDs []string
	for _, followeeID := range followees {
		ids, err := s.kv.LRange(ctx, store.UserPostsKey(followeeID), 0, PageSize-1)
		if err != nil {
			l.Error().Err(err).Int64(pkglog.FieldUserID, followeeID).Msg("followee post list fetch failed")
			continue
		}
		candidateIDs = append(candidateIDs, ids...)
	}

	posts := materializePosts(ctx, s.kv, candidateIDs)
	domain.SortByRecency(posts)

	if len(posts) > PageSize {
		posts = posts[:PageSize]
	}
	return posts, nil
}

// Ensure interface is satisfied at compile time.
var _ Service = (*PullService)(nil)
