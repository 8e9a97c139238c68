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

// PushService materializes follower timelines at write time
// (fan-out-on-write). Posting costs one list prepend per follower; reading
// is a single bounded list fetch with no sort, since prepend order already
// is reverse-chronological.
type PushService struct {
	graphReader
	kv  store.KV
	now func() time.Time
}

// NewPushService creates a push-strategy timeline service over kv.
func NewPushService(kv store.KV) *PushService {
	return &PushService{graphReader: graphReader{kv: kv}, kv: kv, now: time.Now}
}

// Post stores the serialized post under a fresh ID from the global counter,
// then prepends the ID to every follower's timeline list. The fan-out is N
// independent writes: a failure on one follower is logged and the rest
// still receive the post.
func (s *PushService) Post(ctx context.Context, authorID int64, text string) error {
	l := pkglog.Ctx(ctx)

	post := domain.Post{AuthorID: authorID, CreatedAt: s.now(), Text: text}

	id, err := s.kv.Incr(ctx, store.CounterKey)
	if err != nil {
		return fmt.Errorf("assign post id: %w", err)
	}
	if err := s.kv.Set(ctx, store.PostKey(id), post.Encode()); err != nil {
		return fmt.Errorf("store post %d: %w", id, err)
	}

	followers, err := s.Followers(ctx, authorID)
	if err != nil {
		return err
	}

	member := strconv.FormatInt(id, 10)
	for _, followerID := range followers {
		if err := s.kv.LPush(ctx, store.TimelineKey(followerID), member); err != nil {
			l.Error().Err(err).
				Int64(pkglog.FieldPostID, id).
				Int64(pkglog.FieldUserID, followerID).
				Msg("fan-out write failed, follower timeline misses this post")
		}
	}
	return nil
}

// PostBatch posts each draft in turn, applying the same fan-out per post.
func (s *PushService) PostBatch(ctx context.Context, drafts []domain.Post) error {
	for _, d := range drafts {
		if err := s.Post(ctx, d.AuthorID, d.Text); err != nil {
			return err
		}
	}
	return nil
}

// Timeline fetches the first PageSize IDs from the user's precomputed
// timeline list and materializes each post. Ordering is a write-time
// invariant, so the stored order is returned as-is.
func (s *PushService) Timeline(ctx context.Context, userID int64) ([]domain.Post, error) {
	l := pkglog.Ctx(ctx)

	ids, err := s.kv.LRange(ctx, store.TimelineKey(userID), 0, PageSize-1)
	if err != nil {
		l.Error().Err(err).Int64(pkglog.FieldUserID, userID).Msg("timeline fetch failed")
		return []domain.Post{}, nil
	}

	return materializePosts(ctx, s.kv, ids), nil
}

// materializePosts fetches and parses the post record for each stored ID.
// A missing record or a record that fails to parse is logged and skipped;
// the read path never aborts on a single bad item.
func materializePosts(ctx context.Context, kv store.KV, ids []string) []domain.Post {
	l := pkglog.Ctx(ctx)

	posts := make([]domain.Post, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			l.Warn().Err(err).Str("member", raw).Msg("skipping non-integer post id")
			continue
		}

		record, ok, err := kv.Get(ctx, store.PostKey(id))
		if err != nil {
			l.Error().Err(err).Int64(pkglog.FieldPostID, id).Msg("post fetch failed")
			continue
		}
		if !ok {
			// A crash between counter increment and record store can
			// reserve an ID with no body. Treated as not found.
			l.Warn().Int64(pkglog.FieldPostID, id).Msg("post record missing")
			continue
		}

		post, err := domain.ParsePost(id, record)
		if err != nil {
			l.Warn().Err(err).Int64(pkglog.FieldPostID, id).Msg("skipping malformed post record")
			continue
		}
		posts = append(posts, post)
	}
	return posts
}

// Ensure interface is satisfied at compile time.
var _ Service = (*PushService)(nil)
