package timeline

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
)

// timelineQuery joins the caller's follow edges against the post table,
// letting the store sort and truncate. Placeholders keep the statement
// parameterized; the join, order, and limit match the key-value strategies'
// observable behavior.
const timelineQuery = `SELECT tweet.tweet_id, tweet.user_id, tweet.tweet_ts, tweet.tweet_text ` +
	`FROM follows JOIN tweet ON follows.follows_id = tweet.user_id ` +
	`WHERE follows.user_id = ? ORDER BY tweet.tweet_ts DESC LIMIT ?`

// RelationalService is the baseline strategy over a normalized schema. The
// store assigns IDs and timestamps and performs the whole timeline
// computation in a single join query.
type RelationalService struct {
	db *gorm.DB
}

// NewRelationalService creates a relational timeline service over db.
func NewRelationalService(db *gorm.DB) *RelationalService {
	return &RelationalService{db: db}
}

// Post inserts one row into the post table. ID and timestamp come from
// auto-increment and the server clock.
func (s *RelationalService) Post(ctx context.Context, authorID int64, text string) error {
	model := domain.PostModel{UserID: authorID, Text: text}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("insert post by %d: %w", authorID, err)
	}
	return nil
}

// PostBatch inserts all drafts with a single multi-row statement, amortizing
// the round trip over the batch.
func (s *RelationalService) PostBatch(ctx context.Context, drafts []domain.Post) error {
	if len(drafts) == 0 {
		return nil
	}

	models := make([]domain.PostModel, 0, len(drafts))
	for _, d := range drafts {
		models = append(models, domain.PostModel{UserID: d.AuthorID, Text: d.Text})
	}

	if err := s.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("insert post batch of %d: %w", len(models), err)
	}
	return nil
}

// Timeline runs the join query. A query failure is logged with the failing
// statement and degrades to an empty result, matching the other strategies'
// best-effort reads.
func (s *RelationalService) Timeline(ctx context.Context, userID int64) ([]domain.Post, error) {
	l := pkglog.Ctx(ctx)

	var rows []domain.PostModel
	err := s.db.WithContext(ctx).Raw(timelineQuery, userID, PageSize).Scan(&rows).Error
	if err != nil {
		l.Error().Err(err).
			Int64(pkglog.FieldUserID, userID).
			Str("query", timelineQuery).
			Msg("timeline query failed")
		return []domain.Post{}, nil
	}

	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.Post())
	}
	return posts, nil
}

// Users returns every distinct user with an outgoing follow edge.
func (s *RelationalService) Users(ctx context.Context) ([]int64, error) {
	l := pkglog.Ctx(ctx)

	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&domain.FollowModel{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		l.Error().Err(err).Msg("user listing query failed")
		return []int64{}, nil
	}
	return ids, nil
}

// Followers is unsupported here: the schema keeps no reverse adjacency. The
// result is empty rather than an error.
func (s *RelationalService) Followers(ctx context.Context, userID int64) ([]int64, error) {
	return []int64{}, nil
}

// Followees is unsupported here, like Followers.
func (s *RelationalService) Followees(ctx context.Context, userID int64) ([]int64, error) {
	return []int64{}, nil
}

// Ensure interface is satisfied at compile time.
var _ Service = (*RelationalService)(nil)
