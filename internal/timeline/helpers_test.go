package timeline

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/store"
)

// seedEdges writes follow edges the way the graph loader does: both
// adjacency directions plus the global user set, per edge.
func seedEdges(t *testing.T, kv store.KV, edges [][2]int64) {
	t.Helper()
	ctx := context.Background()
	for _, e := range edges {
		source, followed := e[0], e[1]
		src := strconv.FormatInt(source, 10)
		dst := strconv.FormatInt(followed, 10)
		require.NoError(t, kv.LPush(ctx, store.FollowingKey(source), dst))
		require.NoError(t, kv.LPush(ctx, store.FollowersKey(followed), src))
		require.NoError(t, kv.SAdd(ctx, store.UsersKey, src))
	}
}

// countingKV wraps a KV and counts write commands per kind.
type countingKV struct {
	store.KV
	incrs, sets, lpushes int
}

func (c *countingKV) Incr(ctx context.Context, key string) (int64, error) {
	c.incrs++
	return c.KV.Incr(ctx, key)
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.sets++
	return c.KV.Set(ctx, key, value)
}

func (c *countingKV) LPush(ctx context.Context, key, value string) error {
	c.lpushes++
	return c.KV.LPush(ctx, key, value)
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	cur := start.Add(-step)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(domain.TimestampLayout, s)
	require.NoError(t, err)
	return ts
}

func postIDs(posts []domain.Post) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func postTexts(posts []domain.Post) []string {
	texts := make([]string, 0, len(posts))
	for _, p := range posts {
		texts = append(texts, p.Text)
	}
	return texts
}

// newTestDB opens a throwaway sqlite database with the relational schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "timeline.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.FollowModel{}, &domain.PostModel{}))
	return db
}
