package loader

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/store"
)

const followsCSV = `user_id,follows_id
1,2
3,2
1,4
`

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	edges, err := New(kv).Load(ctx, strings.NewReader(followsCSV))
	require.NoError(t, err)
	require.Equal(t, 3, edges)

	// Both adjacency directions are written per edge.
	following1, err := kv.LRange(ctx, store.FollowingKey(1), 0, -1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"2", "4"}, following1)

	followers2, err := kv.LRange(ctx, store.FollowersKey(2), 0, -1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1", "3"}, followers2)

	followers4, err := kv.LRange(ctx, store.FollowersKey(4), 0, -1)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, followers4)

	// Only edge sources join the user set.
	users, err := kv.SMembers(ctx, store.UsersKey)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1", "3"}, users)
}

func TestLoader_ResetsCounter(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.CounterKey, "500"))

	_, err := New(kv).Load(ctx, strings.NewReader(followsCSV))
	require.NoError(t, err)

	val, ok, err := kv.Get(ctx, store.CounterKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "0", val)

	// The next post gets ID 1.
	n, err := kv.Incr(ctx, store.CounterKey)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestLoader_ClearsPreviousState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.LPush(ctx, store.TimelineKey(1), "9"))

	_, err := New(kv).Load(ctx, strings.NewReader(followsCSV))
	require.NoError(t, err)

	stale, err := kv.LRange(ctx, store.TimelineKey(1), 0, -1)
	require.NoError(t, err)
	require.Empty(t, stale)
}

func TestLoader_DuplicateEdgesKept(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	csv := "user_id,follows_id\n1,2\n1,2\n"
	edges, err := New(kv).Load(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 2, edges)

	// No dedup: the duplicate edge appears twice in both directions.
	following, err := kv.LRange(ctx, store.FollowingKey(1), 0, -1)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "2"}, following)

	followers, err := kv.LRange(ctx, store.FollowersKey(2), 0, -1)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "1"}, followers)
}

func TestLoader_SkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	csv := "user_id,follows_id\nnope,2\n1\n1,2\n3,what\n"
	edges, err := New(kv).Load(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, edges)

	following, err := kv.LRange(ctx, store.FollowingKey(1), 0, -1)
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, following)
}

func TestRelationalLoader_Load(t *testing.T) {
	ctx := context.Background()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "loader.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.FollowModel{}))

	edges, err := NewRelational(db).Load(ctx, strings.NewReader(followsCSV), 2)
	require.NoError(t, err)
	require.Equal(t, 3, edges)

	var rows []domain.FollowModel
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 3)
	require.Equal(t, int64(1), rows[0].UserID)
	require.Equal(t, int64(2), rows[0].FollowsID)
}
