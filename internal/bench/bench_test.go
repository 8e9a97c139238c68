package bench

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ensonsoo00/twitter-redis/internal/store"
	"github.com/ensonsoo00/twitter-redis/internal/timeline"
)

// seedFollow records that user 1 follows user 2, the way the loader does.
func seedFollow(t *testing.T, kv store.KV) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, kv.LPush(ctx, store.FollowingKey(1), "2"))
	require.NoError(t, kv.LPush(ctx, store.FollowersKey(2), "1"))
	require.NoError(t, kv.SAdd(ctx, store.UsersKey, "1"))
}

func TestRunner_PostFromCSV(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	seedFollow(t, kv)

	runner := NewRunner(timeline.NewPushService(kv), zerolog.Nop())

	csv := "user_id,tweet_text\n2,hello\n2,\"with,comma\"\n2\nbad,skipme\n"
	inserted, err := runner.PostFromCSV(ctx, strings.NewReader(csv), 1)
	require.NoError(t, err)
	require.Equal(t, 3, inserted)

	svc := timeline.NewPushService(kv)
	posts, err := svc.Timeline(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	// Newest first; the empty-text row is a valid post.
	require.Equal(t, "", posts[0].Text)
	require.Equal(t, "with,comma", posts[1].Text)
	require.Equal(t, "hello", posts[2].Text)
}

func TestRunner_PostFromCSV_Batched(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	seedFollow(t, kv)

	runner := NewRunner(timeline.NewPullService(kv), zerolog.Nop())

	csv := "user_id,tweet_text\n2,a\n2,b\n2,c\n2,d\n2,e\n"
	inserted, err := runner.PostFromCSV(ctx, strings.NewReader(csv), 2)
	require.NoError(t, err)
	require.Equal(t, 5, inserted)

	own, err := kv.LRange(ctx, store.UserPostsKey(2), 0, -1)
	require.NoError(t, err)
	require.Len(t, own, 5)
}

func TestRunner_RetrieveTimelines(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	seedFollow(t, kv)

	svc := timeline.NewPushService(kv)
	require.NoError(t, svc.Post(ctx, 2, "hi"))

	runner := NewRunner(svc, zerolog.Nop())
	require.NoError(t, runner.RetrieveTimelines(ctx, 25))
	require.NoError(t, runner.RetrieveTimelines(ctx, 0))
}

func TestRunner_RetrieveWithoutGraph(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(timeline.NewPushService(store.NewMemoryKV()), zerolog.Nop())

	err := runner.RetrieveTimelines(ctx, 10)
	require.ErrorIs(t, err, ErrNoUsers)
}
