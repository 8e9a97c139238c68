package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
)

func TestRelationalService_PostAndTimeline(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.Create(&domain.FollowModel{UserID: 1, FollowsID: 2}).Error)

	svc := NewRelationalService(db)
	require.NoError(t, svc.Post(ctx, 2, "hi"))

	posts, err := svc.Timeline(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, int64(2), posts[0].AuthorID)
	require.Equal(t, "hi", posts[0].Text)
	require.Positive(t, posts[0].ID)
}

func TestRelationalService_PostBatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	svc := NewRelationalService(db)
	drafts := []domain.Post{
		domain.NewDraft(2, "one"),
		domain.NewDraft(2, "two"),
		domain.NewDraft(3, "three"),
	}
	require.NoError(t, svc.PostBatch(ctx, drafts))
	require.NoError(t, svc.PostBatch(ctx, nil))

	var count int64
	require.NoError(t, db.Model(&domain.PostModel{}).Count(&count).Error)
	require.Equal(t, int64(3), count)
}

func TestRelationalService_TimelineOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.Create(&domain.FollowModel{UserID: 1, FollowsID: 2}).Error)

	// Explicit timestamps so the store-side ordering is deterministic.
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		row := domain.PostModel{UserID: 2, CreatedAt: base.Add(time.Duration(i) * time.Second), Text: "x"}
		require.NoError(t, db.Create(&row).Error)
	}

	svc := NewRelationalService(db)
	posts, err := svc.Timeline(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts, PageSize)
	for i := 1; i < len(posts); i++ {
		require.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}
	// The two oldest rows fell off.
	require.True(t, posts[len(posts)-1].CreatedAt.After(base.Add(time.Second)))
}

func TestRelationalService_TimelineOnlyFollowees(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.Create(&domain.FollowModel{UserID: 1, FollowsID: 2}).Error)

	svc := NewRelationalService(db)
	require.NoError(t, svc.Post(ctx, 2, "followed"))
	require.NoError(t, svc.Post(ctx, 3, "stranger"))

	posts, err := svc.Timeline(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"followed"}, postTexts(posts))
}

func TestRelationalService_UnknownUserEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewRelationalService(newTestDB(t))

	posts, err := svc.Timeline(ctx, 404)
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestRelationalService_Users(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	for _, e := range [][2]int64{{1, 2}, {1, 3}, {2, 3}} {
		require.NoError(t, db.Create(&domain.FollowModel{UserID: e[0], FollowsID: e[1]}).Error)
	}

	svc := NewRelationalService(db)
	users, err := svc.Users(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{1, 2}, users)
}

func TestRelationalService_AdjacencyUnsupported(t *testing.T) {
	ctx := context.Background()
	svc := NewRelationalService(newTestDB(t))

	followers, err := svc.Followers(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, followers)
	require.Empty(t, followers)

	followees, err := svc.Followees(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, followees)
	require.Empty(t, followees)
}
