package timeline

import (
	"context"
	"fmt"
	"strconv"

	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"

	"github.com/ensonsoo00/twitter-redis/internal/store"
)

// graphReader provides the adjacency and user-set reads shared by the push
// and pull strategies. It holds no state beyond the store handle; every
// call re-reads from the store.
type graphReader struct {
	kv store.KV
}

// Followers returns the user IDs following userID.
func (g graphReader) Followers(ctx context.Context, userID int64) ([]int64, error) {
	members, err := g.kv.LRange(ctx, store.FollowersKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("load followers of %d: %w", userID, err)
	}
	return parseIDs(ctx, members), nil
}

// Followees returns the user IDs that userID follows.
func (g graphReader) Followees(ctx context.Context, userID int64) ([]int64, error) {
	members, err := g.kv.LRange(ctx, store.FollowingKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("load followees of %d: %w", userID, err)
	}
	return parseIDs(ctx, members), nil
}

// Users returns every user ID recorded in the global user set.
func (g graphReader) Users(ctx context.Context) ([]int64, error) {
	members, err := g.kv.SMembers(ctx, store.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("load user set: %w", err)
	}
	return parseIDs(ctx, members), nil
}

// parseIDs converts stored members to user IDs. A member that does not parse
// is skipped and logged; the batch continues.
func parseIDs(ctx context.Context, members []string) []int64 {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			logger := pkglog.Ctx(ctx)
			logger.Warn().Err(err).Str("member", m).Msg("skipping non-integer user id")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
