package timeline

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/store"
)

// PageSize is the fixed number of posts a home timeline holds.
const PageSize = 10

// Strategy names accepted by New.
const (
	StrategyPush       = "push"
	StrategyPull       = "pull"
	StrategyRelational = "relational"
)

var (
	ErrUnknownStrategy = errors.New("unknown timeline strategy")
	ErrMissingStore    = errors.New("strategy requires a store it was not given")
)

// Service is the home timeline API. Each strategy implements the same
// contract with a different cost profile: push precomputes timelines at
// write time, pull assembles them at read time, relational delegates the
// whole computation to a SQL join.
type Service interface {
	// Post inserts one post authored by authorID. The store assigns the
	// post ID and timestamp.
	Post(ctx context.Context, authorID int64, text string) error

	// PostBatch inserts a batch of drafts (author + text only).
	PostBatch(ctx context.Context, drafts []domain.Post) error

	// Timeline returns up to PageSize posts visible to userID, newest
	// first. An unknown user or empty feed yields an empty result.
	Timeline(ctx context.Context, userID int64) ([]domain.Post, error)

	// Users returns every user ID with at least one outgoing follow edge.
	Users(ctx context.Context) ([]int64, error)

	// Followers returns the user IDs following userID.
	Followers(ctx context.Context, userID int64) ([]int64, error)

	// Followees returns the user IDs that userID follows.
	Followees(ctx context.Context, userID int64) ([]int64, error)
}

// New selects a strategy implementation by name. Push and pull need the
// key-value store; relational needs the SQL handle. The unused dependency
// may be nil.
func New(strategy string, kv store.KV, db *gorm.DB) (Service, error) {
	switch strategy {
	case StrategyPush:
		if kv == nil {
			return nil, fmt.Errorf("%w: push needs a key-value store", ErrMissingStore)
		}
		return NewPushService(kv), nil
	case StrategyPull:
		if kv == nil {
			return nil, fmt.Errorf("%w: pull needs a key-value store", ErrMissingStore)
		}
		return NewPullService(kv), nil
	case StrategyRelational:
		if db == nil {
			return nil, fmt.Errorf("%w: relational needs a sql database", ErrMissingStore)
		}
		return NewRelationalService(db), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
