package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gorm.io/gorm"

	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/store"
)

// Loader bulk-populates the social graph in the key-value store from a
// follows edge list. Run it before posting or reading timelines.
type Loader struct {
	kv store.KV
}

// New creates a graph loader over kv.
func New(kv store.KV) *Loader {
	return &Loader{kv: kv}
}

// Load clears the store, resets the post-id counter to 0, and writes one
// adjacency pair per edge: followed joins following(source), source joins
// followers(followed), and source joins the global user set. The load is
// not idempotent: edges are appended as-is, duplicates included, so a
// reload without the preceding flush would double every edge.
//
// The input is CSV with a header row and (source, followed) columns. A row
// that does not parse is logged and skipped. Returns the number of edges
// loaded.
func (l *Loader) Load(ctx context.Context, r io.Reader) (int, error) {
	if err := l.kv.FlushAll(ctx); err != nil {
		return 0, fmt.Errorf("clear store: %w", err)
	}
	if err := l.kv.Set(ctx, store.CounterKey, "0"); err != nil {
		return 0, fmt.Errorf("reset post counter: %w", err)
	}

	edges := 0
	err := readEdges(ctx, r, func(source, followed int64) error {
		src := strconv.FormatInt(source, 10)
		dst := strconv.FormatInt(followed, 10)

		// Both adjacency directions are written per edge; no later
		// reconciliation step exists.
		if err := l.kv.LPush(ctx, store.FollowingKey(source), dst); err != nil {
			return err
		}
		if err := l.kv.LPush(ctx, store.FollowersKey(followed), src); err != nil {
			return err
		}
		if err := l.kv.SAdd(ctx, store.UsersKey, src); err != nil {
			return err
		}
		edges++
		return nil
	})
	return edges, err
}

// RelationalLoader bulk-populates the follows table so the relational
// strategy can be driven from the same dataset.
type RelationalLoader struct {
	db *gorm.DB
}

// NewRelational creates a graph loader over db.
func NewRelational(db *gorm.DB) *RelationalLoader {
	return &RelationalLoader{db: db}
}

// Load reads the follows edge list and inserts the rows in batches of
// batchSize. Returns the number of edges loaded.
func (l *RelationalLoader) Load(ctx context.Context, r io.Reader, batchSize int) (int, error) {
	var models []domain.FollowModel
	err := readEdges(ctx, r, func(source, followed int64) error {
		models = append(models, domain.FollowModel{UserID: source, FollowsID: followed})
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}

	if err := l.db.WithContext(ctx).CreateInBatches(models, batchSize).Error; err != nil {
		return 0, fmt.Errorf("insert follow edges: %w", err)
	}
	return len(models), nil
}

// readEdges streams (source, followed) pairs from a follows CSV, skipping
// the header row. Malformed rows are logged and skipped; the load continues.
func readEdges(ctx context.Context, r io.Reader, fn func(source, followed int64) error) error {
	l := pkglog.Ctx(ctx)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				l.Warn().Err(err).Msg("skipping malformed follows row")
				continue
			}
			return fmt.Errorf("read follows csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < 2 {
			l.Warn().Strs("record", record).Msg("skipping short follows row")
			continue
		}

		source, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			l.Warn().Err(err).Str("value", record[0]).Msg("skipping row with bad source id")
			continue
		}
		followed, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			l.Warn().Err(err).Str("value", record[1]).Msg("skipping row with bad followed id")
			continue
		}

		if err := fn(source, followed); err != nil {
			return err
		}
	}
}
