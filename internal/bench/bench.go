package bench

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/timeline"
)

// Progress reporting intervals, in operations.
const (
	postReportEvery     = 50000
	retrieveReportEvery = 10000
)

// ErrNoUsers means retrieval was requested before any social graph data was
// loaded.
var ErrNoUsers = errors.New("insufficient user-following data")

// Runner drives a timeline service for throughput measurement.
type Runner struct {
	svc timeline.Service
	log zerolog.Logger
}

// NewRunner creates a benchmark runner for svc.
func NewRunner(svc timeline.Service, logger zerolog.Logger) *Runner {
	return &Runner{svc: svc, log: logger}
}

// PostFromCSV reads (author_id, text) rows from a tweets CSV (header row
// skipped) and posts each one. With batchSize > 1 the drafts are grouped
// and sent through PostBatch instead. A row with only an author column is
// an empty-text post; a row with a bad author id is logged and skipped.
// Returns the number of posts inserted.
func (r *Runner) PostFromCSV(ctx context.Context, in io.Reader, batchSize int) (int, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1

	var batch []domain.Post
	inserted := 0
	start := time.Now()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.svc.PostBatch(ctx, batch); err != nil {
			return err
		}
		before := inserted
		inserted += len(batch)
		batch = batch[:0]
		if inserted/postReportEvery > before/postReportEvery {
			r.report("posts inserted", inserted, start)
		}
		return nil
	}

	header := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.log.Warn().Err(err).Msg("skipping malformed tweet row")
				continue
			}
			return inserted, fmt.Errorf("read tweets csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) == 0 {
			continue
		}

		draft, ok := parseDraft(r.log, record)
		if !ok {
			continue
		}

		if batchSize > 1 {
			batch = append(batch, draft)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return inserted, err
				}
			}
		} else {
			if err := r.svc.Post(ctx, draft.AuthorID, draft.Text); err != nil {
				return inserted, err
			}
			inserted++
			if inserted%postReportEvery == 0 {
				r.report("posts inserted", inserted, start)
			}
		}
	}

	if err := flush(); err != nil {
		return inserted, err
	}

	elapsed := time.Since(start)
	r.log.Info().
		Int("posts", inserted).
		Dur("elapsed", elapsed).
		Float64("per_second", rate(inserted, elapsed)).
		Msg("post run complete")
	return inserted, nil
}

// RetrieveTimelines fetches n home timelines for users drawn uniformly at
// random from the loaded user set.
func (r *Runner) RetrieveTimelines(ctx context.Context, n int) error {
	if n == 0 {
		return nil
	}

	users, err := r.svc.Users(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return ErrNoUsers
	}

	start := time.Now()
	for i := 1; i <= n; i++ {
		userID := users[rand.Intn(len(users))]
		if _, err := r.svc.Timeline(ctx, userID); err != nil {
			return fmt.Errorf("retrieve timeline for %d: %w", userID, err)
		}
		if i%retrieveReportEvery == 0 {
			r.report("timelines retrieved", i, start)
		}
	}

	elapsed := time.Since(start)
	r.log.Info().
		Int("timelines", n).
		Dur("elapsed", elapsed).
		Float64("per_second", rate(n, elapsed)).
		Msg("retrieve run complete")
	return nil
}

func parseDraft(logger zerolog.Logger, record []string) (domain.Post, bool) {
	authorID, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		logger.Warn().Err(err).Str("value", record[0]).Msg("skipping row with bad author id")
		return domain.Post{}, false
	}
	text := ""
	if len(record) > 1 {
		text = record[1]
	}
	return domain.NewDraft(authorID, text), true
}

func (r *Runner) report(msg string, count int, start time.Time) {
	elapsed := time.Since(start)
	r.log.Info().
		Int("count", count).
		Dur("elapsed", elapsed).
		Float64("per_second", rate(count, elapsed)).
		Msg(msg)
}

func rate(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed.Seconds()
}
