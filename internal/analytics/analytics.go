// Package analytics emits query events to the analytics-owning collaborator
// and reads back the popular-queries report. The collaborator's log lives in
// the shared database: a stream for raw events and a sorted set counting
// query frequency.
package analytics

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptforge/searchd/internal/db"
	"github.com/promptforge/searchd/internal/domain"
)

const (
	eventStream = "search:events"
	popularKey  = "search:popular"
)

// Recorder accepts search events and serves the popular-queries report.
type Recorder interface {
	RecordSearch(ctx context.Context, event domain.SearchEvent) error
	PopularQueries(ctx context.Context, limit int) ([]domain.PopularQuery, error)
}

// Store is the slice of the database facade the recorder needs.
type Store interface {
	db.SortedSetStore
	db.StreamStore
}

// RedisRecorder writes events to the shared database.
type RedisRecorder struct {
	store Store
	log   *zap.Logger
}

// NewRedisRecorder creates a recorder over the given store.
func NewRedisRecorder(store Store, log *zap.Logger) *RedisRecorder {
	return &RedisRecorder{store: store, log: log}
}

// RecordSearch appends a search.performed event to the stream and bumps the
// query's popularity counter. Empty queries are counted nowhere.
func (r *RedisRecorder) RecordSearch(ctx context.Context, event domain.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	query := strings.ToLower(strings.TrimSpace(event.Query))
	if query == "" {
		return nil
	}

	types := make([]string, len(event.Types))
	for i, t := range event.Types {
		types[i] = string(t)
	}
	fields := map[string]string{
		"event":        "search.performed",
		"id":           event.ID,
		"query":        query,
		"types":        strings.Join(types, ","),
		"result_count": strconv.Itoa(event.ResultCount),
		"at":           event.At.UTC().Format(time.RFC3339),
	}
	if err := r.store.XAdd(ctx, eventStream, fields); err != nil {
		return err
	}
	if err := r.store.ZIncrBy(ctx, popularKey, 1, query); err != nil {
		return err
	}
	r.log.Debug("search event recorded", zap.String("query", query))
	return nil
}

// PopularQueries returns the most frequent queries, descending.
func (r *RedisRecorder) PopularQueries(ctx context.Context, limit int) ([]domain.PopularQuery, error) {
	members, err := r.store.ZTopN(ctx, popularKey, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PopularQuery, 0, len(members))
	for _, m := range members {
		out = append(out, domain.PopularQuery{Query: m.Member, Count: int(m.Score)})
	}
	return out, nil
}

// NopRecorder discards events. Used when analytics is disabled.
type NopRecorder struct{}

func (NopRecorder) RecordSearch(context.Context, domain.SearchEvent) error { return nil }

func (NopRecorder) PopularQueries(context.Context, int) ([]domain.PopularQuery, error) {
	return nil, nil
}
