package searching

import (
	"context"

	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/index"
)

// Backend executes a query against one index and returns the raw candidate
// set. Both the remote adapter and the local index satisfy this.
type Backend interface {
	Search(ctx context.Context, req index.Request) (*index.Response, error)
}

// DocumentReader resolves indexed documents by id, used to enrich result
// items with author profiles.
type DocumentReader interface {
	Get(id string) (domain.Document, bool)
}

// Recorder receives search events and serves the popular-queries report.
type Recorder interface {
	RecordSearch(ctx context.Context, event domain.SearchEvent) error
	PopularQueries(ctx context.Context, limit int) ([]domain.PopularQuery, error)
}

// Metrics counts planner-level events.
type Metrics interface {
	SearchServed(backend string)
	FallbackOccurred()
}

// NopMetrics discards all counts.
type NopMetrics struct{}

func (NopMetrics) SearchServed(string) {}
func (NopMetrics) FallbackOccurred()  {}
