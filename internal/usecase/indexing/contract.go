package indexing

import (
	"context"

	"github.com/promptforge/searchd/internal/domain"
)

// LocalIndex is the write surface of the in-memory index.
type LocalIndex interface {
	Upsert(ctx context.Context, doc domain.Document, seq uint64) error
	Remove(ctx context.Context, id string, seq uint64) error
	ReplaceAll(docs []domain.Document)
	DocCount() int
}

// RemoteIndex is the write surface of the remote engine adapter.
type RemoteIndex interface {
	Upsert(ctx context.Context, doc domain.Document, seq uint64) error
	Remove(ctx context.Context, id string, seq uint64) error
}

// Source exports every live content entity, used by the full rebuild.
type Source interface {
	ExportAll(ctx context.Context) ([]domain.RawEntity, error)
}

// Metrics counts index maintenance events.
type Metrics interface {
	IndexOp(op string)
	RemoteWriteFailed()
	SetLocalDocs(n int)
}

// NopMetrics discards all counts.
type NopMetrics struct{}

func (NopMetrics) IndexOp(string)    {}
func (NopMetrics) RemoteWriteFailed() {}
func (NopMetrics) SetLocalDocs(int)  {}
