// Package index defines the contract shared by every search backend. The
// local in-memory index and the remote engine adapter implement the same
// upsert/remove/search surface so the query planner can swap between them.
package index

import (
	"context"

	"github.com/promptforge/searchd/internal/domain"
)

// Request carries a normalized query plus the already-resolved requester id.
type Request struct {
	Query       domain.Query
	RequesterID string
}

// Response is a backend's raw answer: the full filtered candidate set, still
// unranked. The planner applies the shared scoring function afterwards so
// ordering never depends on which backend produced the candidates.
type Response struct {
	// Docs is the filtered candidate set. Backends may cap it at a large
	// window; Total always reflects the full filtered set.
	Docs  []domain.Document
	Total int
	// Facets is set when the backend aggregates server-side; nil means the
	// planner computes facets from Docs.
	Facets *domain.Facets
	// Highlights maps document ids to backend-supplied highlight fragments.
	Highlights map[string][]string
}

// Backend is the common index contract. Upsert is a full replace keyed on the
// document id; stale sequence numbers lose (last-writer-wins). Remove of an
// unknown id is a no-op.
type Backend interface {
	Upsert(ctx context.Context, doc domain.Document, seq uint64) error
	Remove(ctx context.Context, id string, seq uint64) error
	Search(ctx context.Context, req Request) (*Response, error)
}
