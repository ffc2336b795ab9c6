// Package indexing maintains both indexes on content lifecycle events. Every
// write carries a process-monotonic sequence number so racing updates on the
// same document resolve last-writer-wins in both backends. The local index is
// the source of availability: its writes must succeed, while remote failures
// are logged and absorbed.
package indexing

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/normalize"
)

const (
	opUpsert = "upsert"
	opRemove = "remove"
)

// Service applies content lifecycle events to the indexes.
type Service struct {
	local   LocalIndex
	remote  RemoteIndex
	source  Source
	metrics Metrics
	log     *zap.Logger

	seq        atomic.Uint64
	rebuilding atomic.Bool
}

// New creates an indexing service.
func New(local LocalIndex, remote RemoteIndex, source Source, metrics Metrics, log *zap.Logger) *Service {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Service{local: local, remote: remote, source: source, metrics: metrics, log: log}
}

// IndexDocument normalizes the raw entity and upserts it into both indexes.
// An entity the normalizer rejects for visibility is removed instead, so a
// profile turning private disappears from search.
func (s *Service) IndexDocument(ctx context.Context, raw domain.RawEntity) error {
	doc, ok, err := normalize.Normalize(raw)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", raw.Type, err)
	}
	if !ok {
		return s.removeByID(ctx, doc.ID)
	}

	seq := s.seq.Add(1)
	if err := s.local.Upsert(ctx, doc, seq); err != nil {
		return fmt.Errorf("local upsert %s: %w", doc.ID, err)
	}
	if err := s.remote.Upsert(ctx, doc, seq); err != nil {
		s.metrics.RemoteWriteFailed()
		s.log.Warn("remote upsert failed",
			zap.String("doc_id", doc.ID),
			zap.Error(err),
		)
	}

	s.metrics.IndexOp(opUpsert)
	s.metrics.SetLocalDocs(s.local.DocCount())
	return nil
}

// RemoveDocument deletes the entity's document from both indexes. Removing a
// document that was never indexed is a no-op.
func (s *Service) RemoveDocument(ctx context.Context, t domain.DocType, entityID string) error {
	if _, err := domain.ParseDocType(string(t)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.removeByID(ctx, normalize.DocID(t, entityID))
}

func (s *Service) removeByID(ctx context.Context, id string) error {
	seq := s.seq.Add(1)
	if err := s.local.Remove(ctx, id, seq); err != nil {
		return fmt.Errorf("local remove %s: %w", id, err)
	}
	if err := s.remote.Remove(ctx, id, seq); err != nil {
		s.metrics.RemoteWriteFailed()
		s.log.Warn("remote remove failed",
			zap.String("doc_id", id),
			zap.Error(err),
		)
	}

	s.metrics.IndexOp(opRemove)
	s.metrics.SetLocalDocs(s.local.DocCount())
	return nil
}

// RebuildAll re-normalizes every entity from the content source and swaps a
// freshly built local index in atomically. Per-entity failures are logged and
// skipped; the rebuild completes best-effort. Only one rebuild runs at a time.
func (s *Service) RebuildAll(ctx context.Context) (int, error) {
	if !s.rebuilding.CompareAndSwap(false, true) {
		return 0, domain.ErrRebuildInProgress
	}
	defer s.rebuilding.Store(false)

	entities, err := s.source.ExportAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("export entities: %w", err)
	}

	docs := make([]domain.Document, 0, len(entities))
	skipped := 0
	for _, raw := range entities {
		doc, ok, err := normalize.Normalize(raw)
		if err != nil {
			skipped++
			s.log.Warn("entity skipped during rebuild",
				zap.String("type", string(raw.Type)),
				zap.Error(err),
			)
			continue
		}
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}

	s.local.ReplaceAll(docs)
	s.metrics.SetLocalDocs(s.local.DocCount())

	remoteFailures := 0
	for i := range docs {
		if err := s.remote.Upsert(ctx, docs[i], s.seq.Add(1)); err != nil {
			remoteFailures++
			s.metrics.RemoteWriteFailed()
		}
	}

	s.log.Info("rebuild complete",
		zap.Int("indexed", len(docs)),
		zap.Int("skipped", skipped),
		zap.Int("remote_failures", remoteFailures),
	)
	return len(docs), nil
}
