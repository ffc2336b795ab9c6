// Package searching is the query planner: it validates the query, tries the
// remote index first, falls back to the local index on any backend failure,
// and applies the shared scoring function to whichever candidate set came
// back so ranking never depends on backend health.
package searching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/index"
)

const (
	backendRemote = "remote"
	backendLocal  = "local"

	defaultPopularLimit = 10
	analyticsTimeout    = 2 * time.Second
)

// Options tune the planner.
type Options struct {
	RemoteTimeout   time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

func (o *Options) applyDefaults() {
	if o.RemoteTimeout <= 0 {
		o.RemoteTimeout = 2 * time.Second
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = 20
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 100
	}
}

// Service plans and executes searches.
type Service struct {
	remote  Backend
	local   Backend
	docs    DocumentReader
	rec     Recorder
	metrics Metrics
	log     *zap.Logger
	opts    Options

	now func() time.Time
}

// New creates a search service.
func New(remote, local Backend, docs DocumentReader, rec Recorder, metrics Metrics, log *zap.Logger, opts Options) *Service {
	opts.applyDefaults()
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Service{
		remote:  remote,
		local:   local,
		docs:    docs,
		rec:     rec,
		metrics: metrics,
		log:     log,
		opts:    opts,
		now:     time.Now,
	}
}

// Search runs the full pipeline: validate, fetch candidates, re-rank, facet,
// paginate, materialize. Backend failures never surface to the caller; the
// result degrades to the local index instead.
func (s *Service) Search(ctx context.Context, q domain.Query, requesterID string) (*domain.Result, error) {
	started := s.now()

	q.Normalize(s.opts.DefaultPageSize, s.opts.MaxPageSize)
	if err := q.Validate(); err != nil {
		return nil, err
	}

	req := index.Request{Query: q, RequesterID: requesterID}
	resp, backend := s.fetch(ctx, req)
	if resp == nil {
		// Both backends failing means the local index itself errored,
		// which its contract does not allow; treat as empty.
		resp = &index.Response{}
	}

	terms := domain.Tokenize(q.Text)
	nowT := s.now()
	ranked := rank(resp.Docs, terms, q, nowT)

	total := resp.Total
	facets := resp.Facets
	if facets == nil {
		facets = computeFacets(resp.Docs)
	}
	capFacets(facets)

	items := s.materialize(paginate(ranked, q.Page, q.PageSize), resp.Highlights, terms)

	s.metrics.SearchServed(backend)
	s.emitEvent(q, total)

	return &domain.Result{
		Items:           items,
		Total:           total,
		Page:            q.Page,
		PageSize:        q.PageSize,
		Facets:          *facets,
		ExecutionTimeMs: time.Since(started).Milliseconds(),
	}, nil
}

// PopularQueries returns the most frequent queries from the analytics log.
func (s *Service) PopularQueries(ctx context.Context, limit int) ([]domain.PopularQuery, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	out, err := s.rec.PopularQueries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular queries: %w", err)
	}
	return out, nil
}

// fetch tries the remote backend under its own timeout, falling back to the
// local index on any error.
func (s *Service) fetch(ctx context.Context, req index.Request) (*index.Response, string) {
	rctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	resp, err := s.remote.Search(rctx, req)
	cancel()
	if err == nil {
		return resp, backendRemote
	}

	s.metrics.FallbackOccurred()
	s.log.Warn("remote search failed, serving from local index",
		zap.String("query", req.Query.Text),
		zap.Error(err),
	)

	resp, err = s.local.Search(ctx, req)
	if err != nil {
		s.log.Error("local search failed", zap.Error(err))
		return nil, backendLocal
	}
	return resp, backendLocal
}

// rank scores every candidate with the shared scoring function and orders by
// the requested sort mode. Ties break on creation time, then id, so paging
// is stable.
func rank(docs []domain.Document, terms []string, q domain.Query, now time.Time) []scored {
	out := make([]scored, len(docs))
	for i := range docs {
		out[i] = scored{
			doc:   docs[i],
			score: domain.Score(&docs[i], terms, q.Text, now),
		}
	}

	less := func(a, b *scored) bool { return a.score > b.score }
	switch q.Sort {
	case domain.SortRecent:
		less = func(a, b *scored) bool { return a.doc.CreatedAt.After(b.doc.CreatedAt) }
	case domain.SortPopular:
		less = func(a, b *scored) bool { return domain.Popularity(&a.doc) > domain.Popularity(&b.doc) }
	case domain.SortScore:
		less = func(a, b *scored) bool { return domain.QualityOf(&a.doc) > domain.QualityOf(&b.doc) }
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		if !a.doc.CreatedAt.Equal(b.doc.CreatedAt) {
			return a.doc.CreatedAt.After(b.doc.CreatedAt)
		}
		return a.doc.ID < b.doc.ID
	})
	return out
}

type scored struct {
	doc   domain.Document
	score int
}

func paginate(ranked []scored, page, pageSize int) []scored {
	start := (page - 1) * pageSize
	if start >= len(ranked) {
		return nil
	}
	end := start + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end]
}

func (s *Service) materialize(page []scored, backendHighlights map[string][]string, terms []string) []domain.Item {
	items := make([]domain.Item, 0, len(page))
	for i := range page {
		doc := &page[i].doc
		items = append(items, domain.Item{
			ID:         doc.ID,
			Type:       doc.Type,
			Title:      doc.Title,
			Excerpt:    Excerpt(doc.Content, terms),
			Tags:       doc.Tags,
			Category:   doc.Category,
			Author:     s.author(doc.OwnerID),
			Score:      page[i].score,
			Highlights: Highlights(backendHighlights[doc.ID], doc.Content, terms),
			Metadata:   doc.Numerics,
			CreatedAt:  doc.CreatedAt,
			UpdatedAt:  doc.UpdatedAt,
		})
	}
	return items
}

// author enriches an owner id from its indexed user profile, when public.
func (s *Service) author(ownerID string) domain.Author {
	if ownerID == "" {
		return domain.Author{}
	}
	a := domain.Author{ID: ownerID}
	if profile, ok := s.docs.Get(string(domain.DocTypeUser) + ":" + ownerID); ok {
		a.Username = profile.Attr("username")
		a.Avatar = profile.Attr("avatar")
	}
	return a
}

// emitEvent reports the query to the analytics collaborator without blocking
// the response.
func (s *Service) emitEvent(q domain.Query, total int) {
	event := domain.SearchEvent{
		Query:       q.Text,
		Types:       q.Types,
		ResultCount: total,
		At:          s.now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyticsTimeout)
		defer cancel()
		if err := s.rec.RecordSearch(ctx, event); err != nil {
			s.log.Warn("search event dropped", zap.Error(err))
		}
	}()
}
