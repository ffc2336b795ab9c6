// Package remote adapts the external full-text engine to the shared backend
// contract. Every engine failure is folded into domain.ErrBackendUnavailable
// so the query planner can fall back without inspecting driver errors.
package remote

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/promptforge/searchd/internal/db"
	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/index"
)

// Compile-time check: Adapter implements index.Backend.
var _ index.Backend = (*Adapter)(nil)

// Store is the slice of the database facade the adapter needs.
type Store interface {
	db.HashStore
	db.IndexManager
	db.Searcher
}

// candidateLimit caps the window of hits pulled per query. The planner
// re-ranks the whole window, so it must comfortably exceed any page.
const candidateLimit = 500

const (
	highlightOpen  = "<em>"
	highlightClose = "</em>"
)

// Adapter is the remote index backend.
type Adapter struct {
	store Store
	log   *zap.Logger
}

// New creates a remote adapter over the given store.
func New(store Store, log *zap.Logger) *Adapter {
	return &Adapter{store: store, log: log}
}

// EnsureSchema creates the FT index if it does not exist yet.
func (a *Adapter) EnsureSchema(ctx context.Context) error {
	exists, err := a.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	if exists {
		return nil
	}
	if err := a.store.CreateIndex(ctx, Definition()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	a.log.Info("created search index", zap.String("index", IndexName))
	return nil
}

// Upsert writes the document hash. The per-document sequence lives in a
// sibling key; a sequence at or below the stored one means a stale writer
// and the write is dropped (seq 0 bypasses the check).
func (a *Adapter) Upsert(ctx context.Context, doc domain.Document, seq uint64) error {
	if seq != 0 {
		stale, err := a.isStale(ctx, doc.ID, seq)
		if err != nil {
			return err
		}
		if stale {
			return nil
		}
	}

	items := []db.HashSetItem{{Key: docKey(doc.ID), Fields: docToFields(&doc)}}
	if seq != 0 {
		items = append(items, db.HashSetItem{
			Key:    seqKey(doc.ID),
			Fields: map[string]string{"v": strconv.FormatUint(seq, 10)},
		})
	}
	if err := a.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Remove deletes the document hash. The sequence key is kept as a tombstone
// so a stale upsert racing the removal cannot resurrect the document.
func (a *Adapter) Remove(ctx context.Context, id string, seq uint64) error {
	if seq != 0 {
		stale, err := a.isStale(ctx, id, seq)
		if err != nil {
			return err
		}
		if stale {
			return nil
		}
	}

	if err := a.store.Del(ctx, docKey(id)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	if seq != 0 {
		fields := map[string]string{"v": strconv.FormatUint(seq, 10)}
		if err := a.store.HSet(ctx, seqKey(id), fields); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
		}
	}
	return nil
}

func (a *Adapter) isStale(ctx context.Context, id string, seq uint64) (bool, error) {
	cur, err := a.store.HGetAll(ctx, seqKey(id))
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	stored, _ := strconv.ParseUint(cur["v"], 10, 64)
	return seq <= stored, nil
}

// Search runs the query against the engine, returning the candidate window,
// the full filtered total, server-side facets, and highlight fragments.
func (a *Adapter) Search(ctx context.Context, req index.Request) (*index.Response, error) {
	queryStr := buildQuery(&req)
	terms := domain.Tokenize(req.Query.Text)

	tq := &db.TextQuery{
		IndexName: IndexName,
		Query:     queryStr,
		Limit:     candidateLimit,
	}
	if len(terms) > 0 {
		tq.Highlight = true
		tq.HighlightFields = []string{"title", "content"}
	}

	res, err := a.store.SearchText(ctx, tq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	resp := &index.Response{
		Docs:       make([]domain.Document, 0, len(res.Entries)),
		Total:      res.Total,
		Highlights: make(map[string][]string),
	}
	for _, entry := range res.Entries {
		fragments := extractHighlights(entry.Fields)
		doc := fieldsToDoc(entry.Fields)
		if len(fragments) > 0 {
			resp.Highlights[doc.ID] = fragments
		}
		resp.Docs = append(resp.Docs, doc)
	}

	facets, err := a.aggregateFacets(ctx, queryStr)
	if err != nil {
		// Facets are a refinement over the same filtered set; a failed
		// aggregation degrades to planner-side counting, not a dead query.
		a.log.Warn("facet aggregation failed", zap.Error(err))
	} else {
		resp.Facets = facets
	}

	a.log.Debug("remote search",
		zap.String("query", queryStr),
		zap.Int("total", res.Total),
	)
	return resp, nil
}

func (a *Adapter) aggregateFacets(ctx context.Context, queryStr string) (*domain.Facets, error) {
	facets := &domain.Facets{}
	dims := []struct {
		field string
		dest  *[]domain.FacetCount
	}{
		{"doc_type", &facets.Types},
		{"category", &facets.Categories},
		{"tags", &facets.Tags},
		{"owner_id", &facets.Authors},
	}

	for _, dim := range dims {
		groups, err := a.store.Aggregate(ctx, &db.AggregateQuery{
			IndexName: IndexName,
			Query:     queryStr,
			GroupBy:   dim.field,
			Limit:     domain.MaxFacetValues,
		})
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			if g.Value == "" {
				continue
			}
			*dim.dest = append(*dim.dest, domain.FacetCount{Value: g.Value, Count: g.Count})
		}
	}
	return facets, nil
}

// buildQuery assembles the engine query string. Free text matches title and
// content with prefix expansion, or any query term as an exact tag. The
// visibility clause is always present so private documents never leave the
// engine for other requesters.
func buildQuery(req *index.Request) string {
	var parts []string

	if terms := domain.Tokenize(req.Query.Text); len(terms) > 0 {
		prefixed := make([]string, len(terms))
		escaped := make([]string, len(terms))
		for i, t := range terms {
			prefixed[i] = t + "*"
			escaped[i] = escapeTag(t)
		}
		parts = append(parts, fmt.Sprintf("((%s) | @tags:{%s})",
			strings.Join(prefixed, " "), strings.Join(escaped, "|")))
	}

	if len(req.Query.Types) > 0 {
		vals := make([]string, len(req.Query.Types))
		for i, t := range req.Query.Types {
			vals[i] = escapeTag(string(t))
		}
		parts = append(parts, "@doc_type:{"+strings.Join(vals, "|")+"}")
	}
	if len(req.Query.Categories) > 0 {
		vals := make([]string, len(req.Query.Categories))
		for i, c := range req.Query.Categories {
			vals[i] = escapeTag(strings.ToLower(c))
		}
		parts = append(parts, "@category:{"+strings.Join(vals, "|")+"}")
	}
	if len(req.Query.Tags) > 0 {
		vals := make([]string, len(req.Query.Tags))
		for i, t := range req.Query.Tags {
			vals[i] = escapeTag(t)
		}
		parts = append(parts, "@tags:{"+strings.Join(vals, "|")+"}")
	}
	if req.Query.AuthorID != "" {
		parts = append(parts, "@owner_id:{"+escapeTag(req.Query.AuthorID)+"}")
	}

	if req.RequesterID != "" {
		parts = append(parts, "(@is_public:{1} | @owner_id:{"+escapeTag(req.RequesterID)+"})")
	} else {
		parts = append(parts, "@is_public:{1}")
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// escapeTag backslash-escapes everything outside [a-zA-Z0-9_] so tag values
// survive the engine's query syntax.
func escapeTag(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// extractHighlights pulls marked fragments out of the hit's fields and strips
// the markers so the document round-trips clean.
func extractHighlights(fields map[string]string) []string {
	var fragments []string
	for _, name := range []string{"title", "content"} {
		v, ok := fields[name]
		if !ok || !strings.Contains(v, highlightOpen) {
			continue
		}
		fragments = append(fragments, snippet(v))
		fields[name] = stripMarkers(v)
	}
	return fragments
}

// snippet trims a highlighted field to a window around the first match so
// fragments stay excerpt-sized even for long content.
func snippet(v string) string {
	const window = 100
	i := strings.Index(v, highlightOpen)
	start := i - window
	if start < 0 {
		start = 0
	}
	end := i + len(highlightOpen) + window
	if end > len(v) {
		end = len(v)
	}
	out := v[start:end]
	// Never cut a marker in half.
	if n := strings.Count(out, highlightOpen) - strings.Count(out, highlightClose); n > 0 {
		out += highlightClose
	}
	return strings.TrimSpace(out)
}

func stripMarkers(v string) string {
	v = strings.ReplaceAll(v, highlightOpen, "")
	return strings.ReplaceAll(v, highlightClose, "")
}
