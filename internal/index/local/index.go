// Package local implements the always-available in-memory index: a forward
// map for materialization, an inverted index for token lookup, and a reverse
// id→token-set map so removal is proportional to the document's own tokens.
package local

import (
	"context"
	"strings"
	"sync"

	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/index"
)

// Compile-time check: Index implements index.Backend.
var _ index.Backend = (*Index)(nil)

// shard holds one consistent generation of the index. A full rebuild
// constructs a fresh shard off to the side and swaps it in atomically;
// the live shard is never truncated in place.
type shard struct {
	forward  map[string]domain.Document
	postings map[string]map[string]struct{} // token -> doc ids
	byDoc    map[string]map[string]struct{} // doc id -> its tokens
	tagDocs  map[string]map[string]struct{} // tag -> doc ids
	seq      map[string]uint64              // doc id -> last applied sequence
}

func newShard() *shard {
	return &shard{
		forward:  make(map[string]domain.Document),
		postings: make(map[string]map[string]struct{}),
		byDoc:    make(map[string]map[string]struct{}),
		tagDocs:  make(map[string]map[string]struct{}),
		seq:      make(map[string]uint64),
	}
}

// insert assumes any prior postings for doc.ID are already pruned.
func (sh *shard) insert(doc domain.Document) {
	tokens := domain.Tokenize(domain.IndexText(&doc))

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
		ids, ok := sh.postings[tok]
		if !ok {
			ids = make(map[string]struct{})
			sh.postings[tok] = ids
		}
		ids[doc.ID] = struct{}{}
	}

	for _, tag := range doc.Tags {
		ids, ok := sh.tagDocs[tag]
		if !ok {
			ids = make(map[string]struct{})
			sh.tagDocs[tag] = ids
		}
		ids[doc.ID] = struct{}{}
	}

	sh.forward[doc.ID] = doc
	sh.byDoc[doc.ID] = tokenSet
}

// prune removes the document's postings via the reverse map: O(tokens-of-doc).
func (sh *shard) prune(id string) {
	doc, indexed := sh.forward[id]
	if !indexed {
		return
	}

	for tok := range sh.byDoc[id] {
		if ids, ok := sh.postings[tok]; ok {
			delete(ids, id)
			if len(ids) == 0 {
				delete(sh.postings, tok)
			}
		}
	}
	for _, tag := range doc.Tags {
		if ids, ok := sh.tagDocs[tag]; ok {
			delete(ids, id)
			if len(ids) == 0 {
				delete(sh.tagDocs, tag)
			}
		}
	}

	delete(sh.forward, id)
	delete(sh.byDoc, id)
}

// Index is the local backend. A single RWMutex guards the active shard:
// queries take the read lock for their whole run so they always observe one
// consistent generation.
type Index struct {
	mu sync.RWMutex
	sh *shard
}

// New creates an empty local index.
func New() *Index {
	return &Index{sh: newShard()}
}

// Upsert fully replaces the document under its id. A sequence number at or
// below the last applied one is a stale writer and is dropped (seq 0 bypasses
// the check, for callers without sequencing such as tests).
func (ix *Index) Upsert(_ context.Context, doc domain.Document, seq uint64) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if seq != 0 && seq <= ix.sh.seq[doc.ID] {
		return nil
	}

	ix.sh.prune(doc.ID)
	ix.sh.insert(doc)
	if seq != 0 {
		ix.sh.seq[doc.ID] = seq
	}
	return nil
}

// Remove deletes the document and every posting referencing it. Removing an
// id that was never indexed is a no-op, not an error. The sequence entry is
// retained as a tombstone so a racing stale upsert cannot resurrect the doc.
func (ix *Index) Remove(_ context.Context, id string, seq uint64) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if seq != 0 && seq <= ix.sh.seq[id] {
		return nil
	}

	ix.sh.prune(id)
	if seq != 0 {
		ix.sh.seq[id] = seq
	}
	return nil
}

// ReplaceAll swaps in a freshly built shard containing exactly the given
// documents. Queries in flight keep reading the old generation until the
// pointer swap.
func (ix *Index) ReplaceAll(docs []domain.Document) {
	fresh := newShard()
	for _, doc := range docs {
		fresh.insert(doc)
	}

	ix.mu.Lock()
	ix.sh = fresh
	ix.mu.Unlock()
}

// Get returns the indexed document for id, if any.
func (ix *Index) Get(id string) (domain.Document, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	doc, ok := ix.sh.forward[id]
	return doc, ok
}

// DocCount returns the number of indexed documents.
func (ix *Index) DocCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.sh.forward)
}

// Search returns the full filtered candidate set for the request. Candidates
// come from the intersection of postings across all query tokens, unioned
// with substring expansion over the token dictionary; without query text
// every document is a candidate.
func (ix *Index) Search(_ context.Context, req index.Request) (*index.Response, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	sh := ix.sh
	terms := domain.Tokenize(req.Query.Text)

	var candidates map[string]struct{}
	if len(terms) == 0 {
		candidates = make(map[string]struct{}, len(sh.forward))
		for id := range sh.forward {
			candidates[id] = struct{}{}
		}
	} else {
		candidates = sh.candidates(terms)
	}

	docs := make([]domain.Document, 0, len(candidates))
	for id := range candidates {
		doc := sh.forward[id]
		if !doc.VisibleTo(req.RequesterID) {
			continue
		}
		if !matchesFilters(&doc, &req.Query) {
			continue
		}
		docs = append(docs, doc)
	}

	return &index.Response{Docs: docs, Total: len(docs)}, nil
}

// candidates computes exact-intersection ∪ substring-expansion for the terms.
func (sh *shard) candidates(terms []string) map[string]struct{} {
	out := make(map[string]struct{})

	// Exact: ids present in the postings of every term.
	exact := true
	var smallest map[string]struct{}
	for _, term := range terms {
		ids, ok := sh.postings[term]
		if !ok {
			exact = false
			break
		}
		if smallest == nil || len(ids) < len(smallest) {
			smallest = ids
		}
	}
	if exact {
	next:
		for id := range smallest {
			for _, term := range terms {
				if _, ok := sh.postings[term][id]; !ok {
					continue next
				}
			}
			out[id] = struct{}{}
		}
	}

	// Expansion: any term appearing as a substring of an indexed token.
	for tok, ids := range sh.postings {
		for _, term := range terms {
			if strings.Contains(tok, term) {
				for id := range ids {
					out[id] = struct{}{}
				}
				break
			}
		}
	}

	return out
}

func matchesFilters(doc *domain.Document, q *domain.Query) bool {
	if len(q.Types) > 0 && !typeIn(doc.Type, q.Types) {
		return false
	}
	if len(q.Categories) > 0 && !stringIn(doc.Category, q.Categories) {
		return false
	}
	if len(q.Tags) > 0 && !hasSomeTag(doc, q.Tags) {
		return false
	}
	if q.AuthorID != "" && doc.OwnerID != q.AuthorID {
		return false
	}
	return true
}

func typeIn(t domain.DocType, types []domain.DocType) bool {
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

func stringIn(s string, values []string) bool {
	for _, v := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func hasSomeTag(doc *domain.Document, tags []string) bool {
	for _, tag := range tags {
		if doc.HasTag(tag) {
			return true
		}
	}
	return false
}
