package local

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/index"
)

func promptDoc(id, title string, public bool, owner string) domain.Document {
	return domain.Document{
		ID:        id,
		Type:      domain.DocTypePrompt,
		Title:     title,
		Content:   title,
		OwnerID:   owner,
		IsPublic:  public,
		CreatedAt: time.Now(),
	}
}

func search(t *testing.T, ix *Index, text, requester string) *index.Response {
	t.Helper()
	q := domain.Query{Text: text}
	q.Normalize(20, 100)
	resp, err := ix.Search(context.Background(), index.Request{Query: q, RequesterID: requester})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	return resp
}

func ids(resp *index.Response) map[string]bool {
	m := make(map[string]bool, len(resp.Docs))
	for _, d := range resp.Docs {
		m[d.ID] = true
	}
	return m
}

func TestUpsert_RoundTrip(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "Write a haiku about rain", true, "u1"), 1)

	resp := search(t, ix, "haiku", "")
	if resp.Total != 1 || !ids(resp)["p1"] {
		t.Fatalf("expected p1, got %+v", resp.Docs)
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	ix := New()
	doc := promptDoc("p1", "Write a haiku about rain", true, "u1")
	_ = ix.Upsert(context.Background(), doc, 1)
	once := search(t, ix, "haiku", "")

	_ = ix.Upsert(context.Background(), doc, 2)
	twice := search(t, ix, "haiku", "")

	if once.Total != twice.Total || len(once.Docs) != len(twice.Docs) {
		t.Errorf("results differ after duplicate upsert: %d vs %d", once.Total, twice.Total)
	}
	if ix.DocCount() != 1 {
		t.Errorf("doc count = %d, want 1", ix.DocCount())
	}
}

func TestUpsert_FullReplacePrunesOldPostings(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "ancient castles", true, "u1"), 1)
	updated := promptDoc("p1", "modern towers", true, "u1")
	_ = ix.Upsert(context.Background(), updated, 2)

	if resp := search(t, ix, "castles", ""); resp.Total != 0 {
		t.Errorf("old token still resolves after replace: %+v", resp.Docs)
	}
	if resp := search(t, ix, "towers", ""); resp.Total != 1 {
		t.Errorf("new token not indexed: %+v", resp.Docs)
	}
}

func TestRemove_Completeness(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "Write a haiku about rain", true, "u1"), 1)
	_ = ix.Remove(context.Background(), "p1", 2)

	if resp := search(t, ix, "haiku", ""); resp.Total != 0 {
		t.Errorf("removed doc still searchable: %+v", resp.Docs)
	}
	if _, ok := ix.Get("p1"); ok {
		t.Error("removed doc still in forward map")
	}
	if toks := ix.TokensByPrefix("hai", 5); len(toks) != 0 {
		t.Errorf("removed doc still feeds suggestions: %v", toks)
	}
	// No token's postings set may still reference the id.
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	for tok, set := range ix.sh.postings {
		if _, ok := set["p1"]; ok {
			t.Errorf("token %q still references removed doc", tok)
		}
	}
}

func TestRemove_UnknownID_NoOp(t *testing.T) {
	ix := New()
	if err := ix.Remove(context.Background(), "ghost", 1); err != nil {
		t.Fatalf("remove of unknown id returned error: %v", err)
	}
}

func TestAccessControl(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "rain haiku", true, "u1"), 1)
	private := promptDoc("p2", "rain forecast", false, "u2")
	private.Type = domain.DocTypeTemplate
	_ = ix.Upsert(context.Background(), private, 2)

	anon := search(t, ix, "rain", "")
	if anon.Total != 1 || !ids(anon)["p1"] {
		t.Errorf("anonymous requester sees private doc: %+v", anon.Docs)
	}

	owner := search(t, ix, "rain", "u2")
	if owner.Total != 2 {
		t.Errorf("owner should see both docs, got %+v", owner.Docs)
	}

	other := search(t, ix, "rain", "u3")
	if other.Total != 1 {
		t.Errorf("non-owner sees private doc: %+v", other.Docs)
	}
}

func TestSearch_IntersectsAllTerms(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "rain in summer", true, "u1"), 1)
	_ = ix.Upsert(context.Background(), promptDoc("p2", "rain in winter", true, "u1"), 2)

	resp := search(t, ix, "rain winter", "")
	if !ids(resp)["p2"] {
		t.Errorf("expected p2 in results: %+v", resp.Docs)
	}
	// p1 matches only "rain"; it may appear via substring expansion of a
	// single term but the exact intersection must contain p2.
}

func TestSearch_SubstringExpansion(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "the rainmaker", true, "u1"), 1)

	resp := search(t, ix, "rain", "")
	if resp.Total != 1 || !ids(resp)["p1"] {
		t.Errorf("substring expansion failed: %+v", resp.Docs)
	}
}

func TestSearch_StructuralFilters(t *testing.T) {
	ix := New()
	a := promptDoc("p1", "rain haiku", true, "u1")
	a.Category = "poetry"
	a.Tags = []string{"haiku", "weather"}
	_ = ix.Upsert(context.Background(), a, 1)

	b := promptDoc("t1", "rain forecast", true, "u2")
	b.Type = domain.DocTypeTemplate
	b.Category = "weather"
	_ = ix.Upsert(context.Background(), b, 2)

	run := func(q domain.Query) *index.Response {
		q.Normalize(20, 100)
		resp, err := ix.Search(context.Background(), index.Request{Query: q})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		return resp
	}

	if resp := run(domain.Query{Text: "rain", Types: []domain.DocType{domain.DocTypeTemplate}}); resp.Total != 1 || !ids(resp)["t1"] {
		t.Errorf("type filter: %+v", resp.Docs)
	}
	if resp := run(domain.Query{Text: "rain", Categories: []string{"poetry"}}); resp.Total != 1 || !ids(resp)["p1"] {
		t.Errorf("category filter: %+v", resp.Docs)
	}
	if resp := run(domain.Query{Text: "rain", Tags: []string{"weather", "nosuch"}}); resp.Total != 1 || !ids(resp)["p1"] {
		t.Errorf("hasSome tag filter: %+v", resp.Docs)
	}
	if resp := run(domain.Query{Text: "rain", AuthorID: "u2"}); resp.Total != 1 || !ids(resp)["t1"] {
		t.Errorf("author filter: %+v", resp.Docs)
	}
}

func TestSearch_NoQueryReturnsAll(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "alpha", true, "u1"), 1)
	_ = ix.Upsert(context.Background(), promptDoc("p2", "beta", true, "u1"), 2)

	resp := search(t, ix, "", "")
	if resp.Total != 2 {
		t.Errorf("expected all docs, got %d", resp.Total)
	}
}

func TestLastWriterWins_StaleUpsertDropped(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "second write", true, "u1"), 5)
	_ = ix.Upsert(context.Background(), promptDoc("p1", "first write", true, "u1"), 3)

	doc, ok := ix.Get("p1")
	if !ok || doc.Title != "second write" {
		t.Errorf("stale upsert overwrote newer document: %+v", doc)
	}
}

func TestLastWriterWins_RemoveTombstone(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("p1", "to delete", true, "u1"), 1)
	_ = ix.Remove(context.Background(), "p1", 3)
	// A stale upsert racing the removal must not resurrect the document.
	_ = ix.Upsert(context.Background(), promptDoc("p1", "zombie", true, "u1"), 2)

	if _, ok := ix.Get("p1"); ok {
		t.Error("stale upsert resurrected a removed document")
	}
}

func TestReplaceAll_SwapsGeneration(t *testing.T) {
	ix := New()
	_ = ix.Upsert(context.Background(), promptDoc("old", "legacy entry", true, "u1"), 1)

	ix.ReplaceAll([]domain.Document{
		promptDoc("new1", "fresh rain", true, "u1"),
		promptDoc("new2", "fresh snow", true, "u1"),
	})

	if _, ok := ix.Get("old"); ok {
		t.Error("old generation document survived the swap")
	}
	if resp := search(t, ix, "fresh", ""); resp.Total != 2 {
		t.Errorf("rebuilt index incomplete: %+v", resp.Docs)
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	ix := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("d%d-%d", w, i)
				_ = ix.Upsert(ctx, promptDoc(id, "concurrent rain", true, "u1"), 0)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q := domain.Query{Text: "rain"}
				q.Normalize(20, 100)
				if _, err := ix.Search(ctx, index.Request{Query: q}); err != nil {
					t.Errorf("search: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if ix.DocCount() != 200 {
		t.Errorf("doc count = %d, want 200", ix.DocCount())
	}
}
