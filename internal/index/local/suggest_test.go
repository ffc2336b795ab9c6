package local

import (
	"context"
	"testing"

	"github.com/promptforge/searchd/internal/domain"
)

func TestTokensByPrefix(t *testing.T) {
	ix := New()
	ctx := context.Background()
	_ = ix.Upsert(ctx, promptDoc("p1", "rain rainbow", true, "u1"), 1)
	_ = ix.Upsert(ctx, promptDoc("p2", "rain songs", true, "u1"), 2)
	_ = ix.Upsert(ctx, promptDoc("p3", "raincoat review", true, "u1"), 3)

	got := ix.TokensByPrefix("rain", 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 tokens, got %v", got)
	}
	// "rain" appears in two documents and must rank first.
	if got[0].Token != "rain" || got[0].Count != 2 {
		t.Errorf("top token = %+v, want rain/2", got[0])
	}
	// Ties rank alphabetically.
	if got[1].Token != "rainbow" || got[2].Token != "raincoat" {
		t.Errorf("tie order wrong: %v", got)
	}

	if got := ix.TokensByPrefix("rain", 1); len(got) != 1 {
		t.Errorf("limit not applied: %v", got)
	}
	if got := ix.TokensByPrefix("", 10); got != nil {
		t.Errorf("empty prefix should yield nothing, got %v", got)
	}
}

func TestTagsContaining(t *testing.T) {
	ix := New()
	ctx := context.Background()
	a := promptDoc("p1", "one", true, "u1")
	a.Tags = []string{"coding", "decode"}
	_ = ix.Upsert(ctx, a, 1)
	b := promptDoc("p2", "two", true, "u1")
	b.Tags = []string{"coding"}
	_ = ix.Upsert(ctx, b, 2)

	got := ix.TagsContaining("cod", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 tags, got %v", got)
	}
	if got[0].Token != "coding" || got[0].Count != 2 {
		t.Errorf("top tag = %+v, want coding/2", got[0])
	}
	if got[1].Token != "decode" || got[1].Count != 1 {
		t.Errorf("second tag = %+v, want decode/1", got[1])
	}
}

func TestUsersMatching(t *testing.T) {
	ix := New()
	ctx := context.Background()

	alice := promptDoc("u1", "Alice Wright", true, "u1")
	alice.Type = domain.DocTypeUser
	_ = ix.Upsert(ctx, alice, 1)

	bob := promptDoc("u2", "Bob Wrightson", true, "u2")
	bob.Type = domain.DocTypeUser
	_ = ix.Upsert(ctx, bob, 2)

	// Same title substring but not a user document.
	_ = ix.Upsert(ctx, promptDoc("p1", "wright brothers prompt", true, "u1"), 3)

	got := ix.UsersMatching("wright", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[0].Title != "Alice Wright" || got[1].Title != "Bob Wrightson" {
		t.Errorf("unexpected order: %q, %q", got[0].Title, got[1].Title)
	}

	if got := ix.UsersMatching("wright", 1); len(got) != 1 {
		t.Errorf("limit not applied: %d", len(got))
	}
}
