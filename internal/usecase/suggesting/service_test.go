package suggesting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/index/local"
)

type mockIndex struct {
	tokensFunc func(prefix string, n int) []local.TokenCount
	tagsFunc   func(input string, n int) []local.TokenCount
	usersFunc  func(input string, n int) []domain.Document
}

func (m *mockIndex) TokensByPrefix(prefix string, n int) []local.TokenCount {
	if m.tokensFunc != nil {
		return m.tokensFunc(prefix, n)
	}
	return nil
}

func (m *mockIndex) TagsContaining(input string, n int) []local.TokenCount {
	if m.tagsFunc != nil {
		return m.tagsFunc(input, n)
	}
	return nil
}

func (m *mockIndex) UsersMatching(input string, n int) []domain.Document {
	if m.usersFunc != nil {
		return m.usersFunc(input, n)
	}
	return nil
}

func TestSuggest_QueryCompletion(t *testing.T) {
	idx := &mockIndex{
		tokensFunc: func(prefix string, n int) []local.TokenCount {
			if prefix != "ha" {
				t.Errorf("prefix = %q, want last token only", prefix)
			}
			if n != 5 {
				t.Errorf("completion cap = %d, want 5", n)
			}
			return []local.TokenCount{{Token: "haiku", Count: 7}}
		},
	}

	got, err := New(idx).Suggest(context.Background(), "Write a HA", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("suggestions = %+v", got)
	}
	// The completed token substitutes the one still being typed.
	if got[0].Text != "write a haiku" || got[0].Type != domain.SuggestionQuery || got[0].Count != 7 {
		t.Errorf("suggestion = %+v", got[0])
	}
}

func TestSuggest_MergesAndRanksByCount(t *testing.T) {
	idx := &mockIndex{
		tokensFunc: func(string, int) []local.TokenCount {
			return []local.TokenCount{{Token: "rain", Count: 4}, {Token: "rainbow", Count: 1}}
		},
		tagsFunc: func(input string, n int) []local.TokenCount {
			if n != 3 {
				t.Errorf("tag cap = %d, want 3", n)
			}
			return []local.TokenCount{{Token: "rainy-day", Count: 9}}
		},
		usersFunc: func(input string, n int) []domain.Document {
			if n != 3 {
				t.Errorf("user cap = %d, want 3", n)
			}
			return []domain.Document{{Title: "Rain Maker"}}
		},
	}

	got, err := New(idx).Suggest(context.Background(), "rain", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("suggestions = %+v", got)
	}
	if got[0].Type != domain.SuggestionTag || got[0].Text != "rainy-day" {
		t.Errorf("highest count first: %+v", got[0])
	}
	if got[3].Type != domain.SuggestionUser || got[3].Count != 1 {
		t.Errorf("user suggestion = %+v", got[3])
	}
}

func TestSuggest_Limit(t *testing.T) {
	idx := &mockIndex{
		tokensFunc: func(string, int) []local.TokenCount {
			return []local.TokenCount{
				{Token: "rain", Count: 5},
				{Token: "rains", Count: 4},
				{Token: "rainbow", Count: 3},
			}
		},
	}
	got, err := New(idx).Suggest(context.Background(), "rai", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Text != "rain" {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestSuggest_EdgeCases(t *testing.T) {
	svc := New(&mockIndex{})

	if got, err := svc.Suggest(context.Background(), "   ", 10); err != nil || got != nil {
		t.Errorf("blank input: %v, %v", got, err)
	}

	_, err := svc.Suggest(context.Background(), strings.Repeat("x", domain.MaxQueryLen+1), 10)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("oversized input: %v", err)
	}
}

func TestSuggest_EndToEndWithLocalIndex(t *testing.T) {
	ix := local.New()
	ctx := context.Background()

	_ = ix.Upsert(ctx, domain.Document{
		ID: "prompt:1", Type: domain.DocTypePrompt,
		Title: "Write a haiku", Content: "haiku about rain",
		Tags: []string{"haiku"}, IsPublic: true,
	}, 1)
	_ = ix.Upsert(ctx, domain.Document{
		ID: "user:u1", Type: domain.DocTypeUser,
		Title: "Haiku Master", Content: "Haiku Master", IsPublic: true, OwnerID: "u1",
	}, 2)

	got, err := New(ix).Suggest(ctx, "hai", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := map[domain.SuggestionType]bool{}
	for _, s := range got {
		kinds[s.Type] = true
	}
	for _, want := range []domain.SuggestionType{domain.SuggestionQuery, domain.SuggestionTag, domain.SuggestionUser} {
		if !kinds[want] {
			t.Errorf("missing %s suggestion: %+v", want, got)
		}
	}
}
