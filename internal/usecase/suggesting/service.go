// Package suggesting serves autocomplete: query completions from the local
// index's token dictionary, plus tag and user-name matches. Suggestions are
// always served locally; the remote engine is never on this path.
package suggesting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/promptforge/searchd/internal/domain"
	"github.com/promptforge/searchd/internal/index/local"
)

const (
	maxQueryCompletions = 5
	maxTagSuggestions   = 3
	maxUserSuggestions  = 3
	defaultLimit        = 10
)

// Index is the slice of the local index the engine reads.
type Index interface {
	TokensByPrefix(prefix string, n int) []local.TokenCount
	TagsContaining(input string, n int) []local.TokenCount
	UsersMatching(input string, n int) []domain.Document
}

// Service produces autocomplete suggestions.
type Service struct {
	idx Index
}

// New creates a suggestion service.
func New(idx Index) *Service {
	return &Service{idx: idx}
}

// Suggest completes the partial input. The last, still-being-typed token is
// completed from the token dictionary; tags and user names match anywhere in
// the input. The merged list is ordered by count, capped at limit.
func (s *Service) Suggest(_ context.Context, partial string, limit int) ([]domain.Suggestion, error) {
	if len(partial) > domain.MaxQueryLen {
		return nil, fmt.Errorf("%w: input exceeds %d characters", domain.ErrValidation, domain.MaxQueryLen)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	folded := strings.ToLower(strings.TrimSpace(partial))
	if folded == "" {
		return nil, nil
	}

	var out []domain.Suggestion

	head, last := splitLastToken(folded)
	for _, tc := range s.idx.TokensByPrefix(last, maxQueryCompletions) {
		text := tc.Token
		if head != "" {
			text = head + " " + tc.Token
		}
		out = append(out, domain.Suggestion{Text: text, Type: domain.SuggestionQuery, Count: tc.Count})
	}

	for _, tc := range s.idx.TagsContaining(folded, maxTagSuggestions) {
		out = append(out, domain.Suggestion{Text: tc.Token, Type: domain.SuggestionTag, Count: tc.Count})
	}

	for _, doc := range s.idx.UsersMatching(folded, maxUserSuggestions) {
		out = append(out, domain.Suggestion{Text: doc.Title, Type: domain.SuggestionUser, Count: 1})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// splitLastToken separates the completed head of the input from the token
// still being typed.
func splitLastToken(folded string) (head, last string) {
	fields := strings.Fields(folded)
	if len(fields) == 0 {
		return "", ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}
