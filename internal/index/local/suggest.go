package local

import (
	"sort"
	"strings"

	"github.com/promptforge/searchd/internal/domain"
)

// TokenCount is a dictionary token with the size of its postings set.
type TokenCount struct {
	Token string
	Count int
}

// TokensByPrefix returns up to n indexed tokens sharing the prefix, ranked by
// postings-set size descending (ties alphabetically).
func (ix *Index) TokensByPrefix(prefix string, n int) []TokenCount {
	prefix = strings.ToLower(prefix)
	if prefix == "" || n <= 0 {
		return nil
	}

	ix.mu.RLock()
	var matches []TokenCount
	for tok, ids := range ix.sh.postings {
		if strings.HasPrefix(tok, prefix) {
			matches = append(matches, TokenCount{Token: tok, Count: len(ids)})
		}
	}
	ix.mu.RUnlock()

	sortTokenCounts(matches)
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// TagsContaining returns up to n tags whose text contains the input, ranked
// by the number of documents carrying the tag.
func (ix *Index) TagsContaining(input string, n int) []TokenCount {
	input = strings.ToLower(input)
	if input == "" || n <= 0 {
		return nil
	}

	ix.mu.RLock()
	var matches []TokenCount
	for tag, ids := range ix.sh.tagDocs {
		if strings.Contains(tag, input) {
			matches = append(matches, TokenCount{Token: tag, Count: len(ids)})
		}
	}
	ix.mu.RUnlock()

	sortTokenCounts(matches)
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// UsersMatching returns up to n user documents whose title contains the input
// (case-insensitive).
func (ix *Index) UsersMatching(input string, n int) []domain.Document {
	input = strings.ToLower(input)
	if input == "" || n <= 0 {
		return nil
	}

	ix.mu.RLock()
	var matches []domain.Document
	for _, doc := range ix.sh.forward {
		if doc.Type != domain.DocTypeUser {
			continue
		}
		if strings.Contains(strings.ToLower(doc.Title), input) {
			matches = append(matches, doc)
		}
	}
	ix.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

func sortTokenCounts(tc []TokenCount) {
	sort.Slice(tc, func(i, j int) bool {
		if tc[i].Count != tc[j].Count {
			return tc[i].Count > tc[j].Count
		}
		return tc[i].Token < tc[j].Token
	})
}
