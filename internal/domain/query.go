package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SortMode selects the result ordering.
type SortMode string

const (
	// SortRelevance orders by the shared relevance score, descending.
	SortRelevance SortMode = "relevance"
	// SortRecent orders by creation time, newest first.
	SortRecent SortMode = "recent"
	// SortPopular orders by likes + views*0.1, descending.
	SortPopular SortMode = "popular"
	// SortScore orders by the type-specific quality field, descending.
	SortScore SortMode = "score"
)

// Query is a parsed search request.
type Query struct {
	Text       string
	Types      []DocType
	Categories []string
	Tags       []string
	AuthorID   string
	Sort       SortMode
	Page       int
	PageSize   int
}

// Normalize fills defaults and folds filter values into the shared token space.
func (q *Query) Normalize(defaultPageSize, maxPageSize int) {
	if q.Sort == "" {
		q.Sort = SortRelevance
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	q.Tags = FoldTags(q.Tags)
}

// Validate checks the query after normalization. Failures wrap ErrValidation
// and surface to the caller directly.
func (q *Query) Validate() error {
	switch q.Sort {
	case SortRelevance, SortRecent, SortPopular, SortScore:
	default:
		return fmt.Errorf("%w: unknown sort %q", ErrValidation, q.Sort)
	}
	for _, t := range q.Types {
		if _, err := ParseDocType(string(t)); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if len(q.Text) > MaxQueryLen {
		return fmt.Errorf("%w: query text exceeds %d characters", ErrValidation, MaxQueryLen)
	}
	return nil
}

// MaxQueryLen caps free-text query length.
const MaxQueryLen = 512

// MaxFacetValues caps the number of values reported per facet dimension.
const MaxFacetValues = 20

// Author identifies the owner of a result item.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Item is a single materialized search hit.
type Item struct {
	ID         string             `json:"id"`
	Type       DocType            `json:"type"`
	Title      string             `json:"title"`
	Excerpt    string             `json:"excerpt"`
	Tags       []string           `json:"tags"`
	Category   string             `json:"category"`
	Author     Author             `json:"author"`
	Score      int                `json:"score"`
	Highlights []string           `json:"highlights"`
	Metadata   map[string]float64 `json:"metadata"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// FacetCount is one value of a facet dimension with its document count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets groups documents of the full filtered result set by dimension.
type Facets struct {
	Types      []FacetCount `json:"types"`
	Categories []FacetCount `json:"categories"`
	Tags       []FacetCount `json:"tags"`
	Authors    []FacetCount `json:"authors"`
}

// Result is a complete search response.
type Result struct {
	Items           []Item `json:"items"`
	Total           int    `json:"total"`
	Page            int    `json:"page"`
	PageSize        int    `json:"pageSize"`
	Facets          Facets `json:"facets"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

// SuggestionType tags the origin of an autocomplete suggestion.
type SuggestionType string

const (
	// SuggestionQuery completes the partial query from the token dictionary.
	SuggestionQuery SuggestionType = "query"
	// SuggestionTag matches an indexed tag.
	SuggestionTag SuggestionType = "tag"
	// SuggestionUser matches a user profile title.
	SuggestionUser SuggestionType = "user"
)

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Text  string         `json:"text"`
	Type  SuggestionType `json:"type"`
	Count int            `json:"count"`
}

// PopularQuery is one row of the popular-queries report.
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// RawEntity is an unparsed content entity as delivered by a content-owning
// collaborator.
type RawEntity struct {
	Type    DocType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SearchEvent is the search.performed analytics event emitted after each query.
type SearchEvent struct {
	ID          string
	Query       string
	Types       []DocType
	ResultCount int
	At          time.Time
}
