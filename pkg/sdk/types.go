package searchd

import "time"

// SearchRequest describes one search call.
// RequesterID travels as a header, not in the body: an empty value means an
// anonymous requester who only sees public documents.
type SearchRequest struct {
	Text       string   `json:"text"`
	Types      []string `json:"types,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	AuthorID   string   `json:"authorId,omitempty"`
	Sort       string   `json:"sort,omitempty"`
	Page       int      `json:"page,omitempty"`
	PageSize   int      `json:"pageSize,omitempty"`

	RequesterID string `json:"-"`
}

// Author identifies the owner of a result item.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Item is a single search hit.
type Item struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
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

// Facets groups the full filtered result set by dimension.
type Facets struct {
	Types      []FacetCount `json:"types"`
	Categories []FacetCount `json:"categories"`
	Tags       []FacetCount `json:"tags"`
	Authors    []FacetCount `json:"authors"`
}

// SearchResponse is a complete search response.
type SearchResponse struct {
	Items           []Item `json:"items"`
	Total           int    `json:"total"`
	Page            int    `json:"page"`
	PageSize        int    `json:"pageSize"`
	Facets          Facets `json:"facets"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// PopularQuery is one row of the popular-queries report.
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Health is the aggregated service health. Checks maps a component name to
// "ok" or "error".
type Health struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	LocalDocs int               `json:"localDocs"`
}
