package db

// TextQuery is the input for an FT.SEARCH full-text query. Query is a complete
// query string in the engine's syntax, already escaped by the caller.
type TextQuery struct {
	IndexName    string
	Query        string
	Offset       int
	Limit        int
	ReturnFields []string // empty returns all stored fields

	// Highlight wraps matches in HighlightFields with <em> tags.
	Highlight       bool
	HighlightFields []string
}

// AggregateQuery is the input for an FT.AGGREGATE group-count query over one
// facet dimension.
type AggregateQuery struct {
	IndexName string
	Query     string
	GroupBy   string // field name without the @ prefix
	Limit     int    // top-N groups by count
}

// GroupCount is one aggregation bucket.
type GroupCount struct {
	Value string
	Count int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
