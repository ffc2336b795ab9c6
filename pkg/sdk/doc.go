// Package searchd provides a Go client for the searchd hybrid search service.
//
// The client talks to the searchd HTTP API: full-text search with facets and
// highlighting, autocomplete suggestions, popular-query analytics, and the
// index write path (document upserts, removals, full rebuild).
//
//	client, _ := searchd.New("http://localhost:8080",
//	    searchd.WithAPIKey("secret"),
//	)
//	res, _ := client.Search(ctx, searchd.SearchRequest{
//	    Text:  "haiku about rain",
//	    Types: []string{"prompt", "template"},
//	})
//	for _, item := range res.Items {
//	    fmt.Println(item.Title, item.Score)
//	}
package searchd
