package searching

import (
	"sort"

	"github.com/promptforge/searchd/internal/domain"
)

const (
	maxTagFacets    = 20
	maxAuthorFacets = 10
)

// computeFacets counts facet values over the full filtered candidate set.
// Used when the backend did not aggregate server-side.
func computeFacets(docs []domain.Document) *domain.Facets {
	types := make(map[string]int)
	categories := make(map[string]int)
	tags := make(map[string]int)
	authors := make(map[string]int)

	for i := range docs {
		doc := &docs[i]
		types[string(doc.Type)]++
		if doc.Category != "" {
			categories[doc.Category]++
		}
		for _, tag := range doc.Tags {
			tags[tag]++
		}
		if doc.OwnerID != "" {
			authors[doc.OwnerID]++
		}
	}

	return &domain.Facets{
		Types:      toCounts(types),
		Categories: toCounts(categories),
		Tags:       toCounts(tags),
		Authors:    toCounts(authors),
	}
}

// capFacets trims every dimension to its reporting limit. Applied to both
// locally computed and backend-supplied facets.
func capFacets(f *domain.Facets) {
	if len(f.Tags) > maxTagFacets {
		f.Tags = f.Tags[:maxTagFacets]
	}
	if len(f.Authors) > maxAuthorFacets {
		f.Authors = f.Authors[:maxAuthorFacets]
	}
}

func toCounts(m map[string]int) []domain.FacetCount {
	out := make([]domain.FacetCount, 0, len(m))
	for v, c := range m {
		out = append(out, domain.FacetCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
