package searching

import (
	"strconv"
	"testing"

	"github.com/promptforge/searchd/internal/domain"
)

func TestComputeFacets(t *testing.T) {
	docs := []domain.Document{
		{Type: domain.DocTypePrompt, Category: "poetry", Tags: []string{"haiku", "rain"}, OwnerID: "u1"},
		{Type: domain.DocTypePrompt, Category: "poetry", Tags: []string{"haiku"}, OwnerID: "u2"},
		{Type: domain.DocTypeTemplate, Category: "weather", OwnerID: "u1"},
	}

	f := computeFacets(docs)

	if len(f.Types) != 2 || f.Types[0].Value != "prompt" || f.Types[0].Count != 2 {
		t.Errorf("types = %+v", f.Types)
	}
	if f.Categories[0].Value != "poetry" || f.Categories[0].Count != 2 {
		t.Errorf("categories = %+v", f.Categories)
	}
	if f.Tags[0].Value != "haiku" || f.Tags[0].Count != 2 {
		t.Errorf("tags = %+v", f.Tags)
	}
	if f.Authors[0].Value != "u1" || f.Authors[0].Count != 2 {
		t.Errorf("authors = %+v", f.Authors)
	}
}

func TestComputeFacets_CountsFullSetNotPage(t *testing.T) {
	// Facets are computed before pagination, over every filtered candidate.
	docs := make([]domain.Document, 55)
	for i := range docs {
		docs[i] = domain.Document{Type: domain.DocTypePrompt, Category: "poetry"}
	}

	f := computeFacets(docs)
	if f.Types[0].Count != 55 || f.Categories[0].Count != 55 {
		t.Errorf("facets must cover all candidates: %+v", f)
	}
}

func TestCapFacets(t *testing.T) {
	f := &domain.Facets{}
	for i := 0; i < 30; i++ {
		f.Tags = append(f.Tags, domain.FacetCount{Value: "t" + strconv.Itoa(i), Count: 30 - i})
		f.Authors = append(f.Authors, domain.FacetCount{Value: "u" + strconv.Itoa(i), Count: 30 - i})
	}

	capFacets(f)
	if len(f.Tags) != maxTagFacets {
		t.Errorf("tags capped to %d, want %d", len(f.Tags), maxTagFacets)
	}
	if len(f.Authors) != maxAuthorFacets {
		t.Errorf("authors capped to %d, want %d", len(f.Authors), maxAuthorFacets)
	}
}
