package domain

import (
	"testing"
	"time"
)

func TestScore_QueryMatchesTitle(t *testing.T) {
	now := time.Now()
	d := &Document{
		Type:      DocTypePrompt,
		Title:     "Write a haiku about rain",
		IsPublic:  true,
		CreatedAt: now,
	}

	got := Score(d, Tokenize("rain"), "rain", now)
	// title term 20 + whole-phrase 50 + fresh recency 10
	if got != 80 {
		t.Errorf("score = %d, want 80", got)
	}
}

func TestScore_NoQuery_UsesPopularityBase(t *testing.T) {
	now := time.Now()
	d := &Document{
		Type:      DocTypePrompt,
		Title:     "Storm season",
		CreatedAt: now.AddDate(0, 0, -50),
		Numerics:  map[string]float64{"views": 100, "likes": 10, "forks": 2},
	}

	got := Score(d, nil, "", now)
	// base 10+20+6 + prompt bonus 20+6 + recency 10-5
	if got != 67 {
		t.Errorf("score = %d, want 67", got)
	}
}

func TestScore_ContentAndTagMatches(t *testing.T) {
	now := time.Now()
	d := &Document{
		Type:      DocTypeTemplate,
		Title:     "Forecast",
		Content:   "daily rain report layout",
		Tags:      []string{"rain", "weather"},
		CreatedAt: now,
	}

	got := Score(d, Tokenize("rain"), "rain", now)
	// content 5 + tag 15 + recency 10; no title match, no phrase bonus
	if got != 30 {
		t.Errorf("score = %d, want 30", got)
	}
}

func TestScore_RecencyFloorsAtZero(t *testing.T) {
	now := time.Now()
	d := &Document{Type: DocTypeChallenge, Title: "old", CreatedAt: now.AddDate(-1, 0, 0)}
	if got := Score(d, nil, "", now); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}

func TestScore_SubstringOfIndexedToken(t *testing.T) {
	now := time.Now()
	d := &Document{Type: DocTypeUser, Title: "rainmaker", CreatedAt: now}
	got := Score(d, Tokenize("rain"), "rain", now)
	// "rain" is a substring of title token "rainmaker": 20 + phrase 50 + recency 10
	if got != 80 {
		t.Errorf("score = %d, want 80", got)
	}
}

func TestScore_TypeBonuses(t *testing.T) {
	now := time.Now()
	old := now.AddDate(-1, 0, 0) // recency contributes 0

	tests := []struct {
		name string
		doc  Document
		want int
	}{
		{"template", Document{Type: DocTypeTemplate, CreatedAt: old,
			Numerics: map[string]float64{"rating": 4, "usage_count": 50}}, 45},
		{"user", Document{Type: DocTypeUser, CreatedAt: old,
			Numerics: map[string]float64{"total_points": 1000, "level": 3}}, 25},
		{"challenge", Document{Type: DocTypeChallenge, CreatedAt: old,
			Numerics: map[string]float64{"participants": 8, "points": 100}}, 26},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(&tc.doc, nil, "", now); got != tc.want {
				t.Errorf("score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestQualityOf(t *testing.T) {
	d := &Document{Type: DocTypeTemplate, Numerics: map[string]float64{"rating": 4.5}}
	if got := QualityOf(d); got != 4.5 {
		t.Errorf("QualityOf = %v, want 4.5", got)
	}
	missing := &Document{Type: DocTypePrompt}
	if got := QualityOf(missing); got != 0 {
		t.Errorf("QualityOf with absent field = %v, want 0", got)
	}
}
