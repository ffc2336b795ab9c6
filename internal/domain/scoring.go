package domain

import (
	"math"
	"strings"
	"time"
)

// Relevance weights. The same function ranks candidates from every backend so
// result ordering does not depend on which index served the query.
const (
	titleTermWeight   = 20
	contentTermWeight = 5
	titlePhraseBonus  = 50
	tagTermWeight     = 15

	viewsWeight = 0.1
	likesWeight = 2
	forksWeight = 3

	recencyCeiling  = 10.0
	recencyDecayDay = 0.1
)

// Score computes the relevance score of a document for an optional query.
// queryTerms must come from Tokenize(rawQuery); rawQuery is the original text
// used for the whole-phrase title bonus. The result is floored at zero and
// rounded to the nearest integer.
func Score(d *Document, queryTerms []string, rawQuery string, now time.Time) int {
	var s float64
	if len(queryTerms) == 0 {
		s = d.Num("views")*viewsWeight + d.Num("likes")*likesWeight + d.Num("forks")*forksWeight
	} else {
		titleTokens := Tokenize(d.Title)
		contentTokens := Tokenize(d.Content)
		for _, term := range queryTerms {
			if containsSubstring(titleTokens, term) {
				s += titleTermWeight
			}
			if containsSubstring(contentTokens, term) {
				s += contentTermWeight
			}
			if tagMatches(d.Tags, term) {
				s += tagTermWeight
			}
		}
		if strings.Contains(strings.ToLower(d.Title), strings.ToLower(strings.TrimSpace(rawQuery))) {
			s += titlePhraseBonus
		}
	}

	s += typeBonus(d)
	s += recencyBonus(d.CreatedAt, now)

	if s < 0 {
		s = 0
	}
	return int(math.Round(s))
}

// QualityOf returns the type-specific quality field used by the "score" sort.
func QualityOf(d *Document) float64 {
	switch d.Type {
	case DocTypePrompt:
		return d.Num("improvement_score")
	case DocTypeTemplate:
		return d.Num("rating")
	case DocTypeUser:
		return d.Num("total_points")
	case DocTypeChallenge:
		return d.Num("points")
	}
	return 0
}

// Popularity returns the value used by the "popular" sort.
func Popularity(d *Document) float64 {
	return d.Num("likes") + d.Num("views")*viewsWeight
}

func typeBonus(d *Document) float64 {
	switch d.Type {
	case DocTypePrompt:
		return 0.5*d.Num("improvement_score") + 2*d.Num("likes") + 3*d.Num("forks")
	case DocTypeTemplate:
		return 10*d.Num("rating") + 0.1*d.Num("usage_count")
	case DocTypeUser:
		return 0.01*d.Num("total_points") + 5*d.Num("level")
	case DocTypeChallenge:
		return 2*d.Num("participants") + 0.1*d.Num("points")
	}
	return 0
}

func recencyBonus(createdAt time.Time, now time.Time) float64 {
	if createdAt.IsZero() || createdAt.After(now) {
		return recencyCeiling
	}
	days := now.Sub(createdAt).Hours() / 24
	return math.Max(0, recencyCeiling-days*recencyDecayDay)
}

func containsSubstring(tokens []string, term string) bool {
	for _, tok := range tokens {
		if strings.Contains(tok, term) {
			return true
		}
	}
	return false
}

func tagMatches(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}
