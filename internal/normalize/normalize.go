// Package normalize maps raw content entities, as exported by the
// content-owning service, to canonical searchable documents. Mapping is pure:
// no side effects, and the content field is regenerated wholesale from the
// entity's searchable fields on every call.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/promptforge/searchd/internal/domain"
)

// Normalize converts a raw entity into a document. ok is false when the
// entity must not be indexed at all (a user profile with visibility off);
// err reports a payload that cannot be decoded.
func Normalize(raw domain.RawEntity) (domain.Document, bool, error) {
	switch raw.Type {
	case domain.DocTypePrompt:
		return normalizePrompt(raw.Payload)
	case domain.DocTypeTemplate:
		return normalizeTemplate(raw.Payload)
	case domain.DocTypeUser:
		return normalizeUser(raw.Payload)
	case domain.DocTypeChallenge:
		return normalizeChallenge(raw.Payload)
	}
	return domain.Document{}, false, fmt.Errorf("%w: %q", domain.ErrUnknownDocType, raw.Type)
}

// DocID builds the globally unique index key for an entity.
func DocID(t domain.DocType, entityID string) string {
	return string(t) + ":" + entityID
}

type promptEntity struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	OriginalPrompt   string    `json:"originalPrompt"`
	ImprovedPrompt   string    `json:"improvedPrompt"`
	Tags             []string  `json:"tags"`
	Category         string    `json:"category"`
	UserID           string    `json:"userId"`
	IsPublic         bool      `json:"isPublic"`
	ImprovementScore float64   `json:"improvementScore"`
	Likes            float64   `json:"likes"`
	Views            float64   `json:"views"`
	Forks            float64   `json:"forks"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func normalizePrompt(payload json.RawMessage) (domain.Document, bool, error) {
	var e promptEntity
	if err := json.Unmarshal(payload, &e); err != nil {
		return domain.Document{}, false, fmt.Errorf("decode prompt: %w", err)
	}
	doc := domain.Document{
		ID:       DocID(domain.DocTypePrompt, e.ID),
		Type:     domain.DocTypePrompt,
		Title:    e.Title,
		Content:  joinText(e.Title, e.OriginalPrompt, e.ImprovedPrompt),
		Tags:     domain.FoldTags(e.Tags),
		Category: e.Category,
		Numerics: map[string]float64{
			"improvement_score": e.ImprovementScore,
			"likes":             e.Likes,
			"views":             e.Views,
			"forks":             e.Forks,
		},
		OwnerID:   e.UserID,
		IsPublic:  e.IsPublic,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	return doc, true, nil
}

type templateEntity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	UserID      string    `json:"userId"`
	IsPublic    bool      `json:"isPublic"`
	Rating      float64   `json:"rating"`
	UsageCount  float64   `json:"usageCount"`
	Likes       float64   `json:"likes"`
	Views       float64   `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func normalizeTemplate(payload json.RawMessage) (domain.Document, bool, error) {
	var e templateEntity
	if err := json.Unmarshal(payload, &e); err != nil {
		return domain.Document{}, false, fmt.Errorf("decode template: %w", err)
	}
	doc := domain.Document{
		ID:       DocID(domain.DocTypeTemplate, e.ID),
		Type:     domain.DocTypeTemplate,
		Title:    e.Title,
		Content:  joinText(e.Title, e.Description, e.Content),
		Tags:     domain.FoldTags(e.Tags),
		Category: e.Category,
		Numerics: map[string]float64{
			"rating":      e.Rating,
			"usage_count": e.UsageCount,
			"likes":       e.Likes,
			"views":       e.Views,
		},
		OwnerID:   e.UserID,
		IsPublic:  e.IsPublic,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	return doc, true, nil
}

type userEntity struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	Bio           string    `json:"bio"`
	Skills        []string  `json:"skills"`
	AvatarURL     string    `json:"avatarUrl"`
	ProfilePublic bool      `json:"profilePublic"`
	TotalPoints   float64   `json:"totalPoints"`
	Level         float64   `json:"level"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// normalizeUser produces a document only for public profiles. Private
// profiles are skipped entirely rather than indexed as owner-visible.
func normalizeUser(payload json.RawMessage) (domain.Document, bool, error) {
	var e userEntity
	if err := json.Unmarshal(payload, &e); err != nil {
		return domain.Document{}, false, fmt.Errorf("decode user: %w", err)
	}
	if !e.ProfilePublic {
		// The id still comes back so the caller can remove a previously
		// indexed profile that just turned private.
		return domain.Document{ID: DocID(domain.DocTypeUser, e.ID), Type: domain.DocTypeUser}, false, nil
	}
	title := e.DisplayName
	if title == "" {
		title = e.Username
	}
	doc := domain.Document{
		ID:       DocID(domain.DocTypeUser, e.ID),
		Type:     domain.DocTypeUser,
		Title:    title,
		Content:  joinText(e.Username, e.DisplayName, e.Bio, strings.Join(e.Skills, " ")),
		Tags:     domain.FoldTags(e.Skills),
		Category: "",
		Numerics: map[string]float64{
			"total_points": e.TotalPoints,
			"level":        e.Level,
		},
		Attrs: map[string]string{
			"username": e.Username,
			"avatar":   e.AvatarURL,
		},
		OwnerID:   e.ID,
		IsPublic:  true,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	return doc, true, nil
}

type challengeEntity struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Tags         []string  `json:"tags"`
	Category     string    `json:"category"`
	CreatedBy    string    `json:"createdBy"`
	IsPublic     bool      `json:"isPublic"`
	Participants float64   `json:"participants"`
	Points       float64   `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func normalizeChallenge(payload json.RawMessage) (domain.Document, bool, error) {
	var e challengeEntity
	if err := json.Unmarshal(payload, &e); err != nil {
		return domain.Document{}, false, fmt.Errorf("decode challenge: %w", err)
	}
	doc := domain.Document{
		ID:       DocID(domain.DocTypeChallenge, e.ID),
		Type:     domain.DocTypeChallenge,
		Title:    e.Title,
		Content:  joinText(e.Title, e.Description, e.Requirements),
		Tags:     domain.FoldTags(e.Tags),
		Category: e.Category,
		Numerics: map[string]float64{
			"participants": e.Participants,
			"points":       e.Points,
		},
		OwnerID:   e.CreatedBy,
		IsPublic:  e.IsPublic,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	return doc, true, nil
}

// joinText concatenates non-empty parts with single spaces.
func joinText(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
