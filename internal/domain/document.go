package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DocType is the content type of an indexed document.
type DocType string

const (
	// DocTypePrompt is a creative-writing prompt.
	DocTypePrompt DocType = "prompt"
	// DocTypeTemplate is a reusable prompt template.
	DocTypeTemplate DocType = "template"
	// DocTypeUser is a public user profile.
	DocTypeUser DocType = "user"
	// DocTypeChallenge is a timed writing challenge.
	DocTypeChallenge DocType = "challenge"
)

// DocTypes lists every indexable content type.
var DocTypes = []DocType{DocTypePrompt, DocTypeTemplate, DocTypeUser, DocTypeChallenge}

// ParseDocType validates a type tag coming from the wire.
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case DocTypePrompt, DocTypeTemplate, DocTypeUser, DocTypeChallenge:
		return DocType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocType, s)
}

// Document is the canonical searchable representation of a content entity.
// Content is always the full concatenation of the entity's searchable fields,
// regenerated wholesale on every update.
type Document struct {
	ID        string
	Type      DocType
	Title     string
	Content   string
	Tags      []string // lower-cased, deduplicated
	Category  string
	Numerics  map[string]float64 // type-specific numeric attributes (scoring/faceting)
	Attrs     map[string]string  // type-specific string attributes (display only)
	OwnerID   string
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Num returns a numeric metadata field, defaulting to 0 when absent so the
// scorer never multiplies undefined values.
func (d *Document) Num(key string) float64 {
	if d.Numerics == nil {
		return 0
	}
	return d.Numerics[key]
}

// Attr returns a string metadata field or "".
func (d *Document) Attr(key string) string {
	if d.Attrs == nil {
		return ""
	}
	return d.Attrs[key]
}

// HasTag reports whether the document carries the given (already folded) tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// VisibleTo applies the access rule: public documents are visible to anyone,
// private documents only to their owner.
func (d *Document) VisibleTo(requesterID string) bool {
	return d.IsPublic || (requesterID != "" && d.OwnerID == requesterID)
}

// FoldTags lower-cases, trims, and deduplicates a tag list so tag tokens and
// text tokens share one token space. The result is sorted for determinism.
func FoldTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		folded := strings.ToLower(strings.TrimSpace(t))
		if folded == "" {
			continue
		}
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, folded)
	}
	sort.Strings(out)
	return out
}
