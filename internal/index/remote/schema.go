package remote

import (
	"strconv"
	"strings"
	"time"

	"github.com/promptforge/searchd/internal/db"
	"github.com/promptforge/searchd/internal/domain"
)

const (
	// IndexName is the FT index covering all searchable documents.
	IndexName = "searchdocs"

	docKeyPrefix = "search:doc:"
	seqKeyPrefix = "search:seq:"

	tagSeparator = ","
)

// Definition describes the engine-side schema. Type-specific numeric
// attributes are stored under an n_ prefix and aliased back to their bare
// name; only the ones the engine can usefully sort on are indexed, the rest
// travel in the hash and come back with every hit.
func Definition() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		Prefix(docKeyPrefix).
		TextWeighted("title", 2).
		Text("content").
		Tag("doc_type").
		Tag("category").
		TagWithOpts("tags", tagSeparator, false).
		Tag("owner_id").
		Tag("is_public").
		Numeric("created_at").
		NumericAs("n_likes", "likes").
		NumericAs("n_views", "views").
		MustBuild()
}

func docKey(id string) string { return docKeyPrefix + id }
func seqKey(id string) string { return seqKeyPrefix + id }

func docToFields(doc *domain.Document) map[string]string {
	f := map[string]string{
		"id":         doc.ID,
		"doc_type":   string(doc.Type),
		"title":      doc.Title,
		"content":    doc.Content,
		"tags":       strings.Join(doc.Tags, tagSeparator),
		"category":   doc.Category,
		"owner_id":   doc.OwnerID,
		"is_public":  boolTag(doc.IsPublic),
		"created_at": strconv.FormatInt(doc.CreatedAt.Unix(), 10),
		"updated_at": strconv.FormatInt(doc.UpdatedAt.Unix(), 10),
	}
	for k, v := range doc.Numerics {
		f["n_"+k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	for k, v := range doc.Attrs {
		f["a_"+k] = v
	}
	return f
}

func fieldsToDoc(fields map[string]string) domain.Document {
	doc := domain.Document{
		ID:       fields["id"],
		Type:     domain.DocType(fields["doc_type"]),
		Title:    fields["title"],
		Content:  fields["content"],
		Category: fields["category"],
		OwnerID:  fields["owner_id"],
		IsPublic: fields["is_public"] == "1",
	}
	if tags := fields["tags"]; tags != "" {
		doc.Tags = strings.Split(tags, tagSeparator)
	}
	if ts, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		doc.CreatedAt = time.Unix(ts, 0).UTC()
	}
	if ts, err := strconv.ParseInt(fields["updated_at"], 10, 64); err == nil {
		doc.UpdatedAt = time.Unix(ts, 0).UTC()
	}
	for k, v := range fields {
		switch {
		case strings.HasPrefix(k, "n_"):
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				if doc.Numerics == nil {
					doc.Numerics = make(map[string]float64)
				}
				doc.Numerics[strings.TrimPrefix(k, "n_")] = n
			}
		case strings.HasPrefix(k, "a_"):
			if doc.Attrs == nil {
				doc.Attrs = make(map[string]string)
			}
			doc.Attrs[strings.TrimPrefix(k, "a_")] = v
		}
	}
	return doc
}

func boolTag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
