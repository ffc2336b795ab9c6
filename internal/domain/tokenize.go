package domain

import (
	"regexp"
	"strings"
)

// wordRe matches runs of word characters; everything between them is a separator.
var wordRe = regexp.MustCompile(`[a-z0-9_]+`)

// MinTokenLen is the shortest token kept by the tokenizer.
const MinTokenLen = 2

// Tokenize lower-cases the text, splits on runs of non-word characters, drops
// tokens shorter than MinTokenLen, and deduplicates while preserving first
// occurrence order. Both index construction and query parsing use this one
// function so the two sides always agree on the token space.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	raw := wordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < MinTokenLen {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// IndexText is the exact string a document is tokenized from: title, content,
// and tags joined by single spaces.
func IndexText(d *Document) string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteByte(' ')
	b.WriteString(d.Content)
	for _, t := range d.Tags {
		b.WriteByte(' ')
		b.WriteString(t)
	}
	return b.String()
}
