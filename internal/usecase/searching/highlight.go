package searching

import "strings"

const (
	excerptWindow = 100
	excerptHead   = 200
	ellipsis      = "..."
)

// Excerpt returns a matched-term window from content: up to 100 characters
// on each side of the first occurrence of the first query term, with
// ellipses at truncated boundaries. Without a match (or without query terms)
// it returns the first 200 characters.
func Excerpt(content string, terms []string) string {
	if len(terms) > 0 {
		if frag, ok := window(content, terms[0]); ok {
			return frag
		}
	}
	return head(content)
}

// Highlights prefers backend-supplied fragments verbatim; otherwise it
// computes a window for each matched term.
func Highlights(backend []string, content string, terms []string) []string {
	if len(backend) > 0 {
		return backend
	}
	var out []string
	for _, term := range terms {
		if frag, ok := window(content, term); ok {
			out = append(out, frag)
		}
	}
	return out
}

func window(content, term string) (string, bool) {
	i := strings.Index(strings.ToLower(content), strings.ToLower(term))
	if i < 0 {
		return "", false
	}

	start := i - excerptWindow
	end := i + len(term) + excerptWindow

	var b strings.Builder
	if start <= 0 {
		start = 0
	} else {
		b.WriteString(ellipsis)
	}
	if end >= len(content) {
		end = len(content)
		b.WriteString(content[start:end])
	} else {
		b.WriteString(content[start:end])
		b.WriteString(ellipsis)
	}
	return b.String(), true
}

func head(content string) string {
	if len(content) <= excerptHead {
		return content
	}
	return content[:excerptHead] + ellipsis
}
