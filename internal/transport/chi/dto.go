package chi

import (
	"fmt"

	"github.com/promptforge/searchd/internal/domain"
	healthuc "github.com/promptforge/searchd/internal/usecase/health"
)

// ErrorCode is a machine-readable error class in API responses.
type ErrorCode string

const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeNotFound           ErrorCode = "not_found"
	CodeRebuildInProgress  ErrorCode = "rebuild_in_progress"
	CodeBackendUnavailable ErrorCode = "backend_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type searchRequest struct {
	Text       string   `json:"text"`
	Types      []string `json:"types"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	AuthorID   string   `json:"authorId"`
	Sort       string   `json:"sort"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
}

func (r *searchRequest) toQuery() (domain.Query, error) {
	q := domain.Query{
		Text:       r.Text,
		Categories: r.Categories,
		Tags:       r.Tags,
		AuthorID:   r.AuthorID,
		Sort:       domain.SortMode(r.Sort),
		Page:       r.Page,
		PageSize:   r.PageSize,
	}
	for _, raw := range r.Types {
		t, err := domain.ParseDocType(raw)
		if err != nil {
			return domain.Query{}, fmt.Errorf("types: %w", err)
		}
		q.Types = append(q.Types, t)
	}
	return q, nil
}

type suggestionsResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

type popularResponse struct {
	Queries []domain.PopularQuery `json:"queries"`
}

type rebuildResponse struct {
	Indexed int `json:"indexed"`
}

type healthResponse struct {
	Status    string                          `json:"status"`
	Checks    map[string]healthuc.CheckResult `json:"checks"`
	LocalDocs int                             `json:"localDocs"`
}
