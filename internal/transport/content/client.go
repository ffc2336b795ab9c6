// Package content is the HTTP client for the content-owning collaborator's
// export API, used by the full rebuild to fetch every live entity.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/promptforge/searchd/internal/domain"
)

const exportPath = "/internal/v1/export"

// Config holds the content service settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client fetches content entities over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a content export client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}
}

type exportResponse struct {
	Entities []domain.RawEntity `json:"entities"`
}

// ExportAll fetches every live entity of every content type. The export is a
// single paged-free snapshot; the collaborator owns its size.
func (c *Client) ExportAll(ctx context.Context) ([]domain.RawEntity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+exportPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("content export: status %d: %s", resp.StatusCode, body)
	}

	var out exportResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	c.logger.Info("content export fetched",
		zap.Int("entities", len(out.Entities)),
		zap.Duration("took", time.Since(start)),
	)
	return out.Entities, nil
}
