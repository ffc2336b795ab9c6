package searchd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout   = 10 * time.Second
	requesterHeader  = "X-Requester-Id"
	maxErrorBodySize = 4 << 10
)

// Client is the searchd SDK entry point.
type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	obs     *observer
}

// New creates a searchd Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("searchd: base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("searchd: invalid base URL: %w", err)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpc:   hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.apiKey,
		obs:     obs,
	}, nil
}

// Search runs a search query.
func (c *Client) Search(ctx context.Context, req SearchRequest) (res *SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	res = &SearchResponse{}
	headers := map[string]string{}
	if req.RequesterID != "" {
		headers[requesterHeader] = req.RequesterID
	}
	if err = c.do(ctx, http.MethodPost, "/v1/search", req, headers, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Suggest returns autocomplete candidates for a partial query.
// limit <= 0 uses the server default.
func (c *Client) Suggest(ctx context.Context, partial string, limit int) (out []Suggestion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	q := url.Values{"q": {partial}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err = c.do(ctx, http.MethodGet, "/v1/suggest?"+q.Encode(), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// PopularQueries returns the most frequent search queries.
// limit <= 0 uses the server default.
func (c *Client) PopularQueries(ctx context.Context, limit int) (out []PopularQuery, err error) {
	start := time.Now()
	defer func() { c.obs.observe("popular_queries", start, err) }()

	path := "/v1/search/popular"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp struct {
		Queries []PopularQuery `json:"queries"`
	}
	if err = c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Queries, nil
}

// IndexDocument submits a content entity for indexing. docType is one of
// prompt, template, user, challenge; payload is the raw entity as exported
// by the owning content service.
func (c *Client) IndexDocument(ctx context.Context, docType string, payload any) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("index_document", start, err) }()

	return c.do(ctx, http.MethodPut, "/v1/index/"+url.PathEscape(docType), payload, nil, nil)
}

// RemoveDocument removes an entity from the index.
func (c *Client) RemoveDocument(ctx context.Context, docType, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("remove_document", start, err) }()

	return c.do(ctx, http.MethodDelete,
		"/v1/index/"+url.PathEscape(docType)+"/"+url.PathEscape(id), nil, nil, nil)
}

// Rebuild triggers a full reindex from the content service and returns the
// number of indexed documents. A concurrent rebuild answers
// ErrRebuildInProgress.
func (c *Client) Rebuild(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("rebuild", start, err) }()

	var resp struct {
		Indexed int `json:"indexed"`
	}
	if err = c.do(ctx, http.MethodPost, "/v1/reindex", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Indexed, nil
}

// Health checks service health.
func (c *Client) Health(ctx context.Context) (h Health, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	if err = c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// do performs one API request: marshal body, set headers, decode the
// response or translate the error payload.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("searchd: marshal request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("searchd: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("searchd: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("searchd: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Code == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	apiErr.Code = body.Code
	apiErr.Message = body.Message
	return apiErr
}
