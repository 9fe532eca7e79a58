// Package client implements the solr.Engine capability contract over
// the engine's HTTP JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openark/solrmapper/internal/solr"
)

// Compile-time check: Client implements solr.Engine.
var _ solr.Engine = (*Client)(nil)

// Config holds connection parameters for one core.
type Config struct {
	// BaseURL is the server root including the /solr path, e.g.
	// "http://localhost:8983/solr".
	BaseURL string
	// Core is the core or collection name.
	Core string
	// Timeout bounds each HTTP round trip (default 30s).
	Timeout time.Duration
	// Username and Password enable basic auth when set.
	Username string
	Password string
}

// Client talks to one Solr core over HTTP.
type Client struct {
	http     *http.Client
	base     string
	username string
	password string
}

// New creates a client for the configured core.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Core == "" {
		return nil, fmt.Errorf("core is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		base:     strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Core,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

// Execute runs a compiled native query against the select handler.
func (c *Client) Execute(ctx context.Context, q *solr.NativeQuery) (*solr.Result, error) {
	params := q.Params()
	params.Set("wt", "json")

	var body selectResponse
	if err := c.get(ctx, "select", params, &body); err != nil {
		return nil, &solr.Error{Op: solr.OpSelect, Err: err}
	}
	return parseSelectResponse(&body, q.GroupField)
}

// Submit posts documents to the update handler without committing.
func (c *Client) Submit(ctx context.Context, docs []*solr.Document) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return &solr.Error{Op: solr.OpUpdate, Err: err}
	}
	if err := c.post(ctx, "update", nil, data); err != nil {
		return &solr.Error{Op: solr.OpUpdate, Err: err}
	}
	return nil
}

// DeleteByQuery removes all documents matching the native query string.
func (c *Client) DeleteByQuery(ctx context.Context, query string) error {
	payload, err := json.Marshal(map[string]any{"delete": map[string]string{"query": query}})
	if err != nil {
		return &solr.Error{Op: solr.OpDelete, Err: err}
	}
	if err := c.post(ctx, "update", nil, payload); err != nil {
		return &solr.Error{Op: solr.OpDelete, Err: err}
	}
	return nil
}

// Commit makes pending updates and deletes visible.
func (c *Client) Commit(ctx context.Context) error {
	params := url.Values{"commit": {"true"}}
	if err := c.post(ctx, "update", params, []byte("{}")); err != nil {
		return &solr.Error{Op: solr.OpCommit, Err: err}
	}
	return nil
}

// FetchSchema reads the core's field metadata via the schema API.
func (c *Client) FetchSchema(ctx context.Context) (*solr.Schema, error) {
	var body schemaResponse
	if err := c.get(ctx, "schema", url.Values{"wt": {"json"}}, &body); err != nil {
		return nil, &solr.Error{Op: solr.OpSchema, Err: fmt.Errorf("%w: %w", solr.ErrSchemaUnavailable, err)}
	}
	return parseSchemaResponse(&body), nil
}

// FetchTerms reads distinct indexed values of one field via the terms
// component.
func (c *Client) FetchTerms(
	ctx context.Context, field string, sort solr.TermsSort, limit, minCount int,
) ([]solr.TermCount, error) {
	params := url.Values{
		"terms":       {"true"},
		"terms.fl":    {field},
		"terms.sort":  {string(sort)},
		"terms.limit": {strconv.Itoa(limit)},
		"wt":          {"json"},
	}
	if minCount > 0 {
		params.Set("terms.mincount", strconv.Itoa(minCount))
	}
	var body termsResponse
	if err := c.get(ctx, "terms", params, &body); err != nil {
		return nil, &solr.Error{Op: solr.OpTerms, Err: err}
	}
	return parsePairList(body.Terms[field]), nil
}

// Ping checks core availability.
func (c *Client) Ping(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "admin/ping", url.Values{"wt": {"json"}}, &body); err != nil {
		return &solr.Error{Op: solr.OpPing, Err: err}
	}
	if body.Status != "" && body.Status != "OK" {
		return &solr.Error{Op: solr.OpPing, Err: fmt.Errorf("%w: status %q", solr.ErrEngineUnavailable, body.Status)}
	}
	return nil
}

// WaitForReady polls Ping until the engine responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for engine: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (c *Client) get(ctx context.Context, handler string, params url.Values, out any) error {
	u := c.base + "/" + handler
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, handler string, params url.Values, body []byte) error {
	u := c.base + "/" + handler
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", solr.ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return classifyHTTPError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// classifyHTTPError maps status codes onto sentinel errors: 4xx on an
// update means the engine rejected a document, 5xx and transport-level
// failures mean the engine is unavailable.
func classifyHTTPError(status int, body []byte) error {
	msg := errorMessage(body)
	if status >= 500 {
		return fmt.Errorf("%w: http %d: %s", solr.ErrEngineUnavailable, status, msg)
	}
	return fmt.Errorf("%w: http %d: %s", solr.ErrMalformedDocument, status, msg)
}

func errorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Msg string `json:"msg"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Msg != "" {
		return parsed.Error.Msg
	}
	s := string(body)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
