// Package store implements the filtered-query client for the remote data
// store. Every call is one independent HTTP round trip; the store offers
// no cross-call transactions, so callers sequence their own reads and
// writes and live with the gaps in between.
package store

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"messaging-service/internal/observability"
)

// Config holds the store endpoint and credentials, injected at
// construction. No process-wide globals.
type Config struct {
	BaseURL string
	APIKey  string
	// Token is the bearer credential used for store calls (a service
	// credential; caller identity is resolved separately).
	Token string
}

// Client talks to the store's REST surface.
type Client struct {
	cfg    Config
	http   *http.Client
	tracer trace.Tracer
}

// NewClient builds a store client around the given HTTP client.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		tracer: otel.Tracer("messaging-service/internal/store"),
	}
}

// StatusError reports a non-2xx store response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("store responded %d: %s", e.Status, e.Body)
}

// Filter is a single column predicate, rendered as column=op.value.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Eq matches rows where column equals value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// IsNull matches rows where column is null.
func IsNull(column string) Filter {
	return Filter{Column: column, Op: "is", Value: "null"}
}

// Query describes a filtered request against one table. Select may use
// the store's embedding syntax to join related tables in a single round
// trip.
type Query struct {
	Select  string
	Filters []Filter
	Limit   int
}

func (q Query) encode() string {
	var parts []string
	if q.Select != "" {
		parts = append(parts, "select="+url.QueryEscape(q.Select))
	}
	for _, f := range q.Filters {
		parts = append(parts, url.QueryEscape(f.Column)+"="+f.Op+"."+url.QueryEscape(f.Value))
	}
	if q.Limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(q.Limit))
	}
	return strings.Join(parts, "&")
}

// Select runs a filtered read and decodes the JSON array response into dest.
func (c *Client) Select(ctx context.Context, table string, q Query, dest any) error {
	return c.do(ctx, http.MethodGet, table, q, nil, dest)
}

// Insert creates a row and decodes the returned representation into dest.
func (c *Client) Insert(ctx context.Context, table string, payload any, dest any) error {
	return c.do(ctx, http.MethodPost, table, Query{}, payload, dest)
}

// Patch updates all rows matching the query. The store returns the
// updated representations; a no-match patch yields an empty array, not
// an error.
func (c *Client) Patch(ctx context.Context, table string, q Query, payload any, dest any) error {
	return c.do(ctx, http.MethodPatch, table, q, payload, dest)
}

// Delete removes all rows matching the query, returning the removed
// representations in dest.
func (c *Client) Delete(ctx context.Context, table string, q Query, dest any) error {
	return c.do(ctx, http.MethodDelete, table, q, nil, dest)
}

func (c *Client) do(ctx context.Context, method, table string, q Query, payload, dest any) error {
	ctx, span := c.tracer.Start(ctx, "store."+strings.ToLower(method),
		trace.WithAttributes(attribute.String("store.table", table)))
	defer span.End()

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/rest/v1/" + table
	if params := q.encode(); params != "" {
		endpoint += "?" + params
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", table, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", table, err)
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.ObserveStoreRequest(table, method, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()
	observability.ObserveStoreRequest(table, method, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}
