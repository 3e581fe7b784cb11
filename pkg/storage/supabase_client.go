package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"launchpad/client-portal/client-portal-backend/internal/config"
)

// SupabaseClient talks to the Supabase PostgREST API. The portal uses it to
// mirror context rows so the hosted site can read them directly.
type SupabaseClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// NewSupabaseClient validates the project credentials up front. A portal
// with a misconfigured Supabase project must fail at startup, not on the
// first mirror write.
func NewSupabaseClient(cfg config.SupabaseConfig) (*SupabaseClient, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, errors.New("supabase anon key is required")
	}

	return &SupabaseClient{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// UpsertRow inserts or updates a row in the given table using PostgREST's
// merge-duplicates resolution
func (c *SupabaseClient) UpsertRow(ctx context.Context, table string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(table, nil), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	return c.do(req)
}

// DeleteRow deletes rows matching the given column value
func (c *SupabaseClient) DeleteRow(ctx context.Context, table, column, value string) error {
	query := url.Values{column: []string{"eq." + value}}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.tableURL(table, query), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)

	return c.do(req)
}

// SelectRows reads all rows from a table into out
func (c *SupabaseClient) SelectRows(ctx context.Context, table string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL(table, nil), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode supabase response: %w", err)
	}
	return nil
}

func (c *SupabaseClient) tableURL(table string, query url.Values) string {
	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *SupabaseClient) setHeaders(req *http.Request) {
	// The service key bypasses row level security for server-side writes
	key := c.serviceKey
	if key == "" {
		key = c.anonKey
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
}

func (c *SupabaseClient) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return c.statusError(resp)
	}
	return nil
}

func (c *SupabaseClient) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("supabase returned %d: %s", resp.StatusCode, string(body))
}
