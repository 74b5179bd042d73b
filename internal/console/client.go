// Package console is the interactive trigger surface: a terminal UI that
// drives a running exporter over its HTTP API.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"system-exporter/internal/export"
	"system-exporter/internal/shared/response"
	"system-exporter/internal/snapshot"
)

// Client calls the exporter trigger endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx answer from the exporter.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exporter returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

func (c *Client) Export(ctx context.Context) (*export.Result, error) {
	var result export.Result
	if err := c.do(ctx, http.MethodPost, "/api/exports", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Consolidate(ctx context.Context) (*export.ConsolidateResult, error) {
	var result export.ConsolidateResult
	if err := c.do(ctx, http.MethodPost, "/api/exports/consolidate", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ToggleAutoExport(ctx context.Context) (bool, error) {
	var resp struct {
		AutoExport bool `json:"auto_export"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/exports/auto", &resp); err != nil {
		return false, err
	}
	return resp.AutoExport, nil
}

func (c *Client) DumpStructure(ctx context.Context) (*snapshot.Report, error) {
	var report snapshot.Report
	if err := c.do(ctx, http.MethodGet, "/api/debug/structure", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Stats(ctx context.Context) (*export.Stats, error) {
	var stats export.Stats
	if err := c.do(ctx, http.MethodGet, "/api/exports/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach exporter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp response.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil {
			apiErr.Type, apiErr.Message = errResp.Error, errResp.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
