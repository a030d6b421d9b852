package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eranshir/scenic/internal/api"
	"github.com/eranshir/scenic/internal/common"
)

// HTTPClient talks to the backing service over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the service at baseURL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, since *time.Time, out any) error {
	u := c.baseURL + path
	if since != nil {
		u += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", common.ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr api.ErrorResponse
		msg := resp.Status
		if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
				msg = apiErr.Error
			}
		}
		return fmt.Errorf("%w: %s %s: %s", common.ErrNetwork, req.Method, req.URL.Path, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", common.ErrNetwork, err)
	}
	return nil
}

func (c *HTTPClient) PublishSpot(ctx context.Context, spot *api.SpotPayload) (*api.PublishSpotResponse, error) {
	var out api.PublishSpotResponse
	if err := c.post(ctx, "/v1/spots", spot, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PublishComment(ctx context.Context, comment *api.CommentPayload) (*api.PublishResponse, error) {
	var out api.PublishResponse
	if err := c.post(ctx, "/v1/comments", comment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PublishPlan(ctx context.Context, plan *api.PlanPayload) (*api.PublishPlanResponse, error) {
	var out api.PublishPlanResponse
	if err := c.post(ctx, "/v1/plans", plan, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListSpots(ctx context.Context, since *time.Time) ([]api.SpotPayload, error) {
	var out api.SpotList
	if err := c.get(ctx, "/v1/spots", since, &out); err != nil {
		return nil, err
	}
	return out.Spots, nil
}

func (c *HTTPClient) ListComments(ctx context.Context, since *time.Time) ([]api.CommentPayload, error) {
	var out api.CommentList
	if err := c.get(ctx, "/v1/comments", since, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

func (c *HTTPClient) ListPlans(ctx context.Context, since *time.Time) ([]api.PlanPayload, error) {
	var out api.PlanList
	if err := c.get(ctx, "/v1/plans", since, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}
