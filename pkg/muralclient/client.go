/**
 * @description
 * This package provides a client for the Mural Pay payments API. It
 * encapsulates authenticated HTTP access to the account and payout endpoints.
 *
 * Key features:
 * - Bearer authentication on every request.
 * - Optional transfer-api-key header for the elevated credential that payout
 *   execution requires, and an on-behalf-of header asserting which account a
 *   privileged operation acts for.
 * - Non-2xx responses surface as *APIError carrying method, path, status code
 *   and the raw response body for diagnosis.
 * - Single attempt per call: no retry and no caching.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, io, net/http, time: Standard Go libraries.
 * - internal/domain for the Mural Pay request/response models.
 */
package muralclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/muralops/payout-console/internal/domain"
)

// UpstreamObserver receives one observation per completed upstream request.
// A zero status code means the request never reached the remote side.
type UpstreamObserver interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// Client is a client for the Mural Pay API.
type Client struct {
	baseURL     string
	apiKey      string
	transferKey string
	httpClient  *http.Client
	observer    UpstreamObserver
}

// requestOptions control the optional auth headers attached to a request.
type requestOptions struct {
	useTransferKey bool
	onBehalfOf     string
}

// NewClient creates a new Mural Pay API client. transferKey may be empty, in
// which case payout execution will be rejected by the remote side.
func NewClient(baseURL, apiKey, transferKey string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		transferKey: transferKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetObserver installs a metrics observer for upstream requests.
func (c *Client) SetObserver(o UpstreamObserver) {
	c.observer = o
}

// APIError is the failure produced by a non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mural API error: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// CreateAccount creates a new organization account.
func (c *Client) CreateAccount(ctx context.Context, name string) (*domain.Account, error) {
	var resp domain.Account
	err := c.do(ctx, http.MethodPost, "/api/accounts", domain.CreateAccountRequest{Name: name}, &resp, requestOptions{})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccounts fetches all accounts visible to the configured API key.
func (c *Client) GetAccounts(ctx context.Context) ([]domain.Account, error) {
	var resp []domain.Account
	err := c.do(ctx, http.MethodGet, "/api/accounts", nil, &resp, requestOptions{})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CreatePayoutRequest creates a payout request from a fully built payload.
func (c *Client) CreatePayoutRequest(ctx context.Context, payload domain.CreatePayoutPayload) (*domain.PayoutRequest, error) {
	var resp domain.PayoutRequest
	err := c.do(ctx, http.MethodPost, "/api/payouts/payout", payload, &resp, requestOptions{})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchPayoutRequests lists payout requests matching the filter.
func (c *Client) SearchPayoutRequests(ctx context.Context, filter domain.PayoutSearchFilter) ([]domain.PayoutRequest, error) {
	var resp []domain.PayoutRequest
	err := c.do(ctx, http.MethodPost, "/api/payouts/search", filter, &resp, requestOptions{})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetPayoutRequest fetches one payout request by id.
func (c *Client) GetPayoutRequest(ctx context.Context, id string) (*domain.PayoutRequest, error) {
	var resp domain.PayoutRequest
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/payouts/payout/%s", id), nil, &resp, requestOptions{})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecutePayoutRequest executes a payout request that is awaiting execution.
// Execution requires the elevated transfer key and acts on behalf of the
// payout's source account.
func (c *Client) ExecutePayoutRequest(ctx context.Context, id, sourceAccountID string) (*domain.PayoutRequest, error) {
	var resp domain.PayoutRequest
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/payouts/payout/%s/execute", id), nil, &resp, requestOptions{
		useTransferKey: true,
		onBehalfOf:     sourceAccountID,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelPayoutRequest cancels a payout request. The endpoint returns no body.
func (c *Client) CancelPayoutRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/payouts/payout/%s/cancel", id), nil, nil, requestOptions{})
}

// do is a helper to make HTTP requests to the Mural Pay API.
func (c *Client) do(ctx context.Context, method, path string, body, target interface{}, opts requestOptions) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if opts.useTransferKey && c.transferKey != "" {
		req.Header.Set("transfer-api-key", c.transferKey)
	}
	if opts.onBehalfOf != "" {
		req.Header.Set("on-behalf-of", opts.onBehalfOf)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	c.observe(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("level=warn component=muralclient msg=\"api request failed\" method=%s path=%s status=%d body=%s", method, path, resp.StatusCode, string(respBody))
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return nil
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstreamRequest(method, path, status, d)
	}
}
