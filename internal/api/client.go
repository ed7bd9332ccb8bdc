// Package api is the client for the server's mutation endpoints. Calls
// are fire-and-forget from the dashboard's perspective: their effect
// becomes visible through the next pushed update, not through the
// response body beyond success/error reporting.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CreateBotRequest mirrors the server's bot creation parameters.
type CreateBotRequest struct {
	Symbol    string `json:"symbol"`
	ExchangeA string `json:"exchange_a"`
	ExchangeB string `json:"exchange_b"`

	EntryStartPct  float64 `json:"entry_start_pct"`
	EntryFullPct   float64 `json:"entry_full_pct"`
	TargetAmount   float64 `json:"target_amount"`
	MaxSlippagePct float64 `json:"max_slippage_pct"`
	RefillDelayMs  int     `json:"refill_delay_ms"`
	MinValidityMs  int     `json:"min_validity_ms"`

	PollInterval int  `json:"poll_interval"`
	UseWebsocket bool `json:"use_websocket"`
	DryRun       bool `json:"dry_run"`
}

// DefaultCreateBotRequest returns the server's documented defaults for
// everything except the symbol and venue pair.
func DefaultCreateBotRequest() CreateBotRequest {
	return CreateBotRequest{
		EntryStartPct:  0.5,
		EntryFullPct:   1.0,
		TargetAmount:   15.0,
		MaxSlippagePct: 0.05,
		RefillDelayMs:  500,
		MinValidityMs:  100,
		PollInterval:   50,
		DryRun:         true,
	}
}

// Result is the server's uniform mutation response.
type Result struct {
	Success bool   `json:"success"`
	BotID   string `json:"bot_id"`
	Error   string `json:"error"`
}

// Client issues mutation calls against the REST API. It carries no
// synchronization state and performs no retries.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateBot creates and starts a new bot.
func (c *Client) CreateBot(ctx context.Context, req CreateBotRequest) (Result, error) {
	return c.do(ctx, http.MethodPost, "/api/bots", req)
}

// StartBot restarts a stopped bot.
func (c *Client) StartBot(ctx context.Context, botID string) (Result, error) {
	return c.do(ctx, http.MethodPost, "/api/bots/"+botID+"/start", nil)
}

// StopBot stops a running bot.
func (c *Client) StopBot(ctx context.Context, botID string) (Result, error) {
	return c.do(ctx, http.MethodPost, "/api/bots/"+botID+"/stop", nil)
}

// DeleteBot removes a bot completely. Callers are expected to gate this
// behind a user confirmation.
func (c *Client) DeleteBot(ctx context.Context, botID string) (Result, error) {
	return c.do(ctx, http.MethodDelete, "/api/bots/"+botID, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (Result, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 400 && result.Error == "" {
		result.Error = resp.Status
	}
	return result, nil
}
