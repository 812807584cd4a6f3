// Package bridge implements the desk gates over a trading-terminal REST
// bridge, a small HTTP shim running next to the terminal that exposes
// quotes, positions, and order modifications.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rustyeddy/desk/broker"
)

const defaultTimeout = 30 * time.Second

// Client talks to the bridge. It satisfies broker.Desk.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a bridge client. token may be empty when the bridge
// runs unauthenticated on localhost.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type quoteResponse struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

type positionResponse struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	Volume       float64 `json:"volume"`
	OpenPrice    float64 `json:"open_price"`
	CurrentPrice float64 `json:"current_price"`
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
}

type actionResponse struct {
	Success      bool    `json:"success"`
	Reason       string  `json:"reason"`
	VolumeClosed float64 `json:"volume_closed"`
}

func (c *Client) Bid(ctx context.Context, symbol string) (float64, error) {
	q, err := c.quote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return q.Bid, nil
}

func (c *Client) Ask(ctx context.Context, symbol string) (float64, error) {
	q, err := c.quote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return q.Ask, nil
}

func (c *Client) quote(ctx context.Context, symbol string) (quoteResponse, error) {
	var q quoteResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/quotes/%s", symbol), nil, &q, broker.ErrNoQuote)
	return q, err
}

func (c *Client) Position(ctx context.Context, ticket int64) (broker.Position, error) {
	var p positionResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/positions/%d", ticket), nil, &p, broker.ErrPositionNotFound)
	if err != nil {
		return broker.Position{}, err
	}

	side := broker.Long
	if p.Side == "short" {
		side = broker.Short
	}
	return broker.Position{
		Ticket:       p.Ticket,
		Symbol:       p.Symbol,
		Side:         side,
		Volume:       p.Volume,
		OpenPrice:    p.OpenPrice,
		CurrentPrice: p.CurrentPrice,
		StopLoss:     p.StopLoss,
		TakeProfit:   p.TakeProfit,
	}, nil
}

func (c *Client) MoveStopToEntry(ctx context.Context, ticket int64) (broker.ActionResult, error) {
	var res actionResponse
	path := fmt.Sprintf("/v1/positions/%d/stop-to-entry", ticket)
	if err := c.do(ctx, http.MethodPost, path, nil, &res, nil); err != nil {
		return broker.ActionResult{}, err
	}
	return broker.ActionResult{Success: res.Success, Reason: res.Reason}, nil
}

func (c *Client) ClosePercent(ctx context.Context, ticket int64, percent float64) (broker.ActionResult, error) {
	body := map[string]float64{"percent": percent}
	var res actionResponse
	path := fmt.Sprintf("/v1/positions/%d/close", ticket)
	if err := c.do(ctx, http.MethodPost, path, body, &res, nil); err != nil {
		return broker.ActionResult{}, err
	}
	return broker.ActionResult{
		Success:      res.Success,
		Reason:       res.Reason,
		VolumeClosed: res.VolumeClosed,
	}, nil
}

// do executes one bridge request. A 404 maps to notFound when the caller
// supplies one, so absence flows as the gate sentinel rather than a
// transport error.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, notFound error) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		return notFound
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bridge error (status %d): %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
