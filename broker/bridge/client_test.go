package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/desk/broker"
)

func TestClientQuotes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/quotes/EURUSD", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(quoteResponse{Symbol: "EURUSD", Bid: 1.09480, Ask: 1.09500})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	ctx := context.Background()

	bid, err := c.Bid(ctx, "EURUSD")
	require.NoError(t, err)
	assert.InDelta(t, 1.09480, bid, 1e-9)

	ask, err := c.Ask(ctx, "EURUSD")
	require.NoError(t, err)
	assert.InDelta(t, 1.09500, ask, 1e-9)
}

func TestClientQuoteNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Bid(context.Background(), "EURUSD")
	assert.ErrorIs(t, err, broker.ErrNoQuote)
}

func TestClientPosition(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/positions/12345", r.URL.Path)
		json.NewEncoder(w).Encode(positionResponse{
			Ticket:       12345,
			Symbol:       "EURUSD",
			Side:         "short",
			Volume:       0.20,
			OpenPrice:    1.09500,
			CurrentPrice: 1.09350,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	pos, err := c.Position(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), pos.Ticket)
	assert.Equal(t, broker.Short, pos.Side)
	assert.InDelta(t, 0.20, pos.Volume, 1e-9)
}

func TestClientPositionNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Position(context.Background(), 1)
	assert.ErrorIs(t, err, broker.ErrPositionNotFound)
}

func TestClientMoveStopToEntry(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/positions/42/stop-to-entry", r.URL.Path)
		json.NewEncoder(w).Encode(actionResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	res, err := c.MoveStopToEntry(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestClientClosePercent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/positions/42/close", r.URL.Path)

		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 50.0, body["percent"], 1e-9)

		json.NewEncoder(w).Encode(actionResponse{Success: true, VolumeClosed: 0.10})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	res, err := c.ClosePercent(context.Background(), 42, 50)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.InDelta(t, 0.10, res.VolumeClosed, 1e-9)
}

func TestClientServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "terminal unreachable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Bid(context.Background(), "EURUSD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
