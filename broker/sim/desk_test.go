package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/desk/broker"
)

func TestDeskQuotes(t *testing.T) {
	t.Parallel()

	d := NewDesk()
	ctx := context.Background()

	_, err := d.Bid(ctx, "EURUSD")
	assert.ErrorIs(t, err, broker.ErrNoQuote)

	d.SetQuote("EURUSD", 1.09480, 1.09500)

	bid, err := d.Bid(ctx, "EURUSD")
	require.NoError(t, err)
	assert.InDelta(t, 1.09480, bid, 1e-9)

	ask, err := d.Ask(ctx, "EURUSD")
	require.NoError(t, err)
	assert.InDelta(t, 1.09500, ask, 1e-9)

	d.ClearQuote("EURUSD")
	_, err = d.Ask(ctx, "EURUSD")
	assert.ErrorIs(t, err, broker.ErrNoQuote)
}

func TestDeskOpenFillsEntrySide(t *testing.T) {
	t.Parallel()

	d := NewDesk()
	ctx := context.Background()
	d.SetQuote("EURUSD", 1.09480, 1.09500)

	long, err := d.Open("EURUSD", broker.Long, 0.20)
	require.NoError(t, err)
	short, err := d.Open("EURUSD", broker.Short, 0.10)
	require.NoError(t, err)

	lp, err := d.Position(ctx, long)
	require.NoError(t, err)
	assert.InDelta(t, 1.09500, lp.OpenPrice, 1e-9) // long fills at ask
	assert.InDelta(t, 1.09480, lp.CurrentPrice, 1e-9)

	sp, err := d.Position(ctx, short)
	require.NoError(t, err)
	assert.InDelta(t, 1.09480, sp.OpenPrice, 1e-9) // short fills at bid
}

func TestDeskPositionNotFound(t *testing.T) {
	t.Parallel()

	d := NewDesk()
	_, err := d.Position(context.Background(), 42)
	assert.ErrorIs(t, err, broker.ErrPositionNotFound)

	assert.ErrorIs(t, d.Close(42), broker.ErrPositionNotFound)
}

func TestDeskMoveStopToEntry(t *testing.T) {
	t.Parallel()

	d := NewDesk()
	ctx := context.Background()
	d.SetQuote("EURUSD", 1.09480, 1.09500)

	ticket, err := d.Open("EURUSD", broker.Long, 0.20)
	require.NoError(t, err)

	res, err := d.MoveStopToEntry(ctx, ticket)
	require.NoError(t, err)
	assert.True(t, res.Success)

	pos, err := d.Position(ctx, ticket)
	require.NoError(t, err)
	assert.InDelta(t, pos.OpenPrice, pos.StopLoss, 1e-9)

	// Second request is refused; the stop is already there.
	res, err = d.MoveStopToEntry(ctx, ticket)
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = d.MoveStopToEntry(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "position not found", res.Reason)
}

func TestDeskClosePercent(t *testing.T) {
	t.Parallel()

	d := NewDesk()
	ctx := context.Background()
	d.SetQuote("EURUSD", 1.09480, 1.09500)

	ticket, err := d.Open("EURUSD", broker.Long, 0.20)
	require.NoError(t, err)

	res, err := d.ClosePercent(ctx, ticket, 50)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.InDelta(t, 0.10, res.VolumeClosed, 1e-9)

	pos, err := d.Position(ctx, ticket)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, pos.Volume, 1e-9)

	// Closing 99% would leave less than the minimum lot: the whole
	// position goes.
	res, err = d.ClosePercent(ctx, ticket, 99)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.InDelta(t, 0.10, res.VolumeClosed, 1e-9)

	_, err = d.Position(ctx, ticket)
	assert.ErrorIs(t, err, broker.ErrPositionNotFound)
}

func TestDeskClosePercentRejectsBadInput(t *testing.T) {
	t.Parallel()

	d := NewDesk()
	ctx := context.Background()
	d.SetQuote("EURUSD", 1.09480, 1.09500)

	ticket, err := d.Open("EURUSD", broker.Long, 0.20)
	require.NoError(t, err)

	for _, pct := range []float64{0, -10, 100, 150} {
		res, err := d.ClosePercent(ctx, ticket, pct)
		require.NoError(t, err)
		assert.False(t, res.Success)
	}
}
