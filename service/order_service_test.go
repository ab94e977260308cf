package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchbook/domain/book"
)

// captureSink records every published event.
type captureSink struct {
	events []TradeEvent
}

func (c *captureSink) Publish(_ context.Context, ev TradeEvent) error {
	c.events = append(c.events, ev)
	return nil
}

func newTestService(t *testing.T) (*OrderService, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	svc := NewOrderService(book.New(), decimal.RequireFromString("0.01"), zap.NewNop(), sink)
	return svc, sink
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPlaceOrderReturnsExchangeScopedID(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.50"), 50)
	require.NoError(t, err)
	assert.Equal(t, "NYSE-0", id)

	id, err = svc.PlaceOrder(context.Background(), "NYSE", book.Sell, dec("101.00"), 30)
	require.NoError(t, err)
	assert.Equal(t, "NYSE-1", id)
}

func TestRestingBookState(t *testing.T) {
	svc, sink := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.5"), 50)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), "NYSE", book.Sell, dec("101.0"), 30)
	require.NoError(t, err)

	assert.Empty(t, sink.events, "no cross, no trades")
	assert.EqualValues(t, 50, svc.RestingQuantity(book.Buy, dec("100.50")))
	assert.EqualValues(t, 30, svc.RestingQuantity(book.Sell, dec("101.00")))
	assert.Equal(t, 1, svc.OrderCount(book.Buy))
	assert.Equal(t, 1, svc.OrderCount(book.Sell))
}

func TestCrossPublishesTradeAtAskPrice(t *testing.T) {
	svc, sink := newTestService(t)

	buyID, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.5"), 50)
	require.NoError(t, err)
	sellID, err := svc.PlaceOrder(context.Background(), "NYSE", book.Sell, dec("100.0"), 30)
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.EqualValues(t, 1, ev.Seq)
	assert.Equal(t, buyID, ev.BuyOrderID)
	assert.Equal(t, sellID, ev.SellOrderID)
	assert.True(t, ev.Price.Equal(dec("100.0")), "trade priced at best ask, got %s", ev.Price)
	assert.EqualValues(t, 30, ev.Quantity)
	assert.False(t, ev.Time.IsZero())

	assert.EqualValues(t, 20, svc.RestingQuantity(book.Buy, dec("100.5")))
	assert.Equal(t, 0, svc.OrderCount(book.Sell))
}

func TestTradeSequenceIsMonotonic(t *testing.T) {
	svc, sink := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.0"), 10)
		require.NoError(t, err)
		_, err = svc.PlaceOrder(context.Background(), "NYSE", book.Sell, dec("100.0"), 10)
		require.NoError(t, err)
	}

	require.Len(t, sink.events, 3)
	for i, ev := range sink.events {
		assert.EqualValues(t, i+1, ev.Seq)
	}
}

func TestOffTickPriceRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.505"), 10)
	require.ErrorIs(t, err, book.ErrInvalidPrice)
	assert.Equal(t, 0, svc.OrderCount(book.Buy))
}

func TestNonPositivePriceRejected(t *testing.T) {
	svc, _ := newTestService(t)

	for _, raw := range []string{"0", "-1.25"} {
		_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec(raw), 10)
		assert.ErrorIs(t, err, book.ErrInvalidPrice, "price %s", raw)
	}
}

func TestNonPositiveQuantityRejected(t *testing.T) {
	svc, _ := newTestService(t)

	for _, qty := range []int64{0, -10} {
		_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.0"), qty)
		assert.ErrorIs(t, err, book.ErrInvalidQuantity, "qty %d", qty)
	}
}

func TestCancelNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.CancelOrder(context.Background(), "NYSE", 42)
	require.ErrorIs(t, err, book.ErrOrderNotFound)
}

func TestCancelAfterExecutionNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.0"), 10) // NYSE-0
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), "NYSE", book.Sell, dec("100.0"), 10)
	require.NoError(t, err)

	err = svc.CancelOrder(context.Background(), "NYSE", 0)
	require.ErrorIs(t, err, book.ErrOrderNotFound)
}

func TestOffTickQueryReportsZero(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.5"), 50)
	require.NoError(t, err)

	assert.EqualValues(t, 0, svc.RestingQuantity(book.Buy, dec("100.505")))
	assert.EqualValues(t, 0, svc.RestingQuantity(book.Buy, dec("-1")))
}

func TestDepthScalesPricesBack(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), "NYSE", book.Buy, dec("100.5"), 50)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), "NYSE", book.Sell, dec("101.0"), 30)
	require.NoError(t, err)

	bids, asks := svc.Depth()
	require.Len(t, bids, 1)
	require.Len(t, asks, 1)
	assert.True(t, bids[0].Price.Equal(dec("100.5")), "bid price %s", bids[0].Price)
	assert.EqualValues(t, 50, bids[0].Quantity)
	assert.True(t, asks[0].Price.Equal(dec("101")), "ask price %s", asks[0].Price)
	assert.Equal(t, 1, asks[0].OrderCount)
}
