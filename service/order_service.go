package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"matchbook/domain/book"
	"matchbook/infra/sequence"
	"matchbook/metrics"
)

/*
OrderService is the write entry point into the engine.

It owns everything the pure domain stays away from: decimal prices at the
boundary (converted to int64 ticks), input validation, trade sequencing,
and fan-out of executions to the configured sinks. Sink I/O happens after
the book has released its lock.
*/

// TradeEvent is the notification emitted per execution step.
type TradeEvent struct {
	Seq         uint64          `json:"seq"`
	BuyOrderID  string          `json:"buy_order_id"`
	SellOrderID string          `json:"sell_order_id"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Time        time.Time       `json:"time"`
}

// TradeSink receives executed trades. Implementations must tolerate
// at-least-once delivery.
type TradeSink interface {
	Publish(ctx context.Context, ev TradeEvent) error
}

type OrderService struct {
	book  *book.Book
	tick  decimal.Decimal
	seq   *sequence.Sequencer
	sinks []TradeSink
	log   *zap.Logger
}

// NewOrderService wires all dependencies. tick is the instrument's
// minimum price increment; every boundary price must sit on its grid.
func NewOrderService(b *book.Book, tick decimal.Decimal, logger *zap.Logger, sinks ...TradeSink) *OrderService {
	if tick.Sign() <= 0 {
		panic("service: tick size must be positive")
	}
	return &OrderService{
		book:  b,
		tick:  tick,
		seq:   sequence.New(1),
		sinks: sinks,
		log:   logger,
	}
}

// PlaceOrder validates, submits the order and publishes any executions.
// It returns the assigned order id, format "<exchange>-<counter>".
func (s *OrderService) PlaceOrder(ctx context.Context, exchange string, side book.Side, price decimal.Decimal, qty int64) (string, error) {
	ticks, err := s.toTicks(price)
	if err != nil {
		metrics.OrdersRejected.Inc()
		return "", err
	}

	id, trades, err := s.book.Place(exchange, side, ticks, qty)
	if err != nil {
		metrics.OrdersRejected.Inc()
		return "", err
	}

	metrics.OrdersPlaced.WithLabelValues(side.String()).Inc()
	s.log.Info("order placed",
		zap.String("order_id", id),
		zap.String("side", side.String()),
		zap.String("price", price.String()),
		zap.Int64("quantity", qty),
	)

	for _, t := range trades {
		s.emit(ctx, t)
	}
	return id, nil
}

// CancelOrder removes a resting order. book.ErrOrderNotFound is a normal
// outcome, not a failure of the engine.
func (s *OrderService) CancelOrder(ctx context.Context, exchange string, numericID uint64) error {
	if err := s.book.Cancel(exchange, numericID); err != nil {
		metrics.CancelNotFound.Inc()
		return err
	}

	metrics.OrdersCancelled.Inc()
	s.log.Info("order cancelled",
		zap.String("order_id", fmt.Sprintf("%s-%d", exchange, numericID)),
	)
	return nil
}

// RestingQuantity reports the quantity resting at a price on one side.
// A price off the tick grid rests nothing, so it reports 0 rather than
// an error.
func (s *OrderService) RestingQuantity(side book.Side, price decimal.Decimal) int64 {
	ticks, err := s.toTicks(price)
	if err != nil {
		return 0
	}
	return s.book.RestingQuantity(side, ticks)
}

func (s *OrderService) OrderCount(side book.Side) int {
	return s.book.OrderCount(side)
}

// DepthLevel is one rung of the depth snapshot with the price scaled
// back to decimal.
type DepthLevel struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

// Depth returns a consistent best-first view of both sides.
func (s *OrderService) Depth() (bids, asks []DepthLevel) {
	rawBids, rawAsks := s.book.Depth()
	return s.depthLevels(rawBids), s.depthLevels(rawAsks)
}

func (s *OrderService) depthLevels(raw []book.DepthLevel) []DepthLevel {
	out := make([]DepthLevel, 0, len(raw))
	for _, lvl := range raw {
		out = append(out, DepthLevel{
			Price:      s.fromTicks(lvl.Price),
			Quantity:   lvl.Quantity,
			OrderCount: lvl.OrderCount,
		})
	}
	return out
}

func (s *OrderService) emit(ctx context.Context, t book.Trade) {
	ev := TradeEvent{
		Seq:         s.seq.Next(),
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       s.fromTicks(t.Price),
		Quantity:    t.Quantity,
		Time:        t.Time,
	}

	metrics.TradesExecuted.Inc()
	metrics.TradedVolume.Add(float64(t.Quantity))

	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, ev); err != nil {
			s.log.Error("trade sink publish failed",
				zap.Uint64("seq", ev.Seq),
				zap.Error(err),
			)
		}
	}
}

func (s *OrderService) toTicks(price decimal.Decimal) (int64, error) {
	if price.Sign() <= 0 {
		return 0, fmt.Errorf("%w: got %s", book.ErrInvalidPrice, price)
	}
	steps := price.Div(s.tick)
	if !steps.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not a multiple of tick %s", book.ErrInvalidPrice, price, s.tick)
	}
	return steps.IntPart(), nil
}

func (s *OrderService) fromTicks(ticks int64) decimal.Decimal {
	return decimal.NewFromInt(ticks).Mul(s.tick)
}
