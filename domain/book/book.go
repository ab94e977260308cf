package book

import (
	"fmt"
	"sync"
	"time"

	"matchbook/infra/sequence"
)

// position records where a resting order lives so cancellation never
// scans the book. An id is present here if and only if the order is
// present in the corresponding level's queue.
type position struct {
	Side  Side
	Price int64
}

// Trade is one execution step of the matching loop. Price is the best ask
// price at the time of the match, whichever side arrived second.
type Trade struct {
	BuyOrderID  string
	SellOrderID string
	Price       int64
	Quantity    int64
	Time        time.Time
}

// Book is the two-sided limit order book plus its order tracker. A single
// readers-writer lock guards both as one unit: Place and Cancel hold it
// exclusively for their full duration, matching included, so no partial
// update is ever visible. Queries take shared access.
type Book struct {
	mu sync.RWMutex

	bids *Ladder
	asks *Ladder

	tracker map[string]position
	ids     *sequence.Sequencer

	pool sync.Pool
}

func New() *Book {
	return &Book{
		bids:    NewLadder(Buy),
		asks:    NewLadder(Sell),
		tracker: make(map[string]position),
		ids:     sequence.New(0),
		pool:    sync.Pool{New: func() any { return new(Order) }},
	}
}

// Place inserts a limit order and runs the matching loop to completion.
// It returns the assigned order id and the executions it triggered, in
// order. On return the book is never left crossed.
//
// price is in ticks; the caller validates tick alignment.
func (b *Book) Place(exchange string, side Side, price, qty int64) (string, []Trade, error) {
	if qty <= 0 {
		return "", nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if price <= 0 {
		return "", nil, fmt.Errorf("%w: got %d ticks", ErrInvalidPrice, price)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := fmt.Sprintf("%s-%d", exchange, b.ids.Next())

	o := b.pool.Get().(*Order)
	*o = Order{
		ID:        id,
		Price:     price,
		Side:      side,
		Remaining: qty,
	}

	b.ladder(side).GetOrCreate(price).Enqueue(o)
	b.tracker[id] = position{Side: side, Price: price}

	return id, b.match(), nil
}

// Cancel removes a resting order identified by its exchange tag and
// numeric id. An id absent from the tracker reports ErrOrderNotFound and
// changes nothing; an already-executed order is indistinguishable from a
// never-issued one.
func (b *Book) Cancel(exchange string, numericID uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := fmt.Sprintf("%s-%d", exchange, numericID)

	pos, ok := b.tracker[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	ladder := b.ladder(pos.Side)
	lvl := ladder.Find(pos.Price)
	if lvl == nil {
		panic(fmt.Sprintf("book: tracker holds %s at %s %d but level is gone", id, pos.Side, pos.Price))
	}

	o := lvl.Remove(id)
	if o == nil {
		panic(fmt.Sprintf("book: tracker holds %s at %s %d but order is not queued there", id, pos.Side, pos.Price))
	}

	if lvl.Empty() {
		ladder.Delete(pos.Price)
	}
	delete(b.tracker, id)
	b.release(o)

	return nil
}

// RestingQuantity reports the total quantity resting at a price on one
// side, 0 if no such level exists.
func (b *Book) RestingQuantity(side Side, price int64) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lvl := b.ladder(side).Find(price)
	if lvl == nil {
		return 0
	}
	return lvl.TotalQty
}

// OrderCount reports the number of resting orders on one side across all
// price levels.
func (b *Book) OrderCount(side Side) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	b.ladder(side).Walk(func(lvl *PriceLevel) bool {
		n += lvl.OrderCount
		return true
	})
	return n
}

// DepthLevel is one rung of a depth snapshot.
type DepthLevel struct {
	Price      int64
	Quantity   int64
	OrderCount int
}

// Depth returns a consistent best-first snapshot of both sides.
func (b *Book) Depth() (bids, asks []DepthLevel) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.bids.Walk(func(lvl *PriceLevel) bool {
		bids = append(bids, DepthLevel{Price: lvl.Price, Quantity: lvl.TotalQty, OrderCount: lvl.OrderCount})
		return true
	})
	b.asks.Walk(func(lvl *PriceLevel) bool {
		asks = append(asks, DepthLevel{Price: lvl.Price, Quantity: lvl.TotalQty, OrderCount: lvl.OrderCount})
		return true
	})
	return bids, asks
}

// match runs the crossing loop: while the best bid price reaches the best
// ask price, execute the front orders of both best levels against each
// other at the best ask price. Caller holds the write lock.
func (b *Book) match() []Trade {
	var trades []Trade

	for {
		bestBid := b.bids.Best()
		bestAsk := b.asks.Best()
		if bestBid == nil || bestAsk == nil || bestBid.Price < bestAsk.Price {
			return trades
		}

		buy := bestBid.Head()
		sell := bestAsk.Head()

		qty := min(buy.Remaining, sell.Remaining)
		bestBid.Fill(buy, qty)
		bestAsk.Fill(sell, qty)

		trades = append(trades, Trade{
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			Price:       bestAsk.Price,
			Quantity:    qty,
			Time:        time.Now(),
		})

		if buy.Remaining == 0 {
			b.removeFilled(b.bids, bestBid, buy)
		}
		if sell.Remaining == 0 {
			b.removeFilled(b.asks, bestAsk, sell)
		}
	}
}

// removeFilled retires a fully executed front order: tracker entry out,
// queue popped, level dropped if it just emptied.
func (b *Book) removeFilled(l *Ladder, lvl *PriceLevel, o *Order) {
	delete(b.tracker, o.ID)
	lvl.PopHead()
	if lvl.Empty() {
		l.Delete(lvl.Price)
	}
	b.release(o)
}

func (b *Book) ladder(side Side) *Ladder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// release returns an order that left the book to the pool. Nothing can
// still reference it: trades copy ids out and the tracker entry is gone.
func (b *Book) release(o *Order) {
	*o = Order{}
	b.pool.Put(o)
}
