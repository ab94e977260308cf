package book

import "fmt"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// Order is a pure domain entity. Identity, price and side never change
// after construction; only Remaining moves, and only while the book's
// write lock is held.
type Order struct {
	ID        string
	Price     int64 // ticks
	Side      Side
	Remaining int64

	next *Order
	prev *Order
}

// Reduce consumes matched quantity. The matching loop bounds qty by
// construction, so an out-of-range amount is a logic bug, not bad input.
func (o *Order) Reduce(qty int64) {
	if qty <= 0 || qty > o.Remaining {
		panic(fmt.Sprintf("book: reduce %d on order %s with %d remaining", qty, o.ID, o.Remaining))
	}
	o.Remaining -= qty
}

// Read-only traversal helper
func (o *Order) Next() *Order {
	return o.next
}
