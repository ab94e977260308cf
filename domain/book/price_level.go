package book

// PriceLevel is a FIFO queue of resting orders at a single price, all on
// the same side. TotalQty tracks the sum of remaining quantities so depth
// queries never walk the queue.
type PriceLevel struct {
	Price int64

	head *Order
	tail *Order

	TotalQty   int64
	OrderCount int
}

func (p *PriceLevel) Enqueue(o *Order) {
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	p.TotalQty += o.Remaining
	p.OrderCount++
}

func (p *PriceLevel) PopHead() *Order {
	o := p.head
	if o == nil {
		return nil
	}

	p.head = o.next
	if p.head != nil {
		p.head.prev = nil
	} else {
		p.tail = nil
	}

	o.next = nil
	o.prev = nil

	p.TotalQty -= o.Remaining
	p.OrderCount--

	return o
}

// Fill reduces an order in place and keeps the level's quantity
// accounting in sync.
func (p *PriceLevel) Fill(o *Order, qty int64) {
	o.Reduce(qty)
	p.TotalQty -= qty
}

// Remove unlinks the order with the given id wherever it sits in the
// queue, preserving the relative order of the rest. Linear in queue
// length; per-price queues are shallow.
func (p *PriceLevel) Remove(id string) *Order {
	for o := p.head; o != nil; o = o.next {
		if o.ID != id {
			continue
		}

		if o.prev != nil {
			o.prev.next = o.next
		} else {
			p.head = o.next
		}
		if o.next != nil {
			o.next.prev = o.prev
		} else {
			p.tail = o.prev
		}

		o.next = nil
		o.prev = nil

		p.TotalQty -= o.Remaining
		p.OrderCount--

		return o
	}
	return nil
}

func (p *PriceLevel) Empty() bool {
	return p.head == nil
}

// Read-only helper
func (p *PriceLevel) Head() *Order {
	return p.head
}
