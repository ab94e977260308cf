package book

import "testing"

func newTestOrder(id string, qty int64) *Order {
	return &Order{ID: id, Price: 10000, Side: Buy, Remaining: qty}
}

func TestEnqueuePopFIFO(t *testing.T) {
	lvl := &PriceLevel{Price: 10000}
	lvl.Enqueue(newTestOrder("a", 1))
	lvl.Enqueue(newTestOrder("b", 2))
	lvl.Enqueue(newTestOrder("c", 3))

	if lvl.TotalQty != 6 || lvl.OrderCount != 3 {
		t.Fatalf("totals = %d/%d, want 6/3", lvl.TotalQty, lvl.OrderCount)
	}

	for _, want := range []string{"a", "b", "c"} {
		o := lvl.PopHead()
		if o == nil || o.ID != want {
			t.Fatalf("pop = %v, want %s", o, want)
		}
	}
	if !lvl.Empty() || lvl.TotalQty != 0 || lvl.OrderCount != 0 {
		t.Errorf("drained level not empty: %d/%d", lvl.TotalQty, lvl.OrderCount)
	}
	if lvl.PopHead() != nil {
		t.Error("pop on empty level should return nil")
	}
}

func TestRemoveFromMiddle(t *testing.T) {
	lvl := &PriceLevel{Price: 10000}
	lvl.Enqueue(newTestOrder("a", 1))
	lvl.Enqueue(newTestOrder("b", 2))
	lvl.Enqueue(newTestOrder("c", 3))

	if o := lvl.Remove("b"); o == nil || o.ID != "b" {
		t.Fatalf("remove = %v, want b", o)
	}
	if lvl.TotalQty != 4 || lvl.OrderCount != 2 {
		t.Errorf("totals after remove = %d/%d, want 4/2", lvl.TotalQty, lvl.OrderCount)
	}

	if first := lvl.PopHead(); first.ID != "a" {
		t.Errorf("head = %s, want a", first.ID)
	}
	if second := lvl.PopHead(); second.ID != "c" {
		t.Errorf("next = %s, want c", second.ID)
	}
}

func TestRemoveHeadAndTail(t *testing.T) {
	lvl := &PriceLevel{Price: 10000}
	lvl.Enqueue(newTestOrder("a", 1))
	lvl.Enqueue(newTestOrder("b", 2))

	if o := lvl.Remove("a"); o == nil || o.ID != "a" {
		t.Fatalf("remove head = %v, want a", o)
	}
	if lvl.Head().ID != "b" {
		t.Errorf("head after removal = %s, want b", lvl.Head().ID)
	}

	if o := lvl.Remove("b"); o == nil || o.ID != "b" {
		t.Fatalf("remove tail = %v, want b", o)
	}
	if !lvl.Empty() {
		t.Error("level should be empty")
	}
}

func TestRemoveMissing(t *testing.T) {
	lvl := &PriceLevel{Price: 10000}
	lvl.Enqueue(newTestOrder("a", 1))

	if o := lvl.Remove("zzz"); o != nil {
		t.Errorf("remove of unknown id = %v, want nil", o)
	}
	if lvl.OrderCount != 1 {
		t.Errorf("failed remove must not mutate, count = %d", lvl.OrderCount)
	}
}

func TestFillKeepsTotalsAccurate(t *testing.T) {
	lvl := &PriceLevel{Price: 10000}
	o := newTestOrder("a", 10)
	lvl.Enqueue(o)

	lvl.Fill(o, 4)
	if o.Remaining != 6 {
		t.Errorf("remaining = %d, want 6", o.Remaining)
	}
	if lvl.TotalQty != 6 {
		t.Errorf("level total = %d, want 6", lvl.TotalQty)
	}

	// popping a partially filled head removes only what is left
	lvl.PopHead()
	if lvl.TotalQty != 0 {
		t.Errorf("level total after pop = %d, want 0", lvl.TotalQty)
	}
}
