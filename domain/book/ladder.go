package book

import "github.com/tidwall/btree"

// Ladder holds one side's price levels in a price-ordered map. "Best"
// means highest price for bids and lowest for asks; walks always visit
// levels best-first.
type Ladder struct {
	side   Side
	levels *btree.Map[int64, *PriceLevel]
}

func NewLadder(side Side) *Ladder {
	return &Ladder{
		side:   side,
		levels: btree.NewMap[int64, *PriceLevel](32),
	}
}

func (l *Ladder) GetOrCreate(price int64) *PriceLevel {
	if lvl, ok := l.levels.Get(price); ok {
		return lvl
	}

	lvl := &PriceLevel{Price: price}
	l.levels.Set(price, lvl)
	return lvl
}

func (l *Ladder) Find(price int64) *PriceLevel {
	lvl, _ := l.levels.Get(price)
	return lvl
}

func (l *Ladder) Best() *PriceLevel {
	var (
		lvl *PriceLevel
		ok  bool
	)
	if l.side == Buy {
		_, lvl, ok = l.levels.Max()
	} else {
		_, lvl, ok = l.levels.Min()
	}
	if !ok {
		return nil
	}
	return lvl
}

func (l *Ladder) Delete(price int64) {
	l.levels.Delete(price)
}

func (l *Ladder) Len() int {
	return l.levels.Len()
}

// Walk visits levels best-first until fn returns false.
func (l *Ladder) Walk(fn func(*PriceLevel) bool) {
	iter := func(_ int64, lvl *PriceLevel) bool { return fn(lvl) }
	if l.side == Buy {
		l.levels.Reverse(iter)
	} else {
		l.levels.Scan(iter)
	}
}
