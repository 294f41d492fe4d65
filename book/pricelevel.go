package book

import (
	"container/list"

	"github.com/lightning-exchange/shardmatch/domain"
)

// priceLevel holds every resting order at one (symbol, side, price), in
// strict arrival order (I3): head of the list is the oldest order and
// the next one the matcher will execute against (spec §3, §4.2).
type priceLevel struct {
	Price  int64
	Orders *list.List // Value of each element is *domain.Order
}

func newPriceLevel(price int64) *priceLevel {
	return &priceLevel{Price: price, Orders: list.New()}
}

// append adds a resting order to the tail of the FIFO queue.
func (lvl *priceLevel) append(order *domain.Order) {
	lvl.Orders.PushBack(order)
}

// front returns the oldest resting order without removing it, or nil
// if the level is empty.
func (lvl *priceLevel) front() *domain.Order {
	e := lvl.Orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*domain.Order)
}

// popFront removes the oldest resting order. Callers must only call
// this once that order's Quantity has reached zero.
func (lvl *priceLevel) popFront() {
	lvl.Orders.Remove(lvl.Orders.Front())
}

func (lvl *priceLevel) empty() bool {
	return lvl.Orders.Len() == 0
}

// volume is the sum of remaining quantity across every resting order at
// this level; used for depth snapshots and Book.RestingVolume, O(n) in
// level size.
func (lvl *priceLevel) volume() uint64 {
	var total uint64
	for e := lvl.Orders.Front(); e != nil; e = e.Next() {
		total += uint64(e.Value.(*domain.Order).Quantity)
	}
	return total
}
