// Package book implements the per-instrument limit order book and its
// continuous price-time-priority matching algorithm (spec §4.2, C3).
package book

import (
	"errors"

	"github.com/lightning-exchange/shardmatch/domain"
)

// ErrInvalidOrder is returned when an order violates the ingress
// precondition in spec §7: Quantity == 0 or Price <= 0. No trade is
// produced and the order is not rested.
var ErrInvalidOrder = errors.New("book: invalid order: price and quantity must be positive")

// Book is a price-indexed order book for a single instrument. It is not
// safe for concurrent use: spec §5 guarantees each book is touched by
// exactly one worker for its entire lifetime, so Book carries no locks.
type Book struct {
	SymbolID uint32
	bids     *priceIndex // descending: highest price first
	asks     *priceIndex // ascending: lowest price first
}

// New creates an empty order book for symbolID.
func New(symbolID uint32) *Book {
	return &Book{
		SymbolID: symbolID,
		bids:     newPriceIndex(true),
		asks:     newPriceIndex(false),
	}
}

// AddOrder appends order to the tail of its (side, price) level,
// creating the level if absent (I1, I2, I3, I5). It does not attempt to
// match order against the opposite side — callers that want matching
// semantics use MatchOrder.
func (b *Book) AddOrder(order *domain.Order) error {
	if !order.Valid() {
		return ErrInvalidOrder
	}
	b.sideIndex(order.Side).getOrCreate(order.Price).append(order)
	return nil
}

func (b *Book) sideIndex(side domain.Side) *priceIndex {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) oppositeIndex(side domain.Side) *priceIndex {
	if side == domain.Buy {
		return b.asks
	}
	return b.bids
}

// MatchOrder matches incoming against the opposite side as far as price
// and available liquidity allow, emitting Trades in execution order,
// then rests any residual quantity on incoming's own side (spec §4.2).
//
// incoming is taken by value: the caller's copy is never mutated, and
// only the book's own resting-order pointers are.
func (b *Book) MatchOrder(incoming domain.Order) ([]domain.Trade, error) {
	if !incoming.Valid() {
		return nil, ErrInvalidOrder
	}

	opposite := b.oppositeIndex(incoming.Side)
	var trades []domain.Trade

	for incoming.Quantity > 0 && !opposite.Empty() {
		best := opposite.Best()
		if !crosses(incoming, best.Price) {
			break
		}

		for incoming.Quantity > 0 && !best.empty() {
			resting := best.front()

			qty := incoming.Quantity
			if resting.Quantity < qty {
				qty = resting.Quantity
			}

			trades = append(trades, makeTrade(b.SymbolID, incoming, *resting, best.Price, qty))

			incoming.Quantity -= qty
			resting.Quantity -= qty

			if resting.Quantity == 0 {
				best.popFront()
			}
		}

		if best.empty() {
			opposite.remove(best.Price)
		}
	}

	if incoming.Quantity > 0 {
		// residual rests on incoming's own side; AddOrder cannot fail
		// here since incoming was already validated above and only its
		// Quantity changed (still > 0 by this branch's condition).
		rest := incoming
		_ = b.AddOrder(&rest)
	}

	return trades, nil
}

// crosses reports whether incoming's limit price crosses the best
// opposite price (spec §4.2 step 1.a and its Sell-side mirror).
func crosses(incoming domain.Order, bestOppositePrice int64) bool {
	if incoming.Side == domain.Buy {
		return incoming.Price >= bestOppositePrice
	}
	return incoming.Price <= bestOppositePrice
}

// makeTrade orients buyer/seller correctly regardless of which side is
// incoming (spec §4.2: Buy incoming -> buyer=incoming, seller=resting;
// Sell incoming -> buyer=resting, seller=incoming). Execution price is
// always the resting order's price (P4); SymbolID is the book's own
// instrument.
func makeTrade(symbolID uint32, incoming, resting domain.Order, price int64, qty uint32) domain.Trade {
	t := domain.Trade{
		SymbolID: symbolID,
		Price:    price,
		Quantity: qty,
	}
	if incoming.Side == domain.Buy {
		t.BuyerID, t.SellerID = incoming.ID, resting.ID
	} else {
		t.BuyerID, t.SellerID = resting.ID, incoming.ID
	}
	return t
}

// BestBid returns the highest resting bid price, or 0 if there are no
// bids.
func (b *Book) BestBid() int64 {
	if lvl := b.bids.Best(); lvl != nil {
		return lvl.Price
	}
	return 0
}

// BestAsk returns the lowest resting ask price, or 0 if there are no
// asks.
func (b *Book) BestAsk() int64 {
	if lvl := b.asks.Best(); lvl != nil {
		return lvl.Price
	}
	return 0
}

// RestingVolume is the total remaining quantity resting on both sides of
// the book, O(resting orders) since every level is walked order by
// order. Used for the shard_orders_resting
// gauge, which reflects P1 conservation.
func (b *Book) RestingVolume() uint64 {
	return sideVolume(b.bids) + sideVolume(b.asks)
}

func sideVolume(idx *priceIndex) uint64 {
	var total uint64
	it := idx.tree.Iterator()
	for it.Next() {
		total += it.Value().volume()
	}
	return total
}

// Crossed reports whether the book currently violates I4. Used only by
// tests and invariant checks — the matching algorithm itself never
// leaves a book crossed.
func (b *Book) Crossed() bool {
	bid, ask := b.BestBid(), b.BestAsk()
	return bid != 0 && ask != 0 && bid >= ask
}

// DepthLevel is a read-only snapshot of one price level, for egress
// market-data consumers and tests.
type DepthLevel struct {
	Price    int64
	Volume   uint64
	OrderCnt int
}

// Depth returns up to maxLevels price levels per side, best price
// first.
func (b *Book) Depth(maxLevels int) (bids, asks []DepthLevel) {
	return snapshot(b.bids, maxLevels), snapshot(b.asks, maxLevels)
}

func snapshot(idx *priceIndex, maxLevels int) []DepthLevel {
	if maxLevels <= 0 {
		return nil
	}
	it := idx.tree.Iterator()
	out := make([]DepthLevel, 0, maxLevels)
	for it.Next() && len(out) < maxLevels {
		lvl := it.Value()
		out = append(out, DepthLevel{Price: lvl.Price, Volume: lvl.volume(), OrderCnt: lvl.Orders.Len()})
	}
	return out
}
