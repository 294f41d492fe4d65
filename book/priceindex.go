package book

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// priceIndex is an ordered map from price to priceLevel, giving O(log L)
// insert/remove and O(1) best-price access via a cached pointer — a
// single balanced tree keyed on price, with no separate hash map,
// grounded on the teacher's ShardedPriceTree without its
// bucket-sharding layer (not required at this spec's scale; see
// SPEC_FULL.md §5).
type priceIndex struct {
	tree       *rbt.Tree[int64, *priceLevel]
	best       *priceLevel
	descending bool
	size       int
}

func newPriceIndex(descending bool) *priceIndex {
	cmp := ascending
	if descending {
		cmp = descendingCmp
	}
	return &priceIndex{
		tree:       rbt.NewWith[int64, *priceLevel](cmp),
		descending: descending,
	}
}

func ascending(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func descendingCmp(a, b int64) int {
	return ascending(b, a)
}

// getOrCreate returns the level at price, creating and inserting an
// empty one (I2-compliant only once an order lands in it) if absent.
func (pi *priceIndex) getOrCreate(price int64) *priceLevel {
	if lvl, found := pi.tree.Get(price); found {
		return lvl
	}
	lvl := newPriceLevel(price)
	pi.tree.Put(price, lvl)
	pi.size++
	if pi.best == nil || pi.better(price, pi.best.Price) {
		pi.best = lvl
	}
	return lvl
}

// remove drops an emptied level from the index (I2: no empty level is
// ever left present).
func (pi *priceIndex) remove(price int64) {
	pi.tree.Remove(price)
	pi.size--
	if pi.best != nil && pi.best.Price == price {
		pi.refreshBest()
	}
}

func (pi *priceIndex) refreshBest() {
	if pi.tree.Empty() {
		pi.best = nil
		return
	}
	// Left() is the minimum key under this tree's comparator; for the
	// descending comparator that minimum corresponds to the highest
	// real price, so this is correct for both bids and asks.
	node := pi.tree.Left()
	pi.best = node.Value
}

func (pi *priceIndex) better(a, b int64) bool {
	if pi.descending {
		return a > b
	}
	return a < b
}

// Best returns the best-priced non-empty level, or nil if the side is
// empty. O(1).
func (pi *priceIndex) Best() *priceLevel {
	return pi.best
}

func (pi *priceIndex) Empty() bool {
	return pi.tree.Empty()
}

func (pi *priceIndex) Len() int {
	return pi.size
}

// levelAt returns the level at an exact price, or nil. Used by tests.
func (pi *priceIndex) levelAt(price int64) *priceLevel {
	lvl, found := pi.tree.Get(price)
	if !found {
		return nil
	}
	return lvl
}
