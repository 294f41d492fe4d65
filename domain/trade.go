package domain

// Trade is emitted by the matcher in execution order. Price is always
// the resting order's price (§4.2); BuyerID/SellerID identify the two
// matched orders, not the two sides of the Trade struct's memory layout.
type Trade struct {
	SymbolID uint32
	Price    int64
	Quantity uint32
	BuyerID  uint64
	SellerID uint64
}
