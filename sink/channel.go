package sink

import "github.com/lightning-exchange/shardmatch/domain"

// Channel forwards trades onto a buffered channel for an out-of-scope
// consumer (market-data fan-out, persistence) to drain. It plays the
// role the teacher's TradeRingBufferBatchSafe played for the single-pair
// engine, generalized to any egress consumer willing to range over a
// channel; unlike that ring buffer, Channel makes no batching promise —
// it is a plain handoff.
//
// AcceptBatch blocks on a full channel, which backpressures the calling
// shard's worker loop. That is a deliberate, visible cost: the core
// does not buffer or retry egress on the sink's behalf (spec §6).
type Channel struct {
	trades chan domain.Trade
}

// NewChannel creates a Channel-backed sink with the given buffer size.
func NewChannel(buffer int) *Channel {
	return &Channel{trades: make(chan domain.Trade, buffer)}
}

// Trades returns the read side of the channel for a consumer goroutine.
func (c *Channel) Trades() <-chan domain.Trade {
	return c.trades
}

func (c *Channel) Accept(trade domain.Trade) {
	c.trades <- trade
}

func (c *Channel) AcceptBatch(trades []domain.Trade) {
	for _, t := range trades {
		c.trades <- t
	}
}

// Close closes the underlying channel. Callers must ensure no shard can
// still call Accept/AcceptBatch after Close.
func (c *Channel) Close() {
	close(c.trades)
}
