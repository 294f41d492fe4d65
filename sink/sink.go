// Package sink defines the egress boundary for matched trades (spec
// §6 Egress). The matching core hands each match's trades to a Sink and
// moves on; it never retries or buffers on the sink's behalf.
package sink

import "github.com/lightning-exchange/shardmatch/domain"

// Sink accepts trades produced by a shard's worker loop. Implementations
// are called synchronously from the worker goroutine that produced the
// trades, so a slow or blocking Sink directly throttles that shard.
type Sink interface {
	// Accept hands a single trade to the sink.
	Accept(trade domain.Trade)
	// AcceptBatch hands every trade produced by one MatchOrder call, in
	// execution order, to the sink.
	AcceptBatch(trades []domain.Trade)
}
