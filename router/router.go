// Package router implements the dispatcher that routes each order to
// its owning shard by symbol id (spec §4.4, C5).
package router

import (
	"runtime"

	"github.com/lightning-exchange/shardmatch/domain"
	"github.com/lightning-exchange/shardmatch/shard"
)

// pusher is the subset of *shard.Shard the router depends on, narrowed
// for testability.
type pusher interface {
	Push(domain.Order) bool
}

// Router picks a target shard for each order as SymbolID mod N and
// applies spin backpressure when that shard's ring is full. The mapping
// is stable for the life of the Router: no rebalancing (spec §4.4).
type Router struct {
	shards []pusher
}

// New builds a Router over shards, indexed 0..N-1. The caller is
// responsible for having started each shard before routing orders to
// it.
func New(shards []*shard.Shard) *Router {
	ps := make([]pusher, len(shards))
	for i, s := range shards {
		ps[i] = s
	}
	return &Router{shards: ps}
}

// ShardFor returns the index of the shard that owns symbolID.
func (r *Router) ShardFor(symbolID uint32) int {
	return int(symbolID % uint32(len(r.shards)))
}

// Dispatch routes order to its owning shard, spin-retrying (with an
// interleaved yield) until the push succeeds. It never drops an order.
func (r *Router) Dispatch(order domain.Order) {
	target := r.shards[r.ShardFor(order.SymbolID)]
	spins := 0
	for !target.Push(order) {
		spins++
		if spins%64 == 0 {
			runtime.Gosched()
		}
	}
}
