package ring

import "sync/atomic"

// Go's sync/atomic load/store operations are sequentially consistent,
// which is a strictly stronger guarantee than the acquire/release pair
// spec §4.1 asks for; these wrappers just name the intent at each call
// site so the happens-before argument in the package doc reads the same
// way the original's std::memory_order_acquire/release calls do.
func loadAcquire(p *uint64) uint64    { return atomic.LoadUint64(p) }
func storeRelease(p *uint64, v uint64) { atomic.StoreUint64(p, v) }
