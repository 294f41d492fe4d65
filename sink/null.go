package sink

import "github.com/lightning-exchange/shardmatch/domain"

// Null discards every trade. Useful for benchmarks and tests that only
// care about matching throughput or book state, not egress (spec §4.3
// step 2: "discard in a harness").
type Null struct{}

func (Null) Accept(domain.Trade)        {}
func (Null) AcceptBatch([]domain.Trade) {}
