package sink

import (
	"go.uber.org/zap"

	"github.com/lightning-exchange/shardmatch/domain"
)

// Logging is a reference Sink that records every trade as a structured
// zap log line. It is a reasonable default for the CLI harness; a real
// deployment would replace it with a network or journaling sink, both
// out of scope for this core (spec §1).
type Logging struct {
	log *zap.Logger
}

// NewLogging wraps log for trade egress.
func NewLogging(log *zap.Logger) *Logging {
	return &Logging{log: log}
}

func (l *Logging) Accept(trade domain.Trade) {
	l.log.Info("trade",
		zap.Uint32("symbol_id", trade.SymbolID),
		zap.Int64("price", trade.Price),
		zap.Uint32("quantity", trade.Quantity),
		zap.Uint64("buyer_id", trade.BuyerID),
		zap.Uint64("seller_id", trade.SellerID),
	)
}

func (l *Logging) AcceptBatch(trades []domain.Trade) {
	for _, t := range trades {
		l.Accept(t)
	}
}
