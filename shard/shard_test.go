package shard

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lightning-exchange/shardmatch/domain"
)

// capturingSink records every trade handed to it under a mutex so tests
// can inspect it after Stop() has returned.
type capturingSink struct {
	mu     sync.Mutex
	trades []domain.Trade
}

func (s *capturingSink) Accept(trade domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trade)
}

func (s *capturingSink) AcceptBatch(trades []domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trades...)
}

func (s *capturingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

func TestShardProcessesCrossingOrders(t *testing.T) {
	snk := &capturingSink{}
	s := New(0, 64, snk, nil, zap.NewNop())
	s.Start()

	if !s.Push(domain.Order{ID: 1, SymbolID: 7, Side: domain.Buy, Price: 100, Quantity: 10}) {
		t.Fatal("push 1 failed")
	}
	if !s.Push(domain.Order{ID: 2, SymbolID: 7, Side: domain.Sell, Price: 100, Quantity: 10}) {
		t.Fatal("push 2 failed")
	}

	s.Stop()

	if got := snk.count(); got != 1 {
		t.Fatalf("expected 1 trade, sink recorded %d", got)
	}

	bk, ok := s.Book(7)
	if !ok {
		t.Fatal("expected book for symbol 7 to exist")
	}
	if bk.BestBid() != 0 || bk.BestAsk() != 0 {
		t.Fatalf("expected fully matched empty book, got bid=%d ask=%d", bk.BestBid(), bk.BestAsk())
	}
}

func TestShardRejectsInvalidOrderWithoutCrashing(t *testing.T) {
	snk := &capturingSink{}
	s := New(0, 64, snk, nil, zap.NewNop())
	s.Start()

	if !s.Push(domain.Order{ID: 1, SymbolID: 1, Side: domain.Buy, Price: 0, Quantity: 10}) {
		t.Fatal("push failed")
	}
	if !s.Push(domain.Order{ID: 2, SymbolID: 1, Side: domain.Buy, Price: 100, Quantity: 5}) {
		t.Fatal("push failed")
	}

	s.Stop()

	bk, ok := s.Book(1)
	if !ok {
		t.Fatal("expected book for symbol 1 to exist")
	}
	if bk.BestBid() != 100 {
		t.Fatalf("expected the valid order to rest at 100, got %d", bk.BestBid())
	}
	if snk.count() != 0 {
		t.Fatalf("expected no trades, got %d", snk.count())
	}
}

// TestStopDrainsRing is P7: every order pushed before Stop is called
// must be fully processed before the worker exits, even when Stop is
// called right after the producer's last push while the worker may
// still be draining.
func TestStopDrainsRing(t *testing.T) {
	const n = 5000
	snk := &capturingSink{}
	s := New(0, 256, snk, nil, zap.NewNop())
	s.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			side := domain.Buy
			if i%2 == 1 {
				side = domain.Sell
			}
			order := domain.Order{
				ID:       uint64(i),
				SymbolID: 3,
				Side:     side,
				Price:    100,
				Quantity: 1,
			}
			for !s.Push(order) {
				time.Sleep(time.Microsecond)
			}
		}
	}()
	wg.Wait()

	s.Stop()

	if depth := s.QueueDepth(); depth != 0 {
		t.Fatalf("ring not drained: QueueDepth() = %d, want 0", depth)
	}

	bk, ok := s.Book(3)
	if !ok {
		t.Fatal("expected book for symbol 3 to exist")
	}
	// n/2 buys and n/2 sells at the same price fully cross, leaving an
	// empty book and n/2 trades.
	if bk.BestBid() != 0 || bk.BestAsk() != 0 {
		t.Fatalf("expected empty book after full cross, got bid=%d ask=%d", bk.BestBid(), bk.BestAsk())
	}
	if got, want := snk.count(), n/2; got != want {
		t.Fatalf("expected %d trades, got %d", want, got)
	}
}
