// Package shard implements the engine shard lifecycle: a dedicated
// worker goroutine that owns one ring buffer and a lazily-populated map
// of per-instrument order books (spec §4.3, C4).
package shard

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lightning-exchange/shardmatch/book"
	"github.com/lightning-exchange/shardmatch/domain"
	"github.com/lightning-exchange/shardmatch/obs"
	"github.com/lightning-exchange/shardmatch/ring"
	"github.com/lightning-exchange/shardmatch/sink"
)

// idleSpinLimit bounds how many consecutive empty polls the worker
// busy-spins before yielding to the scheduler — a short spin-then-yield
// backoff, one of the two policies spec §4.3 step 3 explicitly allows.
const idleSpinLimit = 64

// Shard owns a ring buffer, a worker goroutine, and the disjoint set of
// instrument books that goroutine matches against. A Shard is created
// with running implicitly true once Start is called; Start and Stop are
// each called exactly once (spec §3: "double-start and double-stop are
// not supported").
type Shard struct {
	CoreID int

	ring    *ring.Ring
	books   map[uint32]*book.Book
	sink    sink.Sink
	metrics *obs.Metrics
	log     *zap.Logger

	running atomic.Bool
	done    chan struct{}
}

// New constructs a shard with an empty book map and an empty ring of
// ringCapacity slots. metrics may be nil (observability is optional;
// matching correctness never depends on it).
func New(coreID, ringCapacity int, sink sink.Sink, metrics *obs.Metrics, log *zap.Logger) *Shard {
	return &Shard{
		CoreID:  coreID,
		ring:    ring.New(ringCapacity),
		books:   make(map[uint32]*book.Book),
		sink:    sink,
		metrics: metrics,
		log:     log.With(zap.Int("core_id", coreID)),
	}
}

// Push enqueues an order onto this shard's ring. It returns false if
// the ring is full; spec §4.4 makes backpressure policy the router's
// concern, not the shard's.
func (s *Shard) Push(order domain.Order) bool {
	return s.ring.Push(order)
}

// QueueDepth is an approximate snapshot of ring occupancy, sampled for
// the shard_queue_depth gauge.
func (s *Shard) QueueDepth() int {
	return s.ring.Len()
}

// Start launches the worker goroutine. Callers invoke Start once.
func (s *Shard) Start() {
	s.running.Store(true)
	s.done = make(chan struct{})
	go s.loop()
}

// Stop requests termination and blocks until the worker has drained the
// ring to empty at least once after observing the stop request and has
// exited (spec §5, P7: no stranded orders on shutdown).
func (s *Shard) Stop() {
	s.running.Store(false)
	<-s.done
}

func (s *Shard) loop() {
	// Locking the worker to an OS thread is a latency hint in the same
	// spirit as the teacher's MatchingEngine.Start — it does not pin to
	// a physical core (true CPU affinity is out of scope, spec §1).
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.done)

	s.log.Info("shard online")
	defer s.log.Info("shard stopped")

	idle := 0
	for {
		// Read the stop flag before polling, so that an empty Pop below
		// is known to have happened after the stop request was seen.
		stopping := !s.running.Load()

		order, ok := s.ring.Pop()
		if ok {
			idle = 0
			s.process(order)
			if s.metrics != nil {
				s.metrics.ObserveQueueDepth(s.CoreID, s.ring.Len())
				s.metrics.ObserveOrdersResting(s.CoreID, s.restingVolume())
			}
			continue
		}

		// The ring was found empty after the stop request had already
		// been observed, so it has been drained-to-empty after the
		// request, satisfying the ordering rule in spec §5.
		if stopping {
			return
		}

		idle++
		if idle > idleSpinLimit {
			runtime.Gosched()
			idle = 0
		}
	}
}

func (s *Shard) process(order domain.Order) {
	if !order.Valid() {
		s.log.Warn("rejected invalid order",
			zap.Uint64("order_id", order.ID),
			zap.Uint32("symbol_id", order.SymbolID),
			zap.Int64("price", order.Price),
			zap.Uint32("quantity", order.Quantity),
		)
		if s.metrics != nil {
			s.metrics.IncRejected(s.CoreID, "invalid_order")
		}
		return
	}

	bk := s.bookFor(order.SymbolID)
	trades, err := bk.MatchOrder(order)
	if err != nil {
		// Unreachable given the Valid() check above, but matching the
		// error taxonomy in spec §7 rather than panicking on a future
		// precondition change.
		s.log.Error("match_order rejected a pre-validated order", zap.Error(err))
		return
	}

	if s.metrics != nil {
		s.metrics.IncOrdersProcessed(s.CoreID)
	}

	if len(trades) > 0 {
		s.sink.AcceptBatch(trades)
		if s.metrics != nil {
			s.metrics.AddTrades(s.CoreID, len(trades))
		}
	}
}

// restingVolume sums RestingVolume across every book this shard owns,
// for the shard_orders_resting gauge (P1 conservation: resting quantity
// plus twice the traded quantity, since each trade reduces both a buyer
// and a seller, equals what was submitted).
func (s *Shard) restingVolume() uint64 {
	var total uint64
	for _, bk := range s.books {
		total += bk.RestingVolume()
	}
	return total
}

func (s *Shard) bookFor(symbolID uint32) *book.Book {
	bk, ok := s.books[symbolID]
	if !ok {
		bk = book.New(symbolID)
		s.books[symbolID] = bk
	}
	return bk
}

// Book returns the order book for symbolID if one has been created,
// for tests and depth inspection. It must only be called from the
// shard's own goroutine, or after Stop has returned.
func (s *Shard) Book(symbolID uint32) (*book.Book, bool) {
	bk, ok := s.books[symbolID]
	return bk, ok
}
