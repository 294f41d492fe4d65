package ring

import (
	"sync"
	"testing"

	"github.com/lightning-exchange/shardmatch/domain"
)

func TestPushPopBasic(t *testing.T) {
	r := New(4)

	o := domain.Order{ID: 1, Price: 100, Quantity: 10}
	if !r.Push(o) {
		t.Fatal("expected push to succeed on empty ring")
	}

	got, ok := r.Pop()
	if !ok {
		t.Fatal("expected pop to succeed")
	}
	if got != o {
		t.Fatalf("got %+v, want %+v", got, o)
	}

	if _, ok := r.Pop(); ok {
		t.Fatal("expected pop on empty ring to fail")
	}
}

func TestPushFullReturnsFalse(t *testing.T) {
	r := New(4) // usable capacity 3

	for i := 0; i < 3; i++ {
		if !r.Push(domain.Order{ID: uint64(i)}) {
			t.Fatalf("push %d should have succeeded", i)
		}
	}
	if r.Push(domain.Order{ID: 99}) {
		t.Fatal("expected push on full ring to fail")
	}

	// freeing one slot lets exactly one more through
	if _, ok := r.Pop(); !ok {
		t.Fatal("expected pop to succeed")
	}
	if !r.Push(domain.Order{ID: 100}) {
		t.Fatal("expected push to succeed after a pop freed a slot")
	}
}

func TestCapacityIsSizeMinusOne(t *testing.T) {
	r := New(8)
	if r.Cap() != 7 {
		t.Fatalf("Cap() = %d, want 7", r.Cap())
	}
}

func TestNewPanicsOnTooSmallCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected New(1) to panic")
		}
	}()
	New(1)
}

// TestFIFOOrder is P3/P6: the sequence popped is exactly the sequence
// pushed, single-threaded.
func TestFIFOOrder(t *testing.T) {
	r := New(16)
	for i := 0; i < 10; i++ {
		if !r.Push(domain.Order{ID: uint64(i)}) {
			t.Fatalf("push %d failed", i)
		}
	}
	for i := 0; i < 10; i++ {
		got, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d failed", i)
		}
		if got.ID != uint64(i) {
			t.Fatalf("pop %d: got ID %d, want %d", i, got.ID, i)
		}
	}
}

// TestConcurrentSPSC exercises the actual single-producer/single-consumer
// contract under the race detector: every order the producer pushes is
// eventually popped, in order, and nothing is lost or duplicated (P6).
func TestConcurrentSPSC(t *testing.T) {
	const n = 200_000
	r := New(256)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.Push(domain.Order{ID: uint64(i)}) {
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			var got domain.Order
			var ok bool
			for {
				got, ok = r.Pop()
				if ok {
					break
				}
			}
			if got.ID != uint64(i) {
				t.Errorf("pop %d: got ID %d, want %d", i, got.ID, i)
			}
		}
	}()

	wg.Wait()
}
