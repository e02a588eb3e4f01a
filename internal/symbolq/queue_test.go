package symbolq

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// TestFIFOOrder verifies symbols drain in the order they were enqueued.
func TestFIFOOrder(t *testing.T) {
	q := New(16)
	ctx := context.Background()

	if err := q.Enqueue(ctx, '.', '-', '.', ' ', '-'); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	dst := make([]byte, 16)
	n, err := q.DrainInto(ctx, dst)
	if err != nil {
		t.Fatalf("DrainInto failed: %v", err)
	}
	want := ".-. -\n"
	if string(dst[:n]) != want {
		t.Errorf("drained %q, want %q", dst[:n], want)
	}
}

// TestEmptyQueueDrainsNothing verifies an empty queue yields zero bytes
// and no newline marker.
func TestEmptyQueueDrainsNothing(t *testing.T) {
	q := New(16)
	dst := make([]byte, 8)
	n, err := q.DrainInto(context.Background(), dst)
	if err != nil {
		t.Fatalf("DrainInto failed: %v", err)
	}
	if n != 0 {
		t.Errorf("drained %d bytes from empty queue, want 0", n)
	}
}

// TestEnqueueAtCapacityDrops verifies the overflow policy: symbols beyond
// capacity are dropped, counted, and the queued prefix is preserved.
func TestEnqueueAtCapacityDrops(t *testing.T) {
	q := New(4)
	ctx := context.Background()

	if err := q.Enqueue(ctx, 'a', 'b', 'c', 'd', 'e', 'f'); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	stats := q.Stats()
	if stats.Enqueued != 4 {
		t.Errorf("Enqueued = %d, want 4", stats.Enqueued)
	}
	if stats.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", stats.Dropped)
	}
	if q.Len() != 4 {
		t.Errorf("Len = %d, want 4", q.Len())
	}

	// The queue is full, so the drain newline is dropped too; the stored
	// prefix must still come out intact and in order.
	dst := make([]byte, 8)
	n, err := q.DrainInto(ctx, dst)
	if err != nil {
		t.Fatalf("DrainInto failed: %v", err)
	}
	if string(dst[:n]) != "abcd" {
		t.Errorf("drained %q, want %q", dst[:n], "abcd")
	}
}

// TestPartialDrainNoDuplicateNewline verifies that draining into a small
// destination and then draining again yields exactly one newline overall.
func TestPartialDrainNoDuplicateNewline(t *testing.T) {
	q := New(16)
	ctx := context.Background()

	if err := q.Enqueue(ctx, []byte("...---...")...); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	small := make([]byte, 4)
	n1, err := q.DrainInto(ctx, small)
	if err != nil {
		t.Fatalf("first DrainInto failed: %v", err)
	}
	rest := make([]byte, 16)
	n2, err := q.DrainInto(ctx, rest)
	if err != nil {
		t.Fatalf("second DrainInto failed: %v", err)
	}

	got := string(small[:n1]) + string(rest[:n2])
	if got != "...---...\n" {
		t.Errorf("combined drain = %q, want %q", got, "...---...\n")
	}
	if bytes.Count([]byte(got), []byte("\n")) != 1 {
		t.Errorf("combined drain has duplicated newline: %q", got)
	}
}

// TestInterruptedAcquire verifies a cancelled context aborts lock
// acquisition with ErrInterrupted and leaves the queue untouched.
func TestInterruptedAcquire(t *testing.T) {
	q := New(16)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(cancelled, '.'); err != ErrInterrupted {
		t.Errorf("Enqueue with cancelled ctx = %v, want ErrInterrupted", err)
	}
	if _, err := q.DrainInto(cancelled, make([]byte, 4)); err != ErrInterrupted {
		t.Errorf("DrainInto with cancelled ctx = %v, want ErrInterrupted", err)
	}
	if q.Len() != 0 {
		t.Errorf("queue touched by interrupted operations: len %d", q.Len())
	}
}

// TestAcquireBlocksUntilReleased verifies a second caller waits for the
// lock holder and can be interrupted while waiting.
func TestAcquireBlocksUntilReleased(t *testing.T) {
	q := New(16)
	q.lock <- struct{}{} // hold the lock

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(ctx, '.')
	}()

	select {
	case err := <-done:
		if err != ErrInterrupted {
			t.Errorf("blocked Enqueue = %v, want ErrInterrupted", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue did not return after context deadline")
	}
	q.release()
}

// TestConcurrentProducers verifies interleaved producers never lose or
// corrupt symbols below capacity.
func TestConcurrentProducers(t *testing.T) {
	q := New(1024)
	ctx := context.Background()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				if err := q.Enqueue(ctx, '.'); err != nil {
					t.Errorf("Enqueue failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if q.Len() != producers*perProducer {
		t.Errorf("Len = %d, want %d", q.Len(), producers*perProducer)
	}
	stats := q.Stats()
	if stats.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", stats.Dropped)
	}
}
