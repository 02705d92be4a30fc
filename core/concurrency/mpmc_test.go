package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRingBuffer_MPMC(t *testing.T) {
	rb := NewRingBuffer[int](1024)
	producers := 10
	consumers := 10
	itemsPerProducer := 10000

	var wg sync.WaitGroup
	var sentSum int64
	var receivedSum int64
	var receivedCount int64
	totalItems := int64(producers * itemsPerProducer)

	// Producers
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				val := pid*itemsPerProducer + i + 1
				for !rb.Enqueue(val) {
					runtime.Gosched()
				}
				atomic.AddInt64(&sentSum, int64(val))
			}
		}(p)
	}

	// Consumers
	consumerWg := sync.WaitGroup{}
	for c := 0; c < consumers; c++ {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			for {
				if val, ok := rb.Dequeue(); ok {
					atomic.AddInt64(&receivedSum, int64(val))
					if atomic.AddInt64(&receivedCount, 1) == totalItems {
						return
					}
				} else {
					if atomic.LoadInt64(&receivedCount) >= totalItems {
						return
					}
					runtime.Gosched()
				}
			}
		}()
	}

	wg.Wait()

	done := make(chan struct{})
	go func() {
		consumerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if sentSum != receivedSum {
			t.Errorf("Checksum mismatch: sent %d, received %d", sentSum, receivedSum)
		}
	case <-time.After(5 * time.Second):
		t.Errorf("Timeout waiting for consumers. Received %d/%d", atomic.LoadInt64(&receivedCount), totalItems)
	}
}

func TestRingBuffer_FullAndDrain(t *testing.T) {
	rb := NewRingBuffer[int](3)
	if rb.Cap() != 4 {
		t.Fatalf("Cap = %d, want 4", rb.Cap())
	}
	for i := 0; i < 4; i++ {
		if !rb.Enqueue(i) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if rb.Enqueue(99) {
		t.Fatal("enqueue into full ring succeeded")
	}

	var got []int
	n := rb.Drain(func(v int) { got = append(got, v) }, 3)
	if n != 3 || rb.Len() != 1 {
		t.Fatalf("Drain = %d, Len = %d", n, rb.Len())
	}
	for i, v := range got {
		if v != i {
			t.Errorf("item %d = %d (FIFO violated)", i, v)
		}
	}
}
