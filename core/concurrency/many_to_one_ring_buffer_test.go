package concurrency

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-mediadriver/core/buffer"
)

const testCapacity = 1024

func newTestRing(t *testing.T) *ManyToOneRingBuffer {
	t.Helper()
	rb, err := NewManyToOneRingBuffer(buffer.Make(testCapacity + TrailerLength))
	if err != nil {
		t.Fatalf("NewManyToOneRingBuffer: %v", err)
	}
	return rb
}

func TestManyToOne_RejectsNonPowerOfTwo(t *testing.T) {
	_, err := NewManyToOneRingBuffer(buffer.Make(1000 + TrailerLength))
	if !errors.Is(err, ErrCapacityNotPowerOfTwo) {
		t.Fatalf("err = %v, want ErrCapacityNotPowerOfTwo", err)
	}
}

func TestManyToOne_WriteReadFIFO(t *testing.T) {
	rb := newTestRing(t)
	src := buffer.Make(64)

	for i := int32(1); i <= 3; i++ {
		src.PutInt32(0, i*10)
		if err := rb.Write(i, src, 0, 4); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	var types, values []int32
	n := rb.Read(func(typeID int32, buf *buffer.AtomicBuffer, offset, length int) {
		if length != 4 {
			t.Errorf("length = %d, want 4", length)
		}
		types = append(types, typeID)
		values = append(values, buf.GetInt32(offset))
	}, 10)

	if n != 3 {
		t.Fatalf("Read = %d, want 3", n)
	}
	for i := range types {
		if types[i] != int32(i+1) || values[i] != int32(i+1)*10 {
			t.Errorf("record %d = (%d, %d)", i, types[i], values[i])
		}
	}
	if rb.Read(func(int32, *buffer.AtomicBuffer, int, int) { t.Error("record delivered twice") }, 10) != 0 {
		t.Error("second read returned records")
	}
	if rb.Size() != 0 {
		t.Errorf("Size = %d after drain", rb.Size())
	}
}

func TestManyToOne_ReadLimit(t *testing.T) {
	rb := newTestRing(t)
	src := buffer.Make(8)
	for i := 0; i < 5; i++ {
		if err := rb.Write(7, src, 0, 8); err != nil {
			t.Fatal(err)
		}
	}
	count := func(int32, *buffer.AtomicBuffer, int, int) {}
	if n := rb.Read(count, 2); n != 2 {
		t.Fatalf("first Read = %d, want 2", n)
	}
	if n := rb.Read(count, 10); n != 3 {
		t.Fatalf("second Read = %d, want 3", n)
	}
}

func TestManyToOne_ZeroesConsumedBytes(t *testing.T) {
	rb := newTestRing(t)
	src := buffer.Make(32)
	src.SetMemory(0, 32, 0xAB)
	if err := rb.Write(1, src, 0, 32); err != nil {
		t.Fatal(err)
	}
	rb.Read(func(int32, *buffer.AtomicBuffer, int, int) {}, 1)
	for i, b := range rb.Buffer().Bytes()[:testCapacity] {
		if b != 0 {
			t.Fatalf("byte %d = %#x after consumption", i, b)
		}
	}
}

func TestManyToOne_InsufficientCapacity(t *testing.T) {
	rb := newTestRing(t)
	src := buffer.Make(rb.MaxMsgLength())
	writes := 0
	for {
		err := rb.Write(1, src, 0, rb.MaxMsgLength())
		if errors.Is(err, ErrInsufficientCapacity) {
			break
		}
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		writes++
		if writes > testCapacity {
			t.Fatal("ring never filled")
		}
	}
	// 128 byte payload + 8 byte header aligns to 136; 1024/136 = 7 records.
	if writes != 7 {
		t.Errorf("writes before full = %d, want 7", writes)
	}
}

func TestManyToOne_InvalidArguments(t *testing.T) {
	rb := newTestRing(t)
	src := buffer.Make(testCapacity)
	if err := rb.Write(0, src, 0, 4); !errors.Is(err, ErrInvalidTypeID) {
		t.Errorf("typeID 0: %v", err)
	}
	if err := rb.Write(1, src, 0, rb.MaxMsgLength()+1); !errors.Is(err, ErrMessageTooLong) {
		t.Errorf("too long: %v", err)
	}
}

func TestManyToOne_WrapsWithPadding(t *testing.T) {
	rb := newTestRing(t)
	src := buffer.Make(128)
	noop := func(int32, *buffer.AtomicBuffer, int, int) {}

	// Advance to 1000: five 120-byte records (128 aligned) = 640, then
	// 360 bytes in three more records of 112 payload (120 aligned).
	for i := 0; i < 5; i++ {
		if err := rb.Write(1, src, 0, 120); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := rb.Write(1, src, 0, 112); err != nil {
			t.Fatal(err)
		}
	}
	rb.Read(noop, 100)

	// 24 bytes remain before the end; a 40-byte record must wrap.
	src.PutInt64(0, 0x1122334455)
	if err := rb.Write(9, src, 0, 32); err != nil {
		t.Fatalf("wrapping write: %v", err)
	}

	var got []int64
	read := func(typeID int32, buf *buffer.AtomicBuffer, offset, length int) {
		if typeID == PaddingMsgTypeID {
			t.Error("padding delivered to handler")
		}
		if typeID != 9 || offset != RecordHeaderLength {
			t.Errorf("record (%d @%d) did not start at index 0", typeID, offset)
		}
		got = append(got, buf.GetInt64(offset))
	}
	total := 0
	for i := 0; i < 2; i++ {
		total += rb.Read(read, 10)
	}
	if total != 1 || len(got) != 1 || got[0] != 0x1122334455 {
		t.Fatalf("wrapped read: total=%d got=%v", total, got)
	}
}

func TestManyToOne_CorrelationAndHeartbeat(t *testing.T) {
	rb := newTestRing(t)
	if a, b := rb.NextCorrelationID(), rb.NextCorrelationID(); b != a+1 {
		t.Errorf("correlation ids %d, %d not sequential", a, b)
	}
	rb.SetConsumerHeartbeatTime(12345)
	if rb.ConsumerHeartbeatTime() != 12345 {
		t.Errorf("heartbeat = %d", rb.ConsumerHeartbeatTime())
	}
}

func TestManyToOne_ConcurrentProducersPreservePerWriterOrder(t *testing.T) {
	rb, err := NewManyToOneRingBuffer(buffer.Make(64*1024 + TrailerLength))
	if err != nil {
		t.Fatal(err)
	}
	const producers = 4
	const perProducer = 5000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int32) {
			defer wg.Done()
			src := buffer.Make(8)
			for seq := int32(0); seq < perProducer; seq++ {
				src.PutInt32(0, id)
				src.PutInt32(4, seq)
				for rb.Write(1, src, 0, 8) != nil {
					runtime.Gosched()
				}
			}
		}(int32(p))
	}

	next := make([]int32, producers)
	received := 0
	deadline := time.Now().Add(10 * time.Second)
	for received < producers*perProducer {
		if time.Now().After(deadline) {
			t.Fatalf("timeout: received %d", received)
		}
		received += rb.Read(func(_ int32, buf *buffer.AtomicBuffer, offset, _ int) {
			id := buf.GetInt32(offset)
			seq := buf.GetInt32(offset + 4)
			if seq != next[id] {
				t.Errorf("producer %d: got seq %d, want %d", id, seq, next[id])
			}
			next[id] = seq + 1
		}, 256)
	}
	wg.Wait()
}

func TestManyToOne_RecordHeaderIsLengthThenType(t *testing.T) {
	rb := newTestRing(t)
	src := buffer.Make(4)
	if err := rb.Write(9, src, 0, 4); err != nil {
		t.Fatal(err)
	}
	if got := rb.Buffer().GetInt32(0); got != RecordHeaderLength+4 {
		t.Errorf("length field = %d, want %d", got, RecordHeaderLength+4)
	}
	if got := rb.Buffer().GetInt32(4); got != 9 {
		t.Errorf("type field = %d, want 9", got)
	}
}
