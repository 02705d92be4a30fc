package concurrency

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-mediadriver/core/buffer"
)

type capturedRecord struct {
	typeID int32
	value  int64
	length int
}

func newBroadcast(t *testing.T) (*buffer.AtomicBuffer, *BroadcastTransmitter) {
	t.Helper()
	buf := buffer.Make(testCapacity + BroadcastTrailerLength)
	tx, err := NewBroadcastTransmitter(buf)
	if err != nil {
		t.Fatalf("NewBroadcastTransmitter: %v", err)
	}
	return buf, tx
}

func newReceiver(t *testing.T, buf *buffer.AtomicBuffer) *BroadcastReceiver {
	t.Helper()
	rx, err := NewBroadcastReceiver(buf)
	if err != nil {
		t.Fatalf("NewBroadcastReceiver: %v", err)
	}
	return rx
}

func transmit(t *testing.T, tx *BroadcastTransmitter, typeID int32, value int64, length int) {
	t.Helper()
	src := buffer.Make(length)
	src.PutInt64(0, value)
	if err := tx.Transmit(typeID, src, 0, length); err != nil {
		t.Fatalf("Transmit: %v", err)
	}
}

func collect(rx *BroadcastReceiver, limit int) []capturedRecord {
	var out []capturedRecord
	rx.Receive(func(typeID int32, buf *buffer.AtomicBuffer, offset, length int) {
		out = append(out, capturedRecord{typeID: typeID, value: buf.GetInt64(offset), length: length})
	}, limit)
	return out
}

func TestBroadcast_EveryReceiverSeesEveryRecord(t *testing.T) {
	buf, tx := newBroadcast(t)
	a := newReceiver(t, buf)
	b := newReceiver(t, buf)

	for i := int64(1); i <= 3; i++ {
		transmit(t, tx, int32(i), i*100, 8)
	}

	for name, rx := range map[string]*BroadcastReceiver{"a": a, "b": b} {
		got := collect(rx, 10)
		if len(got) != 3 {
			t.Fatalf("receiver %s got %d records", name, len(got))
		}
		for i, r := range got {
			if r.typeID != int32(i+1) || r.value != int64(i+1)*100 || r.length != 8 {
				t.Errorf("receiver %s record %d = %+v", name, i, r)
			}
		}
		if rx.LappedCount() != 0 {
			t.Errorf("receiver %s lapped", name)
		}
	}
}

func TestBroadcast_ReceiverStartsAtTail(t *testing.T) {
	buf, tx := newBroadcast(t)
	transmit(t, tx, 1, 1, 8)

	rx := newReceiver(t, buf)
	if got := collect(rx, 10); len(got) != 0 {
		t.Fatalf("late receiver saw old records: %+v", got)
	}
	transmit(t, tx, 2, 2, 8)
	if got := collect(rx, 10); len(got) != 1 || got[0].value != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestBroadcast_WrapsWithPadding(t *testing.T) {
	buf, tx := newBroadcast(t)
	rx := newReceiver(t, buf)

	// 100-byte payloads leave a 16-byte gap at the end of the first lap.
	for i := int64(0); i < 30; i++ {
		transmit(t, tx, 7, i, 100)
		got := collect(rx, 10)
		if len(got) != 1 || got[0].value != i || got[0].typeID != 7 {
			t.Fatalf("iteration %d: got %+v", i, got)
		}
	}
	if rx.LappedCount() != 0 {
		t.Errorf("LappedCount = %d", rx.LappedCount())
	}
}

func TestBroadcast_SlowReceiverIsLapped(t *testing.T) {
	buf, tx := newBroadcast(t)
	rx := newReceiver(t, buf)

	// 20 records of 64 aligned bytes overrun a 1024-byte region.
	for i := int64(0); i < 20; i++ {
		transmit(t, tx, 1, i, 56)
	}
	got := collect(rx, 100)
	if rx.LappedCount() != 1 {
		t.Fatalf("LappedCount = %d, want 1", rx.LappedCount())
	}
	if len(got) != 1 || got[0].value != 19 {
		t.Fatalf("after lap got %+v, want only the latest record", got)
	}

	transmit(t, tx, 1, 20, 56)
	if got := collect(rx, 10); len(got) != 1 || got[0].value != 20 {
		t.Fatalf("receiver did not resume: %+v", got)
	}
}

func TestBroadcast_RejectsInvalidRecords(t *testing.T) {
	_, tx := newBroadcast(t)
	src := buffer.Make(tx.MaxMsgLength() + 1)
	if err := tx.Transmit(0, src, 0, 8); !errors.Is(err, ErrInvalidTypeID) {
		t.Errorf("type 0: err = %v", err)
	}
	if err := tx.Transmit(1, src, 0, src.Capacity()); !errors.Is(err, ErrMessageTooLong) {
		t.Errorf("oversize: err = %v", err)
	}
	if _, err := NewBroadcastTransmitter(buffer.Make(1000 + BroadcastTrailerLength)); !errors.Is(err, ErrCapacityNotPowerOfTwo) {
		t.Errorf("capacity: err = %v", err)
	}
}
