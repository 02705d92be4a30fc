package buffer

import (
	"errors"
	"testing"
)

func TestAtomicBuffer_LittleEndianLayout(t *testing.T) {
	ab := Make(16)
	ab.PutInt32(0, 0x11223344)
	ab.PutInt64(8, -2)

	want := []byte{0x44, 0x33, 0x22, 0x11}
	for i, b := range want {
		if ab.Bytes()[i] != b {
			t.Fatalf("byte %d: got %#x want %#x", i, ab.Bytes()[i], b)
		}
	}
	if got := ab.GetInt64(8); got != -2 {
		t.Errorf("GetInt64 = %d, want -2", got)
	}
}

func TestAtomicBuffer_StringRoundTrip(t *testing.T) {
	ab := Make(128)
	s := "abcç̀漢字仮名交じり文"
	n := ab.PutStringUtf8(4, s)
	if n != 4+len(s) {
		t.Fatalf("PutStringUtf8 returned %d, want %d", n, 4+len(s))
	}
	if got := ab.GetInt32(4); int(got) != len(s) {
		t.Errorf("length prefix = %d, want byte count %d", got, len(s))
	}
	got, used := ab.GetStringUtf8(4)
	if got != s || used != n {
		t.Errorf("GetStringUtf8 = (%q, %d), want (%q, %d)", got, used, s, n)
	}
}

func TestAtomicBuffer_BoundsError(t *testing.T) {
	ab := Make(8)
	if err := ab.CheckBounds(6, 4); err == nil {
		t.Fatal("expected bounds error")
	}

	defer func() {
		r := recover()
		var be *BoundsError
		err, ok := r.(error)
		if !ok || !errors.As(err, &be) {
			t.Fatalf("expected *BoundsError panic, got %v", r)
		}
		if be.Index != 6 || be.Capacity != 8 {
			t.Errorf("unexpected bounds error %+v", be)
		}
	}()
	ab.GetInt32(6)
}

func TestAtomicBuffer_AtomicOps(t *testing.T) {
	ab := Make(32)
	ab.PutInt64Ordered(8, 10)
	if !ab.CompareAndSetInt64(8, 10, 20) {
		t.Fatal("CAS should succeed")
	}
	if ab.CompareAndSetInt64(8, 10, 30) {
		t.Fatal("CAS should fail on stale expectation")
	}
	if prev := ab.GetAndAddInt64(8, 5); prev != 20 {
		t.Errorf("GetAndAdd returned %d, want 20", prev)
	}
	if v := ab.GetInt64Volatile(8); v != 25 {
		t.Errorf("volatile read = %d, want 25", v)
	}
	ab.PutInt32Ordered(16, -7)
	if v := ab.GetInt32(16); v != -7 {
		t.Errorf("plain read after ordered write = %d", v)
	}
}

func TestAtomicBuffer_SetMemory(t *testing.T) {
	ab := Make(8)
	ab.SetMemory(2, 4, 0xFF)
	for i, b := range ab.Bytes() {
		want := byte(0)
		if i >= 2 && i < 6 {
			want = 0xFF
		}
		if b != want {
			t.Fatalf("byte %d = %#x want %#x", i, b, want)
		}
	}
}
