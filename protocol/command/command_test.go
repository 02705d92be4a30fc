package command

import (
	"testing"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
)

const multiByteChannel = "udp://abcç̀漢字仮名交じり文:40124"

func TestCorrelatedMessage_RoundTrip(t *testing.T) {
	ab := buffer.Make(512)
	var enc, dec CorrelatedMessage
	enc.Wrap(ab, 0)
	enc.SetClientID(0x7FFF_0000_1111).SetCorrelationID(-42)

	dec.Wrap(ab, 0)
	if dec.ClientID() != 0x7FFF_0000_1111 || dec.CorrelationID() != -42 {
		t.Errorf("decoded (%d, %d)", dec.ClientID(), dec.CorrelationID())
	}
	if dec.Length() != CorrelatedMessageLength {
		t.Errorf("Length = %d", dec.Length())
	}
}

func TestPublicationMessage_MultiByteChannel(t *testing.T) {
	ab := buffer.Make(512)
	var enc, dec PublicationMessage
	enc.Wrap(ab, 0)
	enc.SetClientID(3)
	enc.SetCorrelationID(100)
	enc.SetSessionID(1).SetStreamID(2).SetChannel(multiByteChannel)

	dec.Wrap(ab, 0)
	if dec.ClientID() != 3 || dec.CorrelationID() != 100 || dec.SessionID() != 1 || dec.StreamID() != 2 {
		t.Fatalf("fixed fields mismatch")
	}
	if got := dec.Channel(); got != multiByteChannel {
		t.Errorf("Channel = %q, want %q", got, multiByteChannel)
	}
	if dec.Length() != 28+len(multiByteChannel) {
		t.Errorf("Length = %d, want %d", dec.Length(), 28+len(multiByteChannel))
	}
}

func TestSubscriptionMessage_RoundTrip(t *testing.T) {
	ab := buffer.Make(512)
	var enc, dec SubscriptionMessage
	enc.Wrap(ab, 64)
	enc.SetClientID(9)
	enc.SetCorrelationID(11)
	enc.SetRegistrationCorrelationID(7).SetStreamID(10).SetChannel(multiByteChannel)

	dec.Wrap(ab, 64)
	if dec.ClientID() != 9 || dec.CorrelationID() != 11 || dec.RegistrationCorrelationID() != 7 || dec.StreamID() != 10 {
		t.Fatalf("fixed fields mismatch")
	}
	if dec.Channel() != multiByteChannel {
		t.Errorf("Channel = %q", dec.Channel())
	}
	if dec.Length() != 32+len(multiByteChannel) {
		t.Errorf("Length = %d", dec.Length())
	}
}

func TestRemoveMessage_RoundTrip(t *testing.T) {
	ab := buffer.Make(64)
	var enc, dec RemoveMessage
	enc.Wrap(ab, 0)
	enc.SetClientID(1)
	enc.SetCorrelationID(2)
	enc.SetRegistrationID(3).SetSessionID(4).SetStreamID(5)

	dec.Wrap(ab, 0)
	if dec.ClientID() != 1 || dec.CorrelationID() != 2 || dec.RegistrationID() != 3 ||
		dec.SessionID() != 4 || dec.StreamID() != 5 {
		t.Errorf("remove message fields mismatch")
	}
	if dec.Length() != RemoveMessageLength {
		t.Errorf("Length = %d", dec.Length())
	}
}

func TestPublicationReady_RoundTripAndZeroTail(t *testing.T) {
	const capacity = 512
	ab := buffer.Make(capacity)
	for i, b := range ab.Bytes() {
		if b != 0 {
			t.Fatalf("fresh buffer byte %d not zero", i)
		}
	}

	locations := []string{
		"/dev/shm/pub/0", "/dev/shm/pub/1", "/dev/shm/pub/2",
		"/dev/shm/pub/state/0", "/dev/shm/pub/state/1", "/dev/shm/pub/state/2",
	}
	var enc PublicationReady
	enc.Wrap(ab, 0)
	enc.SetCorrelationID(0xDEAD).SetSessionID(1).SetStreamID(2).SetTermID(3)
	for i := 0; i < PayloadBufferCount; i++ {
		enc.SetBufferOffset(i, int32(i*1024))
		enc.SetBufferLength(i, int32(65536+i))
		enc.SetLocation(i, locations[i])
	}
	enc.SetChannel("udp://localhost:4000")

	want := PublicationReadyHeaderLength + len("udp://localhost:4000")
	for _, l := range locations {
		want += len(l)
	}
	if enc.Length() != want {
		t.Fatalf("Length = %d, want %d", enc.Length(), want)
	}
	for i := enc.Length(); i < capacity; i++ {
		if ab.Bytes()[i] != 0 {
			t.Fatalf("byte %d beyond Length() was written", i)
		}
	}

	var dec PublicationReady
	dec.Wrap(ab, 0)
	if dec.CorrelationID() != 0xDEAD || dec.SessionID() != 1 || dec.StreamID() != 2 || dec.TermID() != 3 {
		t.Fatalf("fixed fields mismatch")
	}
	for i := 0; i < PayloadBufferCount; i++ {
		if dec.BufferOffset(i) != int32(i*1024) || dec.BufferLength(i) != int32(65536+i) {
			t.Errorf("buffer %d = (%d, %d)", i, dec.BufferOffset(i), dec.BufferLength(i))
		}
		if dec.Location(i) != locations[i] {
			t.Errorf("location %d = %q", i, dec.Location(i))
		}
	}
	if dec.Channel() != "udp://localhost:4000" {
		t.Errorf("Channel = %q", dec.Channel())
	}
}

func TestPublicationReady_PartialLength(t *testing.T) {
	ab := buffer.Make(256)
	var m PublicationReady
	m.Wrap(ab, 0)
	if m.Length() != PublicationReadyHeaderLength {
		t.Fatalf("empty Length = %d", m.Length())
	}
	m.SetLocation(0, "a").SetLocation(1, "bc")
	if m.Length() != PublicationReadyHeaderLength+3 {
		t.Errorf("Length = %d, want %d", m.Length(), PublicationReadyHeaderLength+3)
	}
}

func TestErrorResponse_RoundTrip(t *testing.T) {
	ab := buffer.Make(256)
	var enc, dec ErrorResponse
	enc.Wrap(ab, 0)
	enc.SetOffendingCorrelationID(77).SetErrorCode(api.ErrCodeUnknownPublication).SetErrorMessage("no such publication")

	dec.Wrap(ab, 0)
	if dec.OffendingCorrelationID() != 77 || dec.ErrorCode() != api.ErrCodeUnknownPublication {
		t.Fatalf("fixed fields mismatch")
	}
	if dec.ErrorMessage() != "no such publication" {
		t.Errorf("message = %q", dec.ErrorMessage())
	}
	if dec.Length() != 16+len("no such publication") {
		t.Errorf("Length = %d", dec.Length())
	}
}

func TestConnectionMessage_RoundTrip(t *testing.T) {
	ab := buffer.Make(256)
	var enc, dec ConnectionMessage
	enc.Wrap(ab, 0)
	enc.SetCorrelationID(5).SetSessionID(6).SetStreamID(7).SetTermID(8).SetChannel(multiByteChannel)

	dec.Wrap(ab, 0)
	if dec.CorrelationID() != 5 || dec.SessionID() != 6 || dec.StreamID() != 7 || dec.TermID() != 8 {
		t.Fatalf("fixed fields mismatch")
	}
	if dec.Channel() != multiByteChannel {
		t.Errorf("Channel = %q", dec.Channel())
	}
}

func TestTypeName(t *testing.T) {
	if TypeName(AddPublication) != "ADD_PUBLICATION" || TypeName(OnError) != "ON_ERROR" || TypeName(0x77) != "UNKNOWN" {
		t.Error("unexpected type names")
	}
}
