package protocol_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/protocol"
)

func TestHeader_ByteExactLayout(t *testing.T) {
	ab := buffer.Make(512)
	var h protocol.HeaderFlyweight
	h.Wrap(ab, 0)
	h.SetVersion(1).SetFlags(protocol.BeginAndEndFlags).SetHeaderType(protocol.HdrTypeData).SetFrameLength(8)

	want := []byte{0x01, 0xC0, protocol.HdrTypeData, 0x00, 0x08, 0x00, 0x00, 0x00}
	if got := ab.Bytes()[:8]; !bytes.Equal(got, want) {
		t.Fatalf("header bytes = % x, want % x", got, want)
	}
}

func TestHeader_ReadWhatIsWritten(t *testing.T) {
	ab := buffer.Make(512)
	var enc, dec protocol.HeaderFlyweight
	enc.Wrap(ab, 0)
	enc.SetVersion(1).SetFlags(0).SetHeaderType(protocol.HdrTypeData).SetFrameLength(8)

	dec.Wrap(ab, 0)
	if dec.Version() != 1 || dec.HeaderType() != protocol.HdrTypeData || dec.FrameLength() != 8 {
		t.Errorf("decoded header = v%d type %d len %d", dec.Version(), dec.HeaderType(), dec.FrameLength())
	}
}

func TestHeader_MultipleFramesAreIndependent(t *testing.T) {
	ab := buffer.Make(512)
	var enc, dec protocol.HeaderFlyweight

	enc.Wrap(ab, 0)
	enc.SetVersion(1).SetFlags(0).SetHeaderType(protocol.HdrTypeData).SetFrameLength(8)
	enc.Wrap(ab, 8)
	enc.SetVersion(2).SetFlags(0x01).SetHeaderType(protocol.HdrTypeSM).SetFrameLength(8)

	dec.Wrap(ab, 0)
	if dec.Version() != 1 || dec.Flags() != 0 || dec.HeaderType() != protocol.HdrTypeData || dec.FrameLength() != 8 {
		t.Errorf("frame @0 corrupted: v%d f%d t%d l%d", dec.Version(), dec.Flags(), dec.HeaderType(), dec.FrameLength())
	}
	dec.Wrap(ab, 8)
	if dec.Version() != 2 || dec.Flags() != 0x01 || dec.HeaderType() != protocol.HdrTypeSM || dec.FrameLength() != 8 {
		t.Errorf("frame @8 corrupted: v%d f%d t%d l%d", dec.Version(), dec.Flags(), dec.HeaderType(), dec.FrameLength())
	}
}

func encodeDataHeader(ab *buffer.AtomicBuffer, offset int) *protocol.DataHeaderFlyweight {
	var d protocol.DataHeaderFlyweight
	d.Wrap(ab, offset)
	d.SetVersion(1).SetFlags(protocol.BeginAndEndFlags).SetHeaderType(protocol.HdrTypeData).SetFrameLength(protocol.DataHeaderLength)
	d.SetSessionID(-559038737).SetStreamID(0x44332211).SetTermID(-1719109786).SetTermOffset(0x100)
	return &d
}

func TestDataHeader_RoundTrip(t *testing.T) {
	ab := buffer.Make(512)
	encodeDataHeader(ab, 0)

	var dec protocol.DataHeaderFlyweight
	dec.Wrap(ab, 0)
	if dec.Flags() != protocol.BeginAndEndFlags || dec.HeaderType() != protocol.HdrTypeData {
		t.Fatalf("unexpected header fields")
	}
	if dec.SessionID() != -559038737 || dec.StreamID() != 0x44332211 || dec.TermID() != -1719109786 || dec.TermOffset() != 0x100 {
		t.Errorf("data fields mismatch: %d %d %d %d", dec.SessionID(), dec.StreamID(), dec.TermID(), dec.TermOffset())
	}
	if dec.DataOffset() != protocol.DataHeaderLength {
		t.Errorf("DataOffset = %d, want %d", dec.DataOffset(), protocol.DataHeaderLength)
	}
}

func TestNak_RoundTrip(t *testing.T) {
	ab := buffer.Make(512)
	var enc, dec protocol.NakFlyweight
	enc.Wrap(ab, 0)
	enc.SetVersion(1).SetFlags(0).SetHeaderType(protocol.HdrTypeNak).SetFrameLength(protocol.NakHeaderLength)
	enc.SetSessionID(-559038737).SetStreamID(0x44332211).SetTermID(-1719109786).SetTermOffset(0x22334).SetLength(512)

	dec.Wrap(ab, 0)
	if dec.HeaderType() != protocol.HdrTypeNak || dec.FrameLength() != protocol.NakHeaderLength {
		t.Fatalf("unexpected NAK header")
	}
	if dec.SessionID() != -559038737 || dec.StreamID() != 0x44332211 || dec.TermID() != -1719109786 ||
		dec.TermOffset() != 0x22334 || dec.Length() != 512 {
		t.Errorf("NAK fields mismatch")
	}
}

func TestStatusMessage_RoundTrip(t *testing.T) {
	ab := buffer.Make(64)
	var enc, dec protocol.StatusMessageFlyweight
	enc.Wrap(ab, 8)
	enc.SetVersion(1).SetHeaderType(protocol.HdrTypeSM).SetFrameLength(protocol.StatusMessageLength)
	enc.SetSessionID(7).SetStreamID(9).SetTermID(11).SetCompletedTermOffset(4096).SetReceiverWindow(1 << 16)

	dec.Wrap(ab, 8)
	if dec.SessionID() != 7 || dec.StreamID() != 9 || dec.TermID() != 11 ||
		dec.CompletedTermOffset() != 4096 || dec.ReceiverWindow() != 1<<16 {
		t.Errorf("SM fields mismatch")
	}
}

func TestErrorFrame_WithoutErrorString(t *testing.T) {
	original := buffer.Make(256)
	data := encodeDataHeader(original, 0)

	ab := buffer.Make(512)
	var enc, dec protocol.ErrorFlyweight
	enc.Wrap(ab, 0)
	enc.SetVersion(1).SetFlags(0).SetHeaderType(protocol.HdrTypeErr)
	enc.SetFrameLength(data.FrameLength() + protocol.ErrorHeaderLength)
	enc.SetOffendingHeader(data, int(data.FrameLength()))

	dec.Wrap(ab, 0)
	if dec.FrameLength() != data.FrameLength()+protocol.ErrorHeaderLength {
		t.Fatalf("frame length = %d", dec.FrameLength())
	}
	if dec.OffendingHeaderOffset() != protocol.ErrorHeaderLength {
		t.Errorf("offending header offset = %d", dec.OffendingHeaderOffset())
	}
	if dec.ErrorStringLength() != 0 || dec.ErrorMessage() != nil {
		t.Errorf("expected no error text, got %d bytes", dec.ErrorStringLength())
	}

	var embedded protocol.DataHeaderFlyweight
	embedded.Wrap(ab, dec.OffendingHeaderOffset())
	if embedded.SessionID() != -559038737 || embedded.StreamID() != 0x44332211 || embedded.TermID() != -1719109786 {
		t.Errorf("embedded frame fields mismatch")
	}
	if embedded.DataOffset() != int(data.FrameLength())+protocol.ErrorHeaderLength {
		t.Errorf("embedded DataOffset = %d", embedded.DataOffset())
	}
}

func TestErrorFrame_WithErrorString(t *testing.T) {
	const errorString = "this is an error"
	original := buffer.Make(256)
	data := encodeDataHeader(original, 0)
	l := int(data.FrameLength())

	ab := buffer.Make(512)
	var enc, dec protocol.ErrorFlyweight
	enc.Wrap(ab, 0)
	enc.SetVersion(1).SetHeaderType(protocol.HdrTypeErr)
	enc.SetFrameLength(int32(l + protocol.ErrorHeaderLength + len(errorString)))
	enc.SetOffendingHeader(data, l)
	enc.SetErrorMessage([]byte(errorString))

	dec.Wrap(ab, 0)
	if int(dec.FrameLength()) != l+protocol.ErrorHeaderLength+len(errorString) {
		t.Fatalf("frame length = %d", dec.FrameLength())
	}
	if dec.ErrorMessageOffset() != l+protocol.ErrorHeaderLength {
		t.Errorf("error message offset = %d", dec.ErrorMessageOffset())
	}
	if dec.ErrorStringLength() != len(errorString) {
		t.Errorf("error string length = %d", dec.ErrorStringLength())
	}
	if got := string(dec.ErrorMessage()); got != errorString {
		t.Errorf("error message = %q", got)
	}

	var embedded protocol.DataHeaderFlyweight
	embedded.Wrap(ab, dec.OffendingHeaderOffset())
	if embedded.FrameLength() != data.FrameLength() {
		t.Errorf("embedded frame length = %d", embedded.FrameLength())
	}
}

func TestValidateHeader(t *testing.T) {
	ab := buffer.Make(64)
	encodeDataHeader(ab, 0)

	typ, length, err := protocol.ValidateHeader(ab, 0, 64)
	if err != nil || typ != protocol.HdrTypeData || length != protocol.DataHeaderLength {
		t.Fatalf("ValidateHeader = (%d, %d, %v)", typ, length, err)
	}

	if _, _, err := protocol.ValidateHeader(ab, 0, 4); !errors.Is(err, protocol.ErrFrameTooShort) {
		t.Errorf("short frame: %v", err)
	}
	if _, _, err := protocol.ValidateHeader(ab, 0, 16); !errors.Is(err, protocol.ErrFrameLengthInvalid) {
		t.Errorf("truncated frame: %v", err)
	}

	var h protocol.HeaderFlyweight
	h.Wrap(ab, 0)
	h.SetHeaderType(0x7F)
	if _, _, err := protocol.ValidateHeader(ab, 0, 64); !errors.Is(err, protocol.ErrUnknownFrameType) {
		t.Errorf("unknown type: %v", err)
	}
	h.SetHeaderType(protocol.HdrTypeData).SetVersion(9)
	if _, _, err := protocol.ValidateHeader(ab, 0, 64); !errors.Is(err, protocol.ErrVersionMismatch) {
		t.Errorf("bad version: %v", err)
	}
}

func TestAlignedLength(t *testing.T) {
	for in, want := range map[int]int{0: 0, 1: 8, 8: 8, 9: 16, 24: 24} {
		if got := protocol.AlignedLength(in); got != want {
			t.Errorf("AlignedLength(%d) = %d, want %d", in, got, want)
		}
	}
}
