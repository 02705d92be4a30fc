package driver

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/core/concurrency"
	"github.com/momentics/hioload-mediadriver/fake"
	"github.com/momentics/hioload-mediadriver/protocol/command"
)

func TestSenderProxy_BacklogPreservesOrder(t *testing.T) {
	p := NewSenderProxy(2)
	factory := &fake.TermBuffersFactory{}
	ch := mustParse(t, testChannel)

	var pubs []*Publication
	for i := 0; i < 5; i++ {
		tb, _ := factory.NewPublication(testChannel, 1, int32(i))
		pub := newPublication(int64(i), 1, 1, int32(i), 0, ch, tb, 0)
		pubs = append(pubs, pub)
		if !p.NewPublication(pub) {
			t.Fatal("offer rejected")
		}
	}
	if p.Spilled() != 3 || p.Pending() != 5 {
		t.Fatalf("spilled=%d pending=%d", p.Spilled(), p.Pending())
	}

	var got []int64
	collect := func(cmd SenderCommand) {
		if cmd.Type != SenderNewPublication {
			t.Errorf("type = %d", cmd.Type)
		}
		got = append(got, cmd.Publication.RegistrationID())
	}
	for p.Pending() > 0 {
		p.Drain(collect, 10)
		p.Flush()
	}
	for i, id := range got {
		if id != int64(i) {
			t.Fatalf("order = %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("drained %d commands", len(got))
	}
}

func TestReceiverProxy_QueuesCommands(t *testing.T) {
	p := NewReceiverProxy(8)
	ep := newReceiveChannelEndpoint(mustParse(t, testChannel))
	p.RegisterEndpoint(ep)
	p.AddSubscription(ep, 3)
	p.RemoveSubscription(ep, 3)
	p.CloseReceiveChannelEndpoint(ep)

	want := []ReceiverCommandType{ReceiverRegisterEndpoint, ReceiverAddSubscription, ReceiverRemoveSubscription, ReceiverCloseEndpoint}
	var got []ReceiverCommandType
	p.Drain(func(cmd ReceiverCommand) { got = append(got, cmd.Type) }, 10)
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %d want %d", i, got[i], want[i])
		}
	}
}

func TestDriverConductorProxy_Bounded(t *testing.T) {
	p := NewDriverConductorProxy(2)
	if !p.CreateConnection(testChannel, 1, 2, 3) || !p.CreateConnection(testChannel, 1, 2, 4) {
		t.Fatal("enqueue failed below capacity")
	}
	if p.CreateConnection(testChannel, 1, 2, 5) {
		t.Error("enqueue succeeded beyond capacity")
	}
	if p.Len() != 2 {
		t.Errorf("Len = %d", p.Len())
	}
}

func newBroadcastPair(t *testing.T, capacity int) (*concurrency.BroadcastTransmitter, *concurrency.BroadcastReceiver) {
	t.Helper()
	buf := buffer.Make(capacity + concurrency.BroadcastTrailerLength)
	tx, err := concurrency.NewBroadcastTransmitter(buf)
	if err != nil {
		t.Fatal(err)
	}
	rx, err := concurrency.NewBroadcastReceiver(buf)
	if err != nil {
		t.Fatal(err)
	}
	return tx, rx
}

func TestClientProxy_EncodesResponses(t *testing.T) {
	tx, rx := newBroadcastPair(t, 64<<10)
	p := NewClientProxy(tx, zerolog.Nop())
	tb := &fake.TermBuffers{Name: "x", TermLength: 1024}

	if !p.OnPublicationReady(testChannel, 1, 2, 3, tb, 10) || !p.OperationSucceeded(11) ||
		!p.OnError(0, "bad", 12) || !p.OnNewConnection(testChannel, 1, 2, 3, 13) {
		t.Fatal("write failed")
	}
	var types []int32
	rx.Receive(func(typeID int32, _ *buffer.AtomicBuffer, _, _ int) {
		types = append(types, typeID)
	}, 10)
	want := []int32{command.OnPublicationReady, command.OnOperationSucceeded, command.OnError, command.OnNewConnection}
	if len(types) != len(want) {
		t.Fatalf("records = %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("record %d type = %d, want %d", i, types[i], want[i])
		}
	}
}

func TestClientProxy_TruncatesErrorOnRuneBoundary(t *testing.T) {
	// 1024-byte region: 128-byte records leave 112 bytes of message.
	tx, rx := newBroadcastPair(t, 1024)
	p := NewClientProxy(tx, zerolog.Nop())

	message := "a" + strings.Repeat("\u00e9", 100)
	if !p.OnError(api.ErrCodeGeneric, message, 5) {
		t.Fatal("write failed")
	}
	var decoded command.ErrorResponse
	var got string
	rx.Receive(func(_ int32, buf *buffer.AtomicBuffer, offset, _ int) {
		decoded.Wrap(buf, offset)
		got = decoded.ErrorMessage()
	}, 1)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated message is not valid UTF-8: %q", got)
	}
	if len(got) != 111 || !strings.HasPrefix(message, got) {
		t.Errorf("message length = %d, want 111", len(got))
	}
}
