package cnc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/core/concurrency"
)

func TestCreateOpenSharesRings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cnc.dat")
	drv, err := Create(path, 4096, 8192)
	if err != nil {
		t.Fatal(err)
	}
	defer drv.CloseAndRemove()

	cli, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	if cli.DriverPID() != int64(os.Getpid()) {
		t.Errorf("pid = %d", cli.DriverPID())
	}
	if cli.CommandRing().Capacity() != 4096 || cli.ToClients().Capacity() != 8192 {
		t.Fatalf("capacities = %d/%d", cli.CommandRing().Capacity(), cli.ToClients().Capacity())
	}

	src := buffer.Make(8)
	src.PutInt64(0, 77)
	if err := cli.CommandRing().Write(3, src, 0, 8); err != nil {
		t.Fatal(err)
	}
	var got int64
	n := drv.CommandRing().Read(func(typeID int32, buf *buffer.AtomicBuffer, offset, length int) {
		got = buf.GetInt64(offset)
	}, 10)
	if n != 1 || got != 77 {
		t.Errorf("driver read n=%d value=%d", n, got)
	}

	if cli.CommandRing().NextCorrelationID() != 0 || drv.CommandRing().NextCorrelationID() != 1 {
		t.Error("correlation counter is not shared")
	}

	first, err := cli.NewToClientsReceiver()
	if err != nil {
		t.Fatal(err)
	}
	second, err := cli.NewToClientsReceiver()
	if err != nil {
		t.Fatal(err)
	}
	src.PutInt64(0, 88)
	if err := drv.ToClients().Transmit(4, src, 0, 8); err != nil {
		t.Fatal(err)
	}
	for i, rx := range []*concurrency.BroadcastReceiver{first, second} {
		got = 0
		n = rx.Receive(func(typeID int32, buf *buffer.AtomicBuffer, offset, length int) {
			got = buf.GetInt64(offset)
		}, 10)
		if n != 1 || got != 88 {
			t.Errorf("receiver %d read n=%d value=%d", i, n, got)
		}
	}
}

func TestOpenRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cnc.dat")
	f, err := Create(path, 4096, 4096)
	if err != nil {
		t.Fatal(err)
	}
	f.header.PutInt32(versionOffset, 99)
	f.Close()

	if _, err := Open(path); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}
