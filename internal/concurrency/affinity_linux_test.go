//go:build linux

package concurrency

import "testing"

func TestPinCurrentThread_AllowedCPU(t *testing.T) {
	cpus, err := AllowedCPUs()
	if err != nil {
		t.Fatalf("AllowedCPUs: %v", err)
	}
	if len(cpus) == 0 {
		t.Skip("no allowed CPUs reported")
	}

	done := make(chan error, 1)
	go func() {
		if err := PinCurrentThread(cpus[0]); err != nil {
			done <- err
			return
		}
		done <- UnpinCurrentThread()
	}()
	if err := <-done; err != nil {
		t.Fatalf("pin/unpin: %v", err)
	}
}

func TestPinCurrentThread_RejectsOutOfRange(t *testing.T) {
	if err := PinCurrentThread(-1); err == nil {
		t.Error("expected error for negative cpu")
	}
	if err := PinCurrentThread(NumCPUs()); err == nil {
		t.Error("expected error for cpu beyond NumCPUs")
	}
}
