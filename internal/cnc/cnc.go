// File: internal/cnc/cnc.go
// Package cnc
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Command-and-control file shared by the driver and its clients:
//
//	0    version i32
//	4    command ring length i32 (data region + trailer)
//	8    to-clients broadcast length i32 (data region + trailer)
//	16   driver pid i64
//	24   driver start time, unix ms i64
//	128  command ring
//	...  to-clients broadcast buffer, 128-byte aligned

package cnc

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/core/concurrency"
	"github.com/momentics/hioload-mediadriver/internal/shm"
)

const (
	// Version is bumped on any layout change.
	Version int32 = 2

	versionOffset         = 0
	commandLengthOffset   = 4
	toClientsLengthOffset = 8
	pidOffset             = 16
	startTimeOffset       = 24

	// HeaderLength precedes the first ring.
	HeaderLength = 128
	alignment    = 128
)

// ErrVersionMismatch is returned when opening a file of another layout.
var ErrVersionMismatch = errors.New("cnc: version mismatch")

// File is a mapped CnC file with its command ring and response broadcast.
type File struct {
	mapped    *shm.MappedFile
	header    *buffer.AtomicBuffer
	commands  *concurrency.ManyToOneRingBuffer
	toClients *concurrency.BroadcastTransmitter
}

func align(v int) int {
	return (v + alignment - 1) &^ (alignment - 1)
}

// Create writes a fresh CnC file with buffers of the given data region capacities.
func Create(path string, commandCapacity, toClientsCapacity int) (*File, error) {
	cmdLen := commandCapacity + concurrency.TrailerLength
	toClientsLen := toClientsCapacity + concurrency.BroadcastTrailerLength
	size := align(HeaderLength+cmdLen) + toClientsLen

	mf, err := shm.Create(path, size)
	if err != nil {
		return nil, err
	}
	header := buffer.Wrap(mf.Bytes()[:HeaderLength])
	header.PutInt32(commandLengthOffset, int32(cmdLen))
	header.PutInt32(toClientsLengthOffset, int32(toClientsLen))
	header.PutInt64(pidOffset, int64(os.Getpid()))
	header.PutInt64(startTimeOffset, time.Now().UnixMilli())

	f, err := mapRings(mf, header)
	if err != nil {
		mf.CloseAndRemove()
		return nil, err
	}
	// version last: a client seeing it may trust the rest of the header
	header.PutInt32Ordered(versionOffset, Version)
	return f, nil
}

// Open maps an existing CnC file created by a driver.
func Open(path string) (*File, error) {
	mf, err := shm.Open(path)
	if err != nil {
		return nil, err
	}
	if len(mf.Bytes()) < HeaderLength {
		mf.Close()
		return nil, fmt.Errorf("%w: %s too short", shm.ErrInvalidSize, path)
	}
	header := buffer.Wrap(mf.Bytes()[:HeaderLength])
	if v := header.GetInt32Volatile(versionOffset); v != Version {
		mf.Close()
		return nil, fmt.Errorf("%w: file=%d expected=%d", ErrVersionMismatch, v, Version)
	}
	f, err := mapRings(mf, header)
	if err != nil {
		mf.Close()
		return nil, err
	}
	return f, nil
}

func mapRings(mf *shm.MappedFile, header *buffer.AtomicBuffer) (*File, error) {
	mem := mf.Bytes()
	cmdLen := int(header.GetInt32(commandLengthOffset))
	toClientsLen := int(header.GetInt32(toClientsLengthOffset))
	toClientsStart := align(HeaderLength + cmdLen)
	if cmdLen <= 0 || toClientsLen <= 0 || toClientsStart+toClientsLen > len(mem) {
		return nil, fmt.Errorf("%w: ring lengths %d/%d exceed file of %d bytes", shm.ErrInvalidSize, cmdLen, toClientsLen, len(mem))
	}

	commands, err := concurrency.NewManyToOneRingBuffer(buffer.Wrap(mem[HeaderLength : HeaderLength+cmdLen]))
	if err != nil {
		return nil, fmt.Errorf("cnc: command ring: %w", err)
	}
	toClients, err := concurrency.NewBroadcastTransmitter(buffer.Wrap(mem[toClientsStart : toClientsStart+toClientsLen]))
	if err != nil {
		return nil, fmt.Errorf("cnc: to-clients broadcast: %w", err)
	}
	return &File{mapped: mf, header: header, commands: commands, toClients: toClients}, nil
}

// CommandRing carries client commands to the driver.
func (f *File) CommandRing() *concurrency.ManyToOneRingBuffer { return f.commands }

// ToClients is the driver side of the response broadcast.
func (f *File) ToClients() *concurrency.BroadcastTransmitter { return f.toClients }

// NewToClientsReceiver returns a private cursor over the response broadcast,
// starting after the last response already sent.
func (f *File) NewToClientsReceiver() (*concurrency.BroadcastReceiver, error) {
	return concurrency.NewBroadcastReceiver(f.toClients.Buffer())
}

// Path returns the file location.
func (f *File) Path() string { return f.mapped.Path() }

// DriverPID returns the pid recorded by the creating driver.
func (f *File) DriverPID() int64 { return f.header.GetInt64(pidOffset) }

// StartTime returns when the driver created the file.
func (f *File) StartTime() time.Time { return time.UnixMilli(f.header.GetInt64(startTimeOffset)) }

// Close unmaps the file and leaves it on disk.
func (f *File) Close() error { return f.mapped.Close() }

// CloseAndRemove unmaps and deletes the file.
func (f *File) CloseAndRemove() error { return f.mapped.CloseAndRemove() }
