// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package sharedmutex

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DataGenerator supplies the bytes a Writer appends to its MemorySpace on
// each write cycle.
type DataGenerator interface {
	// Data returns the payload for one write.
	Data() []byte
}

// ConstantByteGenerator is a DataGenerator that always emits a single
// repeated byte value. It is the generator cmd/gatedemo gives its writers,
// and the one NewWriter falls back to when passed a nil generator.
type ConstantByteGenerator struct {
	Value byte
	Len   int
}

// Data returns Len copies of Value (Len defaults to 1 if unset).
func (c ConstantByteGenerator) Data() []byte {
	n := c.Len
	if n <= 0 {
		n = 1
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = c.Value
	}
	return buf
}

// atomicFlag is a goroutine-safe boolean stop flag, the realization of the
// original's RWOut.
type atomicFlag struct {
	v int32
}

func (f *atomicFlag) set() {
	atomic.StoreInt32(&f.v, 1)
}

func (f *atomicFlag) isSet() bool {
	return atomic.LoadInt32(&f.v) == 1
}

// Reader repeatedly acquires a Gate for read, reads from a MemorySpace, and
// releases, until Stop is called. It registers with the Gate's round-robin
// ring on Start and unregisters on Stop.
type Reader struct {
	gate    *Gate
	space   *MemorySpace
	id      ThreadIdentity
	sleep   time.Duration
	stopped atomicFlag
	done    chan struct{}
}

// NewReader constructs a Reader that will operate against space through
// gate, sleeping sleep between read cycles.
func NewReader(gate *Gate, space *MemorySpace, sleep time.Duration) *Reader {
	return &Reader{
		gate:  gate,
		space: space,
		id:    NewParticipant(),
		sleep: sleep,
		done:  make(chan struct{}),
	}
}

// Start spawns the reader's loop goroutine.
func (r *Reader) Start() {
	r.gate.Register(r.id)
	go r.loop()
}

func (r *Reader) loop() {
	defer close(r.done)
	defer r.gate.Unregister(r.id)
	buf := make([]byte, DefaultMemorySpaceSize)
	for !r.stopped.isSet() {
		if err := r.gate.ReadAcquire(r.id); err != nil {
			logger.Warn("reader could not acquire", zap.String("id", r.id.String()), zap.Error(err))
			return
		}
		r.space.Read(buf, len(buf))
		r.gate.ReadRelease(r.id)
		if r.sleep > 0 {
			time.Sleep(r.sleep)
		}
	}
}

// PunctualRead performs a single timed read-acquire/read/release cycle
// outside of the continuous loop, returning the number of bytes read and
// whether the acquire was granted within timeout.
func (r *Reader) PunctualRead(buf []byte, timeout time.Duration) (int, bool) {
	if !r.gate.TryReadAcquireTimeout(r.id, timeout) {
		return 0, false
	}
	defer r.gate.ReadRelease(r.id)
	return r.space.Read(buf, len(buf)), true
}

// Stop signals the reader's loop to exit and waits for it to do so.
func (r *Reader) Stop() {
	r.stopped.set()
	<-r.done
}

// Writer repeatedly acquires a Gate for write, writes generated data to a
// MemorySpace, and releases, until Stop is called. It registers with the
// Gate's round-robin ring on Start and unregisters on Stop.
type Writer struct {
	gate      *Gate
	space     *MemorySpace
	generator DataGenerator
	id        ThreadIdentity
	sleep     time.Duration
	stopped   atomicFlag
	done      chan struct{}
}

// NewWriter constructs a Writer that will operate against space through
// gate, sleeping sleep between write cycles. generator supplies payloads;
// if nil, ConstantByteGenerator{Value: 'x', Len: 1} is used.
func NewWriter(gate *Gate, space *MemorySpace, generator DataGenerator, sleep time.Duration) *Writer {
	if generator == nil {
		generator = ConstantByteGenerator{Value: 'x', Len: 1}
	}
	return &Writer{
		gate:      gate,
		space:     space,
		generator: generator,
		id:        NewParticipant(),
		sleep:     sleep,
		done:      make(chan struct{}),
	}
}

// SetDataGenerator replaces the writer's data generator.
func (w *Writer) SetDataGenerator(g DataGenerator) {
	w.generator = g
}

// Start spawns the writer's loop goroutine.
func (w *Writer) Start() {
	w.gate.Register(w.id)
	go w.loop()
}

func (w *Writer) loop() {
	defer close(w.done)
	defer w.gate.Unregister(w.id)
	for !w.stopped.isSet() {
		if err := w.gate.WriteAcquire(w.id); err != nil {
			logger.Warn("writer could not acquire", zap.String("id", w.id.String()), zap.Error(err))
			return
		}
		payload := w.generator.Data()
		w.space.Write(payload, len(payload))
		w.gate.WriteRelease(w.id)
		if w.sleep > 0 {
			time.Sleep(w.sleep)
		}
	}
}

// Stop signals the writer's loop to exit and waits for it to do so.
func (w *Writer) Stop() {
	w.stopped.set()
	<-w.done
}
