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
	"sync"
	"time"
)

// DefaultMemorySpaceSize is the capacity cmd/gatedemo passes to
// NewMemorySpace, and the size of the buffer a Reader reads into.
// NewMemorySpace itself always takes an explicit size.
const DefaultMemorySpaceSize = 4096

const (
	readSettleDelay  = 50 * time.Microsecond
	writeSettleDelay = 50 * time.Microsecond
)

// MemorySpace is a fixed-capacity byte buffer serving as the example
// shared resource a Gate protects. It is not itself safe against
// concurrent readers and writers racing each other on purpose: the Gate is
// meant to be the thing that serializes access to it, and MemorySpace only
// takes a short internal lock to protect its own write cursor, plus a
// small synthetic delay after that critical section to widen timing
// windows for tests exercising the surrounding Gate.
type MemorySpace struct {
	mu          sync.Mutex
	maxSize     int
	writePos    int
	data        []byte
	settleRead  time.Duration
	settleWrite time.Duration
}

// NewMemorySpace constructs a MemorySpace with the given maximum capacity.
func NewMemorySpace(size int) *MemorySpace {
	return &MemorySpace{
		maxSize:     size,
		data:        make([]byte, size),
		settleRead:  readSettleDelay,
		settleWrite: writeSettleDelay,
	}
}

// Write appends up to n bytes from buf at the current write position. It
// returns the number of bytes written, or 0 if n bytes would overflow the
// buffer's capacity.
func (m *MemorySpace) Write(buf []byte, n int) int {
	if n > len(buf) {
		n = len(buf)
	}
	m.mu.Lock()
	if m.writePos+n > m.maxSize {
		m.mu.Unlock()
		return 0
	}
	copy(m.data[m.writePos:m.writePos+n], buf[:n])
	m.writePos += n
	m.mu.Unlock()

	time.Sleep(m.settleWrite)
	return n
}

// Read copies the last n bytes written into buf, returning the number of
// bytes actually copied (at most n, at most the current size, at most
// len(buf)).
func (m *MemorySpace) Read(buf []byte, n int) int {
	m.mu.Lock()
	avail := m.writePos
	if n > avail {
		n = avail
	}
	if n > len(buf) {
		n = len(buf)
	}
	start := avail - n
	copy(buf[:n], m.data[start:avail])
	m.mu.Unlock()

	time.Sleep(m.settleRead)
	return n
}

// Size returns the number of bytes currently written.
func (m *MemorySpace) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writePos
}

// Restart resets the write position to the beginning without clearing the
// underlying buffer's contents.
func (m *MemorySpace) Restart() {
	m.mu.Lock()
	m.writePos = 0
	m.mu.Unlock()
}
