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

// Phase locks are administrative booleans, orthogonal to the acquire
// protocol and to policy: a thread may set LockWriters while holding a read
// lock on the very same Gate. None of them can fail.

// LockReaders blocks admission of any new reader until UnlockReaders.
func (g *Gate) LockReaders() {
	g.mu.Lock()
	g.blockReaders = true
	g.cond.Broadcast()
	g.mu.Unlock()
}

// UnlockReaders clears the reader phase lock set by LockReaders.
func (g *Gate) UnlockReaders() {
	g.mu.Lock()
	g.blockReaders = false
	g.cond.Broadcast()
	g.mu.Unlock()
}

// LockWriters blocks admission of any new writer until UnlockWriters.
func (g *Gate) LockWriters() {
	g.mu.Lock()
	g.blockWriters = true
	g.cond.Broadcast()
	g.mu.Unlock()
}

// UnlockWriters clears the writer phase lock set by LockWriters.
func (g *Gate) UnlockWriters() {
	g.mu.Lock()
	g.blockWriters = false
	g.cond.Broadcast()
	g.mu.Unlock()
}

// LockShared is LockReaders and LockWriters together.
func (g *Gate) LockShared() {
	g.mu.Lock()
	g.blockReaders = true
	g.blockWriters = true
	g.cond.Broadcast()
	g.mu.Unlock()
}

// UnlockShared is UnlockReaders and UnlockWriters together.
func (g *Gate) UnlockShared() {
	g.mu.Lock()
	g.blockReaders = false
	g.blockWriters = false
	g.cond.Broadcast()
	g.mu.Unlock()
}
