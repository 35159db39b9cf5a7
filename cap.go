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

import "sync"

// NoLimitReaders is the sentinel reader-cap value meaning the cap is
// disabled. It is the default until SetReaderCap is called.
const NoLimitReaders = -1

var (
	capMu     sync.Mutex
	readerCap = NoLimitReaders
)

// SetReaderCap sets the process-wide cap on concurrently admitted readers,
// shared by every Gate in the program. Pass NoLimitReaders to disable it.
// Lowering the cap never evicts readers already admitted; it only denies
// future admissions. Raising or disabling the cap does not by itself wake
// parked writers or readers that became eligible as a result — call
// (*Gate).Notify, or rely on the next Release/phase-lock toggle, to force
// re-evaluation.
func SetReaderCap(n int) {
	capMu.Lock()
	readerCap = n
	capMu.Unlock()
}

// GetReaderCap returns the current process-wide reader cap, or
// NoLimitReaders if none is set.
func GetReaderCap() int {
	capMu.Lock()
	defer capMu.Unlock()
	return readerCap
}
