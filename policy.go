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

// Policy selects which kind of participant a Gate favors under contention.
// It is chosen once, at construction, and never changes for the lifetime of
// a Gate.
type Policy int

const (
	// XClusive arbitrates reads and writes through the same "one at a
	// time" admission predicate. Unlike the Gate's exclusive* operations,
	// arbitration among the admitted role is left to the OS scheduler.
	XClusive Policy = iota
	// RoundRobin admits only the identity at the head of the registered
	// turn ring, for both reads and writes.
	RoundRobin
	// Reader favors readers: writers wait for current and future readers
	// to drain.
	Reader
	// Writer favors writers: writes are always admitted, and a new reader
	// is refused while a reader and a writer are both admitted. A reader
	// joins a readers-only state, and is also admitted alongside a writer
	// when no other reader is present.
	Writer
	// None serializes writers against each other and against readers, but
	// imposes no preference between waiting readers and writers beyond
	// that.
	None
)

func (p Policy) String() string {
	switch p {
	case XClusive:
		return "XClusive"
	case RoundRobin:
		return "RoundRobin"
	case Reader:
		return "Reader"
	case Writer:
		return "Writer"
	case None:
		return "None"
	default:
		return "Policy(?)"
	}
}

// predicate is a pure function of the Gate's counters plus the caller's
// identity, evaluated while the Gate mutex is held. It never mutates g.
type predicate func(g *Gate, caller ThreadIdentity) bool

// readPredicateFor returns the Layer-B (policy-specific) read admission
// predicate for p. Layer A (the universal guards) is applied separately by
// the Gate before consulting this predicate.
func readPredicateFor(p Policy) predicate {
	switch p {
	case XClusive:
		return func(g *Gate, _ ThreadIdentity) bool {
			return g.readers+g.writers == 0
		}
	case RoundRobin:
		return func(g *Gate, caller ThreadIdentity) bool {
			return g.readers+g.writers == 0 && g.callerHasTurn(caller)
		}
	case Reader:
		return func(g *Gate, _ ThreadIdentity) bool {
			return true
		}
	case Writer:
		return func(g *Gate, _ ThreadIdentity) bool {
			// Refuse only when a reader and a writer are both admitted;
			// a reader still joins readers-only, or a writer alone.
			return !(g.readers >= 1 && g.writers > 0)
		}
	case None:
		return func(g *Gate, _ ThreadIdentity) bool {
			return g.writers == 0
		}
	default:
		return func(*Gate, ThreadIdentity) bool { return false }
	}
}

// writePredicateFor returns the Layer-B write admission predicate for p.
func writePredicateFor(p Policy) predicate {
	switch p {
	case XClusive:
		return func(g *Gate, _ ThreadIdentity) bool {
			return g.readers+g.writers == 0
		}
	case RoundRobin:
		return func(g *Gate, caller ThreadIdentity) bool {
			return g.readers+g.writers == 0 && g.callerHasTurn(caller)
		}
	case Reader:
		return func(g *Gate, _ ThreadIdentity) bool {
			// Writers wait for current AND future readers to drain.
			return g.readers == 0 && g.futureReaders == 0
		}
	case Writer:
		return func(g *Gate, _ ThreadIdentity) bool {
			return true
		}
	case None:
		return func(g *Gate, _ ThreadIdentity) bool {
			// Serializes writers; multiple readers permitted.
			return g.writers == 0 && g.readers == 0
		}
	default:
		return func(*Gate, ThreadIdentity) bool { return false }
	}
}
