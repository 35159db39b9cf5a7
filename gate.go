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

// Package sharedmutex implements a pluggable shared/exclusive
// synchronization primitive, the Gate, governing concurrent access to a
// shared resource by three kinds of participant: readers, writers, and
// exclusive holders.
//
// Which kind wins contention is chosen at construction by a Policy:
//
//	XClusive    readers and writers serialize through the same predicate
//	RoundRobin  only the registered participant whose turn it is is admitted
//	Reader      writers wait for current and future readers to drain
//	Writer      writers always pass; readers wait while a reader and a writer are both active
//	None        writers serialize against each other and against readers
//
// Every admission (read, write) is the conjunction of two independent
// layers: a universal guard (is anyone exclusive, is the role
// administratively blocked, is the reader cap full) and a policy-specific
// predicate (the table above). A caller never participates in more than
// one role at a time: re-acquiring any role while the caller's
// ThreadIdentity already holds one is refused as ErrReentry.
//
// Orthogonal to all of this, a Gate also offers a stronger exclusive lock
// (ExclusiveAcquire/ExclusiveRelease) that drains every reader and writer
// and holds the Gate alone, three administrative phase locks that can block
// new readers, new writers, or both regardless of policy, and a
// process-wide cap on the number of concurrently admitted readers shared
// by every Gate in the program.
//
//	readers, writers, futureReaders, ... (separate plain counters, mutex-guarded)
//
// Unlike the teacher this package borrows its condvar-and-broadcast shape
// from, Gate state is not packed into a single lock-free word: the
// admission predicates here depend on five-plus fields and one independent
// process-wide value (the reader cap), so a single mutex guarding plain
// fields is both simpler and no less correct.
package sharedmutex

import (
	"sync"
	"time"
)

// role records which kind of lock a ThreadIdentity currently holds on a
// Gate, for reentry detection and release validation.
type role int

const (
	roleNone role = iota
	roleReader
	roleWriter
	roleExclusive
)

// Gate is a pluggable shared/exclusive lock. The zero Gate is not usable;
// construct one with New.
type Gate struct {
	mu   sync.Mutex
	cond *sync.Cond

	name   string
	policy Policy

	readAdmit  predicate
	writeAdmit predicate

	readers        int
	writers        int
	futureReaders  int
	exclusiveHeld  bool
	exclusiveAsked int // count of parked exclusive acquirers; advisory

	blockReaders bool
	blockWriters bool

	turnRing  []ThreadIdentity
	turnIndex int

	running map[ThreadIdentity]role
}

// New constructs a Gate arbitrating contention per policy. The name is used
// only to label the Gate's exported Prometheus metrics; pass "" to leave it
// unlabeled but still share the process-wide reader cap with every other
// Gate.
func New(policy Policy, name string) *Gate {
	g := &Gate{
		name:       name,
		policy:     policy,
		readAdmit:  readPredicateFor(policy),
		writeAdmit: writePredicateFor(policy),
		running:    make(map[ThreadIdentity]role),
	}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// NumberOfReaders returns the current count of admitted readers.
func (g *Gate) NumberOfReaders() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readers
}

// NumberOfWriters returns the current count of admitted writers.
func (g *Gate) NumberOfWriters() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writers
}

// NumberOfFutureReaders returns the current count of threads parked trying
// to read.
func (g *Gate) NumberOfFutureReaders() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.futureReaders
}

// Notify forces every parked waiter to re-evaluate its admission predicate.
// Useful after an out-of-band change (a process-wide reader cap change, in
// particular) that the Gate itself had no way to broadcast for.
func (g *Gate) Notify() {
	g.mu.Lock()
	g.cond.Broadcast()
	g.mu.Unlock()
}

func (g *Gate) heldBy(id ThreadIdentity) bool {
	_, ok := g.running[id]
	return ok
}

// universalRead is Layer A for read acquires.
func (g *Gate) universalRead() bool {
	if g.exclusiveHeld || g.exclusiveAsked > 0 {
		return false
	}
	if g.blockReaders {
		return false
	}
	if cap := GetReaderCap(); cap != NoLimitReaders && g.readers >= cap {
		return false
	}
	return true
}

// universalWrite is Layer A for write acquires.
func (g *Gate) universalWrite() bool {
	if g.exclusiveHeld || g.exclusiveAsked > 0 {
		return false
	}
	return !g.blockWriters
}

func (g *Gate) admitRead(id ThreadIdentity) bool {
	return g.universalRead() && g.readAdmit(g, id)
}

func (g *Gate) admitWrite(id ThreadIdentity) bool {
	return g.universalWrite() && g.writeAdmit(g, id)
}

func (g *Gate) admitExclusive() bool {
	return !g.exclusiveHeld && g.readers == 0 && g.writers == 0
}

// parkForever blocks on the Gate's condition variable until pred holds. The
// Gate mutex must already be held.
func (g *Gate) parkForever(pred func() bool) {
	for !pred() {
		g.cond.Wait()
	}
}

// parkUntil blocks on the Gate's condition variable until pred holds or
// deadline passes, returning whether pred held. The Gate mutex must already
// be held. A timer broadcasts at the deadline so that a parked waiter that
// would otherwise sleep forever is woken to notice the expiry.
func (g *Gate) parkUntil(pred func() bool, deadline time.Time) bool {
	if pred() {
		return true
	}
	timer := time.AfterFunc(time.Until(deadline), func() {
		g.mu.Lock()
		g.cond.Broadcast()
		g.mu.Unlock()
	})
	defer timer.Stop()
	for !pred() {
		if !time.Now().Before(deadline) {
			return false
		}
		g.cond.Wait()
	}
	return true
}

// advanceTurn moves the round-robin cursor forward. Only meaningful (and
// only invoked) under the RoundRobin policy.
func (g *Gate) advanceTurn() {
	if len(g.turnRing) > 0 {
		g.turnIndex = (g.turnIndex + 1) % len(g.turnRing)
	}
}

func (g *Gate) callerHasTurn(caller ThreadIdentity) bool {
	if len(g.turnRing) == 0 {
		return false
	}
	return g.turnRing[g.turnIndex] == caller
}

// --- Read ---------------------------------------------------------------

// ReadAcquire blocks until admitted as a reader. It returns ErrReentry
// without blocking if the caller already holds any role on this Gate.
func (g *Gate) ReadAcquire(id ThreadIdentity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.heldBy(id) {
		return ErrReentry
	}
	g.futureReaders++
	g.refreshMetrics()
	g.parkForever(func() bool { return g.admitRead(id) })
	g.commitRead(id)
	return nil
}

// TryReadAcquire polls for read admission once and returns immediately; it
// never blocks. It is equivalent to TryReadAcquireTimeout(id, 0).
func (g *Gate) TryReadAcquire(id ThreadIdentity) bool {
	return g.tryReadAcquire(id, 0, false)
}

// TryReadAcquireTimeout parks for at most timeout trying to be admitted as
// a reader, returning whether admission succeeded.
func (g *Gate) TryReadAcquireTimeout(id ThreadIdentity, timeout time.Duration) bool {
	return g.tryReadAcquire(id, timeout, true)
}

func (g *Gate) tryReadAcquire(id ThreadIdentity, timeout time.Duration, park bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.heldBy(id) {
		return false
	}
	g.futureReaders++
	g.refreshMetrics()
	var granted bool
	if !park || timeout <= 0 {
		granted = g.admitRead(id)
	} else {
		granted = g.parkUntil(func() bool { return g.admitRead(id) }, time.Now().Add(timeout))
	}
	if !granted {
		g.futureReaders--
		g.refreshMetrics()
		return false
	}
	g.commitRead(id)
	return true
}

func (g *Gate) commitRead(id ThreadIdentity) {
	g.futureReaders--
	g.readers++
	g.running[id] = roleReader
	if g.policy == RoundRobin {
		g.advanceTurn()
	}
	g.refreshMetrics()
}

// ReadRelease releases the caller's read hold. Releasing a role the caller
// does not hold is a programming error; it is tolerated as a no-op rather
// than treated as fatal.
func (g *Gate) ReadRelease(id ThreadIdentity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[id] != roleReader {
		return
	}
	g.readers--
	delete(g.running, id)
	g.refreshMetrics()
	g.cond.Broadcast()
}

// --- Write ----------------------------------------------------------------

// WriteAcquire blocks until admitted as a writer. It returns ErrReentry
// without blocking if the caller already holds any role on this Gate.
func (g *Gate) WriteAcquire(id ThreadIdentity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.heldBy(id) {
		return ErrReentry
	}
	g.parkForever(func() bool { return g.admitWrite(id) })
	g.commitWrite(id)
	return nil
}

// TryWriteAcquire polls for write admission once and returns immediately;
// it never blocks. It is equivalent to TryWriteAcquireTimeout(id, 0).
func (g *Gate) TryWriteAcquire(id ThreadIdentity) bool {
	return g.tryWriteAcquire(id, 0, false)
}

// TryWriteAcquireTimeout parks for at most timeout trying to be admitted as
// a writer, returning whether admission succeeded.
func (g *Gate) TryWriteAcquireTimeout(id ThreadIdentity, timeout time.Duration) bool {
	return g.tryWriteAcquire(id, timeout, true)
}

func (g *Gate) tryWriteAcquire(id ThreadIdentity, timeout time.Duration, park bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.heldBy(id) {
		return false
	}
	var granted bool
	if !park || timeout <= 0 {
		granted = g.admitWrite(id)
	} else {
		granted = g.parkUntil(func() bool { return g.admitWrite(id) }, time.Now().Add(timeout))
	}
	if !granted {
		return false
	}
	g.commitWrite(id)
	return true
}

func (g *Gate) commitWrite(id ThreadIdentity) {
	g.writers++
	g.running[id] = roleWriter
	if g.policy == RoundRobin {
		g.advanceTurn()
	}
	g.refreshMetrics()
}

// WriteRelease releases the caller's write hold. Releasing a role the
// caller does not hold is a programming error; it is tolerated as a no-op.
func (g *Gate) WriteRelease(id ThreadIdentity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[id] != roleWriter {
		return
	}
	g.writers--
	delete(g.running, id)
	g.refreshMetrics()
	g.cond.Broadcast()
}

// --- Exclusive --------------------------------------------------------------

// ExclusiveAcquire blocks until the caller holds the Gate exclusively: no
// readers, no writers, no other exclusive holder. It starves out new reads
// and writes the moment it is called, regardless of policy. It returns
// ErrReentry without blocking if the caller already holds any role on this
// Gate.
func (g *Gate) ExclusiveAcquire(id ThreadIdentity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.heldBy(id) {
		return ErrReentry
	}
	g.exclusiveAsked++
	g.parkForever(g.admitExclusive)
	g.exclusiveAsked--
	g.exclusiveHeld = true
	g.running[id] = roleExclusive
	g.refreshMetrics()
	return nil
}

// TryExclusiveAcquire polls once for exclusive admission and returns
// immediately; it never blocks. It is equivalent to
// TryExclusiveAcquireTimeout(id, 0).
func (g *Gate) TryExclusiveAcquire(id ThreadIdentity) bool {
	return g.tryExclusiveAcquire(id, 0, false)
}

// TryExclusiveAcquireTimeout parks for at most timeout trying to acquire
// the Gate exclusively, returning whether admission succeeded.
func (g *Gate) TryExclusiveAcquireTimeout(id ThreadIdentity, timeout time.Duration) bool {
	return g.tryExclusiveAcquire(id, timeout, true)
}

func (g *Gate) tryExclusiveAcquire(id ThreadIdentity, timeout time.Duration, park bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.heldBy(id) {
		return false
	}
	g.exclusiveAsked++
	var granted bool
	if !park || timeout <= 0 {
		granted = g.admitExclusive()
	} else {
		granted = g.parkUntil(g.admitExclusive, time.Now().Add(timeout))
	}
	g.exclusiveAsked--
	if !granted {
		return false
	}
	g.exclusiveHeld = true
	g.running[id] = roleExclusive
	g.refreshMetrics()
	return true
}

// ExclusiveRelease releases the caller's exclusive hold. Releasing a role
// the caller does not hold is a programming error; it is tolerated as a
// no-op.
func (g *Gate) ExclusiveRelease(id ThreadIdentity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[id] != roleExclusive {
		return
	}
	g.exclusiveHeld = false
	delete(g.running, id)
	g.refreshMetrics()
	g.cond.Broadcast()
}
