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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyStringer(t *testing.T) {
	cases := map[Policy]string{
		XClusive:   "XClusive",
		RoundRobin: "RoundRobin",
		Reader:     "Reader",
		Writer:     "Writer",
		None:       "None",
	}
	for p, want := range cases {
		assert.Equal(t, want, p.String())
	}
	assert.Equal(t, "Policy(?)", Policy(99).String())
}

// Layer-B predicate table, exercised directly against bare Gate field
// states (Layer A is intentionally not involved here).

func TestNoneReadPredicate(t *testing.T) {
	g := &Gate{}
	read := readPredicateFor(None)
	assert.True(t, read(g, ThreadIdentity{}))
	g.writers = 1
	assert.False(t, read(g, ThreadIdentity{}))
}

func TestNoneWritePredicate(t *testing.T) {
	g := &Gate{}
	write := writePredicateFor(None)
	assert.True(t, write(g, ThreadIdentity{}))
	g.readers = 1
	assert.False(t, write(g, ThreadIdentity{}))
	g.readers = 0
	g.writers = 1
	assert.False(t, write(g, ThreadIdentity{}))
}

func TestReaderPolicyPredicates(t *testing.T) {
	g := &Gate{}
	read := readPredicateFor(Reader)
	write := writePredicateFor(Reader)

	g.writers = 5
	assert.True(t, read(g, ThreadIdentity{}), "READER read predicate ignores writers")

	g.writers = 0
	g.readers = 1
	assert.False(t, write(g, ThreadIdentity{}))

	g.readers = 0
	g.futureReaders = 1
	assert.False(t, write(g, ThreadIdentity{}))

	g.futureReaders = 0
	assert.True(t, write(g, ThreadIdentity{}))
}

func TestWriterPolicyPredicates(t *testing.T) {
	g := &Gate{}
	read := readPredicateFor(Writer)
	write := writePredicateFor(Writer)

	assert.True(t, write(g, ThreadIdentity{}), "WRITER write predicate is always true")

	assert.True(t, read(g, ThreadIdentity{}))
	g.readers = 1
	assert.True(t, read(g, ThreadIdentity{}), "a solitary reader coexists with readers-only")
	g.writers = 1
	assert.False(t, read(g, ThreadIdentity{}), "readers can't start while a writer is active")
}

func TestXClusivePolicyPredicates(t *testing.T) {
	g := &Gate{}
	read := readPredicateFor(XClusive)
	write := writePredicateFor(XClusive)

	assert.True(t, read(g, ThreadIdentity{}))
	assert.True(t, write(g, ThreadIdentity{}))
	g.readers = 1
	assert.False(t, read(g, ThreadIdentity{}))
	assert.False(t, write(g, ThreadIdentity{}))
}

func TestRoundRobinPolicyPredicates(t *testing.T) {
	g := &Gate{}
	caller := NewParticipant()
	other := NewParticipant()
	g.turnRing = []ThreadIdentity{other, caller}
	g.turnIndex = 1

	read := readPredicateFor(RoundRobin)
	write := writePredicateFor(RoundRobin)

	assert.True(t, read(g, caller))
	assert.False(t, read(g, other))
	assert.True(t, write(g, caller))
	assert.False(t, write(g, other))

	g.readers = 1
	assert.False(t, read(g, caller), "no admission while anyone already holds the gate")
}
