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

import "github.com/google/uuid"

// ThreadIdentity is a process-unique token identifying a calling execution
// context (a goroutine, or whatever logical "thread" a caller wants to be
// recognized as). Go has no addressable equivalent of std::thread::id, so
// callers mint one explicitly with NewParticipant and pass it into every
// Gate operation they perform.
//
// ThreadIdentity is comparable and carries no behavior beyond identity: two
// values are the same participant iff they are ==.
type ThreadIdentity struct {
	id uuid.UUID
}

// NewParticipant mints a fresh, process-unique ThreadIdentity. Call once per
// logical thread and reuse the result for every Gate acquire/release the
// thread performs.
func NewParticipant() ThreadIdentity {
	return ThreadIdentity{id: uuid.New()}
}

// IsZero reports whether id is the zero ThreadIdentity (never minted by
// NewParticipant).
func (id ThreadIdentity) IsZero() bool {
	return id.id == uuid.Nil
}

func (id ThreadIdentity) String() string {
	return id.id.String()
}
