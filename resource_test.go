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

func TestMemorySpaceWriteThenReadLastN(t *testing.T) {
	m := NewMemorySpace(16)
	n := m.Write([]byte("hello"), 5)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, m.Size())

	n = m.Write([]byte("world"), 5)
	assert.Equal(t, 5, n)
	assert.Equal(t, 10, m.Size())

	buf := make([]byte, 5)
	got := m.Read(buf, 5)
	assert.Equal(t, 5, got)
	assert.Equal(t, "world", string(buf[:got]))
}

func TestMemorySpaceOverflowReturnsZero(t *testing.T) {
	m := NewMemorySpace(4)
	assert.Equal(t, 4, m.Write([]byte("abcd"), 4))
	assert.Equal(t, 0, m.Write([]byte("e"), 1))
	assert.Equal(t, 4, m.Size())
}

func TestMemorySpaceRestart(t *testing.T) {
	m := NewMemorySpace(8)
	m.Write([]byte("abcd"), 4)
	assert.Equal(t, 4, m.Size())
	m.Restart()
	assert.Equal(t, 0, m.Size())
	assert.Equal(t, 4, m.Write([]byte("wxyz"), 4))
}

func TestMemorySpaceReadMoreThanWrittenClamped(t *testing.T) {
	m := NewMemorySpace(8)
	m.Write([]byte("ab"), 2)
	buf := make([]byte, 10)
	got := m.Read(buf, 10)
	assert.Equal(t, 2, got)
	assert.Equal(t, "ab", string(buf[:got]))
}
