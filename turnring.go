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

// Register appends id to the round-robin turn ring. Only meaningful under
// RoundRobin; harmless (but inert) under any other policy.
func (g *Gate) Register(id ThreadIdentity) {
	g.mu.Lock()
	g.turnRing = append(g.turnRing, id)
	g.mu.Unlock()
}

// Unregister removes id from the round-robin turn ring, adjusting the turn
// cursor so no entry is skipped as a result of the removal.
func (g *Gate) Unregister(id ThreadIdentity) {
	g.mu.Lock()
	for i, t := range g.turnRing {
		if t == id {
			g.turnRing = append(g.turnRing[:i], g.turnRing[i+1:]...)
			break
		}
	}
	if g.turnIndex > 0 {
		g.turnIndex--
	}
	if len(g.turnRing) > 0 {
		g.turnIndex %= len(g.turnRing)
	} else {
		g.turnIndex = 0
	}
	g.cond.Broadcast()
	g.mu.Unlock()
}
