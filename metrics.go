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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readersGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharedmutex",
		Name:      "readers",
		Help:      "Current number of admitted readers on a gate.",
	}, []string{"gate"})

	writersGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharedmutex",
		Name:      "writers",
		Help:      "Current number of admitted writers on a gate.",
	}, []string{"gate"})

	futureReadersGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharedmutex",
		Name:      "future_readers",
		Help:      "Current number of threads parked trying to read on a gate.",
	}, []string{"gate"})
)

// refreshMetrics mirrors the Gate's counters into its Prometheus gauges.
// Called with the Gate mutex held, immediately after every state change
// that moves readers, writers, or futureReaders. Unnamed gates ("") still
// publish under the empty label, merged across every unnamed Gate in the
// process — name your Gates if you run more than one and care about their
// metrics individually.
func (g *Gate) refreshMetrics() {
	readersGauge.WithLabelValues(g.name).Set(float64(g.readers))
	writersGauge.WithLabelValues(g.name).Set(float64(g.writers))
	futureReadersGauge.WithLabelValues(g.name).Set(float64(g.futureReaders))
}
