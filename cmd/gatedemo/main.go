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

// Command gatedemo drives a Gate with a handful of reader and writer
// goroutines for a fixed duration and prints the final counts. It plays
// the role the teacher's own benchmark harness (ilock_test.go) plays for
// that package: a way to watch the primitive under realistic contention,
// here promoted to a standalone CLI since the Gate's contract spans more
// knobs (policy, cap, phase locks) than a benchmark table conveniently
// exercises.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	sharedmutex "github.com/kkeijuro/shared-mutex"
)

func policyFromFlag(s string) (sharedmutex.Policy, error) {
	switch s {
	case "xclusive":
		return sharedmutex.XClusive, nil
	case "roundrobin":
		return sharedmutex.RoundRobin, nil
	case "reader":
		return sharedmutex.Reader, nil
	case "writer":
		return sharedmutex.Writer, nil
	case "none":
		return sharedmutex.None, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (want one of xclusive, roundrobin, reader, writer, none)", s)
	}
}

func main() {
	var (
		policyFlag string
		readers    int
		writers    int
		readerCap  int
		duration   time.Duration
		byteValue  uint8
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "gatedemo",
		Short: "Drive a shared-mutex Gate with reader/writer goroutines",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policyFromFlag(policyFlag)
			if err != nil {
				return err
			}

			var log *zap.Logger
			if verbose {
				log, err = zap.NewDevelopment()
			} else {
				log = zap.NewNop()
			}
			if err != nil {
				return err
			}
			sharedmutex.SetLogger(log)

			if readerCap > 0 {
				sharedmutex.SetReaderCap(readerCap)
				defer sharedmutex.SetReaderCap(sharedmutex.NoLimitReaders)
			}

			gate := sharedmutex.New(policy, "gatedemo")
			space := sharedmutex.NewMemorySpace(sharedmutex.DefaultMemorySpaceSize)

			rs := make([]*sharedmutex.Reader, readers)
			for i := range rs {
				rs[i] = sharedmutex.NewReader(gate, space, time.Millisecond)
				rs[i].Start()
			}
			ws := make([]*sharedmutex.Writer, writers)
			for i := range ws {
				ws[i] = sharedmutex.NewWriter(gate, space, sharedmutex.ConstantByteGenerator{Value: byteValue, Len: 1}, time.Millisecond)
				ws[i].Start()
			}

			time.Sleep(duration)

			for _, r := range rs {
				r.Stop()
			}
			for _, w := range ws {
				w.Stop()
			}

			fmt.Printf("policy=%s readers=%d writers=%d final_size=%d\n", policy, gate.NumberOfReaders(), gate.NumberOfWriters(), space.Size())
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVar(&policyFlag, "policy", "reader", "arbitration policy: xclusive, roundrobin, reader, writer, none")
	flags.IntVar(&readers, "readers", 4, "number of reader goroutines")
	flags.IntVar(&writers, "writers", 4, "number of writer goroutines")
	flags.IntVar(&readerCap, "cap", 0, "process-wide reader cap (0 = no cap)")
	flags.DurationVar(&duration, "duration", 2*time.Second, "how long to run before stopping all workers")
	flags.Uint8Var(&byteValue, "byte", 'x', "byte value writers append")
	flags.BoolVar(&verbose, "verbose", false, "log worker acquire failures")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
