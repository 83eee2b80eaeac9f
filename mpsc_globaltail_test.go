// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"sync"
	"testing"

	"github.com/leana56/ring-buffers-research/ring"
)

// TestMPSCGlobalTailNonLossy covers spec.md §8's concrete scenario 5: R=4,
// P=3, C=1, each producer emits 10 payloads then 1 terminator. The consumer
// must receive exactly 30 data payloads and stop at the 3rd terminator,
// with each producer's 10 indices appearing in submission order in the
// merged stream.
func TestMPSCGlobalTailNonLossy(t *testing.T) {
	if ring.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	q := ring.NewMPSCGlobalTail[ring.InlinePayload](4)

	var producers sync.WaitGroup
	for p := 0; p < 3; p++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			base := uint64(id)*100 + 1
			for i := uint64(0); i < 10; i++ {
				q.Push(id, ring.NewInlinePayload(base+i, ring.FillBlank))
			}
			q.Push(id, ring.InlineTerminator())
		}(p)
	}

	var tail uint64
	var data []uint64
	terminations := 0
	for terminations < 3 {
		p := q.Pop(&tail)
		if p.Index == ring.Terminator {
			terminations++
			continue
		}
		data = append(data, p.Index)
	}
	producers.Wait()

	if len(data) != 30 {
		t.Fatalf("got %d data payloads, want 30", len(data))
	}

	lastSeen := map[uint64]uint64{}
	for _, idx := range data {
		producer := idx / 100
		if prev, ok := lastSeen[producer]; ok && idx <= prev {
			t.Fatalf("producer %d: index %d arrived out of order after %d", producer, idx, prev)
		}
		lastSeen[producer] = idx
	}
}
