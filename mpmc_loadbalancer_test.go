// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"sync"
	"testing"

	"github.com/leana56/ring-buffers-research/ring"
)

// TestMPMCLoadBalancerDisjointRanges covers spec.md §8's concrete scenario
// 3: R=4, P=2, C=2, each producer emits a disjoint 100-index range then 2
// terminators. The aggregate received set across both consumers must equal
// the union of both producers' ranges with no duplicates, and each consumer
// must see exactly 2 terminators total (of the 4 emitted).
func TestMPMCLoadBalancerDisjointRanges(t *testing.T) {
	if ring.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	q := ring.NewMPMCLoadBalancer[ring.InlinePayload](4)
	ranges := [][2]uint64{{1, 100}, {100001, 100100}}

	var producers sync.WaitGroup
	for _, r := range ranges {
		producers.Add(1)
		go func(lo, hi uint64) {
			defer producers.Done()
			for i := lo; i <= hi; i++ {
				q.Push(0, ring.NewInlinePayload(i, ring.FillBlank))
			}
			q.Push(0, ring.InlineTerminator())
			q.Push(0, ring.InlineTerminator())
		}(r[0], r[1])
	}

	type result struct {
		indices      []uint64
		terminations int
	}
	results := make([]result, 2)
	var consumers sync.WaitGroup
	for c := 0; c < 2; c++ {
		consumers.Add(1)
		go func(id int) {
			defer consumers.Done()
			var tail uint64
			var res result
			for res.terminations < 2 {
				p := q.Pop(&tail)
				if p.Index == ring.Terminator {
					res.terminations++
					continue
				}
				res.indices = append(res.indices, p.Index)
			}
			results[id] = res
		}(c)
	}

	producers.Wait()
	consumers.Wait()

	seen := make(map[uint64]int)
	total := 0
	for _, res := range results {
		if res.terminations != 2 {
			t.Fatalf("consumer saw %d terminators, want 2", res.terminations)
		}
		for _, idx := range res.indices {
			seen[idx]++
			total++
		}
	}

	if total != 200 {
		t.Fatalf("aggregate received count: got %d, want 200", total)
	}
	for _, r := range ranges {
		for i := r[0]; i <= r[1]; i++ {
			if seen[i] != 1 {
				t.Fatalf("index %d: received %d times, want exactly 1", i, seen[i])
			}
		}
	}
}
