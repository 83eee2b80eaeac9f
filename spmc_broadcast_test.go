// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"sync"
	"testing"

	"github.com/leana56/ring-buffers-research/ring"
)

// TestSPMCBroadcastFanOut covers spec.md §8's concrete scenario 4: R=8,
// P=1, C=3, producer emits 1..=50 then 1 terminator. Each of the 3
// consumers must independently receive the full sequence and exactly 1
// terminator, for 150 total data pops across all consumers.
func TestSPMCBroadcastFanOut(t *testing.T) {
	q := ring.NewSPMCBroadcast[ring.InlinePayload](8)

	const consumers = 3
	subs := make([]ring.BroadcastReceiver[ring.InlinePayload], consumers)
	for i := range subs {
		subs[i] = q.Subscribe()
	}

	var wg sync.WaitGroup
	results := make([][]uint64, consumers)
	for i := range subs {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var tail uint64
			for {
				p := subs[id].Pop(&tail)
				if p.Index == ring.Terminator {
					return
				}
				results[id] = append(results[id], p.Index)
			}
		}(i)
	}

	for i := uint64(1); i <= 50; i++ {
		q.Push(0, ring.NewInlinePayload(i, ring.FillBlank))
	}
	q.Push(0, ring.InlineTerminator())

	wg.Wait()

	total := 0
	for id, got := range results {
		if len(got) != 50 {
			t.Fatalf("consumer %d: got %d indices, want 50", id, len(got))
		}
		for i, v := range got {
			if v != uint64(i+1) {
				t.Fatalf("consumer %d index %d: got %d, want %d", id, i, v, i+1)
			}
		}
		total += len(got)
	}
	if total != 150 {
		t.Fatalf("aggregate data pop count: got %d, want 150", total)
	}

	for _, s := range subs {
		s.Unsubscribe()
	}
}
