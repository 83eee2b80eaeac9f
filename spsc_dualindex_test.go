// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"testing"

	"github.com/leana56/ring-buffers-research/ring"
)

// TestSPSCDualIndexScenario covers spec.md §8's concrete scenario 1: R=4,
// producer emits indices 1..=8 then a terminator; consumer receives every
// index in order followed by the terminator, with zero loss and zero
// duplicates.
func TestSPSCDualIndexScenario(t *testing.T) {
	q := ring.NewSPSCDualIndex[ring.InlinePayload](4)

	go func() {
		for i := uint64(1); i <= 8; i++ {
			q.Push(0, ring.NewInlinePayload(i, ring.FillBlank))
		}
		q.Push(0, ring.InlineTerminator())
	}()

	var tail uint64
	var got []uint64
	for {
		p := q.Pop(&tail)
		if p.Index == ring.Terminator {
			break
		}
		got = append(got, p.Index)
	}

	if len(got) != 8 {
		t.Fatalf("got %d indices, want 8: %v", len(got), got)
	}
	for i, v := range got {
		if v != uint64(i+1) {
			t.Fatalf("index %d: got %d, want %d", i, v, i+1)
		}
	}
}

// TestSPSCDualIndexCapacityOne exercises spec.md §8's RING_SIZE=1 boundary:
// push/pop must strictly alternate, and the queue must still round its
// requested capacity up to a power of two (here, to the minimum of 2).
func TestSPSCDualIndexCapacityOne(t *testing.T) {
	q := ring.NewSPSCDualIndex[ring.InlinePayload](1)
	if q.Cap() != 2 {
		t.Fatalf("capacity: got %d, want 2", q.Cap())
	}

	for i := uint64(1); i <= 4; i++ {
		q.Push(0, ring.NewInlinePayload(i, ring.FillBlank))
		var tail uint64
		got := q.Pop(&tail)
		if got.Index != i {
			t.Fatalf("iteration %d: got index %d, want %d", i, got.Index, i)
		}
	}
}
