// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"testing"
	"time"

	"github.com/leana56/ring-buffers-research/ring"
)

// TestSPSCSafeSkipLapGap covers spec.md §8's concrete scenario 6: R=4,
// producer emits 1..=4 and the consumer drains them normally; the producer
// then emits 8 more indices with no consumer progress in between, lapping
// the ring twice over. On resume, the consumer's next pop must return the
// most recently written slot's value, not the oldest unread index (5).
func TestSPSCSafeSkipLapGap(t *testing.T) {
	q := ring.NewSPSCSafeSkipShared[ring.InlinePayload](4)

	for i := uint64(1); i <= 4; i++ {
		q.Push(0, ring.NewInlinePayload(i, ring.FillBlank))
	}
	var tail uint64
	for i := uint64(1); i <= 4; i++ {
		got := q.Pop(&tail)
		if got.Index != i {
			t.Fatalf("initial drain index %d: got %d, want %d", i, got.Index, i)
		}
	}

	for i := uint64(5); i <= 12; i++ {
		q.Push(0, ring.NewInlinePayload(i, ring.FillBlank))
	}

	got := q.Pop(&tail)
	if got.Index != 12 {
		t.Fatalf("post-lap pop: got index %d, want 12 (the most recently written slot)", got.Index)
	}
}

// TestSPSCSafeSkipLossUnderConsumerBurn covers spec.md §8's concrete
// scenario 2: a small ring (R=2) with a producer running far ahead of a
// deliberately slow consumer must report loss without duplicates.
func TestSPSCSafeSkipLossUnderConsumerBurn(t *testing.T) {
	if ring.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	const n = 1000
	q := ring.NewSPSCSafeSkipShared[ring.InlinePayload](2)

	go func() {
		for i := uint64(1); i <= n; i++ {
			q.Push(0, ring.NewInlinePayload(i, ring.FillBlank))
		}
		q.Push(0, ring.InlineTerminator())
	}()

	seen := make(map[uint64]int)
	var tail uint64
	for {
		p := q.Pop(&tail)
		if p.Index == ring.Terminator {
			break
		}
		seen[p.Index]++
		time.Sleep(2 * time.Microsecond)
	}

	duplicates := 0
	for _, count := range seen {
		if count > 1 {
			duplicates += count - 1
		}
	}
	if duplicates != 0 {
		t.Fatalf("safe-skipping must never duplicate: got %d duplicate observations", duplicates)
	}
	if len(seen) >= n {
		t.Fatalf("expected loss (fewer than %d distinct indices observed) under a slow consumer, got %d", n, len(seen))
	}
}
