// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Safe-skipping SPSC: the producer never stalls for a full ring — it always
// writes (overwriting the oldest unread slot if necessary) and advances
// head. The consumer holds a private local tail; when it detects the
// producer has lapped it, it skips forward to head-1 rather than blocking.
// Grounded on the source's rings/spsc/safe_skipping.rs.
//
// The source ships three packaging variants distinguished by how the ring
// is held (Box-indirect slot storage vs. inline slots vs. a single struct
// serving as both sender and receiver) — a distinction that matters for
// Rust's ownership model but collapses in Go, where every variant here is
// already just a shared pointer handed to both goroutines. [SPSCSafeSkipBoxed]
// and [SPSCSafeSkipInline] keep the representational difference (slots
// individually heap-allocated vs. contiguous) for traceability against the
// source; [SPSCSafeSkipShared] is the minimal packaging with no per-slot
// indirection and no extra bookkeeping, matching the third source variant's
// "just another reference to the same object" framing.

type ssSlot[T any] struct {
	seq  atomix.Uint64
	data T
}

// SPSCSafeSkipBoxed stores each slot behind its own pointer.
type SPSCSafeSkipBoxed[T any] struct {
	head  atomix.Uint64
	slots []*ssSlot[T]
	mask  uint64
}

func NewSPSCSafeSkipBoxed[T any](capacity int) *SPSCSafeSkipBoxed[T] {
	n := uint64(roundToPow2(capacity))
	slots := make([]*ssSlot[T], n)
	for i := range slots {
		slots[i] = &ssSlot[T]{}
	}
	return &SPSCSafeSkipBoxed[T]{slots: slots, mask: n - 1}
}

func (q *SPSCSafeSkipBoxed[T]) Push(_ int, elem T) {
	head := q.head.LoadRelaxed()
	slot := q.slots[head&q.mask]
	slot.data = elem
	slot.seq.StoreRelease(head + 1)
	q.head.StoreRelease(head + 1)
}

func (q *SPSCSafeSkipBoxed[T]) Pop(localTail *uint64) T {
	capacity := q.mask + 1
	sw := spin.Wait{}
	for {
		tail := *localTail
		slot := q.slots[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		if seq == tail+1 {
			elem := slot.data
			slot.seq.StoreRelease(tail + capacity)
			*localTail = tail + 1
			return elem
		}
		if seq == tail {
			sw.Once() // not yet written
			continue
		}
		// lapped: skip to the most recent slot.
		head := q.head.LoadAcquire()
		if head == 0 {
			*localTail = 0
		} else {
			*localTail = head - 1
		}
	}
}

func (q *SPSCSafeSkipBoxed[T]) Cap() int { return int(q.mask + 1) }

// SPSCSafeSkipInline stores slots contiguously, with no per-slot pointer
// indirection.
type SPSCSafeSkipInline[T any] struct {
	head  atomix.Uint64
	slots []ssSlot[T]
	mask  uint64
}

func NewSPSCSafeSkipInline[T any](capacity int) *SPSCSafeSkipInline[T] {
	n := uint64(roundToPow2(capacity))
	return &SPSCSafeSkipInline[T]{slots: make([]ssSlot[T], n), mask: n - 1}
}

func (q *SPSCSafeSkipInline[T]) Push(_ int, elem T) {
	head := q.head.LoadRelaxed()
	slot := &q.slots[head&q.mask]
	slot.data = elem
	slot.seq.StoreRelease(head + 1)
	q.head.StoreRelease(head + 1)
}

func (q *SPSCSafeSkipInline[T]) Pop(localTail *uint64) T {
	capacity := q.mask + 1
	sw := spin.Wait{}
	for {
		tail := *localTail
		slot := &q.slots[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		if seq == tail+1 {
			elem := slot.data
			slot.seq.StoreRelease(tail + capacity)
			*localTail = tail + 1
			return elem
		}
		if seq == tail {
			sw.Once()
			continue
		}
		head := q.head.LoadAcquire()
		if head == 0 {
			*localTail = 0
		} else {
			*localTail = head - 1
		}
	}
}

func (q *SPSCSafeSkipInline[T]) Cap() int { return int(q.mask + 1) }

// SPSCSafeSkipShared is the minimal packaging: one struct, no cursor
// caching, no slot indirection beyond the backing slice itself — handed
// to both the producer and the consumer goroutine as the same pointer.
type SPSCSafeSkipShared[T any] struct {
	head  atomix.Uint64
	slots []ssSlot[T]
	mask  uint64
}

func NewSPSCSafeSkipShared[T any](capacity int) *SPSCSafeSkipShared[T] {
	n := uint64(roundToPow2(capacity))
	return &SPSCSafeSkipShared[T]{slots: make([]ssSlot[T], n), mask: n - 1}
}

func (q *SPSCSafeSkipShared[T]) Push(_ int, elem T) {
	head := q.head.LoadRelaxed()
	slot := &q.slots[head&q.mask]
	slot.data = elem
	slot.seq.StoreRelease(head + 1)
	q.head.StoreRelease(head + 1)
}

func (q *SPSCSafeSkipShared[T]) Pop(localTail *uint64) T {
	capacity := q.mask + 1
	sw := spin.Wait{}
	for {
		tail := *localTail
		slot := &q.slots[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		if seq == tail+1 {
			elem := slot.data
			slot.seq.StoreRelease(tail + capacity)
			*localTail = tail + 1
			return elem
		}
		if seq == tail {
			sw.Once()
			continue
		}
		head := q.head.LoadAcquire()
		if head == 0 {
			*localTail = 0
		} else {
			*localTail = head - 1
		}
	}
}

func (q *SPSCSafeSkipShared[T]) Cap() int { return int(q.mask + 1) }
