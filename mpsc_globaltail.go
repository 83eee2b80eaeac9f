// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPSCGlobalTail keeps both head and tail as atomic fields on the shared
// struct (as opposed to [MPSCLocalTailLossy]'s caller-private tail).
// Producers CAS head, additionally gated by head-tail<R so the queue never
// overwrites unread data — the non-lossy member of the global-tail family.
type MPSCGlobalTail[T any] struct {
	head     atomix.Uint64
	tail     atomix.Uint64
	slots    []ssSlot[T]
	mask     uint64
	ringN    uint64
	capacity uint64
}

func NewMPSCGlobalTail[T any](capacity int) *MPSCGlobalTail[T] {
	n := uint64(roundToPow2(capacity))
	q := &MPSCGlobalTail[T]{slots: make([]ssSlot[T], n), mask: n - 1, ringN: n, capacity: n}
	for i := uint64(0); i < n; i++ {
		q.slots[i].seq.StoreRelaxed(i)
	}
	return q
}

func (q *MPSCGlobalTail[T]) tryPush(elem T) error {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	if head-tail >= q.capacity {
		return ErrWouldBlock
	}
	slot := &q.slots[head&q.mask]
	if slot.seq.LoadAcquire() != head {
		return ErrWouldBlock
	}
	if !q.head.CompareAndSwapAcqRel(head, head+1) {
		return ErrWouldBlock
	}
	slot.data = elem
	slot.seq.StoreRelease(head + 1)
	return nil
}

func (q *MPSCGlobalTail[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

// Pop uses the shared tail; localTail is kept in lockstep for a uniform
// call site but the shared field is authoritative (producers read it).
func (q *MPSCGlobalTail[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadRelaxed()
		slot := &q.slots[tail&q.mask]
		if slot.seq.LoadAcquire() == tail+1 {
			elem := slot.data
			slot.seq.StoreRelease(tail + q.ringN)
			q.tail.StoreRelease(tail + 1)
			*localTail = tail + 1
			return elem
		}
		sw.Once()
	}
}

func (q *MPSCGlobalTail[T]) Cap() int { return int(q.capacity) }

// MPSCGlobalTailLossy is MPSCGlobalTail without the head-tail<R push gate
// (the per-slot sequence check still holds a producer back from a slot the
// consumer has not released), and the consumer catches up to head-1 when
// it detects lapping (the "tail.store(head.saturating_sub(1))" behavior
// spec.md §9 flags as an open question — implemented literally, so at
// startup (head==0) the catch-up target is 0, not an underflowed value).
// Grounded directly on the source's rings/mpsc/global_tail_lossy.rs,
// including its 1-second push watchdog (here, [spinUntilPlaced]).
type MPSCGlobalTailLossy[T any] struct {
	head  atomix.Uint64
	tail  atomix.Uint64
	slots []ssSlot[T]
	mask  uint64
	ringN uint64
}

func NewMPSCGlobalTailLossy[T any](capacity int) *MPSCGlobalTailLossy[T] {
	n := uint64(roundToPow2(capacity))
	q := &MPSCGlobalTailLossy[T]{slots: make([]ssSlot[T], n), mask: n - 1, ringN: n}
	for i := uint64(0); i < n; i++ {
		q.slots[i].seq.StoreRelaxed(i)
	}
	return q
}

func (q *MPSCGlobalTailLossy[T]) tryPush(elem T) error {
	head := q.head.LoadAcquire()
	slot := &q.slots[head&q.mask]
	if slot.seq.LoadAcquire() != head {
		return ErrWouldBlock
	}
	if !q.head.CompareAndSwapAcqRel(head, head+1) {
		return ErrWouldBlock
	}
	slot.data = elem
	slot.seq.StoreRelease(head + 1)
	return nil
}

func (q *MPSCGlobalTailLossy[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *MPSCGlobalTailLossy[T]) Pop(localTail *uint64) T {
	for {
		tail := q.tail.LoadRelaxed()
		slot := &q.slots[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		expected := tail + 1

		if seq == expected {
			elem := slot.data
			slot.seq.StoreRelease(tail + q.ringN)
			q.tail.StoreRelease(tail + 1)
			*localTail = tail + 1
			return elem
		}
		if seq == tail {
			continue // not yet written
		}

		head := q.head.LoadAcquire()
		if head == 0 {
			q.tail.StoreRelease(0)
		} else {
			q.tail.StoreRelease(head - 1)
		}
		*localTail = q.tail.LoadRelaxed()
	}
}

func (q *MPSCGlobalTailLossy[T]) Cap() int { return int(q.mask + 1) }
