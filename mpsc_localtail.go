// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPSCLocalTailLossy has per-slot sequence counters and no tail field at
// all in the shared struct: the single consumer's tail lives only in its
// caller-supplied localTail, matching pop(&mut local_tail)'s contract
// literally rather than mirroring it into shared state. Multiple producers
// CAS the shared head to claim a slot index h, gated by slot.seq==h (the
// slot has been fully released); on lapping, the consumer catches up to
// head-1 and loses data. Adapted from the teacher library's mpsc_seq.go CAS
// pattern plus the source's safe-skipping catch-up.
type MPSCLocalTailLossy[T any] struct {
	head  atomix.Uint64
	slots []ssSlot[T]
	mask  uint64
	ringN uint64
}

func NewMPSCLocalTailLossy[T any](capacity int) *MPSCLocalTailLossy[T] {
	n := uint64(roundToPow2(capacity))
	q := &MPSCLocalTailLossy[T]{slots: make([]ssSlot[T], n), mask: n - 1, ringN: n}
	for i := uint64(0); i < n; i++ {
		q.slots[i].seq.StoreRelaxed(i)
	}
	return q
}

func (q *MPSCLocalTailLossy[T]) tryPush(elem T) error {
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

func (q *MPSCLocalTailLossy[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *MPSCLocalTailLossy[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		tail := *localTail
		slot := &q.slots[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		if seq == tail+1 {
			elem := slot.data
			slot.seq.StoreRelease(tail + q.ringN)
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

func (q *MPSCLocalTailLossy[T]) Cap() int { return int(q.mask + 1) }

// MPSCLocalTailLossyPadded is MPSCLocalTailLossy with head aligned to its
// own cache line, separate from the slot array's header words.
type MPSCLocalTailLossyPadded[T any] struct {
	_     pad
	head  atomix.Uint64
	_     pad
	slots []ssSlot[T]
	mask  uint64
	ringN uint64
}

func NewMPSCLocalTailLossyPadded[T any](capacity int) *MPSCLocalTailLossyPadded[T] {
	n := uint64(roundToPow2(capacity))
	q := &MPSCLocalTailLossyPadded[T]{slots: make([]ssSlot[T], n), mask: n - 1, ringN: n}
	for i := uint64(0); i < n; i++ {
		q.slots[i].seq.StoreRelaxed(i)
	}
	return q
}

func (q *MPSCLocalTailLossyPadded[T]) tryPush(elem T) error {
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

func (q *MPSCLocalTailLossyPadded[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *MPSCLocalTailLossyPadded[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		tail := *localTail
		slot := &q.slots[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		if seq == tail+1 {
			elem := slot.data
			slot.seq.StoreRelease(tail + q.ringN)
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

func (q *MPSCLocalTailLossyPadded[T]) Cap() int { return int(q.mask + 1) }
