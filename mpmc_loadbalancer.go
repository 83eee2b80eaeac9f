// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMCLoadBalancer is the disruptor-style MPMC queue: every slot has a
// sequence counter. Producers CAS the shared head, then on winning write
// and release slot.seq:=head+1. Consumers CAS the shared tail, then on
// winning read and release slot.seq:=tail+R. Both sides back off with a
// spin hint on contention. Adapted directly from the teacher library's
// MPMCSeq (mpmc_seq.go), which already implements exactly this protocol.
type MPMCLoadBalancer[T any] struct {
	tail     atomix.Uint64
	head     atomix.Uint64
	buffer   []mpmcLBSlot[T]
	mask     uint64
	capacity uint64
}

type mpmcLBSlot[T any] struct {
	seq  atomix.Uint64
	data T
}

func NewMPMCLoadBalancer[T any](capacity int) *MPMCLoadBalancer[T] {
	n := uint64(roundToPow2(capacity))
	q := &MPMCLoadBalancer[T]{buffer: make([]mpmcLBSlot[T], n), mask: n - 1, capacity: n}
	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}
	return q
}

func (q *MPMCLoadBalancer[T]) tryPush(elem T) error {
	head := q.head.LoadAcquire()
	slot := &q.buffer[head&q.mask]
	seq := slot.seq.LoadAcquire()
	diff := int64(seq) - int64(head)

	if diff == 0 && q.head.CompareAndSwapAcqRel(head, head+1) {
		slot.data = elem
		slot.seq.StoreRelease(head + 1)
		return nil
	}
	return ErrWouldBlock
}

func (q *MPMCLoadBalancer[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *MPMCLoadBalancer[T]) tryPop() (T, error) {
	tail := q.tail.LoadAcquire()
	slot := &q.buffer[tail&q.mask]
	seq := slot.seq.LoadAcquire()
	diff := int64(seq) - int64(tail+1)

	if diff == 0 && q.tail.CompareAndSwapAcqRel(tail, tail+1) {
		elem := slot.data
		slot.seq.StoreRelease(tail + q.capacity)
		return elem, nil
	}
	var zero T
	return zero, ErrWouldBlock
}

func (q *MPMCLoadBalancer[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		if elem, err := q.tryPop(); err == nil {
			*localTail++
			return elem
		}
		sw.Once()
	}
}

func (q *MPMCLoadBalancer[T]) Cap() int { return int(q.capacity) }

// MPMCLoadBalancerPadded is MPMCLoadBalancer with head and tail aligned to
// distinct cache lines.
type MPMCLoadBalancerPadded[T any] struct {
	_        pad
	tail     atomix.Uint64
	_        pad
	head     atomix.Uint64
	_        pad
	buffer   []mpmcLBSlot[T]
	mask     uint64
	capacity uint64
}

func NewMPMCLoadBalancerPadded[T any](capacity int) *MPMCLoadBalancerPadded[T] {
	n := uint64(roundToPow2(capacity))
	q := &MPMCLoadBalancerPadded[T]{buffer: make([]mpmcLBSlot[T], n), mask: n - 1, capacity: n}
	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}
	return q
}

func (q *MPMCLoadBalancerPadded[T]) tryPush(elem T) error {
	head := q.head.LoadAcquire()
	slot := &q.buffer[head&q.mask]
	seq := slot.seq.LoadAcquire()
	diff := int64(seq) - int64(head)

	if diff == 0 && q.head.CompareAndSwapAcqRel(head, head+1) {
		slot.data = elem
		slot.seq.StoreRelease(head + 1)
		return nil
	}
	return ErrWouldBlock
}

func (q *MPMCLoadBalancerPadded[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *MPMCLoadBalancerPadded[T]) tryPop() (T, error) {
	tail := q.tail.LoadAcquire()
	slot := &q.buffer[tail&q.mask]
	seq := slot.seq.LoadAcquire()
	diff := int64(seq) - int64(tail+1)

	if diff == 0 {
		if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
			elem := slot.data
			slot.seq.StoreRelease(tail + q.capacity)
			return elem, nil
		}
	}
	var zero T
	return zero, ErrWouldBlock
}

func (q *MPMCLoadBalancerPadded[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		if elem, err := q.tryPop(); err == nil {
			*localTail++
			return elem
		}
		sw.Once()
	}
}

func (q *MPMCLoadBalancerPadded[T]) Cap() int { return int(q.capacity) }
