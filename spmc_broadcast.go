// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// SPMCBroadcast is a single-producer queue in which every consumer sees
// every payload. Each consumer registers its own tail with the producer's
// [tailRegistry] on [SPMCBroadcast.Subscribe] and deregisters on
// [spmcBroadcastReceiver.Unsubscribe]. The producer computes
// min(all consumer tails) under the registry's lock and blocks until
// head-min<=R-1, then writes and releases head. Grounded on the source's
// rings/spmc/broadcaster.rs.
type SPMCBroadcast[T any] struct {
	head     atomix.Uint64
	buffer   []T
	mask     uint64
	capacity uint64
	tails    tailRegistry
}

func NewSPMCBroadcast[T any](capacity int) *SPMCBroadcast[T] {
	n := uint64(roundToPow2(capacity))
	return &SPMCBroadcast[T]{buffer: make([]T, n), mask: n - 1, capacity: n}
}

func (q *SPMCBroadcast[T]) tryPush(elem T) error {
	head := q.head.LoadRelaxed()
	min := q.tails.min(head)
	if head-min > q.capacity-1 {
		return ErrWouldBlock
	}
	q.buffer[head&q.mask] = elem
	q.head.StoreRelease(head + 1)
	return nil
}

func (q *SPMCBroadcast[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *SPMCBroadcast[T]) Cap() int { return int(q.capacity) }

// Subscribe registers a new consumer tail at the current head — a newly
// joined consumer never reads data written before it joined — and returns
// a receiver handle bound to that tail.
func (q *SPMCBroadcast[T]) Subscribe() BroadcastReceiver[T] {
	head := q.head.LoadAcquire()
	tail := q.tails.register(head)
	return &spmcBroadcastReceiver[T]{q: q, tail: tail}
}

type spmcBroadcastReceiver[T any] struct {
	q    *SPMCBroadcast[T]
	tail *atomix.Uint64
}

func (r *spmcBroadcastReceiver[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadAcquire()
		head := r.q.head.LoadAcquire()
		if tail >= head {
			sw.Once()
			continue
		}
		elem := cloneOnRead(r.q.buffer[tail&r.q.mask])
		r.tail.StoreRelease(tail + 1)
		*localTail = tail + 1
		return elem
	}
}

func (r *spmcBroadcastReceiver[T]) Unsubscribe() {
	r.q.tails.deregister(r.tail)
}

// SPMCBroadcastPadded is SPMCBroadcast with head aligned to its own cache
// line, padded against the buffer header. The registered tails are not
// padded: each is a separate heap-allocated [atomix.Uint64] (see
// [tailRegistry]), so two consumer tails can still share a cache line.
type SPMCBroadcastPadded[T any] struct {
	_        pad
	head     atomix.Uint64
	_        pad
	buffer   []T
	mask     uint64
	capacity uint64
	tails    tailRegistry
}

func NewSPMCBroadcastPadded[T any](capacity int) *SPMCBroadcastPadded[T] {
	n := uint64(roundToPow2(capacity))
	return &SPMCBroadcastPadded[T]{buffer: make([]T, n), mask: n - 1, capacity: n}
}

func (q *SPMCBroadcastPadded[T]) tryPush(elem T) error {
	head := q.head.LoadRelaxed()
	min := q.tails.min(head)
	if head-min > q.capacity-1 {
		return ErrWouldBlock
	}
	q.buffer[head&q.mask] = elem
	q.head.StoreRelease(head + 1)
	return nil
}

func (q *SPMCBroadcastPadded[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *SPMCBroadcastPadded[T]) Cap() int { return int(q.capacity) }

func (q *SPMCBroadcastPadded[T]) Subscribe() BroadcastReceiver[T] {
	head := q.head.LoadAcquire()
	tail := q.tails.register(head)
	return &spmcBroadcastPaddedReceiver[T]{q: q, tail: tail}
}

type spmcBroadcastPaddedReceiver[T any] struct {
	q    *SPMCBroadcastPadded[T]
	tail *atomix.Uint64
}

func (r *spmcBroadcastPaddedReceiver[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadAcquire()
		head := r.q.head.LoadAcquire()
		if tail >= head {
			sw.Once()
			continue
		}
		elem := cloneOnRead(r.q.buffer[tail&r.q.mask])
		r.tail.StoreRelease(tail + 1)
		*localTail = tail + 1
		return elem
	}
}

func (r *spmcBroadcastPaddedReceiver[T]) Unsubscribe() {
	r.q.tails.deregister(r.tail)
}
