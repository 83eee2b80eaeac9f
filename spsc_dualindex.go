// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "code.hybscloud.com/atomix"

// SPSCDualIndex is the baseline single-producer single-consumer queue: two
// atomic cursors and no per-slot metadata. The cursor names follow the
// teacher library: tail is the producer's cursor and head the consumer's.
// Producer checks tail-head<R, writes, releases tail; consumer checks
// head<tail, reads, releases head.
// Adapted from the teacher library's Lamport-ring SPSC (spsc.go), whose
// cached-index fast path is kept verbatim — this variant is the teacher's
// own SPSC design, generalized only to the blocking Push/Pop contract.
type SPSCDualIndex[T any] struct {
	head       atomix.Uint64 // consumer reads from here
	cachedTail uint64        // consumer's cached view of tail
	tail       atomix.Uint64 // producer writes here
	cachedHead uint64        // producer's cached view of head
	buffer     []T
	mask       uint64
}

// NewSPSCDualIndex creates a queue of capacity rounded up to a power of 2.
func NewSPSCDualIndex[T any](capacity int) *SPSCDualIndex[T] {
	n := uint64(roundToPow2(capacity))
	return &SPSCDualIndex[T]{buffer: make([]T, n), mask: n - 1}
}

func (q *SPSCDualIndex[T]) tryPush(elem T) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return ErrWouldBlock
		}
	}
	q.buffer[tail&q.mask] = elem
	q.tail.StoreRelease(tail + 1)
	return nil
}

// Push blocks until elem is placed; see the one-second watchdog in doc.go.
func (q *SPSCDualIndex[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *SPSCDualIndex[T]) tryPop() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}
	elem := q.buffer[head&q.mask]
	q.head.StoreRelease(head + 1)
	return elem, nil
}

// Pop blocks until a payload is available and advances *localTail.
func (q *SPSCDualIndex[T]) Pop(localTail *uint64) T {
	for {
		if elem, err := q.tryPop(); err == nil {
			*localTail++
			return elem
		}
	}
}

// Cap returns the queue's rounded capacity.
func (q *SPSCDualIndex[T]) Cap() int { return int(q.mask + 1) }

// SPSCDualIndexPadded is SPSCDualIndex with each cursor aligned to its own
// cache line, eliminating false sharing between producer and consumer
// state that the baseline packs into adjacent words.
type SPSCDualIndexPadded[T any] struct {
	_          pad
	head       atomix.Uint64
	_          pad
	cachedTail uint64
	_          pad
	tail       atomix.Uint64
	_          pad
	cachedHead uint64
	_          pad
	buffer     []T
	mask       uint64
}

func NewSPSCDualIndexPadded[T any](capacity int) *SPSCDualIndexPadded[T] {
	n := uint64(roundToPow2(capacity))
	return &SPSCDualIndexPadded[T]{buffer: make([]T, n), mask: n - 1}
}

func (q *SPSCDualIndexPadded[T]) tryPush(elem T) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return ErrWouldBlock
		}
	}
	q.buffer[tail&q.mask] = elem
	q.tail.StoreRelease(tail + 1)
	return nil
}

func (q *SPSCDualIndexPadded[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *SPSCDualIndexPadded[T]) tryPop() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}
	elem := q.buffer[head&q.mask]
	q.head.StoreRelease(head + 1)
	return elem, nil
}

func (q *SPSCDualIndexPadded[T]) Pop(localTail *uint64) T {
	for {
		if elem, err := q.tryPop(); err == nil {
			*localTail++
			return elem
		}
	}
}

func (q *SPSCDualIndexPadded[T]) Cap() int { return int(q.mask + 1) }
