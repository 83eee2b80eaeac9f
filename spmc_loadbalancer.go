// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// SPMCLoadBalancerCopy is a single-producer, multi-consumer queue in which
// every payload is claimed by exactly one consumer. The single producer
// writes into the slot at head with a plain relaxed store (no CAS needed,
// mirroring the teacher library's SPMC), gated by head-tail<R. Consumers
// race a CAS on the shared tail to claim the next index, then copy the
// slot — nothing stops a second consumer from reading the same slot before
// the producer eventually overwrites it, so T must be [Copyable]. Adapted
// from the teacher library's spmc_seq.go CAS-consumer-claim pattern.
type SPMCLoadBalancerCopy[T Copyable] struct {
	_        pad
	head     atomix.Uint64
	_        pad
	tail     atomix.Uint64
	_        pad
	buffer   []T
	mask     uint64
	capacity uint64
}

func NewSPMCLoadBalancerCopy[T Copyable](capacity int) *SPMCLoadBalancerCopy[T] {
	n := uint64(roundToPow2(capacity))
	return &SPMCLoadBalancerCopy[T]{buffer: make([]T, n), mask: n - 1, capacity: n}
}

func (q *SPMCLoadBalancerCopy[T]) tryPush(elem T) error {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadAcquire()
	if head-tail >= q.capacity {
		return ErrWouldBlock
	}
	q.buffer[head&q.mask] = elem
	q.head.StoreRelease(head + 1)
	return nil
}

func (q *SPMCLoadBalancerCopy[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

// Pop claims the next index via CAS and copies it out. The claim cursor
// (tail) is necessarily shared across consumers; localTail is advanced once
// per pop for a uniform call site.
func (q *SPMCLoadBalancerCopy[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadAcquire()
		if tail >= head {
			sw.Once()
			continue
		}
		if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
			elem := q.buffer[tail&q.mask]
			*localTail++
			return elem
		}
	}
}

func (q *SPMCLoadBalancerCopy[T]) Cap() int { return int(q.capacity) }
