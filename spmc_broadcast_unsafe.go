// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// SPMCBroadcastUnsafeLocalTails is the broadcaster protocol with the
// backpressure gate removed: the producer never consults consumer tails
// and freely overwrites, so a slow consumer may be lapped and its copy may
// race an overwrite. The payload must be [Copyable] since a torn read is
// possible. Lowest latency of the SPMC broadcaster family, unsafe by
// design per spec.md §4.3.
type SPMCBroadcastUnsafeLocalTails[T Copyable] struct {
	head   atomix.Uint64
	buffer []T
	mask   uint64
}

func NewSPMCBroadcastUnsafeLocalTails[T Copyable](capacity int) *SPMCBroadcastUnsafeLocalTails[T] {
	n := uint64(roundToPow2(capacity))
	return &SPMCBroadcastUnsafeLocalTails[T]{buffer: make([]T, n), mask: n - 1}
}

func (q *SPMCBroadcastUnsafeLocalTails[T]) Push(_ int, elem T) {
	head := q.head.LoadRelaxed()
	q.buffer[head&q.mask] = elem
	q.head.StoreRelease(head + 1)
}

func (q *SPMCBroadcastUnsafeLocalTails[T]) Cap() int { return int(q.mask + 1) }

// Subscribe returns a receiver whose tail is private to the caller — no
// registry, no join-time lock, matching the "unsafe local tails" framing.
func (q *SPMCBroadcastUnsafeLocalTails[T]) Subscribe() BroadcastReceiver[T] {
	return &spmcUnsafeReceiver[T]{q: q, tail: q.head.LoadAcquire()}
}

type spmcUnsafeReceiver[T Copyable] struct {
	q    *SPMCBroadcastUnsafeLocalTails[T]
	tail uint64
}

func (r *spmcUnsafeReceiver[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		head := r.q.head.LoadAcquire()
		if r.tail >= head {
			sw.Once()
			continue
		}
		elem := r.q.buffer[r.tail&r.q.mask]
		r.tail++
		*localTail = r.tail
		return elem
	}
}

func (r *spmcUnsafeReceiver[T]) Unsubscribe() {}

// SPMCBroadcastUnsafeLocalTailsShared packages the same unsafe protocol as
// a single struct, used directly by both producer and every consumer
// rather than through a per-consumer Subscribe handle — the Go analogue of
// the source's second "outside Arc" packaging variant. Since it still
// needs an independent cursor per consumer, each consumer must supply its
// own localTail (the caller's private storage) rather than relying on a
// registered handle.
type SPMCBroadcastUnsafeLocalTailsShared[T Copyable] struct {
	head   atomix.Uint64
	buffer []T
	mask   uint64
}

func NewSPMCBroadcastUnsafeLocalTailsShared[T Copyable](capacity int) *SPMCBroadcastUnsafeLocalTailsShared[T] {
	n := uint64(roundToPow2(capacity))
	return &SPMCBroadcastUnsafeLocalTailsShared[T]{buffer: make([]T, n), mask: n - 1}
}

func (q *SPMCBroadcastUnsafeLocalTailsShared[T]) Push(_ int, elem T) {
	head := q.head.LoadRelaxed()
	q.buffer[head&q.mask] = elem
	q.head.StoreRelease(head + 1)
}

func (q *SPMCBroadcastUnsafeLocalTailsShared[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		if *localTail >= head {
			sw.Once()
			continue
		}
		elem := q.buffer[*localTail&q.mask]
		*localTail++
		return elem
	}
}

func (q *SPMCBroadcastUnsafeLocalTailsShared[T]) Cap() int { return int(q.mask + 1) }
