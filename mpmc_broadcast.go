// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMCBroadcast is SPMCBroadcast with multiple producers: producers CAS the
// shared head to claim a slot index, and a per-slot sequence counter makes
// sure a reader only ever observes a slot after its writer has released it
// (two producers can otherwise claim adjacent indices and finish out of
// order). Consumers register a tail with the producer side's [tailRegistry]
// exactly as SPMCBroadcast does, so the claim gate still blocks on
// min(all consumer tails). Grounded on spec.md §4.5.
type MPMCBroadcast[T any] struct {
	head     atomix.Uint64
	buffer   []mpmcBCSlot[T]
	mask     uint64
	capacity uint64
	tails    tailRegistry
}

type mpmcBCSlot[T any] struct {
	seq  atomix.Uint64
	data T
}

func NewMPMCBroadcast[T any](capacity int) *MPMCBroadcast[T] {
	n := uint64(roundToPow2(capacity))
	q := &MPMCBroadcast[T]{buffer: make([]mpmcBCSlot[T], n), mask: n - 1, capacity: n}
	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}
	return q
}

func (q *MPMCBroadcast[T]) tryPush(elem T) error {
	head := q.head.LoadAcquire()
	min := q.tails.min(head)
	if head-min > q.capacity-1 {
		return ErrWouldBlock
	}
	slot := &q.buffer[head&q.mask]
	// Readers never release a slot, so after the first lap the slot still
	// holds the previous writer's head-capacity+1; before that, its initial
	// value head.
	want := head
	if head >= q.capacity {
		want = head - q.capacity + 1
	}
	if slot.seq.LoadAcquire() != want {
		return ErrWouldBlock
	}
	if !q.head.CompareAndSwapAcqRel(head, head+1) {
		return ErrWouldBlock
	}
	slot.data = elem
	slot.seq.StoreRelease(head + 1)
	return nil
}

func (q *MPMCBroadcast[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *MPMCBroadcast[T]) Cap() int { return int(q.capacity) }

// Subscribe registers a new consumer tail at the current head, matching
// SPMCBroadcast's join semantics.
func (q *MPMCBroadcast[T]) Subscribe() BroadcastReceiver[T] {
	head := q.head.LoadAcquire()
	tail := q.tails.register(head)
	return &mpmcBroadcastReceiver[T]{q: q, tail: tail}
}

type mpmcBroadcastReceiver[T any] struct {
	q    *MPMCBroadcast[T]
	tail *atomix.Uint64
}

func (r *mpmcBroadcastReceiver[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadAcquire()
		slot := &r.q.buffer[tail&r.q.mask]
		if slot.seq.LoadAcquire() != tail+1 {
			sw.Once()
			continue
		}
		elem := cloneOnRead(slot.data)
		r.tail.StoreRelease(tail + 1)
		*localTail = tail + 1
		return elem
	}
}

func (r *mpmcBroadcastReceiver[T]) Unsubscribe() {
	r.q.tails.deregister(r.tail)
}

// MPMCBroadcastPerProducerSPMC gives each producer its own private SPMC
// broadcaster ring (simple overwriting, no backpressure gate): producers
// never contend with each other at all, which is the lowest-contention
// member of the MPMC family, at the cost of being unsafe by design (a slow
// consumer can be lapped on any one producer's ring). Every consumer reads
// from every producer's ring in round-robin, keeping one local tail per
// producer. The payload must be [Copyable] since a torn read is possible,
// mirroring [SPMCBroadcastUnsafeLocalTails]. Grounded on spec.md §4.5's
// "Broadcaster-per-producer-SPMC" variant.
type MPMCBroadcastPerProducerSPMC[T Copyable] struct {
	lanes []*SPMCBroadcastUnsafeLocalTailsShared[T]
}

// NewMPMCBroadcastPerProducerSPMC creates one private ring of the given
// per-lane capacity for each of producers producer IDs.
func NewMPMCBroadcastPerProducerSPMC[T Copyable](capacity, producers int) *MPMCBroadcastPerProducerSPMC[T] {
	lanes := make([]*SPMCBroadcastUnsafeLocalTailsShared[T], producers)
	for i := range lanes {
		lanes[i] = NewSPMCBroadcastUnsafeLocalTailsShared[T](capacity)
	}
	return &MPMCBroadcastPerProducerSPMC[T]{lanes: lanes}
}

func (q *MPMCBroadcastPerProducerSPMC[T]) Push(producerID int, elem T) {
	q.lanes[producerID].Push(producerID, elem)
}

// Cap returns the per-lane capacity (every lane is sized identically).
func (q *MPMCBroadcastPerProducerSPMC[T]) Cap() int {
	if len(q.lanes) == 0 {
		return 0
	}
	return q.lanes[0].Cap()
}

// Subscribe returns a receiver that round-robins across every producer's
// lane, tracking one tail per lane. A newly joined consumer starts each
// lane's tail at that lane's current head, matching the unsafe-local-tails
// join convention used elsewhere in the SPMC broadcaster family.
func (q *MPMCBroadcastPerProducerSPMC[T]) Subscribe() BroadcastReceiver[T] {
	tails := make([]uint64, len(q.lanes))
	for i, lane := range q.lanes {
		tails[i] = lane.head.LoadAcquire()
	}
	return &mpmcBCPerProducerReceiver[T]{q: q, tails: tails}
}

type mpmcBCPerProducerReceiver[T Copyable] struct {
	q     *MPMCBroadcastPerProducerSPMC[T]
	tails []uint64
	rr    int
}

func (r *mpmcBCPerProducerReceiver[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	n := len(r.q.lanes)
	spins := 0
	for {
		i := r.rr
		r.rr = (r.rr + 1) % n
		lane := r.q.lanes[i]
		tail := r.tails[i]
		head := lane.head.LoadAcquire()
		if tail < head {
			elem := lane.buffer[tail&lane.mask]
			r.tails[i] = tail + 1
			*localTail++
			return elem
		}
		spins++
		if spins >= n {
			sw.Once()
			spins = 0
		}
	}
}

// Unsubscribe is a no-op: per-lane tails are private to the receiver, as in
// [SPMCBroadcastUnsafeLocalTails].
func (r *mpmcBCPerProducerReceiver[T]) Unsubscribe() {}
