// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "code.hybscloud.com/spin"

// MPSCPerProducerSPSCGroup gives each producer its own private SPSC lane
// (no shared head to contend on); the single consumer round-robins across
// every lane, trying each in turn for a ready slot. Eliminates producer
// contention at the cost of round-robin overhead on the consumer side, per
// spec.md §4.4.
type MPSCPerProducerSPSCGroup[T any] struct {
	lanes []*SPSCDualIndex[T]
	rr    int // consumer-private round-robin cursor; safe unshared state, single consumer
}

// NewMPSCPerProducerSPSCGroup creates one lane of the given per-lane
// capacity for each of producers producer IDs.
func NewMPSCPerProducerSPSCGroup[T any](capacity, producers int) *MPSCPerProducerSPSCGroup[T] {
	lanes := make([]*SPSCDualIndex[T], producers)
	for i := range lanes {
		lanes[i] = NewSPSCDualIndex[T](capacity)
	}
	return &MPSCPerProducerSPSCGroup[T]{lanes: lanes}
}

func (q *MPSCPerProducerSPSCGroup[T]) Push(producerID int, elem T) {
	q.lanes[producerID].Push(producerID, elem)
}

func (q *MPSCPerProducerSPSCGroup[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	n := len(q.lanes)
	spins := 0
	for {
		lane := q.lanes[q.rr]
		q.rr = (q.rr + 1) % n
		if elem, err := lane.tryPop(); err == nil {
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

// Cap returns the per-lane capacity (every lane is sized identically).
func (q *MPSCPerProducerSPSCGroup[T]) Cap() int {
	if len(q.lanes) == 0 {
		return 0
	}
	return q.lanes[0].Cap()
}
