// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// SPSCSlotLockCopy guards each slot with its own mutex. Producer locks its
// slot at head, writes, unlocks, advances head. Consumer waits until head
// has moved past its local tail, then locks that slot, copies it out,
// unlocks, advances. The lock only
// serializes the copy against a concurrent write on the same slot; it does
// not by itself prevent data being overwritten the instant after a reader
// releases, so the payload must be [Copyable].
type SPSCSlotLockCopy[T Copyable] struct {
	head  atomix.Uint64
	slots []spscLockSlot[T]
	mask  uint64
}

type spscLockSlot[T Copyable] struct {
	mu   sync.Mutex
	data T
}

func NewSPSCSlotLockCopy[T Copyable](capacity int) *SPSCSlotLockCopy[T] {
	n := uint64(roundToPow2(capacity))
	return &SPSCSlotLockCopy[T]{slots: make([]spscLockSlot[T], n), mask: n - 1}
}

func (q *SPSCSlotLockCopy[T]) Push(_ int, elem T) {
	head := q.head.LoadRelaxed()
	slot := &q.slots[head&q.mask]
	slot.mu.Lock()
	slot.data = elem
	slot.mu.Unlock()
	q.head.StoreRelease(head + 1)
}

func (q *SPSCSlotLockCopy[T]) Pop(localTail *uint64) T {
	sw := spin.Wait{}
	for *localTail >= q.head.LoadAcquire() {
		sw.Once()
	}
	slot := &q.slots[*localTail&q.mask]
	slot.mu.Lock()
	elem := slot.data
	slot.mu.Unlock()
	*localTail++
	return elem
}

func (q *SPSCSlotLockCopy[T]) Cap() int { return int(q.mask + 1) }

// SPSCFullLockCopy guards the entire ring with a single mutex for both push
// and pop. Provided purely for contrast against the lock-free variants.
type SPSCFullLockCopy[T Copyable] struct {
	mu     sync.Mutex
	head   uint64
	tail   uint64
	buffer []T
	mask   uint64
}

func NewSPSCFullLockCopy[T Copyable](capacity int) *SPSCFullLockCopy[T] {
	n := uint64(roundToPow2(capacity))
	return &SPSCFullLockCopy[T]{buffer: make([]T, n), mask: n - 1}
}

func (q *SPSCFullLockCopy[T]) tryPush(elem T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head-q.tail > q.mask {
		return ErrWouldBlock
	}
	q.buffer[q.head&q.mask] = elem
	q.head++
	return nil
}

func (q *SPSCFullLockCopy[T]) Push(_ int, elem T) {
	spinUntilPlaced(func() error { return q.tryPush(elem) })
}

func (q *SPSCFullLockCopy[T]) tryPop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tail >= q.head {
		var zero T
		return zero, ErrWouldBlock
	}
	elem := q.buffer[q.tail&q.mask]
	q.tail++
	return elem, nil
}

func (q *SPSCFullLockCopy[T]) Pop(localTail *uint64) T {
	for {
		if elem, err := q.tryPop(); err == nil {
			*localTail++
			return elem
		}
	}
}

func (q *SPSCFullLockCopy[T]) Cap() int { return int(q.mask + 1) }
