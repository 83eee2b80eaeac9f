// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// tailRegistry is the mutex-protected set of per-consumer tail cursors a
// broadcaster producer consults to compute min(all consumer tails) before
// writing. Grounded on the source's `tails: Mutex<Vec<Arc<AtomicUsize>>>`.
//
// Mutex acquisition here is off the fast path: the producer takes it once
// per push to read the minimum, consumers take it only on join/leave.
type tailRegistry struct {
	mu    sync.Mutex
	tails []*atomix.Uint64
}

// register adds a new consumer tail initialized to head (never earlier),
// so a newly joined consumer never observes data written before it joined.
func (r *tailRegistry) register(head uint64) *atomix.Uint64 {
	t := &atomix.Uint64{}
	t.StoreRelease(head)
	r.mu.Lock()
	r.tails = append(r.tails, t)
	r.mu.Unlock()
	return t
}

// deregister removes t via swap-remove, mirroring the source's Drop impl.
func (r *tailRegistry) deregister(t *atomix.Uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.tails {
		if x == t {
			last := len(r.tails) - 1
			r.tails[i] = r.tails[last]
			r.tails = r.tails[:last]
			return
		}
	}
}

// min returns the smallest registered tail, or head if no consumer has
// joined yet (an empty registry imposes no backpressure).
func (r *tailRegistry) min(head uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := head
	for _, t := range r.tails {
		if v := t.LoadAcquire(); v < m {
			m = v
		}
	}
	return m
}
