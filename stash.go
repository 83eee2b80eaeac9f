// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

// StashConfig parameterizes one producer's payload stash.
type StashConfig struct {
	ProducerID  int
	SampleSize  uint64 // per-producer emission count
	Terminators int    // 1 for broadcasting distributions, C for load-balancing
	Fill        ByteFill
	GenOnFly    bool // generate each payload lazily instead of pre-allocating the run
}

// Stash produces a producer's finite run of payloads: SampleSize data
// payloads with indices [ProducerID*SampleSize+1, (ProducerID+1)*SampleSize],
// followed by Terminators copies of the terminator sentinel. Generic over
// the payload flavor via an injected constructor, since InlinePayload and
// HeapPayload share no common field-access interface worth forcing.
type Stash[T any] struct {
	cfg         StashConfig
	pos         uint64
	total       uint64
	newPayload  func(index uint64, fill ByteFill) T
	terminator  T
	pregen      []T
	usePregen   bool
}

// NewStash builds a stash. When cfg.GenOnFly is false the whole run is
// generated up front (PAYLOAD_STASH_GEN_ON_FLY=false in spec.md §6),
// trading memory for a send-timestamp that isn't perturbed by generation
// cost on the hot path.
func NewStash[T any](cfg StashConfig, newPayload func(uint64, ByteFill) T, terminator T) *Stash[T] {
	s := &Stash[T]{
		cfg:        cfg,
		total:      cfg.SampleSize + uint64(cfg.Terminators),
		newPayload: newPayload,
		terminator: terminator,
	}
	if !cfg.GenOnFly {
		s.usePregen = true
		s.pregen = make([]T, cfg.SampleSize)
		base := uint64(cfg.ProducerID) * cfg.SampleSize
		for i := uint64(0); i < cfg.SampleSize; i++ {
			s.pregen[i] = newPayload(base+i+1, cfg.Fill)
		}
	}
	return s
}

// Next returns the next payload to push and true, or the zero value and
// false once the stash (data run plus terminators) is exhausted.
func (s *Stash[T]) Next() (T, bool) {
	if s.pos >= s.total {
		var zero T
		return zero, false
	}
	if s.pos < s.cfg.SampleSize {
		var p T
		if s.usePregen {
			p = s.pregen[s.pos]
		} else {
			base := uint64(s.cfg.ProducerID) * s.cfg.SampleSize
			p = s.newPayload(base+s.pos+1, s.cfg.Fill)
		}
		s.pos++
		return p, true
	}
	s.pos++
	return s.terminator, true
}

// Len reports the total number of payloads (data plus terminators) this
// stash will yield.
func (s *Stash[T]) Len() uint64 {
	return s.total
}
