// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// PayloadBytes is the size of a payload's data array. Go has no const
// generics, so unlike the source's `const N: usize` parameter this is a
// package-level constant baked in at compile time; SPEC_FULL.md §3 records
// this as the resolution for "fixed-size byte array, configurable".
const PayloadBytes = 256

// Terminator is the distinguished index value marking end-of-stream.
const Terminator = ^uint64(0)

// ByteFill selects how a stash fills a newly generated payload's data.
type ByteFill int

const (
	FillBlank ByteFill = iota
	FillRandom
)

// InlinePayload embeds its data array directly, so assignment and slot
// storage copy it by value. It satisfies [Copyable].
type InlinePayload struct {
	Index     uint64
	Timestamp int64 // UnixNano of the send instant
	Data      [PayloadBytes]byte
}

func (InlinePayload) ringCopyable() {}

// NewInlinePayload builds a payload for index with data filled per fill.
func NewInlinePayload(index uint64, fill ByteFill) InlinePayload {
	p := InlinePayload{Index: index}
	if fill == FillRandom {
		fillRandom(p.Data[:])
	}
	return p
}

// InlineTerminator is the terminator sentinel for InlinePayload streams.
func InlineTerminator() InlinePayload {
	return InlinePayload{Index: Terminator}
}

// WithTimestamp returns a copy of p stamped with ts, satisfying [Payload].
// The harness calls this immediately before push so the measured latency
// covers queueing time, not stash-generation time.
func (p InlinePayload) WithTimestamp(ts int64) InlinePayload {
	p.Timestamp = ts
	return p
}

// Observe satisfies [Payload]: it reports p's index and the elapsed time
// since it was stamped.
func (p InlinePayload) Observe() (uint64, time.Duration) {
	return p.Index, time.Duration(time.Now().UnixNano() - p.Timestamp)
}

// HeapPayload stores its data behind a pointer, so assignment copies the
// pointer rather than the bytes — mirroring the source's non-Copy, Clone-
// only `Box<[u8; N]>`. It deliberately does not satisfy [Copyable].
type HeapPayload struct {
	Index     uint64
	Timestamp int64
	Data      *[PayloadBytes]byte
}

// NewHeapPayload builds a payload for index with data filled per fill.
func NewHeapPayload(index uint64, fill ByteFill) HeapPayload {
	data := new([PayloadBytes]byte)
	if fill == FillRandom {
		fillRandom(data[:])
	}
	return HeapPayload{Index: index, Data: data}
}

// fillRandom fills b with pseudo-random bytes. math/rand/v2 dropped the
// package-level Read helper v1 had, so fill eight bytes at a time instead.
func fillRandom(b []byte) {
	for len(b) >= 8 {
		binary.LittleEndian.PutUint64(b, rand.Uint64())
		b = b[8:]
	}
	if len(b) > 0 {
		var tail [8]byte
		binary.LittleEndian.PutUint64(tail[:], rand.Uint64())
		copy(b, tail[:])
	}
}

// HeapTerminator is the terminator sentinel for HeapPayload streams.
func HeapTerminator() HeapPayload {
	return HeapPayload{Index: Terminator, Data: new([PayloadBytes]byte)}
}

// WithTimestamp returns a copy of p (the pointer is shared, only the
// wrapping struct is copied) stamped with ts, satisfying [Payload].
func (p HeapPayload) WithTimestamp(ts int64) HeapPayload {
	p.Timestamp = ts
	return p
}

// Observe satisfies [Payload]: it reports p's index and the elapsed time
// since it was stamped.
func (p HeapPayload) Observe() (uint64, time.Duration) {
	return p.Index, time.Duration(time.Now().UnixNano() - p.Timestamp)
}

// Clone deep-copies the underlying byte array into a new allocation, the
// Go equivalent of the source's `Clone` impl for `HeapPayload` — used by
// broadcaster variants so independent consumers never alias the same
// backing array.
func (p HeapPayload) Clone() HeapPayload {
	data := new([PayloadBytes]byte)
	*data = *p.Data
	return HeapPayload{Index: p.Index, Timestamp: p.Timestamp, Data: data}
}

// cloneOnRead deep-copies elem if it implements Clone() T, and returns elem
// unchanged otherwise. Broadcaster Pop implementations call this so
// independent consumers of a non-Copyable payload (such as [HeapPayload])
// never alias the same backing allocation — mirroring the source's
// `assume_init_ref().clone()` on every broadcaster read. For [InlinePayload]
// and other value types with no Clone method, the type assertion fails and
// the already-independent struct copy is returned as-is.
func cloneOnRead[T any](elem T) T {
	if c, ok := any(elem).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return elem
}
