// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "time"

// Payload is implemented by every payload flavor this package ships
// ([InlinePayload], [HeapPayload]). WithTimestamp stamps the send instant
// immediately before push; Observe reports the payload's index and the
// elapsed time since it was stamped, immediately after pop. Self-referential
// on T so the harness can thread a single payload type through stash
// generation, push, and measurement without a type assertion.
type Payload[T any] interface {
	WithTimestamp(ts int64) T
	Observe() (index uint64, elapsed time.Duration)
}

// Sender is the producer-side handle shared by every queue variant.
//
// Push blocks (busy-spin) until the payload is placed. A one-second
// wall-clock watchdog aborts the spin silently — see [ErrWouldBlock] — so a
// producer never hangs forever once its consumers have already exited.
// producerID only matters to variants that shard storage per producer
// (PerProducerSPSCGroup, BroadcastPerProducerSPMC); every other variant
// ignores it.
//
// A Sender is safe to share across goroutines by holding the same pointer;
// unlike the reference-counted handles of the source this package was
// translated from, Go's garbage collector retires the ring once every
// holder drops its pointer, so no explicit Clone is needed.
type Sender[T any] interface {
	Push(producerID int, payload T)
}

// Receiver is the consumer-side handle shared by every queue variant.
//
// Pop blocks (busy-spin) until a payload is available. localTail is
// caller-private storage: the caller owns the variable and passes its
// address on every call, letting variants that use a private cursor avoid
// touching shared memory on the fast path. Variants that keep a shared tail
// cursor still accept and advance localTail, for a uniform call site.
type Receiver[T any] interface {
	Pop(localTail *uint64) T
}

// Copyable marks payload types safe to read concurrently with a second
// in-flight write, a requirement of the load-balancer and lock-based
// variants that give no per-slot handshake against that race. InlinePayload
// satisfies it; HeapPayload does not.
type Copyable interface {
	ringCopyable()
}

// Subscribable is implemented by broadcaster rings, whose receivers must be
// created explicitly (each one needs its own registered tail cursor) rather
// than simply sharing the same handle as every other variant does.
type Subscribable[T any] interface {
	Subscribe() BroadcastReceiver[T]
}

// BroadcastReceiver is a Receiver that must deregister its tail cursor from
// the producer's registry when the consumer is done, mirroring the
// source's Drop-triggered swap-remove.
type BroadcastReceiver[T any] interface {
	Receiver[T]
	Unsubscribe()
}

// ChannelType names the producer/consumer cardinality of a variant.
type ChannelType int

const (
	SPSC ChannelType = iota
	SPMC
	MPSC
	MPMC
)

func (c ChannelType) String() string {
	switch c {
	case SPSC:
		return "spsc"
	case SPMC:
		return "spmc"
	case MPSC:
		return "mpsc"
	case MPMC:
		return "mpmc"
	default:
		return "unknown"
	}
}

// DistributionType names how payloads are shared among consumers.
type DistributionType int

const (
	// LoadBalance delivers every payload to exactly one consumer.
	LoadBalance DistributionType = iota
	// Broadcast delivers every payload to every consumer.
	Broadcast
)

// Variant enumerates the full menu of queue designs this package ships.
type Variant int

const (
	VariantSPSCDualIndex Variant = iota
	VariantSPSCDualIndexPadded
	VariantSPSCSafeSkipBoxed
	VariantSPSCSafeSkipInline
	VariantSPSCSafeSkipShared
	VariantSPSCSlotLockCopy
	VariantSPSCFullLockCopy

	VariantSPMCLoadBalancerCopy
	VariantSPMCBroadcast
	VariantSPMCBroadcastPadded
	VariantSPMCBroadcastUnsafeLocalTails
	VariantSPMCBroadcastUnsafeLocalTailsShared

	VariantMPSCLocalTailLossy
	VariantMPSCLocalTailLossyPadded
	VariantMPSCGlobalTail
	VariantMPSCGlobalTailLossy
	VariantMPSCPerProducerSPSCGroup

	VariantMPMCLoadBalancer
	VariantMPMCLoadBalancerPadded
	VariantMPMCBroadcast
	VariantMPMCBroadcastPerProducerSPMC
)

// Channel reports the producer/consumer cardinality of v.
func (v Variant) Channel() ChannelType {
	switch {
	case v <= VariantSPSCFullLockCopy:
		return SPSC
	case v <= VariantSPMCBroadcastUnsafeLocalTailsShared:
		return SPMC
	case v <= VariantMPSCPerProducerSPSCGroup:
		return MPSC
	default:
		return MPMC
	}
}

// Distribution reports whether v broadcasts or load-balances across
// consumers. Per spec.md's glossary, single-consumer channels (SPSC, MPSC)
// trivially broadcast — there is only ever one consumer to terminate.
func (v Variant) Distribution() DistributionType {
	switch v {
	case VariantSPMCLoadBalancerCopy, VariantMPMCLoadBalancer, VariantMPMCLoadBalancerPadded:
		return LoadBalance
	default:
		return Broadcast
	}
}

// Copyable reports whether v requires a [Copyable] payload type.
func (v Variant) Copyable() bool {
	switch v {
	case VariantSPSCSlotLockCopy, VariantSPSCFullLockCopy,
		VariantSPMCLoadBalancerCopy, VariantSPMCBroadcastUnsafeLocalTails, VariantSPMCBroadcastUnsafeLocalTailsShared,
		VariantMPMCBroadcastPerProducerSPMC:
		return true
	default:
		return false
	}
}

func (v Variant) String() string {
	switch v {
	case VariantSPSCDualIndex:
		return "spsc-dual-index"
	case VariantSPSCDualIndexPadded:
		return "spsc-dual-index-padded"
	case VariantSPSCSafeSkipBoxed:
		return "spsc-safe-skip-boxed"
	case VariantSPSCSafeSkipInline:
		return "spsc-safe-skip-inline"
	case VariantSPSCSafeSkipShared:
		return "spsc-safe-skip-shared"
	case VariantSPSCSlotLockCopy:
		return "spsc-slot-lock-copy"
	case VariantSPSCFullLockCopy:
		return "spsc-full-lock-copy"
	case VariantSPMCLoadBalancerCopy:
		return "spmc-load-balancer-copy"
	case VariantSPMCBroadcast:
		return "spmc-broadcaster"
	case VariantSPMCBroadcastPadded:
		return "spmc-broadcaster-padded"
	case VariantSPMCBroadcastUnsafeLocalTails:
		return "spmc-broadcaster-unsafe-local-tails"
	case VariantSPMCBroadcastUnsafeLocalTailsShared:
		return "spmc-broadcaster-unsafe-local-tails-shared"
	case VariantMPSCLocalTailLossy:
		return "mpsc-local-tail-lossy"
	case VariantMPSCLocalTailLossyPadded:
		return "mpsc-local-tail-lossy-padded"
	case VariantMPSCGlobalTail:
		return "mpsc-global-tail"
	case VariantMPSCGlobalTailLossy:
		return "mpsc-global-tail-lossy"
	case VariantMPSCPerProducerSPSCGroup:
		return "mpsc-per-producer-spsc-group"
	case VariantMPMCLoadBalancer:
		return "mpmc-load-balancer"
	case VariantMPMCLoadBalancerPadded:
		return "mpmc-load-balancer-padded"
	case VariantMPMCBroadcast:
		return "mpmc-broadcaster"
	case VariantMPMCBroadcastPerProducerSPMC:
		return "mpmc-broadcaster-per-producer-spmc"
	default:
		return "unknown"
	}
}
