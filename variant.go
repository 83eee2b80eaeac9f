// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "fmt"

// Channel bundles a variant's sender with a receiver factory, giving every
// variant and distribution a single construction path regardless of whether
// consumers share one handle (load-balance: the protocol arbitrates via CAS)
// or each join independently (broadcast: every consumer registers its own
// tail via [Subscribable.Subscribe]).
type Channel[T any] struct {
	send      Sender[T]
	broadcast Subscribable[T]
	shared    Receiver[T]
}

// Sender returns the producer-side handle, shared by every producer
// goroutine regardless of variant.
func (c *Channel[T]) Sender() Sender[T] { return c.send }

// NewReceiver returns a handle for one more consumer. Variants without a
// Subscribe method hand back the same shared handle every time: the
// load-balancing ones (CAS arbitrates which consumer gets each payload),
// the single-consumer ones, and SPMCBroadcastUnsafeLocalTailsShared (each
// consumer's localTail is its cursor). The other broadcaster variants join
// a fresh subscription, so a consumer created later never sees payloads
// pushed before it joined.
func (c *Channel[T]) NewReceiver() Receiver[T] {
	if c.broadcast != nil {
		return c.broadcast.Subscribe()
	}
	return c.shared
}

// New constructs the named variant for a [Copyable] payload type, covering
// the full menu including the Copy-only load-balancer and lock variants. Use
// [NewAny] instead for payload types (such as [HeapPayload]) that cannot
// satisfy [Copyable]; it rejects the variants that require it.
//
// producers is only consulted by the per-producer-lane variants
// (PerProducerSPSCGroup, BroadcastPerProducerSPMC); every other variant
// ignores it.
func New[T Copyable](v Variant, capacity, producers int) (*Channel[T], error) {
	switch v {
	case VariantSPSCDualIndex:
		q := NewSPSCDualIndex[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCDualIndexPadded:
		q := NewSPSCDualIndexPadded[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCSafeSkipBoxed:
		q := NewSPSCSafeSkipBoxed[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCSafeSkipInline:
		q := NewSPSCSafeSkipInline[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCSafeSkipShared:
		q := NewSPSCSafeSkipShared[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCSlotLockCopy:
		q := NewSPSCSlotLockCopy[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCFullLockCopy:
		q := NewSPSCFullLockCopy[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil

	case VariantSPMCLoadBalancerCopy:
		q := NewSPMCLoadBalancerCopy[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPMCBroadcast:
		q := NewSPMCBroadcast[T](capacity)
		return &Channel[T]{send: q, broadcast: q}, nil
	case VariantSPMCBroadcastPadded:
		q := NewSPMCBroadcastPadded[T](capacity)
		return &Channel[T]{send: q, broadcast: q}, nil
	case VariantSPMCBroadcastUnsafeLocalTails:
		q := NewSPMCBroadcastUnsafeLocalTails[T](capacity)
		return &Channel[T]{send: q, broadcast: q}, nil
	case VariantSPMCBroadcastUnsafeLocalTailsShared:
		q := NewSPMCBroadcastUnsafeLocalTailsShared[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil

	case VariantMPSCLocalTailLossy:
		q := NewMPSCLocalTailLossy[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCLocalTailLossyPadded:
		q := NewMPSCLocalTailLossyPadded[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCGlobalTail:
		q := NewMPSCGlobalTail[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCGlobalTailLossy:
		q := NewMPSCGlobalTailLossy[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCPerProducerSPSCGroup:
		q := NewMPSCPerProducerSPSCGroup[T](capacity, producers)
		return &Channel[T]{send: q, shared: q}, nil

	case VariantMPMCLoadBalancer:
		q := NewMPMCLoadBalancer[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPMCLoadBalancerPadded:
		q := NewMPMCLoadBalancerPadded[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPMCBroadcast:
		q := NewMPMCBroadcast[T](capacity)
		return &Channel[T]{send: q, broadcast: q}, nil
	case VariantMPMCBroadcastPerProducerSPMC:
		q := NewMPMCBroadcastPerProducerSPMC[T](capacity, producers)
		return &Channel[T]{send: q, broadcast: q}, nil

	default:
		return nil, fmt.Errorf("ring: unknown variant %d", int(v))
	}
}

// NewAny constructs the named variant for an arbitrary payload type,
// rejecting the variants [Variant.Copyable] reports as Copy-only. Use this
// for [HeapPayload] and other non-Copyable payloads.
func NewAny[T any](v Variant, capacity, producers int) (*Channel[T], error) {
	if v.Copyable() {
		return nil, fmt.Errorf("ring: variant %s requires a Copyable payload type", v)
	}
	switch v {
	case VariantSPSCDualIndex:
		q := NewSPSCDualIndex[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCDualIndexPadded:
		q := NewSPSCDualIndexPadded[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCSafeSkipBoxed:
		q := NewSPSCSafeSkipBoxed[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCSafeSkipInline:
		q := NewSPSCSafeSkipInline[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantSPSCSafeSkipShared:
		q := NewSPSCSafeSkipShared[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil

	case VariantSPMCBroadcast:
		q := NewSPMCBroadcast[T](capacity)
		return &Channel[T]{send: q, broadcast: q}, nil
	case VariantSPMCBroadcastPadded:
		q := NewSPMCBroadcastPadded[T](capacity)
		return &Channel[T]{send: q, broadcast: q}, nil

	case VariantMPSCLocalTailLossy:
		q := NewMPSCLocalTailLossy[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCLocalTailLossyPadded:
		q := NewMPSCLocalTailLossyPadded[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCGlobalTail:
		q := NewMPSCGlobalTail[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCGlobalTailLossy:
		q := NewMPSCGlobalTailLossy[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPSCPerProducerSPSCGroup:
		q := NewMPSCPerProducerSPSCGroup[T](capacity, producers)
		return &Channel[T]{send: q, shared: q}, nil

	case VariantMPMCLoadBalancer:
		q := NewMPMCLoadBalancer[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPMCLoadBalancerPadded:
		q := NewMPMCLoadBalancerPadded[T](capacity)
		return &Channel[T]{send: q, shared: q}, nil
	case VariantMPMCBroadcast:
		q := NewMPMCBroadcast[T](capacity)
		return &Channel[T]{send: q, broadcast: q}, nil

	default:
		return nil, fmt.Errorf("ring: unknown variant %d", int(v))
	}
}
