// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring is a comparative laboratory of bounded ring-buffer queue
// designs spanning the four producer/consumer cardinalities.
//
// Every variant shares the same blocking contract:
//
//	sender.Push(producerID, payload)        // busy-spins until placed
//	receiver.Pop(&localTail)                // busy-spins until available
//
// Unlike a non-blocking queue, Push never reports backpressure to the
// caller: it spins until the slot is free, bounded only by an internal
// one-second watchdog that silently abandons the call (see [ErrWouldBlock]
// and the retry loop in spinUntilPlaced, which wraps each blocking variant's
// tryPush). Pop never reports an empty
// queue; it spins until a payload lands.
//
// # Variant menu
//
//	SPSC: DualIndex, DualIndexPadded, SafeSkipBoxed, SafeSkipInline,
//	      SafeSkipShared, SlotLockCopy, FullLockCopy
//	SPMC: LoadBalancerCopy, Broadcast, BroadcastPadded,
//	      BroadcastUnsafeLocalTails, BroadcastUnsafeLocalTailsShared
//	MPSC: LocalTailLossy, LocalTailLossyPadded, GlobalTail, GlobalTailLossy,
//	      PerProducerSPSCGroup
//	MPMC: LoadBalancer, LoadBalancerPadded, Broadcast,
//	      BroadcastPerProducerSPMC
//
// [New] selects a variant by [Variant] value and returns a [Channel] holding
// its sender and a receiver factory, typed as the common [Sender] /
// [Receiver] interfaces,
// mirroring the teacher library's Builder dispatch but driven by an explicit
// enum instead of fluent constraints (this package has no single universal
// algorithm to fall back to — the variant is always named explicitly).
//
// # Copy-only variants
//
// Some variants (the SPMC load balancer, the SPSC lock variants, the SPMC
// unsafe-local-tails broadcasters, the per-producer-SPMC MPMC broadcaster)
// require a payload type that is safe to
// read concurrently with a second in-flight write — the protocol gives no
// per-slot handshake against that race. These constructors are generic over
// [Copyable] instead of `any`, so mismatched payload types fail to compile
// rather than racing at runtime.
package ring
