// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package harness spawns and pins producer/consumer goroutines for one
// variant run, barrier-synchronizes their start, collects each consumer's
// measurement, and then raises an exit signal that stops the producers.
// Grounded on the original project's experiment.rs.
package harness

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/leana56/ring-buffers-research/measurement"
	"github.com/leana56/ring-buffers-research/ring"
)

// Options parameterizes one variant run.
type Options struct {
	Variant   ring.Variant
	RingSize  int
	Producers int
	Consumers int

	SampleSize       int
	PayloadSize      int
	PayloadByteType  ring.ByteFill
	GenOnFly         bool
	Copyable         bool
	BurnProducer     time.Duration
	BurnConsumer     time.Duration
	SamplePercentage int
	SaveMeasurements bool

	ProducerPinCPUIDs []int
	ConsumerPinCPUIDs []int
}

// RunCopyable runs the named variant for a [ring.Copyable] payload type,
// covering the full 21-variant menu (including the Copy-only load-balancer
// and lock variants).
func RunCopyable[T interface {
	ring.Copyable
	ring.Payload[T]
}](opts Options, newPayload func(uint64, ring.ByteFill) T, terminator T, log *zap.SugaredLogger) ([]measurement.Record, error) {
	ch, err := ring.New[T](opts.Variant, opts.RingSize, opts.Producers)
	if err != nil {
		return nil, err
	}
	return run(ch, opts, newPayload, terminator, log), nil
}

// RunAny runs the named variant for an arbitrary payload type, rejecting
// variants that require [ring.Copyable] — use [RunCopyable] for those.
func RunAny[T ring.Payload[T]](opts Options, newPayload func(uint64, ring.ByteFill) T, terminator T, log *zap.SugaredLogger) ([]measurement.Record, error) {
	ch, err := ring.NewAny[T](opts.Variant, opts.RingSize, opts.Producers)
	if err != nil {
		return nil, err
	}
	return run(ch, opts, newPayload, terminator, log), nil
}

func run[T ring.Payload[T]](ch *ring.Channel[T], opts Options, newPayload func(uint64, ring.ByteFill) T, terminator T, log *zap.SugaredLogger) []measurement.Record {
	color.New(color.FgGreen).Printf("=--------------------------= %s =--------------------------=\n", opts.Variant)

	terminators := 1
	if opts.Variant.Distribution() == ring.LoadBalance {
		terminators = opts.Consumers
	}

	startBarrier := newBarrier(opts.Producers + opts.Consumers)
	var exitSignal atomic.Bool

	var producers sync.WaitGroup
	for p := 0; p < opts.Producers; p++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			pinCurrentThread(cpuFor(opts.ProducerPinCPUIDs, id), log)
			defer runtime.UnlockOSThread()

			stash := ring.NewStash(ring.StashConfig{
				ProducerID:  id,
				SampleSize:  uint64(opts.SampleSize),
				Terminators: terminators,
				Fill:        opts.PayloadByteType,
				GenOnFly:    opts.GenOnFly,
			}, newPayload, terminator)

			sender := ch.Sender()
			startBarrier.arrive()

			for {
				payload, ok := stash.Next()
				if !ok {
					return
				}
				sender.Push(id, payload.WithTimestamp(time.Now().UnixNano()))

				if opts.BurnProducer > 0 {
					burn(opts.BurnProducer)
				}
				if exitSignal.Load() {
					return
				}
			}
		}(p)
	}

	consumerBarrier := newBarrier(opts.Consumers)
	results := make(chan measurement.Record, opts.Consumers)

	var consumers sync.WaitGroup
	for c := 0; c < opts.Consumers; c++ {
		consumers.Add(1)
		go func(id int) {
			defer consumers.Done()
			pinCurrentThread(cpuFor(opts.ConsumerPinCPUIDs, id), log)
			defer runtime.UnlockOSThread()

			receiver := ch.NewReceiver()
			m := measurement.NewIndividual(opts.Variant, opts.RingSize, id, opts.Producers, opts.Consumers, opts.SampleSize, opts.SamplePercentage, log)
			m.Copyable = opts.Copyable
			m.PayloadSize = opts.PayloadSize
			m.ByteFill = opts.PayloadByteType
			m.GenOnFly = opts.GenOnFly
			m.BurnProducer = opts.BurnProducer
			m.BurnConsumer = opts.BurnConsumer

			startBarrier.arrive()
			m.Start()

			var localTail uint64
			for {
				payload := receiver.Pop(&localTail)
				index, elapsed := payload.Observe()
				if m.Add(index, elapsed) {
					break
				}
				if opts.BurnConsumer > 0 {
					burn(opts.BurnConsumer)
				}
			}

			m.Stop()
			consumerBarrier.arrive()
			results <- m.Finalize(opts.SaveMeasurements)
		}(c)
	}

	records := make([]measurement.Record, 0, opts.Consumers)
	for i := 0; i < opts.Consumers; i++ {
		records = append(records, <-results)
	}

	exitSignal.Store(true)
	producers.Wait()
	consumers.Wait()

	return records
}

func cpuFor(ids []int, index int) int {
	if len(ids) == 0 {
		return 0
	}
	return ids[index%len(ids)]
}

// barrier is a one-shot rendezvous point for a known party count, built on
// sync.WaitGroup: every party calls arrive(), which both signals its own
// arrival and blocks until every party has done the same.
type barrier struct {
	wg *sync.WaitGroup
}

func newBarrier(parties int) *barrier {
	wg := &sync.WaitGroup{}
	wg.Add(parties)
	return &barrier{wg: wg}
}

func (b *barrier) arrive() {
	b.wg.Done()
	b.wg.Wait()
}
