// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"go.uber.org/zap"

	"github.com/leana56/ring-buffers-research/harness"
	"github.com/leana56/ring-buffers-research/internal/config"
	"github.com/leana56/ring-buffers-research/measurement"
	"github.com/leana56/ring-buffers-research/ring"
)

// fullSuiteVariants are the Copy-only variants exercised by the full-suite
// sweep, one per channel type, matching the original project's "all else
// the same, Copy-only payloads" rule.
var fullSuiteVariants = []ring.Variant{
	ring.VariantSPSCDualIndex,
	ring.VariantSPMCLoadBalancerCopy,
	ring.VariantMPSCLocalTailLossy,
	ring.VariantMPMCLoadBalancer,
}

// runFullSuite sweeps FullSuiteRingSizes against the fixed-thread-count
// Copy-only variant menu. The original project also varies payload size per
// run via a `const N: usize` generic parameter; Go has no const generics, so
// PayloadBytes stays fixed at its single compile-time value (see payload.go)
// and FullSuitePayloadSizes is reported but not applied. See DESIGN.md's
// "Open Question decisions", item 4.
func runFullSuite(cfg *config.Config, log *zap.SugaredLogger) {
	log.Infow("full-suite testing enabled; payload size is fixed at compile time, only ring size varies",
		"fixed_payload_size", ring.PayloadBytes,
		"requested_payload_sizes", cfg.FullSuitePayloadSizes)

	group := measurement.NewGroup()
	for _, ringSize := range cfg.FullSuiteRingSizes {
		for _, variant := range fullSuiteVariants {
			producers, consumers := 1, 1
			switch variant.Channel() {
			case ring.SPMC:
				consumers = cfg.SPMCNumConsumers
			case ring.MPSC:
				producers = cfg.MPSCNumProducers
			case ring.MPMC:
				producers, consumers = cfg.MPMCNumProducers, cfg.MPMCNumConsumers
			}

			opts := harness.Options{
				Variant:           variant,
				RingSize:          ringSize,
				Producers:         producers,
				Consumers:         consumers,
				SampleSize:        cfg.SampleSize,
				PayloadSize:       ring.PayloadBytes,
				PayloadByteType:   cfg.PayloadByteType,
				GenOnFly:          cfg.PayloadStashGenOnFly,
				Copyable:          true,
				BurnProducer:      cfg.BurnProducerTime,
				BurnConsumer:      cfg.BurnConsumerTime,
				SamplePercentage:  cfg.MeasurementSamplePercentage,
				SaveMeasurements:  cfg.SaveMeasurements,
				ProducerPinCPUIDs: cfg.ProducerPinCPUIDs,
				ConsumerPinCPUIDs: cfg.ConsumerPinCPUIDs,
			}

			records, err := harness.RunCopyable[ring.InlinePayload](opts, ring.NewInlinePayload, ring.InlineTerminator(), log)
			if err != nil {
				log.Warnw("skipping full-suite combination", "variant", variant, "ring_size", ringSize, "error", err)
				continue
			}
			for _, rec := range records {
				group.Add(rec)
			}
		}
	}
	group.PrintRelativeResults()
}
