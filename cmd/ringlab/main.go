// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ringlab drives the ring-buffer comparative benchmark suite:
// it wires flags and a config file via cobra/viper, runs every enabled
// channel type's variant menu, and prints grouped relative results.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/leana56/ring-buffers-research/harness"
	"github.com/leana56/ring-buffers-research/internal/config"
	"github.com/leana56/ring-buffers-research/measurement"
	"github.com/leana56/ring-buffers-research/ring"
)

func main() {
	v := viper.New()
	v.SetConfigName("ringlab")
	v.AddConfigPath(".")
	v.SetEnvPrefix("RINGLAB")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "ringlab",
		Short: "Comparative laboratory for lock-free and lock-based ring-buffer queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(v)
		},
	}
	config.BindFlags(root, v)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("ringlab: failed to initialize logger: %v", err))
	}
	return logger.Sugar()
}

func runAll(v *viper.Viper) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	if cfgFile := v.ConfigFileUsed(); cfgFile != "" {
		log.Infow("loaded config file", "path", cfgFile)
	} else if err := v.ReadInConfig(); err == nil {
		log.Infow("loaded config file", "path", v.ConfigFileUsed())
	}

	cfg, err := config.Load(v)
	if err != nil {
		panic(fmt.Sprintf("ringlab: invalid configuration: %v", err))
	}

	warnIfHuge(cfg)

	for _, dir := range []string{"results/spsc", "results/spmc", "results/mpsc", "results/mpmc"} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			panic(fmt.Sprintf("ringlab: failed to create results directory %s: %v", dir, err))
		}
	}

	for run := 0; run < cfg.ConsecutiveRuns; run++ {
		dull := color.New(color.FgHiBlack)

		if cfg.RunSPSCExperiments {
			dull.Printf("\n[*] (%d/%d) | Starting SPSC Ring Buffer Test\n\n", run+1, cfg.ConsecutiveRuns)
			group := measurement.NewGroup()
			for _, variant := range spscVariants {
				runVariant(variant, cfg, 1, 1, group, log)
			}
			group.PrintRelativeResults()
		}

		if cfg.RunSPMCExperiments {
			dull.Printf("\n[*] (%d/%d) | Starting SPMC Ring Buffer Test\n\n", run+1, cfg.ConsecutiveRuns)
			group := measurement.NewGroup()
			for _, variant := range spmcVariants {
				runVariant(variant, cfg, 1, cfg.SPMCNumConsumers, group, log)
			}
			group.PrintRelativeResults()
		}

		if cfg.RunMPSCExperiments {
			dull.Printf("\n[*] (%d/%d) | Starting MPSC Ring Buffer Test\n\n", run+1, cfg.ConsecutiveRuns)
			group := measurement.NewGroup()
			for _, variant := range mpscVariants {
				runVariant(variant, cfg, cfg.MPSCNumProducers, 1, group, log)
			}
			group.PrintRelativeResults()
		}

		if cfg.RunMPMCExperiments {
			dull.Printf("\n[*] (%d/%d) | Starting MPMC Ring Buffer Test\n\n", run+1, cfg.ConsecutiveRuns)
			group := measurement.NewGroup()
			for _, variant := range mpmcVariants {
				runVariant(variant, cfg, cfg.MPMCNumProducers, cfg.MPMCNumConsumers, group, log)
			}
			group.PrintRelativeResults()
		}

		color.New(color.FgHiGreen).Printf("[*] (%d/%d) | All experiments complete!\n\n", run+1, cfg.ConsecutiveRuns)
	}

	if cfg.FullSuiteTesting {
		runFullSuite(cfg, log)
	}

	return nil
}

var (
	spscVariants = []ring.Variant{
		ring.VariantSPSCDualIndex, ring.VariantSPSCDualIndexPadded,
		ring.VariantSPSCSafeSkipBoxed, ring.VariantSPSCSafeSkipInline, ring.VariantSPSCSafeSkipShared,
		ring.VariantSPSCSlotLockCopy, ring.VariantSPSCFullLockCopy,
	}
	spmcVariants = []ring.Variant{
		ring.VariantSPMCLoadBalancerCopy, ring.VariantSPMCBroadcast, ring.VariantSPMCBroadcastPadded,
		ring.VariantSPMCBroadcastUnsafeLocalTails, ring.VariantSPMCBroadcastUnsafeLocalTailsShared,
	}
	mpscVariants = []ring.Variant{
		ring.VariantMPSCLocalTailLossy, ring.VariantMPSCLocalTailLossyPadded,
		ring.VariantMPSCGlobalTail, ring.VariantMPSCGlobalTailLossy, ring.VariantMPSCPerProducerSPSCGroup,
	}
	mpmcVariants = []ring.Variant{
		ring.VariantMPMCLoadBalancer, ring.VariantMPMCLoadBalancerPadded,
		ring.VariantMPMCBroadcast, ring.VariantMPMCBroadcastPerProducerSPMC,
	}
)

func ringSizeFor(v ring.Variant, cfg *config.Config) int {
	switch v.Channel() {
	case ring.SPMC:
		return cfg.SPMCRingSize
	case ring.MPSC:
		return cfg.MPSCRingSize
	case ring.MPMC:
		return cfg.MPMCRingSize
	default:
		return cfg.SPSCRingSize
	}
}

// runVariant runs v with the blanket payload representation cfg.PayloadKind
// names ("inline" or "heap"), mirroring the original's BlanketPayloadChange
// toggle. Copy-only variants always run with InlinePayload regardless of
// the toggle, matching the original's "Enforces Copy trait on payload"
// experiments, which cannot compile against its HeapPayload.
func runVariant(v ring.Variant, cfg *config.Config, producers, consumers int, group *measurement.Group, log *zap.SugaredLogger) {
	useHeap := cfg.PayloadKind == "heap" && !v.Copyable()

	opts := harness.Options{
		Variant:           v,
		RingSize:          ringSizeFor(v, cfg),
		Producers:         producers,
		Consumers:         consumers,
		SampleSize:        cfg.SampleSize,
		PayloadSize:       ring.PayloadBytes,
		PayloadByteType:   cfg.PayloadByteType,
		GenOnFly:          cfg.PayloadStashGenOnFly,
		Copyable:          !useHeap,
		BurnProducer:      cfg.BurnProducerTime,
		BurnConsumer:      cfg.BurnConsumerTime,
		SamplePercentage:  cfg.MeasurementSamplePercentage,
		SaveMeasurements:  cfg.SaveMeasurements,
		ProducerPinCPUIDs: cfg.ProducerPinCPUIDs,
		ConsumerPinCPUIDs: cfg.ConsumerPinCPUIDs,
	}

	var (
		records []measurement.Record
		err     error
	)
	if useHeap {
		records, err = harness.RunAny[ring.HeapPayload](opts, ring.NewHeapPayload, ring.HeapTerminator(), log)
	} else {
		records, err = harness.RunCopyable[ring.InlinePayload](opts, ring.NewInlinePayload, ring.InlineTerminator(), log)
	}
	if err != nil {
		log.Warnw("skipping variant", "variant", v, "error", err)
		return
	}
	for _, rec := range records {
		group.Add(rec)
	}
}

// warnIfHuge mirrors the original project's memory-footprint warning: if
// the cumulative stash size would exceed 1GB and it's pre-generated (or
// heavily sampled), ask the operator to confirm before proceeding.
func warnIfHuge(cfg *config.Config) {
	const payloadStructBytes = 8 + 8 + ring.PayloadBytes
	cumulative := float64(cfg.SampleSize*payloadStructBytes) / 1e9
	if cumulative > 1.0 && (!cfg.PayloadStashGenOnFly || cfg.MeasurementSamplePercentage > 50) {
		color.New(color.FgRed).Printf(
			"[!] WARNING: total cumulative payload size is greater than 1 GB (%.2f GB) and payload-stash-gen-on-fly is false or measurement-sample-percentage is greater than 50 (%d%%). This has the potential to use a lot of memory. Proceed with caution!\n",
			cumulative, cfg.MeasurementSamplePercentage)
		color.New(color.FgHiBlack).Println("[-] Press Enter to continue...")
		reader := bufio.NewReader(os.Stdin)
		_, _ = reader.ReadString('\n')
	}
}
