// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the laboratory's run parameters from flags, a config
// file, and environment variables via github.com/spf13/viper, bound to a
// github.com/spf13/cobra command's flag set. Every value has a default
// matching the original project's hard-coded constants in main.rs.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leana56/ring-buffers-research/ring"
)

// Config is the full set of knobs spec.md §6 names.
type Config struct {
	ConsecutiveRuns int

	SampleSize           int
	PayloadSize          int
	PayloadByteType      ring.ByteFill
	PayloadStashGenOnFly bool
	PayloadKind          string // "inline" or "heap" — the original's BlanketPayloadChange toggle

	BurnProducerTime time.Duration
	BurnConsumerTime time.Duration

	MeasurementSamplePercentage int
	SaveMeasurements            bool

	ProducerPinCPUIDs []int
	ConsumerPinCPUIDs []int

	RunSPSCExperiments bool
	SPSCRingSize       int

	RunSPMCExperiments bool
	SPMCRingSize       int
	SPMCNumConsumers   int

	RunMPSCExperiments bool
	MPSCRingSize       int
	MPSCNumProducers   int

	RunMPMCExperiments bool
	MPMCRingSize       int
	MPMCNumProducers   int
	MPMCNumConsumers   int

	FullSuiteTesting    bool
	FullSuitePayloadSizes []int
	FullSuiteRingSizes    []int
}

// Defaults returns the stock configuration, matching the original project's
// constants (SAMPLE_SIZE, PAYLOAD_SIZE, ring sizes, pin maps, ...).
func Defaults() *Config {
	return &Config{
		ConsecutiveRuns: 1,

		SampleSize:           1_000_000,
		PayloadSize:          256,
		PayloadByteType:      ring.FillRandom,
		PayloadStashGenOnFly: false,
		PayloadKind:          "inline",

		BurnProducerTime: 0,
		BurnConsumerTime: 0,

		MeasurementSamplePercentage: 100,
		SaveMeasurements:            true,

		ProducerPinCPUIDs: []int{1, 2, 3, 4, 5},
		ConsumerPinCPUIDs: []int{6, 7, 8, 9, 10},

		RunSPSCExperiments: true,
		SPSCRingSize:       1024,

		RunSPMCExperiments: true,
		SPMCRingSize:       1024,
		SPMCNumConsumers:   2,

		RunMPSCExperiments: true,
		MPSCRingSize:       1024,
		MPSCNumProducers:   2,

		RunMPMCExperiments: true,
		MPMCRingSize:       1024,
		MPMCNumProducers:   2,
		MPMCNumConsumers:   2,

		FullSuiteTesting:      false,
		FullSuitePayloadSizes: []int{2, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096},
		FullSuiteRingSizes:    []int{4, 8, 16, 32, 64, 256, 1024, 4096},
	}
}

// BindFlags registers every knob on cmd's flag set with its default value,
// for github.com/spf13/viper to later resolve against flags set on the
// command line, environment variables, a config file, and the flag defaults
// (in that precedence order).
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	d := Defaults()
	flags := cmd.Flags()

	flags.Int("consecutive-runs", d.ConsecutiveRuns, "how many times to repeat the full experiment set")
	flags.Int("sample-size", d.SampleSize, "payloads emitted per producer")
	flags.Int("payload-size", d.PayloadSize, "payload size in bytes (recorded only; payloads are fixed at ring.PayloadBytes)")
	flags.String("payload-byte-type", "random", "payload fill: random|blank")
	flags.Bool("payload-stash-gen-on-fly", d.PayloadStashGenOnFly, "generate payloads lazily instead of pre-allocating the stash")
	flags.String("payload-kind", d.PayloadKind, "payload representation for non-Copy-only variants: inline|heap")

	flags.Duration("burn-producer-time", d.BurnProducerTime, "busy-wait duration after each push")
	flags.Duration("burn-consumer-time", d.BurnConsumerTime, "busy-wait duration after each pop")

	flags.Int("measurement-sample-percentage", d.MeasurementSamplePercentage, "percentage of pops sampled for latency")
	flags.Bool("save-measurements", d.SaveMeasurements, "append JSON measurement records under results/")

	flags.IntSlice("producer-pin-cpu-ids", d.ProducerPinCPUIDs, "CPU core IDs producers pin to, by producer index")
	flags.IntSlice("consumer-pin-cpu-ids", d.ConsumerPinCPUIDs, "CPU core IDs consumers pin to, by consumer index")

	flags.Bool("run-spsc-experiments", d.RunSPSCExperiments, "")
	flags.Int("spsc-ring-size", d.SPSCRingSize, "")

	flags.Bool("run-spmc-experiments", d.RunSPMCExperiments, "")
	flags.Int("spmc-ring-size", d.SPMCRingSize, "")
	flags.Int("spmc-num-consumers", d.SPMCNumConsumers, "")

	flags.Bool("run-mpsc-experiments", d.RunMPSCExperiments, "")
	flags.Int("mpsc-ring-size", d.MPSCRingSize, "")
	flags.Int("mpsc-num-producers", d.MPSCNumProducers, "")

	flags.Bool("run-mpmc-experiments", d.RunMPMCExperiments, "")
	flags.Int("mpmc-ring-size", d.MPMCRingSize, "")
	flags.Int("mpmc-num-producers", d.MPMCNumProducers, "")
	flags.Int("mpmc-num-consumers", d.MPMCNumConsumers, "")

	flags.Bool("full-suite-testing", d.FullSuiteTesting, "sweep the full-suite ring sizes over the Copy-only variant menu (payload size stays fixed)")

	_ = v.BindPFlags(flags)
}

// Load resolves the bound viper instance into a Config, validating the
// cross-field constraints the original project asserts at startup.
func Load(v *viper.Viper) (*Config, error) {
	c := Defaults()

	c.ConsecutiveRuns = v.GetInt("consecutive-runs")
	c.SampleSize = v.GetInt("sample-size")
	c.PayloadSize = v.GetInt("payload-size")
	if v.GetString("payload-byte-type") == "blank" {
		c.PayloadByteType = ring.FillBlank
	} else {
		c.PayloadByteType = ring.FillRandom
	}
	c.PayloadStashGenOnFly = v.GetBool("payload-stash-gen-on-fly")
	c.PayloadKind = v.GetString("payload-kind")

	c.BurnProducerTime = v.GetDuration("burn-producer-time")
	c.BurnConsumerTime = v.GetDuration("burn-consumer-time")

	c.MeasurementSamplePercentage = v.GetInt("measurement-sample-percentage")
	c.SaveMeasurements = v.GetBool("save-measurements")

	c.ProducerPinCPUIDs = v.GetIntSlice("producer-pin-cpu-ids")
	c.ConsumerPinCPUIDs = v.GetIntSlice("consumer-pin-cpu-ids")

	c.RunSPSCExperiments = v.GetBool("run-spsc-experiments")
	c.SPSCRingSize = v.GetInt("spsc-ring-size")

	c.RunSPMCExperiments = v.GetBool("run-spmc-experiments")
	c.SPMCRingSize = v.GetInt("spmc-ring-size")
	c.SPMCNumConsumers = v.GetInt("spmc-num-consumers")

	c.RunMPSCExperiments = v.GetBool("run-mpsc-experiments")
	c.MPSCRingSize = v.GetInt("mpsc-ring-size")
	c.MPSCNumProducers = v.GetInt("mpsc-num-producers")

	c.RunMPMCExperiments = v.GetBool("run-mpmc-experiments")
	c.MPMCRingSize = v.GetInt("mpmc-ring-size")
	c.MPMCNumProducers = v.GetInt("mpmc-num-producers")
	c.MPMCNumConsumers = v.GetInt("mpmc-num-consumers")

	c.FullSuiteTesting = v.GetBool("full-suite-testing")

	return c, c.Validate()
}

// Validate checks the pin-map-vs-thread-count constraints the original
// project asserts in main().
func (c *Config) Validate() error {
	if c.SPMCNumConsumers > len(c.ConsumerPinCPUIDs) {
		return fmt.Errorf("config: spmc-num-consumers (%d) exceeds consumer-pin-cpu-ids length (%d)", c.SPMCNumConsumers, len(c.ConsumerPinCPUIDs))
	}
	if c.MPSCNumProducers > len(c.ProducerPinCPUIDs) {
		return fmt.Errorf("config: mpsc-num-producers (%d) exceeds producer-pin-cpu-ids length (%d)", c.MPSCNumProducers, len(c.ProducerPinCPUIDs))
	}
	if c.MPMCNumProducers > len(c.ProducerPinCPUIDs) {
		return fmt.Errorf("config: mpmc-num-producers (%d) exceeds producer-pin-cpu-ids length (%d)", c.MPMCNumProducers, len(c.ProducerPinCPUIDs))
	}
	if c.MPMCNumConsumers > len(c.ConsumerPinCPUIDs) {
		return fmt.Errorf("config: mpmc-num-consumers (%d) exceeds consumer-pin-cpu-ids length (%d)", c.MPMCNumConsumers, len(c.ConsumerPinCPUIDs))
	}
	return nil
}
