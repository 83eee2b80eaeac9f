// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package measurement captures per-consumer latency/throughput samples and
// reports them individually and relative to the other variants in a run.
// Grounded on the original project's measurements/individual.rs and
// measurements/group.rs.
package measurement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/leana56/ring-buffers-research/ring"
)

type sample struct {
	index   uint64
	latency time.Duration
}

// Individual accumulates latency samples for a single consumer over the
// lifetime of one variant run, then reduces them into a Record.
type Individual struct {
	Variant           ring.Variant
	RingSize          int
	ConsumerID        int
	ProducerThreads   int
	ConsumerThreads   int
	SampleSize        int
	PayloadSize       int
	Copyable          bool
	ByteFill          ring.ByteFill
	GenOnFly          bool
	BurnProducer      time.Duration
	BurnConsumer      time.Duration
	SamplePercentage  int

	start time.Time

	samples      []sample
	samplesIdx   int
	sampleSeq    int
	nextSample   int
	sampleRate   int
	termination  int
	totalElapsed time.Duration

	log *zap.SugaredLogger
}

// NewIndividual constructs a measurement buffer sized for samplePercentage%
// of SampleSize*producerThreads samples.
func NewIndividual(v ring.Variant, ringSize, consumerID, producerThreads, consumerThreads, sampleSize, samplePercentage int, log *zap.SugaredLogger) *Individual {
	capacity := (sampleSize*producerThreads*samplePercentage + 99) / 100
	rate := 100 / max(samplePercentage, 1)
	return &Individual{
		Variant:          v,
		RingSize:         ringSize,
		ConsumerID:       consumerID,
		ProducerThreads:  producerThreads,
		ConsumerThreads:  consumerThreads,
		SampleSize:       sampleSize,
		SamplePercentage: samplePercentage,
		samples:          make([]sample, capacity),
		nextSample:       rate,
		sampleRate:       rate,
		log:              log,
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Start resets the elapsed-time clock; called once all consumers have
// crossed the start barrier.
func (m *Individual) Start() { m.start = time.Now() }

// Add records one popped payload (its index and send-to-receive latency).
// It returns true once the consumer has observed ProducerThreads
// terminators — the stop condition shared by load-balancing and
// broadcasting distributions alike.
func (m *Individual) Add(index uint64, latency time.Duration) bool {
	if index == ring.Terminator {
		m.termination++
		return m.termination >= m.ProducerThreads
	}

	if m.samplesIdx >= len(m.samples) {
		return false
	}

	m.sampleSeq++
	if m.sampleSeq == m.nextSample {
		m.samples[m.samplesIdx] = sample{index: index, latency: latency}
		m.samplesIdx++
		m.nextSample = m.sampleSeq + m.sampleRate
	}
	return false
}

// Stop freezes the elapsed-time clock.
func (m *Individual) Stop() { m.totalElapsed = time.Since(m.start) }

// Record is the finalized, JSON-serializable measurement for one consumer.
type Record struct {
	Variant                     string  `json:"ring_name"`
	ChannelType                 string  `json:"channel_type"`
	RingSize                    int     `json:"ring_size"`
	ConsumerID                  int     `json:"consumer_id"`
	SampleSize                  int     `json:"sample_size"`
	CopyablePayload             bool    `json:"copyable_payload"`
	PayloadSize                 int     `json:"payload_size"`
	PayloadByteType             string  `json:"payload_type"`
	PayloadStashGenOnFly        bool    `json:"payload_stash_gen_on_fly"`
	BurnProducerMicros          int64   `json:"burn_producer_time"`
	BurnConsumerMicros          int64   `json:"burn_consumer_time"`
	MeasurementSamplePercentage int     `json:"measurement_sample_percentage"`
	ProducerThreads             int     `json:"producer_threads"`
	ConsumerThreads             int     `json:"consumer_threads"`
	ElapsedNs                   float64 `json:"elapsed_time_ns"`
	ElapsedUs                   float64 `json:"elapsed_time_us"`
	ElapsedMs                   float64 `json:"elapsed_time_ms"`
	ElapsedS                    float64 `json:"elapsed_time_s"`
	ThroughputMsgsPerNs         float64 `json:"throughput_msgs_per_ns"`
	ThroughputMsgsPerUs         float64 `json:"throughput_msgs_per_us"`
	ThroughputMsgsPerMs         float64 `json:"throughput_msgs_per_ms"`
	ThroughputMsgsPerS          float64 `json:"throughput_msgs_per_s"`
	BytesThroughputPerNs        float64 `json:"bytes_throughput_per_ns"`
	BytesThroughputPerUs        float64 `json:"bytes_throughput_per_us"`
	BytesThroughputPerMs        float64 `json:"bytes_throughput_per_ms"`
	BytesThroughputPerS         float64 `json:"bytes_throughput_per_s"`
	MinLatencyNs                int64   `json:"min_latency_ns"`
	MaxLatencyNs                int64   `json:"max_latency_ns"`
	MedianLatencyNs             int64   `json:"median_latency_ns"`
	AvgLatencyNs                int64   `json:"avg_latency_ns"`
	DataLossPercentage          float64 `json:"data_loss_percentage"`
	DuplicatesPercentage        float64 `json:"duplicates_percentage"`
}

// Finalize sorts the sample buffer, computes latency/throughput/loss
// statistics, prints a human-readable summary, optionally appends the
// record as a JSON line under results/<channel>/<variant>.txt, and returns
// the Record for group-level reporting.
func (m *Individual) Finalize(saveResults bool) Record {
	sort.Slice(m.samples, func(i, j int) bool { return m.samples[i].latency < m.samples[j].latency })

	nonZero := make([]sample, 0, len(m.samples))
	for _, s := range m.samples {
		if s.index > 0 {
			nonZero = append(nonZero, s)
		}
	}

	var minLat, maxLat, medianLat, avgLat int64
	if len(nonZero) > 0 {
		minLat = int64(nonZero[0].latency)
		maxLat = int64(nonZero[len(nonZero)-1].latency)
		medianLat = int64(nonZero[len(nonZero)/2].latency)
		var sum int64
		for _, s := range nonZero {
			sum += int64(s.latency)
		}
		avgLat = sum / int64(len(nonZero))
	}

	seen := make([]bool, m.SampleSize*m.ProducerThreads+1)
	duplicates := 0
	for _, s := range m.samples {
		if s.index == 0 || int(s.index) >= len(seen) {
			continue
		}
		if seen[s.index] {
			duplicates++
		} else {
			seen[s.index] = true
		}
	}
	received := 0
	for _, v := range seen {
		if v {
			received++
		}
	}
	lost := len(m.samples) - received - 1
	if lost < 0 {
		lost = 0
	}

	capacity := float64(len(m.samples))
	lossPct := float64(lost) / capacity * 100
	dupPct := float64(duplicates) / capacity * 100

	elapsedNs := float64(m.totalElapsed.Nanoseconds())
	elapsedUs := elapsedNs / 1e3
	elapsedMs := elapsedNs / 1e6
	elapsedS := elapsedNs / 1e9

	sampleSizeF := float64(m.SampleSize)
	msgsNs := sampleSizeF / elapsedNs
	msgsUs := sampleSizeF / elapsedUs
	msgsMs := sampleSizeF / elapsedMs
	msgsS := sampleSizeF / elapsedS

	totalBytes := float64(m.PayloadSize) * sampleSizeF
	bytesNs := totalBytes / elapsedNs
	bytesUs := totalBytes / elapsedUs
	bytesMs := totalBytes / elapsedMs
	bytesS := totalBytes / elapsedS

	rec := Record{
		Variant:                     m.Variant.String(),
		ChannelType:                 m.Variant.Channel().String(),
		RingSize:                    m.RingSize,
		ConsumerID:                  m.ConsumerID,
		SampleSize:                  m.SampleSize,
		CopyablePayload:             m.Copyable,
		PayloadSize:                 m.PayloadSize,
		PayloadByteType:             byteFillName(m.ByteFill),
		PayloadStashGenOnFly:        m.GenOnFly,
		BurnProducerMicros:          m.BurnProducer.Microseconds(),
		BurnConsumerMicros:          m.BurnConsumer.Microseconds(),
		MeasurementSamplePercentage: m.SamplePercentage,
		ProducerThreads:             m.ProducerThreads,
		ConsumerThreads:             m.ConsumerThreads,
		ElapsedNs:                   elapsedNs,
		ElapsedUs:                   elapsedUs,
		ElapsedMs:                   elapsedMs,
		ElapsedS:                    elapsedS,
		ThroughputMsgsPerNs:         msgsNs,
		ThroughputMsgsPerUs:         msgsUs,
		ThroughputMsgsPerMs:         msgsMs,
		ThroughputMsgsPerS:          msgsS,
		BytesThroughputPerNs:        bytesNs,
		BytesThroughputPerUs:        bytesUs,
		BytesThroughputPerMs:        bytesMs,
		BytesThroughputPerS:         bytesS,
		MinLatencyNs:                minLat,
		MaxLatencyNs:                maxLat,
		MedianLatencyNs:             medianLat,
		AvgLatencyNs:                avgLat,
		DataLossPercentage:          lossPct,
		DuplicatesPercentage:        dupPct,
	}

	m.print(rec)

	if saveResults {
		if err := m.appendResult(rec); err != nil && m.log != nil {
			m.log.Warnw("failed to persist measurement record", "variant", rec.Variant, "error", err)
		}
	}

	return rec
}

func byteFillName(f ring.ByteFill) string {
	if f == ring.FillRandom {
		return "random"
	}
	return "blank"
}

func (m *Individual) print(rec Record) {
	teal := color.New(color.FgCyan)
	dull := color.New(color.FgHiBlack)
	orange := color.New(color.FgYellow)

	teal.Printf("[*] Results for consumer thread: %d\n", rec.ConsumerID)
	fmt.Printf("Elapsed Time          |:| %.0f ns | %.0f us | %.2f ms | %.4f s\n", rec.ElapsedNs, rec.ElapsedUs, rec.ElapsedMs, rec.ElapsedS)
	fmt.Printf("Throughput (msgs/)    |:| %.3f ns | %.0f us | %.0f ms | %.0f s\n", rec.ThroughputMsgsPerNs, rec.ThroughputMsgsPerUs, rec.ThroughputMsgsPerMs, rec.ThroughputMsgsPerS)
	fmt.Printf("Bytes Throughput (B/) |:| %.3f ns | %.0f us | %.0f ms | %.0f s\n", rec.BytesThroughputPerNs, rec.BytesThroughputPerUs, rec.BytesThroughputPerMs, rec.BytesThroughputPerS)

	dull.Printf("Latency |:| Min: %d ns | Max: %d ns | Median: %d ns | Avg: %d ns\n", rec.MinLatencyNs, rec.MaxLatencyNs, rec.MedianLatencyNs, rec.AvgLatencyNs)

	if rec.DataLossPercentage > 0 || rec.DuplicatesPercentage > 0 {
		orange.Printf("Health |:| Data Loss: %.2f%% | Duplicates: %.2f%%\n", rec.DataLossPercentage, rec.DuplicatesPercentage)
	} else {
		dull.Printf("Health |:| Data Loss: %.2f%% | Duplicates: %.2f%%\n", rec.DataLossPercentage, rec.DuplicatesPercentage)
	}
}

func (m *Individual) appendResult(rec Record) error {
	dir := filepath.Join("results", rec.ChannelType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, rec.Variant+".txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}
