// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package measurement_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/leana56/ring-buffers-research/measurement"
	"github.com/leana56/ring-buffers-research/ring"
)

func TestIndividualTerminationCount(t *testing.T) {
	m := measurement.NewIndividual(ring.VariantMPSCGlobalTail, 4, 0, 3, 1, 100, 100, nil)
	m.PayloadSize = 8
	m.Start()

	for i := 0; i < 2; i++ {
		require.False(t, m.Add(ring.Terminator, 0))
	}
	require.True(t, m.Add(ring.Terminator, 0))
	m.Stop()
}

func TestIndividualFinalizeNoLoss(t *testing.T) {
	m := measurement.NewIndividual(ring.VariantSPSCDualIndex, 4, 0, 1, 1, 5, 100, nil)
	m.PayloadSize = 8
	m.Start()

	for i := uint64(1); i <= 5; i++ {
		require.False(t, m.Add(i, time.Microsecond))
	}
	require.True(t, m.Add(ring.Terminator, 0))
	m.Stop()

	rec := m.Finalize(false)
	require.Equal(t, float64(0), rec.DataLossPercentage)
	require.Equal(t, float64(0), rec.DuplicatesPercentage)
	require.Equal(t, 5, rec.SampleSize)
}

// TestRecordJSONRoundTrip covers spec.md §8's round-trip invariant: a
// dumped measurement record must survive a JSON encode/decode cycle
// field-for-field.
func TestRecordJSONRoundTrip(t *testing.T) {
	m := measurement.NewIndividual(ring.VariantMPMCBroadcast, 16, 2, 2, 4, 10, 50, nil)
	m.PayloadSize = 256
	m.Copyable = true
	m.Start()
	for i := uint64(1); i <= 5; i++ {
		m.Add(i, time.Millisecond)
	}
	m.Add(ring.Terminator, 0)
	m.Stop()
	rec := m.Finalize(false)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded measurement.Record
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, rec, decoded)
}
