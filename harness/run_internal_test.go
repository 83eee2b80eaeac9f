// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCPUForWrapsAndDefaults(t *testing.T) {
	require.Equal(t, 0, cpuFor(nil, 3))
	ids := []int{1, 2, 3}
	require.Equal(t, 1, cpuFor(ids, 0))
	require.Equal(t, 2, cpuFor(ids, 1))
	require.Equal(t, 1, cpuFor(ids, 3))
}

func TestBarrierReleasesAllPartiesTogether(t *testing.T) {
	const parties = 5
	b := newBarrier(parties)

	var arrived atomic.Int32
	done := make(chan struct{}, parties)
	for i := 0; i < parties; i++ {
		go func() {
			b.arrive()
			arrived.Add(1)
			done <- struct{}{}
		}()
	}
	for i := 0; i < parties; i++ {
		<-done
	}
	require.Equal(t, int32(parties), arrived.Load())
}
