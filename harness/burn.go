// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"time"

	"code.hybscloud.com/spin"
)

// burn busy-waits for d, simulating work done between pushes or pops
// (BURN_PRODUCER_TIME / BURN_CONSUMER_TIME in spec.md §6). A no-op when
// d<=0, matching the original project's "0 disables" convention.
func burn(d time.Duration) {
	if d <= 0 {
		return
	}
	start := time.Now()
	sw := spin.Wait{}
	for time.Since(start) < d {
		sw.Once()
	}
}
