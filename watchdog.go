// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"time"

	"code.hybscloud.com/spin"
)

// pushDeadline bounds how long a blocking Push spins before giving up
// silently. Its purpose is harness termination, not queue correctness —
// see spec.md §9 — so it is generous relative to expected slot turnover.
const pushDeadline = time.Second

// spinUntilPlaced retries try (a variant's tryPush) until it succeeds or
// the one-second watchdog expires, in which case the payload is dropped
// silently — the only producer-visible failure mode in the whole package.
func spinUntilPlaced(try func() error) {
	start := time.Now()
	sw := spin.Wait{}
	for {
		if err := try(); err == nil {
			return
		}
		if time.Since(start) > pushDeadline {
			return
		}
		sw.Once()
	}
}
