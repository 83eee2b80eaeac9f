// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// pinCurrentThread locks the calling goroutine to its current OS thread and
// restricts that thread to cpuID. Core pinning is a measurement-fidelity
// concern, not a correctness one (spec.md §9): if SchedSetaffinity fails —
// for example in a sandboxed process — log a warning and keep running
// unpinned rather than aborting the run. SchedSetaffinity is Linux-only, so
// this package builds only for Linux.
func pinCurrentThread(cpuID int, log *zap.SugaredLogger) {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil && log != nil {
		log.Warnw("failed to pin thread to CPU core, measurement fidelity may suffer", "cpu", cpuID, "error", err)
	}
}
