// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package measurement

import (
	"fmt"

	"github.com/fatih/color"
)

// Group collects one Record per variant run within a channel type and
// reports each variant's relative delta against the group's mean, so a
// reader can see at a glance which variants trade latency for throughput.
type Group struct {
	records []Record
}

func NewGroup() *Group { return &Group{} }

func (g *Group) Add(rec Record) { g.records = append(g.records, rec) }

// PrintRelativeResults prints a table of elapsed/throughput/bytes-throughput
// deltas (percent vs. the group mean) plus absolute loss/duplicate rates.
// Lower elapsed time and higher throughput are each decorated green; the
// opposite direction is decorated red, matching the source's decorate().
func (g *Group) PrintRelativeResults() {
	n := float64(len(g.records))
	if n == 0 {
		return
	}

	mean := func(f func(Record) float64) float64 {
		var sum float64
		for _, r := range g.records {
			sum += f(r)
		}
		return sum / n
	}

	blElapsed := mean(func(r Record) float64 { return r.ElapsedNs })
	blMsgs := mean(func(r Record) float64 { return r.ThroughputMsgsPerS })
	blBytes := mean(func(r Record) float64 { return r.BytesThroughputPerS })

	namePad := 0
	for _, r := range g.records {
		name := fmt.Sprintf("%s (%d)", r.Variant, r.ConsumerID)
		if len(name) > namePad {
			namePad = len(name)
		}
	}

	teal := color.New(color.FgCyan)
	fmt.Printf("\n%-*s | %8s | %8s | %8s | %6s | %6s\n", namePad, "Ring Name", "El.", "Msg", "Bps", "DL%", "DP%")
	teal.Println(dashes(namePad) + dashes(53))

	for _, r := range g.records {
		pct := func(val, base float64) float64 { return (val - base) / base * 100 }

		elapsedDelta := decorate(pct(r.ElapsedNs, blElapsed), true)
		msgsDelta := decorate(pct(r.ThroughputMsgsPerS, blMsgs), false)
		bytesDelta := decorate(pct(r.BytesThroughputPerS, blBytes), false)

		name := fmt.Sprintf("%s (%d)", r.Variant, r.ConsumerID)
		if len(name) > namePad {
			name = name[:namePad]
		}
		fmt.Printf("%-*s | %s | %s | %s | %6.2f | %6.2f\n",
			namePad, name, elapsedDelta, msgsDelta, bytesDelta, r.DataLossPercentage, r.DuplicatesPercentage)
	}

	teal.Println(dashes(namePad) + dashes(53))
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

// decorate renders val (a percent delta) with an up/down arrow, green when
// the direction is favorable and red otherwise. goodIsLow is true for
// metrics where a negative delta (below the mean) is the favorable
// direction, such as elapsed time.
func decorate(val float64, goodIsLow bool) string {
	favorable := (val < 0) == goodIsLow
	arrow := "▼"
	if favorable {
		arrow = "▲"
	}
	s := fmt.Sprintf("%6.1f %s", val, arrow)
	if favorable {
		return color.New(color.FgGreen).Sprint(s)
	}
	return color.New(color.FgRed).Sprint(s)
}
