package flight

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Report renders the session's final state as a human-readable summary:
// one line per flight with its peak altitude, one line per battery with
// its accumulated flight time. Pure presentation.
func Report(s *Session) string {
	var b strings.Builder

	for _, f := range s.Flights() {
		peak := f.PeakAltitude
		if math.IsInf(peak, -1) {
			peak = 0
		}
		fmt.Fprintf(&b, "Flight %d: peak altitude %s m\n",
			f.Index+1, humanize.FormatFloat("#,###.##", peak))
	}

	for _, bat := range s.Batteries() {
		total := int(math.Round(bat.TotalDurationSeconds))
		fmt.Fprintf(&b, "Battery %d: %d:%02d flight time\n",
			bat.Index+1, total/60, abs(total%60))
	}

	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
