package flight

import (
	"testing"
	"time"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

func TestAnalyzerSingleFlight(t *testing.T) {
	// 50 rows at 10 Hz: current above threshold on rows 10..29, ticks
	// on rows 1, 11, 21, 31, 41. Altitude climbs 1.5 m per row while
	// the motor runs and snaps back to ground level afterwards.
	a := NewAnalyzer(DefaultThresholds())

	var calibrated []float64
	for i := 0; i < 50; i++ {
		current := 0.0
		altitude := 100.0
		if i >= 10 && i <= 29 {
			current = 8
			altitude = 100 + 1.5*float64(i-9)
		}

		s := telemetry.Sample{
			Timestamp:   testBase.Add(time.Duration(i) * 100 * time.Millisecond),
			Current:     current,
			CellVoltage: 4.0,
			Altitude:    altitude,
		}
		calibrated = append(calibrated, a.Process(s))
	}

	session := a.Session()

	flights := session.Flights()
	if len(flights) != 1 {
		t.Fatalf("expected 1 flight, got %d", len(flights))
	}
	batteries := session.Batteries()
	if len(batteries) != 1 {
		t.Fatalf("expected 1 battery, got %d", len(batteries))
	}

	// Peak comes from row 29 (1.5 * 20 = 30 m), a non-tick row.
	if got := flights[0].PeakAltitude; got != 30 {
		t.Errorf("expected peak 30, got %g", got)
	}

	// Takeoff on tick 11, landing on tick 31: 2 s of flight.
	if got := flights[0].DurationSeconds; got != 2 {
		t.Errorf("expected 2 s flight, got %g", got)
	}
	if got := batteries[0].TotalDurationSeconds; got != 2 {
		t.Errorf("expected 2 s battery total, got %g", got)
	}

	// The drop back to ground level exceeds the anomaly bound, so the
	// last accepted altitude carries until the landing recalibration
	// re-zeroes the channel.
	if calibrated[0] != 0 {
		t.Errorf("row 0: expected 0, got %g", calibrated[0])
	}
	if calibrated[30] != 30 || calibrated[31] != 30 {
		t.Errorf("rows 30, 31: expected 30, 30; got %g, %g", calibrated[30], calibrated[31])
	}
	if calibrated[32] != 0 {
		t.Errorf("row 32: expected 0 after recalibration, got %g", calibrated[32])
	}

	if got := a.Rows(); got != 50 {
		t.Errorf("expected 50 rows processed, got %d", got)
	}
}
