package flight

import (
	"testing"
	"time"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

var testBase = time.Date(2024, 4, 12, 10, 0, 0, 0, time.UTC)

// sampleAt builds a sample i rows into a 10 Hz stream.
func sampleAt(i int, current, voltage float64) telemetry.Sample {
	return telemetry.Sample{
		Timestamp:   testBase.Add(time.Duration(i) * 100 * time.Millisecond),
		Current:     current,
		CellVoltage: voltage,
	}
}

func runMachine(m *Machine, currents, voltages []float64) []*Transition {
	var out []*Transition
	for i, cur := range currents {
		v := 4.0
		if voltages != nil {
			v = voltages[i]
		}
		if tr := m.Observe(sampleAt(i, cur, v), i); tr != nil {
			out = append(out, tr)
		}
	}
	return out
}

func TestMachineIgnoresOffTickSpike(t *testing.T) {
	currents := make([]float64, 22)
	for i := 2; i <= 9; i++ { // between tick 1 and tick 11
		currents[i] = 8
	}

	m := NewMachine(DefaultThresholds())
	if got := runMachine(m, currents, nil); len(got) != 0 {
		t.Fatalf("expected no transitions for an off-tick spike, got %d", len(got))
	}
	if m.Status() != Grounded {
		t.Fatalf("expected grounded, got %s", m.Status())
	}
}

func TestMachineTickAlignedTakeoffAndLanding(t *testing.T) {
	currents := make([]float64, 22)
	for i := 2; i <= 15; i++ { // covers tick 11, back to zero before tick 21
		currents[i] = 8
	}

	m := NewMachine(DefaultThresholds())
	got := runMachine(m, currents, nil)

	if len(got) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(got))
	}
	if got[0].Kind != Takeoff {
		t.Errorf("expected first transition to be a takeoff")
	}
	if want := testBase.Add(1100 * time.Millisecond); !got[0].At.Equal(want) {
		t.Errorf("takeoff at %s, expected %s", got[0].At, want)
	}
	if got[1].Kind != Landing {
		t.Errorf("expected second transition to be a landing")
	}
	if want := testBase.Add(2100 * time.Millisecond); !got[1].At.Equal(want) {
		t.Errorf("landing at %s, expected %s", got[1].At, want)
	}
	if m.Status() != Grounded {
		t.Errorf("expected grounded after landing, got %s", m.Status())
	}
}

func TestMachineSymmetricThresholdFiresAtMostOncePerTick(t *testing.T) {
	// Current sits exactly on the threshold at ticks 11 and 21: the
	// takeoff fires (>=), but a landing needs the reference strictly
	// above the threshold, so the state toggles only once.
	currents := make([]float64, 32)
	for i := 11; i <= 21; i++ {
		currents[i] = 2.5
	}

	m := NewMachine(DefaultThresholds())
	got := runMachine(m, currents, nil)

	if len(got) != 1 {
		t.Fatalf("expected exactly 1 transition, got %d", len(got))
	}
	if got[0].Kind != Takeoff {
		t.Errorf("expected a takeoff")
	}
	if m.Status() != Airborne {
		t.Errorf("expected airborne, got %s", m.Status())
	}
}

func TestMachineBatterySwapDetection(t *testing.T) {
	// Three flights with takeoff voltages 4.0, 4.2, 5.5: only the jump
	// to 5.5 exceeds the 1 V swap threshold.
	currents := make([]float64, 62)
	voltages := make([]float64, 62)
	for i := range voltages {
		switch {
		case i <= 21:
			voltages[i] = 4.0
		case i <= 41:
			voltages[i] = 4.2
		default:
			voltages[i] = 5.5
		}
	}
	for _, span := range [][2]int{{11, 20}, {31, 40}, {51, 60}} {
		for i := span[0]; i <= span[1]; i++ {
			currents[i] = 8
		}
	}

	m := NewMachine(DefaultThresholds())
	got := runMachine(m, currents, voltages)

	if len(got) != 6 {
		t.Fatalf("expected 6 transitions, got %d", len(got))
	}

	wantNew := []bool{true, false, true}
	var takeoffs int
	for _, tr := range got {
		if tr.Kind != Takeoff {
			continue
		}
		if tr.NewBattery != wantNew[takeoffs] {
			t.Errorf("takeoff %d: NewBattery = %v, expected %v", takeoffs+1, tr.NewBattery, wantNew[takeoffs])
		}
		takeoffs++
	}
	if takeoffs != 3 {
		t.Fatalf("expected 3 takeoffs, got %d", takeoffs)
	}
}

func TestMachineReferenceAdvancesWithoutTransition(t *testing.T) {
	// The reference must follow the most recent tick, not the last
	// transition: current climbs above the threshold between tick 11
	// and tick 21, so the takeoff compares against tick 11, not row 0.
	currents := make([]float64, 32)
	for i := 11; i <= 20; i++ {
		currents[i] = 2.0 // below threshold but above row 0's zero
	}
	for i := 21; i <= 31; i++ {
		currents[i] = 8
	}

	m := NewMachine(DefaultThresholds())
	got := runMachine(m, currents, nil)

	if len(got) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(got))
	}
	if want := testBase.Add(2100 * time.Millisecond); !got[0].At.Equal(want) {
		t.Errorf("takeoff at %s, expected %s", got[0].At, want)
	}
}
