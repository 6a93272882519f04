// Package flight implements the streaming flight-log analysis engine:
// altitude calibration, airborne/grounded classification, battery-swap
// detection and per-session flight statistics. The engine walks the
// ordered sample sequence of one file exactly once; processing within a
// file is strictly sequential because every row depends on the state
// left behind by the previous one.
package flight

import "fmt"

// Thresholds carries the analysis tunables as one immutable value
// passed explicitly into the calibrator, state machine and session.
type Thresholds struct {
	// MaxVoltageDiff is the cell-group voltage jump between a landing
	// and the following takeoff that marks a battery swap, in volts.
	MaxVoltageDiff float64

	// MaxAltitudeDiff is the largest accepted step between consecutive
	// calibrated altitude readings, in metres. Larger steps are treated
	// as altimeter anomalies and rejected.
	MaxAltitudeDiff float64

	// MinCurrent is the current draw separating grounded from airborne,
	// in amps. The same threshold is used for both transition
	// directions; there is no hysteresis band.
	MinCurrent float64

	// SmoothUnits is the decimation interval: state transitions are
	// evaluated on every SmoothUnits-th data row. It samples rather
	// than averages, so it reduces evaluation frequency, not noise.
	SmoothUnits int
}

// DefaultThresholds returns the historical tuning of the logger.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxVoltageDiff:  1,
		MaxAltitudeDiff: 2,
		MinCurrent:      2.5,
		SmoothUnits:     10,
	}
}

// Validate rejects settings the engine cannot run with.
func (t Thresholds) Validate() error {
	if t.SmoothUnits < 1 {
		return fmt.Errorf("smoothUnits must be at least 1, got %d", t.SmoothUnits)
	}
	if t.MaxAltitudeDiff <= 0 {
		return fmt.Errorf("maxAltitudeDiff must be positive, got %g", t.MaxAltitudeDiff)
	}
	if t.MaxVoltageDiff <= 0 {
		return fmt.Errorf("maxVoltageDiff must be positive, got %g", t.MaxVoltageDiff)
	}
	if t.MinCurrent <= 0 {
		return fmt.Errorf("minCurrent must be positive, got %g", t.MinCurrent)
	}
	return nil
}
