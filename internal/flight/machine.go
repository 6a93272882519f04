package flight

import (
	"time"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

// Status classifies the vehicle as grounded or airborne.
type Status int

const (
	Grounded Status = iota
	Airborne
)

func (s Status) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Airborne:
		return "airborne"
	default:
		return "unknown"
	}
}

// TransitionKind identifies the direction of a state change.
type TransitionKind int

const (
	Takeoff TransitionKind = iota
	Landing
)

// Transition is emitted when the state machine fires at a decimation
// tick.
type Transition struct {
	Kind        TransitionKind
	At          time.Time
	CellVoltage float64

	// NewBattery is set on a takeoff whose cell voltage jumped above
	// the swap threshold since the last landing, or when no battery has
	// been seen yet.
	NewBattery bool
}

// Machine classifies grounded/airborne transitions from current draw.
// It is evaluated once per row but only acts on decimation ticks, where
// the tick's sample is compared against the previous tick's reference
// sample, not the immediately preceding row.
type Machine struct {
	thresholds Thresholds

	status  Status
	ref     telemetry.Sample
	haveRef bool

	lastLandingVoltage float64
	landed             bool
}

func NewMachine(t Thresholds) *Machine {
	return &Machine{thresholds: t}
}

// Status returns the current classification.
func (m *Machine) Status() Status { return m.status }

// Observe feeds one row into the machine. index is the zero-based data
// row index. The returned transition is nil on non-tick rows and on
// ticks where no state change fires.
func (m *Machine) Observe(s telemetry.Sample, index int) *Transition {
	if !m.haveRef {
		// Before the first tick, the reference is the file's first row.
		m.ref = s
		m.haveRef = true
	}

	if !m.isTick(index) {
		return nil
	}

	prev := m.ref
	m.ref = s // the reference advances whether or not a transition fires

	switch m.status {
	case Grounded:
		if m.takeoff(prev.Current, s.Current) {
			m.status = Airborne
			return &Transition{
				Kind:        Takeoff,
				At:          s.Timestamp,
				CellVoltage: s.CellVoltage,
				NewBattery:  m.batterySwapped(s.CellVoltage),
			}
		}

	case Airborne:
		if m.landing(prev.Current, s.Current) {
			m.status = Grounded
			m.lastLandingVoltage = s.CellVoltage
			m.landed = true
			return &Transition{
				Kind:        Landing,
				At:          s.Timestamp,
				CellVoltage: s.CellVoltage,
			}
		}
	}

	return nil
}

func (m *Machine) isTick(index int) bool {
	return index > 0 && (index-1)%m.thresholds.SmoothUnits == 0
}

// takeoff and landing share the single MinCurrent threshold. A future
// hysteresis band would change only these two predicates.
func (m *Machine) takeoff(prev, cur float64) bool {
	return cur >= m.thresholds.MinCurrent && prev < m.thresholds.MinCurrent
}

func (m *Machine) landing(prev, cur float64) bool {
	return cur <= m.thresholds.MinCurrent && prev > m.thresholds.MinCurrent
}

func (m *Machine) batterySwapped(cellVoltage float64) bool {
	if !m.landed {
		return true
	}
	return cellVoltage-m.lastLandingVoltage > m.thresholds.MaxVoltageDiff
}
