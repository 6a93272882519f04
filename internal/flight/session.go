package flight

import (
	"log/slog"
	"math"
	"slices"
	"time"
)

// FlightSegment is the continuous interval between one takeoff and its
// matching landing. Immutable once closed.
type FlightSegment struct {
	Index           int       // ordinal among flights detected so far, 0 = first
	PeakAltitude    float64   // metres, non-decreasing while open
	StartedAt       time.Time // takeoff tick timestamp
	EndedAt         time.Time // landing tick timestamp; zero while open
	DurationSeconds float64   // zero while open
}

// BatteryLife accumulates the flight time attributed to one physical
// battery, bounded by voltage-jump-detected swap events.
type BatteryLife struct {
	Index                int
	TotalDurationSeconds float64
}

// Session aggregates flight and battery segments for one input file.
// It is updated from every row (altitude) and from every state-machine
// transition (duration, battery).
type Session struct {
	logger *slog.Logger

	flights   []FlightSegment
	batteries []BatteryLife
	airborne  bool
}

func NewSession(logger *slog.Logger) *Session {
	return &Session{logger: logger}
}

// ObserveAltitude updates the open flight's peak with one calibrated
// reading. Grounded rows do not affect altitude stats.
func (s *Session) ObserveAltitude(calibrated float64) {
	if !s.airborne {
		return
	}
	f := &s.flights[len(s.flights)-1]
	if calibrated > f.PeakAltitude {
		f.PeakAltitude = calibrated
	}
}

// Apply updates the segment lists in response to a transition.
func (s *Session) Apply(t *Transition) {
	switch t.Kind {
	case Takeoff:
		if t.NewBattery || len(s.batteries) == 0 {
			s.batteries = append(s.batteries, BatteryLife{Index: len(s.batteries)})
		}
		s.flights = append(s.flights, FlightSegment{
			Index:        len(s.flights),
			PeakAltitude: math.Inf(-1),
			StartedAt:    t.At,
		})
		s.airborne = true

	case Landing:
		if !s.airborne {
			return
		}
		f := &s.flights[len(s.flights)-1]
		f.EndedAt = t.At
		f.DurationSeconds = t.At.Sub(f.StartedAt).Seconds()

		if f.DurationSeconds <= 0 {
			// Data-quality signal, not fatal: keep the value, continue.
			s.logger.Warn("non-positive flight duration",
				slog.Int("flight", f.Index+1),
				slog.Time("takeoff", f.StartedAt),
				slog.Time("landing", f.EndedAt))
		}

		b := &s.batteries[len(s.batteries)-1]
		b.TotalDurationSeconds += f.DurationSeconds
		s.airborne = false
	}
}

// Flights returns completed and in-progress flights in creation order.
func (s *Session) Flights() []FlightSegment {
	return slices.Clone(s.flights)
}

// Batteries returns detected batteries in creation order.
func (s *Session) Batteries() []BatteryLife {
	return slices.Clone(s.batteries)
}
