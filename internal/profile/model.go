// Package profile renders a session's calibrated altitude and current
// track as an annotated chart image.
package profile

import (
	"math"
	"time"
)

// Point is one track sample.
type Point struct {
	At       time.Time
	Altitude float64 // calibrated, m
	Current  float64 // A
}

// Span marks one flight interval for shading.
type Span struct {
	Start, End time.Time
}

// Data accumulates the track and its bounds while reading a session.
type Data struct {
	Points  []Point
	Flights []Span

	Start, End               time.Time
	MinAltitude, MaxAltitude float64
	MaxCurrent               float64
}

func NewData() *Data {
	return &Data{
		MinAltitude: math.Inf(1),
		MaxAltitude: math.Inf(-1),
	}
}

// Add appends one point and widens the tracked bounds.
func (d *Data) Add(p Point) {
	if d.Start.IsZero() || d.Start.After(p.At) {
		d.Start = p.At
	}
	if d.End.IsZero() || d.End.Before(p.At) {
		d.End = p.At
	}

	d.MinAltitude = min(d.MinAltitude, p.Altitude)
	d.MaxAltitude = max(d.MaxAltitude, p.Altitude)
	d.MaxCurrent = max(d.MaxCurrent, p.Current)

	d.Points = append(d.Points, p)
}

// AddFlight registers one flight span marker.
func (d *Data) AddFlight(s Span) {
	d.Flights = append(d.Flights, s)
}
