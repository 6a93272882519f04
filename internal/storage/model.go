package storage

import "time"

// SessionRecord describes one imported log file.
type SessionRecord struct {
	ID         int64
	ImportedAt time.Time
	SourceFile string
	Rows       int64
}

// FlightRecord is one detected flight of a session.
type FlightRecord struct {
	ID              int64
	SessionID       int64
	Ordinal         int64 // 1 = first detected flight
	PeakAltitude    float64
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds float64
}

// BatteryRecord is one detected battery of a session.
type BatteryRecord struct {
	ID                   int64
	SessionID            int64
	Ordinal              int64
	TotalDurationSeconds float64
}

// TrackPoint is one decimated sample of a session's calibrated track,
// kept for profile rendering.
type TrackPoint struct {
	SessionID int64
	Timestamp time.Time
	Altitude  float64 // calibrated, m
	Current   float64 // A
}
