package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayout combines the Date and Time fields. The Time field
// carries millisecond precision which must be preserved for duration
// arithmetic; the truncated display copy used in exports is derived
// separately and never fed back into parsing.
const timestampLayout = "2006-01-02 15:04:05.000"

// Sample is a typed view of one decoded telemetry row. It is ephemeral:
// the caller owns it for the duration of a single processing step.
type Sample struct {
	Timestamp   time.Time // absolute, full precision
	Altitude    float64   // raw barometric altitude, m (uncalibrated)
	Current     float64   // pack current draw, A
	CellVoltage float64   // reported cell-group total, V

	// Fields retains the full decoded row for column projection into
	// the reduced export.
	Fields []string
}

// ParseRow decodes one delimited row into a Sample. The row must carry
// exactly one field per schema column; numeric and timestamp cells must
// parse. Any failure makes the whole row unusable.
func ParseRow(fields []string) (Sample, error) {
	if len(fields) != len(InputColumns) {
		return Sample{}, fmt.Errorf("expected %d fields, got %d", len(InputColumns), len(fields))
	}

	ts, err := time.Parse(timestampLayout, fields[ColDate]+" "+fields[ColTime])
	if err != nil {
		return Sample{}, fmt.Errorf("parsing timestamp: %w", err)
	}

	alt, err := parseCell(fields, ColAltitude)
	if err != nil {
		return Sample{}, err
	}
	current, err := parseCell(fields, ColCurrent)
	if err != nil {
		return Sample{}, err
	}
	cells, err := parseCell(fields, ColCellsTotal)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Timestamp:   ts,
		Altitude:    alt,
		Current:     current,
		CellVoltage: cells,
		Fields:      fields,
	}, nil
}

func parseCell(fields []string, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", InputColumns[col], err)
	}
	return v, nil
}
