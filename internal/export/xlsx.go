// Package export writes session summaries as spreadsheet workbooks.
package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/fluiddruid/telemproc/internal/flight"
)

const (
	flightsSheet   = "Flights"
	batteriesSheet = "Batteries"
)

// Workbook writes one workbook with a Flights sheet and a Batteries
// sheet mirroring the console summary.
func Workbook(path string, flights []flight.FlightSegment, batteries []flight.BatteryLife) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cErr)
		}
	}()

	if err = f.SetSheetName("Sheet1", flightsSheet); err != nil {
		return fmt.Errorf("naming flights sheet: %w", err)
	}
	if _, err = f.NewSheet(batteriesSheet); err != nil {
		return fmt.Errorf("creating batteries sheet: %w", err)
	}

	if err = f.SetSheetRow(flightsSheet, "A1",
		&[]any{"Flight", "Peak altitude (m)", "Takeoff", "Landing", "Duration (s)"}); err != nil {
		return fmt.Errorf("writing flights header: %w", err)
	}
	for i, fl := range flights {
		peak := fl.PeakAltitude
		if math.IsInf(peak, -1) {
			peak = 0
		}
		cell, cErr := excelize.CoordinatesToCellName(1, i+2)
		if cErr != nil {
			return fmt.Errorf("addressing flight row: %w", cErr)
		}
		row := []any{fl.Index + 1, peak, fl.StartedAt, fl.EndedAt, fl.DurationSeconds}
		if err = f.SetSheetRow(flightsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing flight %d: %w", fl.Index+1, err)
		}
	}

	if err = f.SetSheetRow(batteriesSheet, "A1",
		&[]any{"Battery", "Total flight time (s)"}); err != nil {
		return fmt.Errorf("writing batteries header: %w", err)
	}
	for i, b := range batteries {
		cell, cErr := excelize.CoordinatesToCellName(1, i+2)
		if cErr != nil {
			return fmt.Errorf("addressing battery row: %w", cErr)
		}
		row := []any{b.Index + 1, b.TotalDurationSeconds}
		if err = f.SetSheetRow(batteriesSheet, cell, &row); err != nil {
			return fmt.Errorf("writing battery %d: %w", b.Index+1, err)
		}
	}

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
