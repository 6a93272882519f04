package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/fluiddruid/telemproc/internal/csvio"
	"github.com/fluiddruid/telemproc/internal/export"
	"github.com/fluiddruid/telemproc/internal/flight"
	"github.com/fluiddruid/telemproc/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	var store *storage.Store
	if config.Storage.Database != "" {
		store = storage.New(config.Storage.Database)
		defer store.Close()
	}

	o := newOrchestrator(config, store, logger)
	return o.Run(ctx)
}

// processFile runs the full pipeline for one input: validate, analyze,
// export, persist. Any returned error is a file-level failure; the
// caller logs it and continues with the remaining inputs.
func (o *orchestrator) processFile(ctx context.Context, path string) (summary string, err error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening input: %w", err)
	}
	defer closeQuietly(in)

	reader, err := csvio.NewReader(in)
	if err != nil {
		return "", err
	}

	outPath := exportPath(path, o.config.Export.Suffix)
	writer, err := csvio.NewWriter(outPath)
	if err != nil {
		return "", err
	}

	logger := o.logger.With(slog.String("file", path))
	thresholds := o.config.Thresholds()
	analyzer := flight.NewAnalyzer(thresholds, flight.WithLogger(logger))

	var track []storage.TrackPoint

	for {
		if err = ctx.Err(); err != nil {
			_ = writer.Close()
			return "", err
		}

		sample, row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		var rowErr *csvio.RowError
		if errors.As(readErr, &rowErr) {
			// Malformed rows never touch calibration or machine state.
			logger.Warn("skipping malformed row",
				slog.Int("row", rowErr.Row),
				slog.String("reason", rowErr.Err.Error()))
			continue
		}
		if readErr != nil {
			_ = writer.Close()
			return "", readErr
		}

		calibrated := analyzer.Process(sample)

		if o.store != nil && row%thresholds.SmoothUnits == 0 {
			track = append(track, storage.TrackPoint{
				Timestamp: sample.Timestamp,
				Altitude:  calibrated,
				Current:   sample.Current,
			})
		}

		if err = writer.Write(sample, calibrated); err != nil {
			_ = writer.Close()
			return "", err
		}
	}

	if err = writer.Close(); err != nil {
		return "", err
	}

	session := analyzer.Session()

	if o.store != nil {
		if err = o.persist(ctx, path, analyzer, track); err != nil {
			// The export and summary are already complete; a logbook
			// failure should not discard them.
			logger.Error(fmt.Sprintf("updating logbook: %s", err))
		}
	}

	if o.config.Export.Workbook {
		xlsxPath := exportPath(path, ".xlsx")
		if err = export.Workbook(xlsxPath, session.Flights(), session.Batteries()); err != nil {
			logger.Error(fmt.Sprintf("writing workbook: %s", err))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s rows -> %s\n", path, humanize.Comma(int64(analyzer.Rows())), outPath)
	b.WriteString(flight.Report(session))
	return b.String(), nil
}

func (o *orchestrator) persist(ctx context.Context, path string, analyzer *flight.Analyzer, track []storage.TrackPoint) error {
	sessionID, err := o.store.CreateSession(ctx, path, int64(analyzer.Rows()))
	if err != nil {
		return err
	}

	session := analyzer.Session()

	flights := session.Flights()
	flightRecords := make([]storage.FlightRecord, len(flights))
	for i, f := range flights {
		flightRecords[i] = storage.FlightRecord{
			SessionID:       sessionID,
			Ordinal:         int64(f.Index + 1),
			PeakAltitude:    f.PeakAltitude,
			StartedAt:       f.StartedAt,
			EndedAt:         f.EndedAt,
			DurationSeconds: f.DurationSeconds,
		}
	}

	batteries := session.Batteries()
	batteryRecords := make([]storage.BatteryRecord, len(batteries))
	for i, bat := range batteries {
		batteryRecords[i] = storage.BatteryRecord{
			SessionID:            sessionID,
			Ordinal:              int64(bat.Index + 1),
			TotalDurationSeconds: bat.TotalDurationSeconds,
		}
	}

	if err = o.store.StoreSummary(ctx, sessionID, flightRecords, batteryRecords); err != nil {
		return err
	}
	return o.store.StoreTrack(ctx, sessionID, track)
}

// exportPath replaces the input extension with the configured suffix.
func exportPath(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

func closeQuietly(cl interface{ Close() error }) {
	_ = cl.Close()
}
