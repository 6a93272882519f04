package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

// timeSuffixLen is the length of the fractional-second remnant dropped
// from the display time for spreadsheet compatibility.
const timeSuffixLen = 4

const writerBufferSize = 64 * 1024

// Writer emits the reduced export: one 13-column row per decoded input
// row, with the display time truncated and the barometric altitude
// replaced by its calibrated value.
type Writer struct {
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows int
}

// NewWriter creates the output file and writes the export header.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	bw := bufio.NewWriterSize(f, writerBufferSize)
	cw := csv.NewWriter(bw)

	if err := cw.Write(telemetry.ExportColumns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	return &Writer{file: f, buf: bw, csv: cw}, nil
}

// Write appends one export row for the given sample.
func (w *Writer) Write(s telemetry.Sample, calibratedAltitude float64) error {
	row := make([]string, len(telemetry.ExportSources))
	for i, src := range telemetry.ExportSources {
		switch src {
		case telemetry.ColTime:
			row[i] = truncateDisplayTime(s.Fields[src])
		case telemetry.ColAltitude:
			row[i] = fmt.Sprintf("%.2f", calibratedAltitude)
		default:
			row[i] = s.Fields[src]
		}
	}

	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written, header excluded.
func (w *Writer) Rows() int { return w.rows }

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() (err error) {
	w.csv.Flush()
	if err = w.csv.Error(); err != nil {
		err = fmt.Errorf("flushing rows: %w", err)
	}
	if fErr := w.buf.Flush(); fErr != nil && err == nil {
		err = fmt.Errorf("flushing buffer: %w", fErr)
	}
	if cErr := w.file.Close(); cErr != nil && err == nil {
		err = fmt.Errorf("closing file: %w", cErr)
	}
	return err
}

func truncateDisplayTime(t string) string {
	if len(t) <= timeSuffixLen {
		return t
	}
	return t[:len(t)-timeSuffixLen]
}
