// Package csvio reads the raw logger CSV stream and writes the reduced
// export. It owns schema validation and per-row decode tolerance; the
// analysis engine only ever sees fully decoded samples.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

// ErrSchemaMismatch is returned when an input header line does not
// equal the expected logger schema. It is a file-level failure.
var ErrSchemaMismatch = errors.New("input header does not match the logger schema")

// RowError reports a single undecodable data row. The row must be
// skipped without updating any analysis state; reading can continue.
type RowError struct {
	Row int // zero-based data row index
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Reader decodes samples from a validated logger CSV stream.
type Reader struct {
	csv *csv.Reader
	row int
}

// NewReader consumes and validates the header line. A header that
// deviates from the schema in any position fails with ErrSchemaMismatch.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row length is validated during decode

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(telemetry.InputColumns) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d",
			ErrSchemaMismatch, len(telemetry.InputColumns), len(header))
	}
	for i, name := range telemetry.InputColumns {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q",
				ErrSchemaMismatch, i, header[i], name)
		}
	}

	return &Reader{csv: cr}, nil
}

// Read returns the next decoded sample and its zero-based data row
// index. It returns io.EOF at end of stream. A *RowError marks a
// malformed row the caller should report and skip; any other error is a
// stream-level failure.
func (r *Reader) Read() (telemetry.Sample, int, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return telemetry.Sample{}, 0, io.EOF
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			row := r.row
			r.row++
			return telemetry.Sample{}, row, &RowError{Row: row, Err: err}
		}
		return telemetry.Sample{}, 0, fmt.Errorf("reading row: %w", err)
	}

	row := r.row
	r.row++

	sample, err := telemetry.ParseRow(fields)
	if err != nil {
		return telemetry.Sample{}, row, &RowError{Row: row, Err: err}
	}
	return sample, row, nil
}
