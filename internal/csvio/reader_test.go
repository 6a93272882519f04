package csvio

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

func testHeader() string {
	return strings.Join(telemetry.InputColumns, ",")
}

// testRow builds one well-formed data row i steps into a 10 Hz stream.
func testRow(i int, current, cells, altitude float64) string {
	fields := make([]string, len(telemetry.InputColumns))
	for j := range fields {
		fields[j] = "0"
	}

	ms := i * 100
	fields[telemetry.ColDate] = "2024-04-12"
	fields[telemetry.ColTime] = fmt.Sprintf("10:00:%02d.%03d", ms/1000, ms%1000)
	fields[telemetry.ColAltitude] = strconv.FormatFloat(altitude, 'f', 2, 64)
	fields[telemetry.ColCellsTotal] = strconv.FormatFloat(cells, 'f', 2, 64)
	fields[telemetry.ColCurrent] = strconv.FormatFloat(current, 'f', 2, 64)

	return strings.Join(fields, ",")
}

func TestReaderRejectsBadHeader(t *testing.T) {
	header := strings.Replace(testHeader(), "Alt(m)", "Altitude", 1)

	_, err := NewReader(strings.NewReader(header + "\n"))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReaderRejectsShortHeader(t *testing.T) {
	_, err := NewReader(strings.NewReader("Date,Time,Alt(m)\n"))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReaderParsesSample(t *testing.T) {
	input := testHeader() + "\n" + testRow(3, 7.5, 11.4, 152.3) + "\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("creating reader: %v", err)
	}

	s, row, err := r.Read()
	if err != nil {
		t.Fatalf("reading row: %v", err)
	}
	if row != 0 {
		t.Errorf("expected row index 0, got %d", row)
	}

	want := time.Date(2024, 4, 12, 10, 0, 0, 300_000_000, time.UTC)
	if !s.Timestamp.Equal(want) {
		t.Errorf("timestamp %s, expected %s", s.Timestamp, want)
	}
	if s.Current != 7.5 || s.CellVoltage != 11.4 || s.Altitude != 152.3 {
		t.Errorf("decoded %g A, %g V, %g m", s.Current, s.CellVoltage, s.Altitude)
	}

	if _, _, err = r.Read(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReaderSkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		testHeader(),
		testRow(0, 0, 4.0, 100),
		"2024-04-12,10:00:00.100,0,0", // wrong field count
		testRow(2, 0, 4.0, 100),
	}, "\n") + "\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("creating reader: %v", err)
	}

	if _, row, err := r.Read(); err != nil || row != 0 {
		t.Fatalf("row 0: got index %d, err %v", row, err)
	}

	_, row, err := r.Read()
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %v", err)
	}
	if row != 1 || rowErr.Row != 1 {
		t.Errorf("expected row index 1, got %d and %d", row, rowErr.Row)
	}

	// Reading continues past the malformed row.
	if _, row, err := r.Read(); err != nil || row != 2 {
		t.Fatalf("row 2: got index %d, err %v", row, err)
	}
}

func TestReaderReportsUnparseableCells(t *testing.T) {
	bad := strings.Replace(testRow(0, 0, 4.0, 100), "2024-04-12", "yesterday", 1)
	input := testHeader() + "\n" + bad + "\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("creating reader: %v", err)
	}

	_, _, err = r.Read()
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %v", err)
	}
}
