package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

// writeFixture writes a 50-line log: the header plus 49 data rows with
// the motor running on rows 11..30 and one voltage jump at the takeoff.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(telemetry.InputColumns, ","))
	b.WriteByte('\n')

	for i := 0; i < 49; i++ {
		fields := make([]string, len(telemetry.InputColumns))
		for j := range fields {
			fields[j] = "0"
		}

		ms := i * 100
		fields[telemetry.ColDate] = "2024-04-12"
		fields[telemetry.ColTime] = fmt.Sprintf("10:00:%02d.%03d", ms/1000, ms%1000)
		fields[telemetry.ColAltitude] = "100.00"

		current, cells := 0.0, 11.1
		if i >= 10 && i <= 29 {
			current, cells = 8, 12.4
		}
		fields[telemetry.ColCurrent] = strconv.FormatFloat(current, 'f', 2, 64)
		fields[telemetry.ColCellsTotal] = strconv.FormatFloat(cells, 'f', 2, 64)

		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, "flight01.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestProcessFileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	config := NewConfig()
	config.Inputs = []string{path}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := newOrchestrator(config, nil, logger)

	summary, err := o.processFile(context.Background(), path)
	if err != nil {
		t.Fatalf("processing: %v", err)
	}

	if !strings.Contains(summary, "Flight 1:") {
		t.Errorf("summary missing flight line:\n%s", summary)
	}
	if strings.Contains(summary, "Flight 2:") {
		t.Errorf("expected exactly one flight:\n%s", summary)
	}
	if !strings.Contains(summary, "Battery 1:") {
		t.Errorf("summary missing battery line:\n%s", summary)
	}
	if strings.Contains(summary, "Battery 2:") {
		t.Errorf("expected exactly one battery:\n%s", summary)
	}

	outPath := filepath.Join(dir, "flight01.clean.csv")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected header and 49 data rows, got %d lines", len(lines))
	}
	for i, line := range lines[1:] {
		if fields := strings.Split(line, ","); len(fields) != len(telemetry.ExportColumns) {
			t.Fatalf("data row %d has %d fields, expected %d", i, len(fields), len(telemetry.ExportColumns))
		}
	}
}

func TestRunSkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFixture(t, dir)
	missing := filepath.Join(dir, "nope.csv")

	config := NewConfig()
	config.Inputs = []string{missing, good}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := Run(context.Background(), config, logger); err != nil {
		t.Fatalf("a single bad file must not fail the run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "flight01.clean.csv")); err != nil {
		t.Errorf("good file was not processed: %v", err)
	}
}

func TestRunRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("Date,Time,Alt\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	config := NewConfig()
	config.Inputs = []string{path}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := Run(context.Background(), config, logger); err == nil {
		t.Fatal("expected an error when every input fails")
	}

	if _, err := os.Stat(filepath.Join(dir, "bad.clean.csv")); !os.IsNotExist(err) {
		t.Errorf("no export should exist for a rejected file")
	}
}

func TestExportPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"logs/flight01.csv", "logs/flight01.clean.csv"},
		{"flight01.log", "flight01.clean.csv"},
		{"flight01", "flight01.clean.csv"},
	}
	for _, c := range cases {
		if got := exportPath(c.in, defaultExportSuffix); got != c.want {
			t.Errorf("exportPath(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}
