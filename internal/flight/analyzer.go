package flight

import (
	"io"
	"log/slog"

	"github.com/fluiddruid/telemproc/internal/telemetry"
)

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(logger *slog.Logger) func(*Analyzer) {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// Analyzer composes the calibrator, state machine and session into the
// one-pass streaming engine. Process must be called with the file's
// rows in order; each row's outcome depends on the previous one's.
type Analyzer struct {
	calibrator *Calibrator
	machine    *Machine
	session    *Session
	logger     *slog.Logger
	index      int
}

func NewAnalyzer(t Thresholds, options ...func(*Analyzer)) *Analyzer {
	a := Analyzer{
		calibrator: NewCalibrator(t),
		machine:    NewMachine(t),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&a)
	}

	a.session = NewSession(a.logger)
	return &a
}

// Process consumes one decoded sample and returns its calibrated
// altitude for the export stream.
func (a *Analyzer) Process(s telemetry.Sample) float64 {
	calibrated := a.calibrator.Calibrate(s.Altitude)

	if t := a.machine.Observe(s, a.index); t != nil {
		if t.Kind == Landing {
			// Rebaseline altitude at the landing ground level; takes
			// effect from the next row.
			a.calibrator.Recalibrate()
		}
		a.session.Apply(t)
	}

	a.session.ObserveAltitude(calibrated)
	a.index++
	return calibrated
}

// Session exposes the aggregated results.
func (a *Analyzer) Session() *Session { return a.session }

// Rows returns the number of samples processed so far.
func (a *Analyzer) Rows() int { return a.index }
