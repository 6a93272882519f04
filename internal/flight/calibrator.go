package flight

import "math"

// Calibrator zero-offsets and de-noises the barometric altitude
// channel. The offset is established from the first reading of a file
// and re-established after every landing, so each flight reports
// altitude relative to its own takeoff ground level.
type Calibrator struct {
	thresholds Thresholds

	offset float64
	last   float64 // previous accepted reading; never a rejected one
	primed bool
}

func NewCalibrator(t Thresholds) *Calibrator {
	return &Calibrator{thresholds: t}
}

// Calibrate returns the cleaned altitude for one raw reading. A reading
// whose step from the last accepted value exceeds MaxAltitudeDiff is an
// anomaly: the last accepted value is returned and the baseline is not
// updated with the noise.
func (c *Calibrator) Calibrate(raw float64) float64 {
	if !c.primed {
		c.offset = raw
		c.last = 0
		c.primed = true
		return 0
	}

	candidate := math.Round((raw-c.offset)*100) / 100
	if math.Abs(candidate-c.last) > c.thresholds.MaxAltitudeDiff {
		return c.last
	}

	c.last = candidate
	return candidate
}

// Recalibrate drops the current ground reference. The next reading
// becomes the new zero, as on the first call of a file.
func (c *Calibrator) Recalibrate() {
	c.primed = false
}
