package profile

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"
)

const (
	defaultChartWidth  = 900
	defaultChartHeight = 360
	defaultFontSize    = 12.0
	defaultTimeFormat  = "15:04:05"

	tickMarkLength = 6

	// Default border sizes in pixels
	defaultTopBorder    = 20
	defaultLeftBorder   = 70
	defaultBottomBorder = 60
	defaultRightBorder  = 20
)

var (
	altitudeColor = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	currentColor  = color.RGBA{R: 230, G: 130, B: 20, A: 255}
	flightColor   = color.RGBA{R: 210, G: 240, B: 210, A: 255}
	gridColor     = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	frameColor    = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

// BorderConfig defines the white space around the chart area.
type BorderConfig struct {
	Top    int
	Left   int // space for the altitude scale
	Bottom int // space for the time scale and info bar
	Right  int
}

// Config holds chart rendering options.
type Config struct {
	ChartWidth  int
	ChartHeight int

	// FontPath points to a TTF file used for text annotation. Without
	// it, scales degrade to tick guidelines only.
	FontPath string
	FontSize float64

	TimeFormat string
	Location   *time.Location

	NoAnnotations bool
	Borders       BorderConfig
}

// Renderer draws a session profile chart.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer, filling zero config values with
// defaults.
func NewRenderer(config Config) (*Renderer, error) {
	if config.ChartWidth <= 0 {
		config.ChartWidth = defaultChartWidth
	}
	if config.ChartHeight <= 0 {
		config.ChartHeight = defaultChartHeight
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	if config.TimeFormat == "" {
		config.TimeFormat = defaultTimeFormat
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	return &Renderer{config: config}, nil
}

// Render draws the altitude line, the scaled current overlay and the
// flight span markers, then annotates scales when a font is available.
func (r *Renderer) Render(d *Data) (*image.RGBA, error) {
	if len(d.Points) < 2 {
		return nil, fmt.Errorf("track too short to render: %d points", len(d.Points))
	}

	fullWidth := r.config.ChartWidth + r.config.Borders.Left + r.config.Borders.Right
	fullHeight := r.config.ChartHeight + r.config.Borders.Top + r.config.Borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := image.Rect(
		r.config.Borders.Left,
		r.config.Borders.Top,
		r.config.Borders.Left+r.config.ChartWidth,
		r.config.Borders.Top+r.config.ChartHeight,
	)

	scale := newChartScale(d, area)

	r.shadeFlights(img, area, d, scale)
	r.drawGrid(img, area, scale)
	r.drawSeries(img, area, d, scale)
	r.drawFrame(img, area)

	if !r.config.NoAnnotations && r.config.FontPath != "" {
		ann, err := newAnnotator(r.config)
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		if err = ann.annotate(img, d, area, scale); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	return img, nil
}

// chartScale maps time and altitude onto chart pixels. The altitude
// range is padded so the line never touches the frame; current is
// scaled against its own maximum over the full chart height.
type chartScale struct {
	area       image.Rectangle
	start      time.Time
	seconds    float64
	altMin     float64
	altRange   float64
	maxCurrent float64
}

func newChartScale(d *Data, area image.Rectangle) *chartScale {
	altMin, altMax := d.MinAltitude, d.MaxAltitude
	pad := (altMax - altMin) * 0.05
	if pad == 0 {
		pad = 1
	}
	altMin -= pad
	altMax += pad

	seconds := d.End.Sub(d.Start).Seconds()
	if seconds == 0 {
		seconds = 1
	}

	return &chartScale{
		area:       area,
		start:      d.Start,
		seconds:    seconds,
		altMin:     altMin,
		altRange:   altMax - altMin,
		maxCurrent: max(d.MaxCurrent, 1),
	}
}

func (s *chartScale) x(at time.Time) int {
	frac := at.Sub(s.start).Seconds() / s.seconds
	return s.area.Min.X + int(math.Round(frac*float64(s.area.Dx()-1)))
}

func (s *chartScale) yAltitude(alt float64) int {
	frac := (alt - s.altMin) / s.altRange
	return s.area.Max.Y - 1 - int(math.Round(frac*float64(s.area.Dy()-1)))
}

func (s *chartScale) yCurrent(cur float64) int {
	frac := cur / s.maxCurrent
	return s.area.Max.Y - 1 - int(math.Round(frac*float64(s.area.Dy()-1)))
}

// altitudeAt inverts yAltitude for scale labels.
func (s *chartScale) altitudeAt(y int) float64 {
	frac := float64(s.area.Max.Y-1-y) / float64(s.area.Dy()-1)
	return s.altMin + frac*s.altRange
}

// timeAt inverts x for scale labels.
func (s *chartScale) timeAt(x int) time.Time {
	frac := float64(x-s.area.Min.X) / float64(s.area.Dx()-1)
	return s.start.Add(time.Duration(frac * s.seconds * float64(time.Second)))
}

func (r *Renderer) shadeFlights(img *image.RGBA, area image.Rectangle, d *Data, scale *chartScale) {
	for _, span := range d.Flights {
		x0, x1 := scale.x(span.Start), scale.x(span.End)
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		rect := image.Rect(x0, area.Min.Y, x1+1, area.Max.Y)
		draw.Draw(img, rect.Intersect(area), &image.Uniform{C: flightColor}, image.Point{}, draw.Src)
	}
}

func (r *Renderer) drawGrid(img *image.RGBA, area image.Rectangle, scale *chartScale) {
	for _, y := range yTicks(area) {
		for x := area.Min.X; x < area.Max.X; x++ {
			img.Set(x, y, gridColor)
		}
		for x := area.Min.X - tickMarkLength; x < area.Min.X; x++ {
			img.Set(x, y, frameColor)
		}
	}
	for _, x := range xTicks(area) {
		for y := area.Min.Y; y < area.Max.Y; y++ {
			img.Set(x, y, gridColor)
		}
		for y := area.Max.Y; y < area.Max.Y+tickMarkLength; y++ {
			img.Set(x, y, frameColor)
		}
	}
}

func (r *Renderer) drawSeries(img *image.RGBA, area image.Rectangle, d *Data, scale *chartScale) {
	prev := d.Points[0]
	for _, p := range d.Points[1:] {
		drawLine(img,
			scale.x(prev.At), scale.yCurrent(prev.Current),
			scale.x(p.At), scale.yCurrent(p.Current),
			currentColor)
		prev = p
	}

	// Altitude on top of the current overlay
	prev = d.Points[0]
	for _, p := range d.Points[1:] {
		drawLine(img,
			scale.x(prev.At), scale.yAltitude(prev.Altitude),
			scale.x(p.At), scale.yAltitude(p.Altitude),
			altitudeColor)
		prev = p
	}
}

func (r *Renderer) drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, area.Min.Y, frameColor)
		img.Set(x, area.Max.Y-1, frameColor)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		img.Set(area.Min.X, y, frameColor)
		img.Set(area.Max.X-1, y, frameColor)
	}
}

// yTicks and xTicks pick evenly spaced guideline positions.
func yTicks(area image.Rectangle) []int {
	count := max(area.Dy()/90, 2)
	step := area.Dy() / count
	ticks := make([]int, 0, count+1)
	for y := area.Max.Y - 1; y >= area.Min.Y; y -= step {
		ticks = append(ticks, y)
	}
	return ticks
}

func xTicks(area image.Rectangle) []int {
	count := max(area.Dx()/150, 2)
	step := area.Dx() / count
	ticks := make([]int, 0, count+1)
	for x := area.Min.X; x < area.Max.X; x += step {
		ticks = append(ticks, x)
	}
	return ticks
}

// drawLine draws a 1px line between two points.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
