package profile

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
)

const (
	dpi     = 72.0
	spacing = 1.2
)

type annotator struct {
	context    *freetype.Context
	fontSize   float64
	timeFormat string
	location   *time.Location
}

func newAnnotator(cfg Config) (*annotator, error) {
	fontBytes, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", cfg.FontPath, err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(cfg.FontSize)
	context.SetSrc(image.Black)
	context.SetHinting(font.HintingFull)

	return &annotator{
		context:    context,
		fontSize:   cfg.FontSize,
		timeFormat: cfg.TimeFormat,
		location:   cfg.Location,
	}, nil
}

func (a *annotator) annotate(img *image.RGBA, d *Data, area image.Rectangle, scale *chartScale) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func(*image.RGBA, *Data, image.Rectangle, *chartScale) error
	}{
		{"drawing time scale", a.drawTimeScale},
		{"drawing altitude scale", a.drawAltitudeScale},
		{"drawing info", a.drawInfo},
	}
	for _, op := range ops {
		if err := op.fn(img, d, area, scale); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return nil
}

func (a *annotator) drawTimeScale(img *image.RGBA, d *Data, area image.Rectangle, scale *chartScale) error {
	for _, x := range xTicks(area) {
		at := scale.timeAt(x).In(a.location)

		pt := freetype.Pt(x+3, area.Max.Y+tickMarkLength+int(a.fontSize))
		if _, err := a.context.DrawString(at.Format(a.timeFormat), pt); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) drawAltitudeScale(img *image.RGBA, d *Data, area image.Rectangle, scale *chartScale) error {
	for _, y := range yTicks(area) {
		str := fmt.Sprintf("%s m", humanize.FormatFloat("#,###.#", scale.altitudeAt(y)))

		pt := freetype.Pt(3, y+int(a.fontSize)/2)
		if _, err := a.context.DrawString(str, pt); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) drawInfo(img *image.RGBA, d *Data, area image.Rectangle, scale *chartScale) error {
	start := d.Start.In(a.location)
	end := d.End.In(a.location)

	str := fmt.Sprintf("%s to %s, %s points, %d flights, peak %s m, max draw %s A",
		start.Format(time.DateTime),
		end.Format(time.DateTime),
		humanize.Comma(int64(len(d.Points))),
		len(d.Flights),
		humanize.FormatFloat("#,###.##", d.MaxAltitude),
		humanize.FormatFloat("#,###.##", d.MaxCurrent))

	imgSize := img.Bounds().Size()
	pt := freetype.Pt(area.Min.X, imgSize.Y-int(a.fontSize*spacing))
	_, err := a.context.DrawString(str, pt)
	return err
}
