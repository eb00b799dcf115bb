package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi            = 72.0
	fontSize       = 14.0
	tickMarkHeight = 5
	pixelsPerLabel = 120.0
	markerRadius   = 5
	curveThickness = 2
	dashLength     = 8

	defaultWidth  = 1000
	defaultHeight = 500

	// Default border sizes in pixels
	defaultTopBorder    = 50
	defaultLeftBorder   = 90
	defaultBottomBorder = 70
	defaultRightBorder  = 30
)

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // Space for the title
	Left   int // Space for the frequency scale
	Bottom int // Space for the resistance scale and information bar
	Right  int // Right padding
}

// RenderConfig holds all configuration options for chart rendering
type RenderConfig struct {
	Width    int     // Image width in pixels
	Height   int     // Image height in pixels
	FontSize float64 // Font size in points

	BorderConfig BorderConfig
}

// ChartRenderer draws a ChartData as an image
type ChartRenderer struct {
	config RenderConfig
	font   *truetype.Font
}

// NewChartRenderer creates a new chart renderer with the given configuration
func NewChartRenderer(config RenderConfig) (*ChartRenderer, error) {
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	b := config.BorderConfig
	if config.Width <= b.Left+b.Right || config.Height <= b.Top+b.Bottom {
		return nil, fmt.Errorf("image %dx%d is too small for its borders", config.Width, config.Height)
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	return &ChartRenderer{config: config, font: parsedFont}, nil
}

// plotArea is the rectangle inside the borders
func (r *ChartRenderer) plotArea() image.Rectangle {
	b := r.config.BorderConfig
	return image.Rect(b.Left, b.Top, r.config.Width-b.Right, r.config.Height-b.Bottom)
}

// project converts a data point into image coordinates
func (r *ChartRenderer) project(chart *ChartData, p Point) image.Point {
	area := r.plotArea()
	xRatio := (p.R - chart.RMin) / (chart.RMax - chart.RMin)
	yRatio := (p.F - chart.FMin) / (chart.FMax - chart.FMin)

	return image.Point{
		X: area.Min.X + int(math.Round(xRatio*float64(area.Dx()))),
		Y: area.Max.Y - int(math.Round(yRatio*float64(area.Dy()))),
	}
}

// Render creates an image of the chart
func (r *ChartRenderer) Render(chart *ChartData) (*image.RGBA, error) {
	if !(chart.RMax > chart.RMin) || !(chart.FMax > chart.FMin) {
		return nil, fmt.Errorf("empty chart range R=[%g, %g] f=[%g, %g]", chart.RMin, chart.RMax, chart.FMin, chart.FMax)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ann := newAnnotator(r.font, r.config.FontSize, img)
	defer ann.Close()

	ops := []struct {
		msg string
		fn  func(*image.RGBA, *ChartData, *annotator) error
	}{
		{"drawing grid", r.drawGrid},
		{"drawing curve", r.drawCurve},
		{"drawing target", r.drawTarget},
		{"drawing markers", r.drawMarkers},
		{"drawing legend", r.drawLegend},
		{"drawing captions", r.drawCaptions},
	}
	for _, op := range ops {
		if err := op.fn(img, chart, ann); err != nil {
			return nil, fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return img, nil
}

func (r *ChartRenderer) drawGrid(img *image.RGBA, chart *ChartData, ann *annotator) error {
	area := r.plotArea()

	rStep := niceStep(chart.RMax-chart.RMin, area.Dx())
	for _, v := range ticks(chart.RMin, chart.RMax, rStep) {
		x := r.project(chart, Point{R: v, F: chart.FMin}).X
		drawLine(img, x, area.Min.Y, x, area.Max.Y, 1, 0, gridColor)
		drawLine(img, x, area.Max.Y, x, area.Max.Y+tickMarkHeight, 1, 0, axisColor)

		label := humanize.SIWithDigits(v, 2, "Ω")
		if err := ann.drawString(label, x-ann.width(label)/2, area.Max.Y+tickMarkHeight+ann.lineHeight(), axisColor); err != nil {
			return fmt.Errorf("drawing resistance label: %w", err)
		}
	}

	fStep := niceStep(chart.FMax-chart.FMin, area.Dy())
	for _, v := range ticks(chart.FMin, chart.FMax, fStep) {
		y := r.project(chart, Point{R: chart.RMin, F: v}).Y
		drawLine(img, area.Min.X, y, area.Max.X, y, 1, 0, gridColor)
		drawLine(img, area.Min.X-tickMarkHeight, y, area.Min.X, y, 1, 0, axisColor)

		label := humanize.SIWithDigits(v, 2, "Hz")
		if err := ann.drawString(label, area.Min.X-tickMarkHeight-3-ann.width(label), y+ann.ascent()/2, axisColor); err != nil {
			return fmt.Errorf("drawing frequency label: %w", err)
		}
	}

	drawRect(img, area, axisColor)
	return nil
}

func (r *ChartRenderer) drawCurve(img *image.RGBA, chart *ChartData, _ *annotator) error {
	area := r.plotArea()
	for _, seg := range chart.Segments {
		for i := 1; i < len(seg); i++ {
			a, b := r.project(chart, seg[i-1]), r.project(chart, seg[i])
			if !a.In(area) && !b.In(area) {
				continue
			}
			drawLine(img, a.X, a.Y, b.X, b.Y, curveThickness, 0, curveColor)
		}
	}
	return nil
}

func (r *ChartRenderer) drawTarget(img *image.RGBA, chart *ChartData, _ *annotator) error {
	area := r.plotArea()
	y := r.project(chart, Point{R: chart.RMin, F: chart.Target}).Y
	drawLine(img, area.Min.X, y, area.Max.X, y, curveThickness, dashLength, targetColor)
	return nil
}

func (r *ChartRenderer) drawMarkers(img *image.RGBA, chart *ChartData, ann *annotator) error {
	for i, m := range chart.Markers {
		pt := r.project(chart, m.Point)
		drawDisc(img, pt.X, pt.Y, markerRadius, m.Color)

		// stack labels of coinciding markers instead of overprinting them
		y := pt.Y - markerRadius - 4 - i*ann.lineHeight()
		if err := ann.drawString(m.Label, pt.X+markerRadius, y, m.Color); err != nil {
			return fmt.Errorf("drawing marker label: %w", err)
		}
	}
	return nil
}

func (r *ChartRenderer) drawLegend(img *image.RGBA, chart *ChartData, ann *annotator) error {
	type entry struct {
		label  string
		color  color.Color
		marker bool
	}

	entries := []entry{{
		label: fmt.Sprintf("Target Frequency %s Hz", formatFloat(chart.Target)),
		color: targetColor,
	}}
	for _, m := range chart.Markers {
		entries = append(entries, entry{label: m.Name, color: m.Color, marker: true})
	}

	var width int
	for _, e := range entries {
		width = max(width, ann.width(e.label))
	}

	const swatch, padding = 24, 8
	lh := ann.lineHeight()
	area := r.plotArea()
	box := image.Rect(
		area.Max.X-width-swatch-3*padding,
		area.Min.Y+padding,
		area.Max.X-padding,
		area.Min.Y+2*padding+len(entries)*lh,
	)
	draw.Draw(img, box, image.White, image.Point{}, draw.Src)
	drawRect(img, box, gridColor)

	for i, e := range entries {
		cy := box.Min.Y + padding/2 + i*lh + lh/2
		x := box.Min.X + padding
		if e.marker {
			drawDisc(img, x+swatch/2, cy, markerRadius, e.color)
		} else {
			drawLine(img, x, cy, x+swatch, cy, curveThickness, dashLength/2, e.color)
		}
		if err := ann.drawString(e.label, x+swatch+padding, cy+ann.ascent()/2, axisColor); err != nil {
			return fmt.Errorf("drawing legend entry: %w", err)
		}
	}
	return nil
}

func (r *ChartRenderer) drawCaptions(img *image.RGBA, chart *ChartData, ann *annotator) error {
	area := r.plotArea()

	title := chart.Title
	if err := ann.drawString(title, area.Min.X+(area.Dx()-ann.width(title))/2, r.config.BorderConfig.Top/2+ann.ascent()/2, axisColor); err != nil {
		return fmt.Errorf("drawing title: %w", err)
	}

	if err := ann.drawString(yAxisCaption, 3, r.config.BorderConfig.Top-6, axisColor); err != nil {
		return fmt.Errorf("drawing frequency caption: %w", err)
	}

	// resistance caption and circuit details share the bottom line
	var sb strings.Builder
	sb.WriteString(xAxisCaption)
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("L = %s; C = %s; tolerance = %s",
		humanize.SIWithDigits(chart.Circuit.Inductance, 3, "H"),
		humanize.SIWithDigits(chart.Circuit.Capacitance, 3, "F"),
		formatFloat(chart.Tolerance)))

	info := sb.String()
	y := img.Bounds().Max.Y - ann.descent() - 4
	if err := ann.drawString(info, area.Min.X+(area.Dx()-ann.width(info))/2, y, axisColor); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

type annotator struct {
	context  *freetype.Context
	fontFace font.Face
	fontSize float64
}

func newAnnotator(f *truetype.Font, size float64, dst *image.RGBA) *annotator {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingNone)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)

	return &annotator{
		context:  ctx,
		fontSize: size,
		fontFace: truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

// drawString draws s with its baseline starting at (x, y)
func (a *annotator) drawString(s string, x, y int, c color.Color) error {
	a.context.SetSrc(image.NewUniform(c))
	_, err := a.context.DrawString(s, freetype.Pt(x, y))
	return err
}

func (a *annotator) width(s string) int {
	return font.MeasureString(a.fontFace, s).Round()
}

func (a *annotator) ascent() int {
	return a.fontFace.Metrics().Ascent.Round()
}

func (a *annotator) descent() int {
	return a.fontFace.Metrics().Descent.Round()
}

func (a *annotator) lineHeight() int {
	m := a.fontFace.Metrics()
	return (m.Ascent + m.Descent).Round() + 2
}
