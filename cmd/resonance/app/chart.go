package app

import (
	"fmt"
	"image/color"
	"math"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
)

const (
	chartTitle   = "Comparison of Newton-Raphson and Bisection Methods"
	xAxisCaption = "Resistance R (Ohm)"
	yAxisCaption = "Resonant Frequency f(R) (Hz)"

	curveSamples = 400
	rangePadding = 0.05
)

// Point is a (resistance, frequency) pair
type Point struct {
	R float64
	F float64
}

// Marker is a labelled solver result on the chart
type Marker struct {
	Point
	Name  string
	Label string
	Color color.Color
}

// ChartData is everything the renderer draws, in data coordinates
type ChartData struct {
	Title      string
	Target     float64
	Segments   [][]Point // f(R), split wherever it is undefined
	Markers    []Marker
	RMin, RMax float64
	FMin, FMax float64
	Circuit    circuit.Circuit
	Tolerance  float64
}

// NewChartData samples the frequency curve over the solver search range and
// adds a marker for every solution that was found.
func NewChartData(config *Config, solutions []Solution) *ChartData {
	c := config.circuitModel()
	chart := &ChartData{
		Title:     chartTitle,
		Target:    config.Solver.TargetFrequency,
		Circuit:   c,
		Tolerance: config.Solver.Tolerance,
		RMin:      min(config.Solver.BracketLower, config.Solver.InitialGuess),
		RMax:      max(config.Solver.BracketUpper, config.Solver.InitialGuess),
	}

	for i, s := range solutions {
		if !s.Found() || !s.Frequency.Valid {
			continue
		}

		prefix, clr := markerStyle(s.Method, i)
		chart.Markers = append(chart.Markers, Marker{
			Point: Point{R: s.Resistance, F: s.Frequency.Value},
			Name:  s.Method.Title(),
			Label: fmt.Sprintf("%s: R=%.2f, f=%.2f Hz", prefix, s.Resistance, s.Frequency.Value),
			Color: clr,
		})
		chart.RMin = min(chart.RMin, s.Resistance)
		chart.RMax = max(chart.RMax, s.Resistance)
	}

	pad := (chart.RMax - chart.RMin) * rangePadding
	chart.RMin -= pad
	chart.RMax += pad

	chart.FMin, chart.FMax = chart.Target, chart.Target
	chart.Segments = sampleCurve(c, chart.RMin, chart.RMax, curveSamples)
	for _, seg := range chart.Segments {
		for _, p := range seg {
			chart.FMin = min(chart.FMin, p.F)
			chart.FMax = max(chart.FMax, p.F)
		}
	}
	for _, m := range chart.Markers {
		chart.FMin = min(chart.FMin, m.F)
		chart.FMax = max(chart.FMax, m.F)
	}

	span := chart.FMax - chart.FMin
	if span == 0 {
		span = math.Max(math.Abs(chart.Target), 1)
	}
	chart.FMin -= span * rangePadding * 2
	chart.FMax += span * rangePadding * 2

	return chart
}

func sampleCurve(c circuit.Circuit, rMin, rMax float64, n int) [][]Point {
	var segments [][]Point
	var current []Point

	step := (rMax - rMin) / float64(n-1)
	for i := 0; i < n; i++ {
		r := rMin + float64(i)*step
		f := c.Frequency(r)
		if !f.Valid {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, Point{R: r, F: f.Value})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}

	return segments
}
