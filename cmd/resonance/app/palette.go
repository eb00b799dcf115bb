package app

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/roman-kulish/rlc-resonance/internal/solver"
)

var (
	targetColor    = colorful.Hsv(0, 0.83, 0.84)
	newtonColor    = colorful.Hsv(205, 0.82, 0.71)
	bisectionColor = colorful.Hsv(120, 0.73, 0.63)
	curveColor     = colorful.Hsv(0, 0, 0.35)
	axisColor      = colorful.Hsv(0, 0, 0)

	// grid lines are a faint tint of the axis colour
	gridColor = axisColor.BlendLab(colorful.Hsv(0, 0, 1), 0.9).Clamped()
)

// markerStyle returns the label prefix and colour of a solver's marker
func markerStyle(method solver.Method, i int) (string, color.Color) {
	switch method {
	case solver.NewtonRaphson:
		return "NR", newtonColor
	case solver.Bisection:
		return method.Title(), bisectionColor
	default:
		return method.Title(), colorful.Hsv(float64(i*67%360), 0.75, 0.7)
	}
}
