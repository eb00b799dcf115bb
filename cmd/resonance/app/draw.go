package app

import (
	"image"
	"image/color"
	"math"
)

// drawLine draws a line of the given thickness using Bresenham's algorithm.
// dash > 0 leaves gaps of dash pixels after every dash pixels drawn.
func drawLine(img *image.RGBA, x0, y0, x1, y1, thickness, dash int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for n := 0; ; n++ {
		if dash <= 0 || (n/dash)%2 == 0 {
			drawDot(img, x0, y0, thickness, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func drawDot(img *image.RGBA, x, y, size int, c color.Color) {
	half := size / 2
	for i := x - half; i < x-half+size; i++ {
		for j := y - half; j < y-half+size; j++ {
			img.Set(i, j, c)
		}
	}
}

// drawDisc draws a filled circle centred at (cx, cy)
func drawDisc(img *image.RGBA, cx, cy, radius int, c color.Color) {
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= r2 {
				img.Set(cx+x, cy+y, c)
			}
		}
	}
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	drawLine(img, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, 1, 0, c)
	drawLine(img, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, 1, 0, c)
	drawLine(img, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, 1, 0, c)
	drawLine(img, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, 1, 0, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// niceStep picks a 1-2-5 step so that roughly one label fits per
// pixelsPerLabel pixels
func niceStep(span float64, pixels int) float64 {
	if span <= 0 {
		return 1
	}

	desired := math.Max(float64(pixels)/pixelsPerLabel, 2)
	rough := span / desired
	magnitude := math.Pow(10, math.Floor(math.Log10(rough)))

	for _, m := range []float64{1, 2, 5} {
		if m*magnitude >= rough {
			return m * magnitude
		}
	}
	return 10 * magnitude
}

// ticks returns the multiples of step within [lo, hi]
func ticks(lo, hi, step float64) []float64 {
	var out []float64
	start := math.Ceil(lo/step) * step
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > hi+step*1e-9 {
			break
		}
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		out = append(out, v)
	}
	return out
}
