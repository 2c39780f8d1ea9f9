package viz

import (
	"math"

	"github.com/san-kum/slrsim/internal/render"
)

// Rasterize draws a frame onto c. Chart coordinates are percentages with y
// pointing down, so 100 is the baseline row.
func Rasterize(c *Canvas, f render.Frame) {
	c.Clear()
	w, h := c.SubWidth(), c.SubHeight()
	if w == 0 || h == 0 {
		return
	}

	toY := func(y float64) int {
		return int(math.Round(y / 100 * float64(h-1)))
	}

	for x := 0; x < w; x++ {
		pct := (float64(x) + 0.5) / float64(w) * 100
		surface, ok := f.Curve.HeightAt(pct)
		if !ok {
			continue
		}
		c.FillColumn(x, toY(surface), h-1)
	}
	c.DrawLine(0, h-1, w-1, h-1)

	for _, m := range f.Markers {
		if m.Opacity <= 0.05 || m.Y < 0 || m.Y > 100 {
			continue
		}
		r := 0
		if m.Kind == render.DropletMarker && m.Radius >= 1.5 {
			r = 1
		}
		c.Disc(int(m.X/100*float64(w-1)), toY(m.Y), r)
	}
}
