package render

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultSamples          = 30
	DefaultWaveFrequency    = 2.5
	DefaultAmplitudeBase    = 1.5
	DefaultAmplitudeGain    = 2.5
	DefaultTensionWindow    = 0.15
	DefaultTensionFrequency = 5.0
	DefaultTensionAmplitude = 1.2
	DefaultTension          = 0.4
	DefaultVerticalTension  = 0.2

	// Baseline is the y coordinate of the chart floor.
	Baseline = 100.0
)

type Point struct {
	X, Y float64
}

// Segment is a cubic Bézier from the previous point to To.
type Segment struct {
	C1, C2, To Point
}

// Curve is the closed fluid region: from the origin up to the first sample,
// through every sample, down to the baseline under the cursor and back.
type Curve struct {
	Samples  []Point
	Segments []Segment
	Edge     float64
}

// Options tune the surface shape.
type Options struct {
	Samples          int
	WaveFrequency    float64
	AmplitudeBase    float64
	AmplitudeGain    float64
	TensionWindow    float64
	TensionFrequency float64
	TensionAmplitude float64
	Tension          float64
	VerticalTension  float64
}

func DefaultOptions() Options {
	return Options{
		Samples:          DefaultSamples,
		WaveFrequency:    DefaultWaveFrequency,
		AmplitudeBase:    DefaultAmplitudeBase,
		AmplitudeGain:    DefaultAmplitudeGain,
		TensionWindow:    DefaultTensionWindow,
		TensionFrequency: DefaultTensionFrequency,
		TensionAmplitude: DefaultTensionAmplitude,
		Tension:          DefaultTension,
		VerticalTension:  DefaultVerticalTension,
	}
}

// Fluid samples the water surface from the left edge to the cursor at
// xPercent. Height rises linearly to costPercent, with a sloshing wave whose
// amplitude grows with height and a surface-tension ripple near the cursor.
// peoplePercent does not affect the shape.
func Fluid(xPercent, costPercent, peoplePercent, waveOffset float64, o Options) Curve {
	n := o.Samples
	if n < 1 {
		n = DefaultSamples
	}

	samples := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		progress := float64(i) / float64(n)
		height := progress * costPercent

		amplitude := o.AmplitudeBase + height/100*o.AmplitudeGain
		wave := math.Sin(progress*math.Pi*o.WaveFrequency+waveOffset) * amplitude

		ripple := 0.0
		if edge := math.Abs(progress - 1); edge < o.TensionWindow {
			ripple = math.Sin(edge*math.Pi*o.TensionFrequency) * o.TensionAmplitude
		}

		samples[i] = Point{X: progress * xPercent, Y: Baseline - height + wave + ripple}
	}

	segments := make([]Segment, 0, n)
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		dx, dy := cur.X-prev.X, cur.Y-prev.Y
		segments = append(segments, Segment{
			C1: Point{X: prev.X + dx*o.Tension, Y: prev.Y + dy*o.VerticalTension},
			C2: Point{X: prev.X + dx*(1-o.Tension), Y: cur.Y - dy*o.VerticalTension},
			To: cur,
		})
	}

	return Curve{Samples: samples, Segments: segments, Edge: xPercent}
}

// PathData renders the closed region as an SVG path description.
func (c Curve) PathData() string {
	if len(c.Samples) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M 0 100 L ")
	writePoint(&b, c.Samples[0])
	for _, s := range c.Segments {
		b.WriteString(" C ")
		writePoint(&b, s.C1)
		b.WriteString(", ")
		writePoint(&b, s.C2)
		b.WriteString(", ")
		writePoint(&b, s.To)
	}
	b.WriteString(" L ")
	b.WriteString(num(c.Edge))
	b.WriteString(" 100 L 0 100 Z")
	return b.String()
}

// HeightAt returns the surface y at horizontal percent x, linearly
// interpolated between samples. ok is false right of the cursor edge.
func (c Curve) HeightAt(x float64) (float64, bool) {
	if len(c.Samples) == 0 || x < 0 || x > c.Edge {
		return Baseline, false
	}
	for i := 1; i < len(c.Samples); i++ {
		a, b := c.Samples[i-1], c.Samples[i]
		if x > b.X {
			continue
		}
		if b.X == a.X {
			return b.Y, true
		}
		t := (x - a.X) / (b.X - a.X)
		return a.Y + (b.Y-a.Y)*t, true
	}
	return c.Samples[len(c.Samples)-1].Y, true
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(num(p.X))
	b.WriteByte(' ')
	b.WriteString(num(p.Y))
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
