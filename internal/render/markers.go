package render

import "github.com/san-kum/slrsim/internal/physics"

type MarkerKind int

const (
	DropletMarker MarkerKind = iota
	SplashMarker
)

func (k MarkerKind) String() string {
	switch k {
	case DropletMarker:
		return "droplet"
	case SplashMarker:
		return "splash"
	}
	return "unknown"
}

// Marker is one circular particle glyph.
type Marker struct {
	Kind    MarkerKind
	X, Y    float64
	Radius  float64
	Opacity float64
}

// splashAlpha dims splashes relative to their lifetime opacity.
const splashAlpha = 0.6

// Markers lists droplets first, then splashes.
func Markers(s physics.State) []Marker {
	out := make([]Marker, 0, s.Particles())
	for _, d := range s.Droplets {
		out = append(out, Marker{Kind: DropletMarker, X: d.X, Y: d.Y, Radius: d.Radius, Opacity: d.Life / physics.DropletLife})
	}
	for _, sp := range s.Splashes {
		out = append(out, Marker{Kind: SplashMarker, X: sp.X, Y: sp.Y, Radius: sp.Radius, Opacity: sp.Opacity * splashAlpha})
	}
	return out
}

// Frame is everything the presentation surface needs for one repaint.
type Frame struct {
	Curve   Curve
	Markers []Marker
}

// Render draws the displayed state; the people channel is pinned at 100.
func Render(s physics.State, o Options) Frame {
	return Frame{
		Curve:   Fluid(s.X, s.Cost, 100, s.WaveOffset, o),
		Markers: Markers(s),
	}
}
