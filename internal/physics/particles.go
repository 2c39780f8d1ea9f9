package physics

import "github.com/san-kum/slrsim/internal/dynamo"

const (
	DropletLife    = 60.0
	SplashMaxLife  = 50.0
	SplashCount    = 3
	splashSpread   = 5.0
	splashMinLife  = 30.0
	splashLifeSpan = 20.0
)

func stepDroplets(in []Droplet, p Params) []Droplet {
	out := make([]Droplet, 0, len(in))
	for _, d := range in {
		d.Y += d.Fall
		d.Fall += p.DropletGravity
		d.Life--
		if d.Life > 0 && d.Y < p.FloorY {
			out = append(out, d)
		}
	}
	return out
}

func stepSplashes(in []Splash, p Params) []Splash {
	out := make([]Splash, 0, len(in))
	for _, s := range in {
		s.X += s.VX
		s.Y += s.VY
		s.VY += p.SplashGravity
		s.Life--
		if s.MaxLife > 0 {
			s.Opacity = s.Life / s.MaxLife
		}
		if s.Life > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Spawner creates particles with randomized jitter from an injected source.
type Spawner struct {
	rng dynamo.Rand
}

func NewSpawner(rng dynamo.Rand) *Spawner {
	return &Spawner{rng: rng}
}

// Droplet starts a drop above the visible area at xPercent.
func (sp *Spawner) Droplet(xPercent float64) Droplet {
	return Droplet{
		X:      xPercent,
		Y:      -5 - sp.rng.Float64()*10,
		Fall:   0.5 + sp.rng.Float64(),
		Life:   DropletLife,
		Radius: 0.8 + sp.rng.Float64()*1.5,
	}
}

// Splash sprays SplashCount particles upward from the fluid surface.
func (sp *Spawner) Splash(xPercent, costPercent float64) []Splash {
	out := make([]Splash, SplashCount)
	y := 100 - costPercent
	for i := range out {
		out[i] = Splash{
			X:       xPercent + (sp.rng.Float64()-0.5)*splashSpread,
			Y:       y,
			VX:      (sp.rng.Float64() - 0.5) * 2,
			VY:      -2 - sp.rng.Float64()*2,
			Life:    splashMinLife + sp.rng.Float64()*splashLifeSpan,
			MaxLife: SplashMaxLife,
			Opacity: 1,
			Radius:  0.5 + sp.rng.Float64(),
		}
	}
	return out
}

// Roll reports whether an event with the given probability fires.
func (sp *Spawner) Roll(probability float64) bool {
	return sp.rng.Float64() < probability
}
