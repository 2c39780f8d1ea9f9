package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// counter eases a displayed number toward its target, like the ticking
// figures on the web chart.
type counter struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newCounter(fps int, value float64) counter {
	return counter{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
		pos:    value,
		target: value,
	}
}

func (c *counter) set(target float64) { c.target = target }

func (c *counter) step() float64 {
	c.pos, c.vel = c.spring.Update(c.pos, c.vel, c.target)
	return c.pos
}

// snap jumps to the target.
func (c *counter) snap() {
	c.pos, c.vel = c.target, 0
}

func (c *counter) settled() bool {
	return math.Abs(c.pos-c.target) < 0.005 && math.Abs(c.vel) < 0.005
}
