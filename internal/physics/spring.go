package physics

import "math"

// SpringStrength stiffens the base spring with pointer speed, so fast
// sweeps track the cursor more tightly.
func SpringStrength(pointerVelocity float64, p Params) float64 {
	boost := math.Min(math.Abs(pointerVelocity)*p.VelocityGain, p.VelocityCap)
	return p.BaseStrength * (1 + boost)
}

// advanceSpring moves one axis a single frame toward target.
func advanceSpring(current, target, velocity, strength, damping float64) (float64, float64) {
	force := (target - current) * strength
	velocity = (velocity + force) * damping
	return current + velocity, velocity
}
