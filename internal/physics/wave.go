package physics

// AdvanceWave evolves the surface oscillator one frame. It reacts to the
// cost velocity and pointer speed far more slowly than the spring, and
// decays slowly, so ripples outlast the cursor settling.
func AdvanceWave(offset, velocity, costVelocity, pointerVelocity float64, p Params) (float64, float64) {
	velocity += costVelocity*p.WaveResponse + pointerVelocity*p.WaveKick
	velocity *= p.WaveDecay
	return offset + velocity*p.WaveAdvance, velocity
}
