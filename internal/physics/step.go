package physics

import "math"

// Step advances s by one frame and returns the new state. The input's
// particle slices are not modified.
func Step(s State, p Params) State {
	next := s

	k := SpringStrength(s.PointerVelocity, p)
	next.X, next.VelX = advanceSpring(s.X, s.TargetX, s.VelX, k, p.Damping)
	next.Cost, next.VelCost = advanceSpring(s.Cost, s.TargetCost, s.VelCost, k, p.Damping)

	next.WaveOffset, next.WaveVelocity = AdvanceWave(s.WaveOffset, s.WaveVelocity, next.VelCost, s.PointerVelocity, p)

	next.PointerVelocity = s.PointerVelocity * p.PointerDecay

	next.Droplets = stepDroplets(s.Droplets, p)
	next.Splashes = stepSplashes(s.Splashes, p)

	next.Animating = !Settled(next, p)
	return next
}

// Settled reports whether further frames are unnecessary. Position settles
// quickly; the wave threshold is much tighter so ripples linger.
func Settled(s State, p Params) bool {
	return math.Abs(s.VelX) < p.SettleVelocity &&
		math.Abs(s.VelCost) < p.SettleVelocity &&
		math.Abs(s.WaveVelocity) < p.SettleWave
}
