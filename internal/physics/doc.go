// Package physics advances the fluid chart's simulation state one frame at a
// time.
//
// A frame is a fixed tick (about 16ms) driven by the render loop, not by
// wall-clock time. Each [Step] applies:
//
//   - a spring-damper pulling the displayed position and cost toward their
//     targets, stiffened by fast pointer motion
//   - a slow decaying wave oscillator that keeps rippling after the spring
//     has settled
//   - gravity kinematics for droplets and splashes, purging dead particles
//
// [Step] is a pure function of its inputs; callers own the [State] value.
//
// # Settling
//
// The frame loop stops once [Settled] reports that position and cost
// velocities are below 0.1 and the wave velocity is below 0.001:
//
//	for s.Animating {
//	    s = physics.Step(s, params)
//	}
package physics
