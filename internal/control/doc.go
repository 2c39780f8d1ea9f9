// Package control turns pointer and touch input into fluid targets and
// drives the per-frame loop.
//
//   - [Controller]: owns the single [physics.State] and the readout
//   - [Loop]: requests frames from a [Scheduler] while the fluid moves
//   - [ManualScheduler]: deterministic frame queue for headless runs
//
// # Usage
//
//	ctrl, _ := control.New(projection.Default(), physics.DefaultParams(),
//		control.WithBounds(control.Rect{Width: 800, Height: 400}),
//		control.WithDisplay(view))
//	loop := control.NewLoop(ctrl, sched)
//	loop.Kick(ctrl.PointerMove(420))
//
// Input handlers return whether a frame loop must be started; [Loop.Kick]
// requests the first frame only in that case, so at most one loop runs.
package control
