// Package viz hosts the sea-level chart in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: chart, info panel and status line around a [control.Controller]
//   - [Canvas]: Braille-based pixel canvas for the water body and particles
//   - Theme selection with 5 built-in color schemes
//
// # Input
//
//	Mouse motion  - move the waterline; leaving the chart lets it settle
//	Left drag     - touch-style input without droplets
//	R             - Restart with the startup ripple
//	T             - Cycle color themes
//	S             - Save an SVG snapshot
//	?             - Toggle full help
//	Q             - Quit
package viz
