// Package render converts fluid simulation state into chart geometry.
//
// Coordinates are chart percentages with SVG orientation: x grows right from
// 0 to 100, y grows down with the baseline at 100. The geometry is host
// neutral; [Curve.PathData] emits an SVG path description and the terminal
// host rasterizes [Curve.HeightAt] instead.
package render
