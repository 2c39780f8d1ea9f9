// Package projection holds the sea-level-rise knot dataset and maps a
// normalized chart position onto interpolated projection values.
//
// Year and displaced population interpolate linearly between the bracketing
// knots. Economic cost follows an accelerating t^2.2 curve, so damages grow
// faster than the sea level itself. The impact phrase comes from the knot
// nearest in sea-level rise, which near a bracket edge may belong to the
// neighbouring bracket.
package projection
