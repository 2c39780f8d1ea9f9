// Package dynamo provides the primitives shared by the fluid chart packages.
//
// It holds the domain errors, the small numeric helpers used by the
// interpolator and the controller, and the random source abstraction
// particle spawning depends on:
//
//   - [Clamp], [Lerp], [Clamp01]: scalar helpers
//   - [Rand]: injectable uniform random source
//   - [DatasetError], [ParamError]: structured validation errors
//
// # Example
//
//	p := dynamo.Clamp01(x / width)
//	slr := dynamo.Lerp(0.10, 0.84, p)
package dynamo
