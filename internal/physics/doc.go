// Package physics provides the equations of motion for point masses under
// Newtonian gravity in the plane.
//
//   - [Evaluate]: the three-body right-hand side as a pure function
//   - [ThreeBody]: Evaluate bound to a mass vector, a [dynamo.System]
//   - [TwoBody]: the isolated two-body problem, used as a reference solution
//
// Units are astronomical units, years and Earth masses, which fixes the
// gravitational constant at [G] = 9.86e-5.
//
// # Singularities
//
// Neither system softens the potential. A zero separation between any pair
// returns [dynamo.ErrSingularity]; callers are expected to reject coincident
// initial positions before integrating:
//
//	dq, err := physics.Evaluate(q, masses)
//	if errors.Is(err, dynamo.ErrSingularity) {
//	    // degenerate configuration
//	}
package physics
