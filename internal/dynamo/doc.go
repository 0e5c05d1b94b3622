// Package dynamo provides the core simulation primitives for the planar
// three-body problem.
//
// The package defines the fundamental interfaces and types shared by the
// evaluator, the integrators and the orchestration loop:
//
//   - [State]: the 12-slot state vector [x1 y1 x2 y2 x3 y3 vx1 vy1 vx2 vy2 vx3 vy3]
//   - [System]: an autonomous ODE system dX/dt = f(X)
//   - [Integrator]: a fixed-step numerical integrator
//   - [Trajectory]: per-step record of the position coordinates
//   - [Result]: the output of one simulation run
//
// # Example
//
//	sys, _ := physics.NewThreeBody([]float64{3.33e5, 3.1e2, 2.5e6})
//	integ := integrators.NewRK4()
//	s := sim.New(sys, integ)
//	result, err := s.Run(ctx, x0, dynamo.Config{Dt: dt, Steps: steps})
//
// # Errors
//
// Failures are reported through the sentinel errors in this package
// ([ErrSingularity], [ErrInvalidMass], [ErrDimensionMismatch], ...). Step
// failures during a run are wrapped in a [SimulationError] carrying the step
// index and the last good state.
//
// # Thread Safety
//
// Integrators keep scratch buffers and are NOT safe for concurrent use.
// Independent runs must each own their system, integrator and state.
package dynamo
