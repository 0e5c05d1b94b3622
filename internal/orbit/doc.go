// Package orbit derives run plans and initial conditions for a bound pair of
// bodies perturbed by a third.
//
// Step-size policies turn a scenario into a fixed-step [dynamo.Config]:
//
//   - [Distance]: dt = 0.005 * r^(1/3) from the pair's separation
//   - [Mass]: dt from the lightest body (1/500, 1/100 or 1/50 year)
//
// [InitialState] places body 1 at the origin and body 2 at periapsis on the
// positive x axis with the two-body velocities for eccentricity e, so the
// pair's centre of mass starts at rest.
package orbit
