// Package optim sweeps scenario parameters over a grid and picks the point
// that minimises (or maximises) a run metric.
package optim
