// Package automation runs many scenarios at once: YAML batch scripts and
// Monte Carlo perturbations of the third body's start.
package automation
