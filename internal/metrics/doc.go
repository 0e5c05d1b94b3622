// Package metrics reduces a run to a few numbers while it is integrated.
// Every [Metric] is a [dynamo.Observer]; attach it before running and read
// [Metric.Value] afterwards.
package metrics
