// Package jobs contains the scheduled pipelines. Each job builds a closure
// suitable for the scheduler and carries its own monitoring.
package jobs

// JobFunc is a closure that can be used in the scheduler.
type JobFunc func()
