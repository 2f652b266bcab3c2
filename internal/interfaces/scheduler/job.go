package scheduler

import "context"

// Job represents a unit of work that can be executed by the worker pool.
// This interface allows for extensibility - different types of jobs can be
// implemented (e.g., reminder sweeps, cleanup jobs).
type Job interface {
	// Execute runs the job with the given context.
	// Context should be respected for cancellation and timeouts.
	Execute(ctx context.Context) error

	// Name returns a short machine-friendly identifier for the job.
	// Used for metrics and tracing attributes.
	Name() string

	// Description returns a human-readable description of the job.
	// Used for logging purposes.
	Description() string
}
