package jobcontrol

import "errors"

var (
	// ErrTableFull is returned by Spawn when the job table has no free
	// slot. The caller reports it and drops the job from supervision; it
	// never terminates the control loop.
	ErrTableFull = errors.New("job table is full")

	// ErrJobNotFound is returned when a well-formed identifier names no
	// live job.
	ErrJobNotFound = errors.New("job not found")

	// ErrMalformedID is returned when a job identifier is zero, negative,
	// or not numeric.
	ErrMalformedID = errors.New("identifier must be a nonzero pid or %jobid")
)
