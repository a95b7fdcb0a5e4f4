package jobcontrol

import "syscall"

// SpawnRequest describes one process to launch: the argument vector, the
// optional redirection filenames, whether it runs in the background, and the
// original command line retained for the job table.
type SpawnRequest struct {
	Argv       []string
	Infile     string
	Outfile    string
	Background bool
	Cmdline    string
}

// WaitResult is one reported child state change. A result with neither
// Stopped nor Signaled set means the child exited normally.
type WaitResult struct {
	PID      int
	Stopped  bool           // stopped by a signal rather than terminated
	Signaled bool           // terminated by a signal
	Signal   syscall.Signal // the stop or termination signal
}

// Runner abstracts process creation, control-signal delivery, and child
// status polling, so the Manager can be driven either by real processes or
// by a synthetic harness in tests.
type Runner interface {
	// Start launches the requested process in its own process group, with
	// redirections applied, and returns its pid.
	Start(req *SpawnRequest) (int, error)

	// Signal delivers sig to the process group led by pid.
	Signal(pid int, sig syscall.Signal) error

	// Wait polls for the next reportable child state change without
	// blocking, reporting stops as well as terminations. ok is false when
	// nothing is currently reportable.
	Wait() (res WaitResult, ok bool)
}
