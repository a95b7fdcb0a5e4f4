package jobcontrol

type JobState int

const (
	// StateUndefined is the zero value; an unoccupied table slot has no
	// state.
	StateUndefined JobState = iota

	// StateForeground indicates the job the control loop is waiting on.
	// At most one job is in this state at any time.
	StateForeground

	// StateBackground indicates a job running without blocking the control
	// loop.
	StateBackground

	// StateStopped indicates a job suspended by a stop signal, pending
	// SIGCONT.
	StateStopped
)

// NOTE: This slice needs to be kept in sync with any changes to the JobState
// values. The labels are what `jobs` prints, so they are part of the
// user-visible contract.
var stateLabels = []string{
	"Undefined",
	"Foreground",
	"Running",
	"Stopped",
}

// String implements the Stringer interface for JobState and returns the
// human state label used in job listings.
func (s JobState) String() string {
	if int(s) < 0 || int(s) >= len(stateLabels) {
		return stateLabels[0]
	}

	return stateLabels[s]
}
