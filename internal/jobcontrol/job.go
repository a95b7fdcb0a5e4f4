package jobcontrol

// Job is one supervised child process plus its control metadata. A zero Job
// is an unoccupied table slot.
type Job struct {
	pid     int
	jid     int
	state   JobState
	cmdline string

	// token disambiguates diagnostic logs across job-id reuse; job ids are
	// small and recycled, tokens are not.
	token string
}

// PID returns the process id of the job's process group leader.
func (j *Job) PID() int {
	return j.pid
}

// JID returns the small, recycled job id shown to the user.
func (j *Job) JID() int {
	return j.jid
}

// State returns the job's lifecycle state.
func (j *Job) State() JobState {
	return j.state
}

// Cmdline returns the original command line, retained for status reporting.
func (j *Job) Cmdline() string {
	return j.cmdline
}
