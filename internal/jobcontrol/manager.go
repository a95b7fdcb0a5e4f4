package jobcontrol

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/nixpig/gosh/internal/sio"
)

// Manager owns the job table and serializes every access to it between the
// read-eval loop and signal-driven work. The mutex is the only
// synchronization: a reap or a keyboard-signal forward that fires while the
// loop is inside a mutation window simply waits its turn, so no job is ever
// observed half-updated, double-reaped, or lost between spawn and
// registration.
type Manager struct {
	mu   sync.Mutex
	cond *sync.Cond

	table  *Table
	runner Runner
	out    *sio.Writer
	logger *slog.Logger
}

// NewManager creates a Manager over the given table and runner.
// Notifications go to out; diagnostic logs to logger.
func NewManager(
	table *Table,
	runner Runner,
	out *sio.Writer,
	logger *slog.Logger,
) *Manager {
	m := &Manager{
		table:  table,
		runner: runner,
		out:    out,
		logger: logger,
	}
	m.cond = sync.NewCond(&m.mu)

	return m
}

// Spawn launches the requested process and registers it in the job table.
// The lock is held from before the process exists until the job is
// registered, so the reaper cannot process the child's exit before the table
// knows about it.
//
// On ErrTableFull the child keeps running but is dropped from supervision;
// the caller reports it and must not wait on it. Any other error means no
// process was created.
func (m *Manager) Spawn(req *SpawnRequest) (jid, pid int, err error) {
	if len(req.Argv) == 0 {
		return 0, 0, fmt.Errorf("spawn: argv cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pid, err = m.runner.Start(req)
	if err != nil {
		return 0, 0, fmt.Errorf("spawn %s: %w", req.Argv[0], err)
	}

	state := StateForeground
	if req.Background {
		state = StateBackground
	}

	jid, err = m.table.Add(pid, state, req.Cmdline)
	if err != nil {
		return 0, pid, err
	}

	m.logger.Debug("added job",
		"jid", jid,
		"pid", pid,
		"state", state,
		"token", m.table.FindByPID(pid).token,
		"cmdline", req.Cmdline,
	)

	if req.Background {
		m.notifyStarted(jid, pid, req.Cmdline)
	}

	return jid, pid, nil
}

// WaitForeground blocks until pid is no longer the foreground job: either
// the reaper removed it, a stop moved it out of the foreground slot, or a
// state change put another job there.
func (m *Manager) WaitForeground(pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.waitForegroundLocked(pid)
}

// waitForegroundLocked is the sigsuspend analog: cond.Wait atomically
// releases the lock and sleeps, so no state change can slip between the
// check and the sleep.
func (m *Manager) waitForegroundLocked(pid int) {
	for m.table.ForegroundPID() == pid {
		m.cond.Wait()
	}
}

// ResumeForeground moves the job named by identifier ("%N" for a job id, a
// bare number for a pid) into the foreground, sending SIGCONT to its process
// group if it was stopped, then blocks like a fresh foreground spawn.
// Returns ErrMalformedID or ErrJobNotFound without mutating any state.
func (m *Manager) ResumeForeground(identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.resolveLocked(identifier)
	if err != nil {
		return err
	}

	if job.state == StateStopped {
		if err := m.runner.Signal(job.pid, syscall.SIGCONT); err != nil {
			return fmt.Errorf("continue job %%%d: %w", job.jid, err)
		}
	}

	job.state = StateForeground
	m.logger.Debug("job moved to foreground", "jid", job.jid, "pid", job.pid)

	m.waitForegroundLocked(job.pid)

	return nil
}

// ResumeBackground moves the job named by identifier into the background,
// sending SIGCONT to its process group if it was stopped, emits the
// background-start notification, and returns without waiting.
func (m *Manager) ResumeBackground(identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, err := m.resolveLocked(identifier)
	if err != nil {
		return err
	}

	if job.state == StateStopped {
		if err := m.runner.Signal(job.pid, syscall.SIGCONT); err != nil {
			return fmt.Errorf("continue job %%%d: %w", job.jid, err)
		}
	}

	job.state = StateBackground
	m.logger.Debug("job moved to background", "jid", job.jid, "pid", job.pid)

	m.notifyStarted(job.jid, job.pid, job.cmdline)

	return nil
}

// ListJobs writes the job table to w, one line per job in slot order.
func (m *Manager) ListJobs(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.table.Write(w)
}

// Reap drains every currently reportable child state change. Signal
// delivery coalesces, so one invocation must consume everything the kernel
// has to report, not a single status. The lock is held only around each
// table mutation, never across the (non-blocking) poll.
func (m *Manager) Reap() {
	for {
		res, ok := m.runner.Wait()
		if !ok {
			return
		}

		m.mu.Lock()

		job := m.table.FindByPID(res.PID)
		switch {
		case job == nil:
			// Already dropped from supervision, e.g. a table-full spawn.
			m.logger.Debug("reaped unsupervised child", "pid", res.PID)
		case res.Stopped:
			// The interactive stop path may have recorded this transition
			// already; a second report for the same child must neither
			// repeat the notification nor leave the job unmarked.
			if job.state != StateStopped {
				m.notifyStopped(job.jid, job.pid, res.Signal)
				job.state = StateStopped
				m.logger.Debug("job stopped",
					"jid", job.jid, "pid", job.pid, "signal", res.Signal)
			}
		case res.Signaled:
			m.notifyTerminated(job.jid, job.pid, res.Signal)
			m.logger.Debug("job terminated by signal",
				"jid", job.jid, "pid", job.pid, "signal", res.Signal)
			m.table.Remove(res.PID)
		default:
			m.logger.Debug("job exited", "jid", job.jid, "pid", job.pid)
			m.table.Remove(res.PID)
		}

		m.cond.Broadcast()
		m.mu.Unlock()
	}
}

// ForwardToForeground delivers a keyboard-generated signal to the foreground
// job's process group. SIGTSTP additionally records the stop and reports it
// immediately, since the control loop is parked in the foreground wait; the
// reaper deduplicates the follow-up stop report.
func (m *Manager) ForwardToForeground(sig syscall.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pid := m.table.ForegroundPID()
	if pid == 0 {
		return
	}

	if sig == syscall.SIGTSTP {
		job := m.table.FindByPID(pid)
		m.notifyStopped(job.jid, job.pid, sig)
		job.state = StateStopped
		m.logger.Debug("job stopped",
			"jid", job.jid, "pid", job.pid, "signal", sig)
		m.cond.Broadcast()
	}

	if err := m.runner.Signal(pid, sig); err != nil {
		m.logger.Debug("forward signal", "pid", pid, "signal", sig, "err", err)
	}
}

// Shutdown reaps any already-stopped or already-exited children before the
// shell terminates, so no zombies or orphaned table entries are left.
// Stopped children are interrupted rather than left suspended forever.
func (m *Manager) Shutdown() {
	for {
		res, ok := m.runner.Wait()
		if !ok {
			return
		}

		m.mu.Lock()

		if res.Stopped {
			if err := m.runner.Signal(res.PID, syscall.SIGINT); err != nil {
				m.logger.Debug("interrupt stopped child",
					"pid", res.PID, "err", err)
			}
		} else {
			m.table.Remove(res.PID)
		}

		m.mu.Unlock()
	}
}

// resolveLocked maps a job identifier to its table entry. "%N" names a job
// id, a bare number a pid. The lookup result is checked before any use.
func (m *Manager) resolveLocked(identifier string) (*Job, error) {
	if rest, ok := strings.CutPrefix(identifier, "%"); ok {
		jid, err := strconv.Atoi(rest)
		if err != nil || jid < 1 {
			return nil, fmt.Errorf("%q: %w", identifier, ErrMalformedID)
		}

		job := m.table.FindByJID(jid)
		if job == nil {
			return nil, fmt.Errorf("%%%d: %w", jid, ErrJobNotFound)
		}

		return job, nil
	}

	pid, err := strconv.Atoi(identifier)
	if err != nil || pid < 1 {
		return nil, fmt.Errorf("%q: %w", identifier, ErrMalformedID)
	}

	job := m.table.FindByPID(pid)
	if job == nil {
		return nil, fmt.Errorf("(%d): %w", pid, ErrJobNotFound)
	}

	return job, nil
}

func (m *Manager) notifyStarted(jid, pid int, cmdline string) {
	m.emit(new(sio.Line).
		Str("[").Int(jid).
		Str("] (").Int(pid).
		Str(") ").Str(cmdline).
		Str("\n"))
}

func (m *Manager) notifyStopped(jid, pid int, sig syscall.Signal) {
	m.emit(new(sio.Line).
		Str("Job [").Int(jid).
		Str("] (").Int(pid).
		Str(") stopped by signal ").Int(int(sig)).
		Str("\n"))
}

func (m *Manager) notifyTerminated(jid, pid int, sig syscall.Signal) {
	m.emit(new(sio.Line).
		Str("Job [").Int(jid).
		Str("] (").Int(pid).
		Str(") terminated by signal ").Int(int(sig)).
		Str("\n"))
}

func (m *Manager) emit(l *sio.Line) {
	if err := m.out.Emit(l); err != nil {
		m.logger.Debug("emit notification", "err", err)
	}
}
