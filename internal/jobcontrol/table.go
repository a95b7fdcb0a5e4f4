package jobcontrol

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// DefaultCapacity bounds the number of jobs supervised at once when no
// explicit capacity is configured.
const DefaultCapacity = 16

// Table is a fixed-capacity registry of supervised jobs, indexed by slot
// scan. It performs no locking of its own: every caller goes through the
// Manager, which holds its mutex across each table operation.
//
// Invariants: pids are unique across occupied slots, job ids are unique and
// positive across occupied slots, and at most one slot is in
// StateForeground.
type Table struct {
	slots   []Job
	nextJID int
}

// NewTable creates an all-empty table. A capacity below 1 falls back to
// DefaultCapacity.
func NewTable(capacity int) *Table {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &Table{
		slots:   make([]Job, capacity),
		nextJID: 1,
	}
}

// Capacity returns the fixed number of slots.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Count returns the number of occupied slots.
func (t *Table) Count() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].pid != 0 {
			n++
		}
	}

	return n
}

// Add registers pid in the first unused slot and returns the allocated job
// id. The allocator is a simple incrementing counter that wraps back to 1
// past the table capacity, skipping ids still held by live jobs. Returns
// ErrTableFull when no slot is free; the table is left unchanged.
func (t *Table) Add(pid int, state JobState, cmdline string) (int, error) {
	if pid < 1 {
		return 0, fmt.Errorf("add job: pid %d out of range", pid)
	}

	for i := range t.slots {
		if t.slots[i].pid != 0 {
			continue
		}

		jid := t.nextJID
		for {
			if jid > len(t.slots) {
				jid = 1
			}
			if t.FindByJID(jid) == nil {
				break
			}
			jid++
		}
		t.nextJID = jid + 1

		t.slots[i] = Job{
			pid:     pid,
			jid:     jid,
			state:   state,
			cmdline: cmdline,
			token:   uuid.NewString(),
		}

		return jid, nil
	}

	return 0, ErrTableFull
}

// Remove clears the slot holding pid and recomputes the id allocator as one
// past the highest live job id, so future ids stay small. Removing an
// unknown pid is a no-op returning false.
func (t *Table) Remove(pid int) bool {
	if pid < 1 {
		return false
	}

	for i := range t.slots {
		if t.slots[i].pid == pid {
			t.slots[i] = Job{}
			t.nextJID = t.maxJID() + 1

			return true
		}
	}

	return false
}

// FindByPID returns the job holding pid, or nil. Pids below 1 never match.
func (t *Table) FindByPID(pid int) *Job {
	if pid < 1 {
		return nil
	}

	for i := range t.slots {
		if t.slots[i].pid == pid {
			return &t.slots[i]
		}
	}

	return nil
}

// FindByJID returns the job holding job id jid, or nil. Ids below 1 never
// match.
func (t *Table) FindByJID(jid int) *Job {
	if jid < 1 {
		return nil
	}

	for i := range t.slots {
		if t.slots[i].pid != 0 && t.slots[i].jid == jid {
			return &t.slots[i]
		}
	}

	return nil
}

// ForegroundPID returns the pid of the unique foreground job, or 0 when no
// job is in the foreground.
func (t *Table) ForegroundPID() int {
	for i := range t.slots {
		if t.slots[i].pid != 0 && t.slots[i].state == StateForeground {
			return t.slots[i].pid
		}
	}

	return 0
}

// Write writes one line per occupied slot to w, in slot order. Slot order is
// table layout order, not insertion or job-id order: a recycled slot keeps
// its position.
func (t *Table) Write(w io.Writer) error {
	for i := range t.slots {
		j := &t.slots[i]
		if j.pid == 0 {
			continue
		}

		if _, err := fmt.Fprintf(
			w,
			"[%d] (%d) %-10s %s\n",
			j.jid,
			j.pid,
			j.state,
			j.cmdline,
		); err != nil {
			return fmt.Errorf("write job list: %w", err)
		}
	}

	return nil
}

func (t *Table) maxJID() int {
	max := 0
	for i := range t.slots {
		if t.slots[i].pid != 0 && t.slots[i].jid > max {
			max = t.slots[i].jid
		}
	}

	return max
}
