package jobcontrol_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nixpig/gosh/internal/jobcontrol"
)

func addTestJob(
	t *testing.T,
	table *jobcontrol.Table,
	pid int,
	state jobcontrol.JobState,
	cmdline string,
) int {
	t.Helper()

	jid, err := table.Add(pid, state, cmdline)
	if err != nil {
		t.Fatalf("expected not to receive error: got '%v'", err)
	}

	return jid
}

func tableListing(t *testing.T, table *jobcontrol.Table) string {
	t.Helper()

	var buf bytes.Buffer
	if err := table.Write(&buf); err != nil {
		t.Fatalf("expected not to receive error: got '%v'", err)
	}

	return buf.String()
}

func TestTableAddAndFind(t *testing.T) {
	table := jobcontrol.NewTable(4)

	jidA := addTestJob(t, table, 101, jobcontrol.StateBackground, "sleep 10 &")
	jidB := addTestJob(t, table, 102, jobcontrol.StateForeground, "cat")

	if jidA != 1 || jidB != 2 {
		t.Errorf("expected sequential job ids: got '%d', '%d'", jidA, jidB)
	}

	if job := table.FindByPID(101); job == nil || job.JID() != 1 {
		t.Errorf("expected to find pid 101 with jid 1: got '%+v'", job)
	}

	if job := table.FindByJID(2); job == nil || job.PID() != 102 {
		t.Errorf("expected to find jid 2 with pid 102: got '%+v'", job)
	}

	if job := table.FindByPID(0); job != nil {
		t.Errorf("expected no match for pid 0: got '%+v'", job)
	}

	if job := table.FindByJID(-1); job != nil {
		t.Errorf("expected no match for jid -1: got '%+v'", job)
	}

	if got := table.ForegroundPID(); got != 102 {
		t.Errorf("expected foreground pid: got '%d', want '102'", got)
	}
}

func TestTableFull(t *testing.T) {
	table := jobcontrol.NewTable(2)

	addTestJob(t, table, 101, jobcontrol.StateBackground, "a &")
	addTestJob(t, table, 102, jobcontrol.StateBackground, "b &")

	before := tableListing(t, table)

	if _, err := table.Add(103, jobcontrol.StateBackground, "c &"); !errors.Is(
		err,
		jobcontrol.ErrTableFull,
	) {
		t.Fatalf("expected ErrTableFull: got '%v'", err)
	}

	after := tableListing(t, table)
	if before != after {
		t.Errorf(
			"expected table unchanged by failed add: got '%s', want '%s'",
			after,
			before,
		)
	}
}

func TestTableRemove(t *testing.T) {
	table := jobcontrol.NewTable(8)

	addTestJob(t, table, 101, jobcontrol.StateBackground, "a &")
	addTestJob(t, table, 102, jobcontrol.StateBackground, "b &")
	addTestJob(t, table, 103, jobcontrol.StateBackground, "c &")

	if !table.Remove(103) {
		t.Fatal("expected remove of live pid to return true")
	}

	// Allocator recomputes to one past the highest live jid.
	if jid := addTestJob(t, table, 104, jobcontrol.StateBackground, "d &"); jid != 3 {
		t.Errorf("expected recycled jid: got '%d', want '3'", jid)
	}

	if table.Remove(103) {
		t.Error("expected second remove of same pid to be a no-op")
	}

	if got := table.Count(); got != 3 {
		t.Errorf("expected occupied slots: got '%d', want '3'", got)
	}
}

func TestTableJIDReuseAfterExit(t *testing.T) {
	table := jobcontrol.NewTable(4)

	addTestJob(t, table, 101, jobcontrol.StateBackground, "a &")
	addTestJob(t, table, 102, jobcontrol.StateBackground, "b &")

	table.Remove(101)
	table.Remove(102)

	if jid := addTestJob(t, table, 103, jobcontrol.StateBackground, "c &"); jid != 1 {
		t.Errorf("expected allocator reset after table drained: got '%d', want '1'", jid)
	}
}

func TestTableAllocatorWraparound(t *testing.T) {
	table := jobcontrol.NewTable(2)

	addTestJob(t, table, 101, jobcontrol.StateBackground, "a &")
	addTestJob(t, table, 102, jobcontrol.StateBackground, "b &")

	// Removing the lower jid pushes the allocator past capacity; the next
	// add must wrap back and skip the live jid.
	table.Remove(101)

	jid := addTestJob(t, table, 103, jobcontrol.StateBackground, "c &")
	if jid != 1 {
		t.Errorf("expected wrapped jid: got '%d', want '1'", jid)
	}

	if live := table.FindByJID(2); live == nil || live.PID() != 102 {
		t.Errorf("expected live jid 2 untouched: got '%+v'", live)
	}
}

func TestTableWriteSlotOrder(t *testing.T) {
	table := jobcontrol.NewTable(4)

	addTestJob(t, table, 101, jobcontrol.StateBackground, "a &")
	addTestJob(t, table, 102, jobcontrol.StateBackground, "b &")
	addTestJob(t, table, 103, jobcontrol.StateStopped, "c")

	table.Remove(102)
	// Reuses the middle slot: listing stays in slot order, not jid order.
	addTestJob(t, table, 104, jobcontrol.StateBackground, "d &")

	got := tableListing(t, table)

	want := strings.Join([]string{
		"[1] (101) Running    a &",
		"[4] (104) Running    d &",
		"[3] (103) Stopped    c",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("expected listing: got\n'%s', want\n'%s'", got, want)
	}
}
