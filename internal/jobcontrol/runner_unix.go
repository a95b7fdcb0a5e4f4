//go:build unix

package jobcontrol

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// execRunner launches real processes. Every child is placed in its own
// process group so keyboard-generated signals forwarded by the shell reach
// the whole job and nothing else. Children are reaped exclusively through
// Wait, never through exec.Cmd.Wait.
type execRunner struct{}

// NewExecRunner returns a Runner backed by os/exec and wait4.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Start(req *SpawnRequest) (int, error) {
	cmd := exec.Command(req.Argv[0], req.Argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Redirection files only need to stay open across Start; the child
	// holds its own descriptors after that.
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	if req.Infile != "" {
		f, err := os.Open(req.Infile)
		if err != nil {
			return 0, fmt.Errorf("redirect stdin: %w", err)
		}
		files = append(files, f)
		cmd.Stdin = f
	}

	if req.Outfile != "" {
		f, err := os.OpenFile(
			req.Outfile,
			os.O_CREATE|os.O_TRUNC|os.O_WRONLY,
			0o666,
		)
		if err != nil {
			return 0, fmt.Errorf("redirect stdout: %w", err)
		}
		files = append(files, f)
		cmd.Stdout = f
	}

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid

	// The reaper owns this child from here on; drop the exec.Cmd handle so
	// nothing ever calls its Wait.
	cmd.Process.Release()

	return pid, nil
}

func (execRunner) Signal(pid int, sig syscall.Signal) error {
	return unix.Kill(-pid, sig)
}

func (execRunner) Wait() (WaitResult, bool) {
	var ws unix.WaitStatus

	for {
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			return WaitResult{}, false
		}

		res := WaitResult{PID: pid}
		switch {
		case ws.Stopped():
			res.Stopped = true
			res.Signal = ws.StopSignal()
		case ws.Signaled():
			res.Signaled = true
			res.Signal = ws.Signal()
		}

		return res, true
	}
}
