//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
)

const sigChanBufferSize = 16

// notifySignals subscribes to the job-control signals. SIGTTIN and SIGTTOU
// are ignored so a background process group touching the terminal does not
// stop the shell itself.
func notifySignals() chan os.Signal {
	ch := make(chan os.Signal, sigChanBufferSize)
	signal.Notify(ch,
		syscall.SIGCHLD,
		syscall.SIGINT,
		syscall.SIGTSTP,
		syscall.SIGQUIT,
	)
	signal.Ignore(syscall.SIGTTIN, syscall.SIGTTOU)

	return ch
}
