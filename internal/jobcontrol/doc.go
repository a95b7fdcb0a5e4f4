// Package jobcontrol provides POSIX-style job control for an interactive
// shell: a bounded Table of supervised child processes, a reaper that drains
// asynchronous child-status changes, and the foreground/background/stopped
// lifecycle operations built on both.
//
// A Manager owns the Table. Its mutex plays the role a blocked signal mask
// plays in a C shell: signal-driven work (Reap, ForwardToForeground) and
// loop-driven work (Spawn, ResumeForeground, ResumeBackground, ListJobs)
// serialize on it, and the foreground wait is a condition-variable sleep
// that releases the lock and re-acquires it atomically, so no state change
// can slip between the check and the sleep.
//
// Process creation and signal delivery go through the Runner interface, so
// tests can drive the reaper with synthetic wait results instead of real
// children.
package jobcontrol
