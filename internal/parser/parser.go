// Package parser turns a raw command line into an argument vector plus
// redirection filenames, a background flag, and a builtin classification.
// It is a pure, synchronous collaborator of the job-control core; it never
// touches the job table or the process layer.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Builtin identifies the shell builtins handled by the dispatch loop.
type Builtin int

const (
	BuiltinNone Builtin = iota
	BuiltinQuit
	BuiltinJobs
	BuiltinFG
	BuiltinBG
)

// Command is one parsed command line.
type Command struct {
	Argv       []string
	Infile     string
	Outfile    string
	Builtin    Builtin
	Background bool
}

var (
	ErrAmbiguousRedirect   = errors.New("ambiguous I/O redirection")
	ErrMissingRedirectFile = errors.New("must provide file name for redirection")
)

// pending redirection target for the next token
type redirect int

const (
	redirectNone redirect = iota
	redirectIn
	redirectOut
)

// Parse splits line into a Command. Quoted tokens are kept whole. A nil
// Command with a nil error means the line was empty.
//
// Redirection operators may be attached to their filename ("<in", ">out") or
// stand alone followed by the filename. A trailing "&" (standalone or glued
// to the last word) requests background execution.
func Parse(line string) (*Command, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse command line: %w", err)
	}

	cmd := &Command{}
	pending := redirectNone

	for _, w := range words {
		if pending != redirectNone {
			if err := cmd.setRedirect(pending, w); err != nil {
				return nil, err
			}
			pending = redirectNone
			continue
		}

		switch {
		case w == "<":
			pending = redirectIn
		case w == ">":
			pending = redirectOut
		case strings.HasPrefix(w, "<"):
			if err := cmd.setRedirect(redirectIn, w[1:]); err != nil {
				return nil, err
			}
		case strings.HasPrefix(w, ">"):
			if err := cmd.setRedirect(redirectOut, w[1:]); err != nil {
				return nil, err
			}
		default:
			cmd.Argv = append(cmd.Argv, w)
		}
	}

	if pending != redirectNone {
		return nil, ErrMissingRedirectFile
	}

	if len(cmd.Argv) == 0 {
		return nil, nil
	}

	last := cmd.Argv[len(cmd.Argv)-1]
	switch {
	case last == "&":
		cmd.Background = true
		cmd.Argv = cmd.Argv[:len(cmd.Argv)-1]
	case strings.HasSuffix(last, "&"):
		cmd.Background = true
		cmd.Argv[len(cmd.Argv)-1] = strings.TrimSuffix(last, "&")
	}

	if len(cmd.Argv) == 0 {
		return nil, nil
	}

	switch cmd.Argv[0] {
	case "quit":
		cmd.Builtin = BuiltinQuit
	case "jobs":
		cmd.Builtin = BuiltinJobs
	case "fg":
		cmd.Builtin = BuiltinFG
	case "bg":
		cmd.Builtin = BuiltinBG
	}

	return cmd, nil
}

func (c *Command) setRedirect(kind redirect, file string) error {
	if file == "" {
		return ErrMissingRedirectFile
	}

	switch kind {
	case redirectIn:
		if c.Infile != "" {
			return ErrAmbiguousRedirect
		}
		c.Infile = file
	case redirectOut:
		if c.Outfile != "" {
			return ErrAmbiguousRedirect
		}
		c.Outfile = file
	}

	return nil
}
