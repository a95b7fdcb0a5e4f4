package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/nixpig/gosh/internal/config"
	"github.com/nixpig/gosh/internal/jobcontrol"
	"github.com/nixpig/gosh/internal/parser"
	"github.com/nixpig/gosh/internal/sio"
)

type shell struct {
	cfg     *config.Config
	manager *jobcontrol.Manager
	out     *sio.Writer
	logger  *slog.Logger

	interrupts int
}

func runShell(flags *shellFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	logger := newLogger(flags.verbose)
	out := sio.NewWriter(os.Stdout)

	sh := &shell{
		cfg: cfg,
		manager: jobcontrol.NewManager(
			jobcontrol.NewTable(cfg.MaxJobs),
			jobcontrol.NewExecRunner(),
			out,
			logger,
		),
		out:    out,
		logger: logger,
	}

	sigCh := notifySignals()
	defer signal.Stop(sigCh)
	go sh.pumpSignals(sigCh)

	if flags.noPrompt || !isatty.IsTerminal(os.Stdin.Fd()) {
		err = sh.runScripted()
	} else {
		err = sh.runInteractive()
	}

	sh.manager.Shutdown()

	return err
}

func (sh *shell) runInteractive() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      color.New(color.FgCyan).Sprint(sh.cfg.Prompt),
		HistoryFile: sh.cfg.HistoryFile,
	})
	if err != nil {
		return fmt.Errorf("init line editor: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if sh.interrupts++; sh.interrupts >= 2 {
				return nil
			}
			fmt.Println("(press ctrl-c again or type quit to exit)")
			continue
		} else if err == io.EOF {
			fmt.Println()
			return nil
		} else if err != nil {
			return err
		}

		sh.interrupts = 0

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := sh.eval(line); quit {
			return nil
		}
	}
}

func (sh *shell) runScripted() error {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if quit := sh.eval(line); quit {
			return nil
		}
	}

	return scanner.Err()
}

// eval runs one command line. It returns true when the user asked the shell
// to quit. Every error below is recovered here and reported to the user;
// none of them terminates the control loop.
func (sh *shell) eval(line string) (quit bool) {
	cmd, err := parser.Parse(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
		return false
	}
	if cmd == nil {
		return false
	}

	switch cmd.Builtin {
	case parser.BuiltinQuit:
		return true
	case parser.BuiltinJobs:
		sh.listJobs(cmd)
		return false
	case parser.BuiltinFG:
		sh.resume(cmd, true)
		return false
	case parser.BuiltinBG:
		sh.resume(cmd, false)
		return false
	}

	req := &jobcontrol.SpawnRequest{
		Argv:       cmd.Argv,
		Infile:     cmd.Infile,
		Outfile:    cmd.Outfile,
		Background: cmd.Background,
		Cmdline:    line,
	}

	_, pid, err := sh.manager.Spawn(req)
	switch {
	case errors.Is(err, jobcontrol.ErrTableFull):
		// The child keeps running unsupervised; report and move on.
		fmt.Fprintln(os.Stderr, "gosh: too many jobs")
	case err != nil:
		fmt.Printf("%s: Command not found\n", cmd.Argv[0])
		sh.logger.Debug("spawn failed", "cmdline", line, "err", err)
	case !cmd.Background:
		sh.manager.WaitForeground(pid)
	}

	return false
}

func (sh *shell) resume(cmd *parser.Command, foreground bool) {
	name := "bg"
	if foreground {
		name = "fg"
	}

	if len(cmd.Argv) != 2 {
		fmt.Fprintf(os.Stderr, "%s: requires a pid or %%jobid argument\n", name)
		return
	}

	var err error
	if foreground {
		err = sh.manager.ResumeForeground(cmd.Argv[1])
	} else {
		err = sh.manager.ResumeBackground(cmd.Argv[1])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
	}
}

func (sh *shell) listJobs(cmd *parser.Command) {
	var w io.Writer = os.Stdout

	if cmd.Outfile != "" {
		f, err := os.OpenFile(
			cmd.Outfile,
			os.O_CREATE|os.O_TRUNC|os.O_WRONLY,
			0o666,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jobs: %v\n", err)
			return
		}
		defer f.Close()
		w = f
	}

	if err := sh.manager.ListJobs(w); err != nil {
		fmt.Fprintf(os.Stderr, "jobs: %v\n", err)
	}
}

// pumpSignals runs the asynchronous half of the shell: child-status changes
// drive the reaper, keyboard signals are forwarded to the foreground job,
// and SIGQUIT gives external drivers a clean way to kill the shell.
func (sh *shell) pumpSignals(ch <-chan os.Signal) {
	for sig := range ch {
		switch sig {
		case syscall.SIGCHLD:
			sh.manager.Reap()
		case syscall.SIGINT, syscall.SIGTSTP:
			sh.manager.ForwardToForeground(sig.(syscall.Signal))
		case syscall.SIGQUIT:
			sh.out.Emit(new(sio.Line).
				Str("Terminating after receipt of SIGQUIT signal\n"))
			os.Exit(1)
		}
	}
}
