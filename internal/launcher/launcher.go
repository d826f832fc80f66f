package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"github.com/fatih/color"

	"github.com/hotaq/sprite-launcher/internal/agent"
)

// Config is the launcher's own identity; the agent binary versions itself
// separately.
type Config struct {
	Version string
}

// Launcher wires binary resolution to delegation. One invocation, one run;
// nothing is cached or shared across processes.
type Launcher struct {
	cfg   Config
	agent *agent.Agent

	stdout io.Writer
	stderr io.Writer
}

func New(cfg Config, agt *agent.Agent, stdout, stderr io.Writer) *Launcher {
	return &Launcher{
		cfg:    cfg,
		agent:  agt,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the launcher state machine for a single invocation and
// returns the process exit code. Version and help flags short-circuit
// before any filesystem or network work happens.
func (l *Launcher) Run(ctx context.Context, argv []string) int {
	if len(argv) > 0 {
		switch argv[0] {
		case "--version", "-V":
			fmt.Fprintf(l.stdout, "sprite %s\n", l.cfg.Version)
			return 0
		case "--help", "-h":
			fmt.Fprint(l.stdout, usage)
			return 0
		}
	}

	path, err := l.agent.Ensure(ctx)
	if err != nil {
		fmt.Fprintln(l.stderr, color.RedString(" ✘ %s", err))
		return 1
	}

	if path == "" {
		fmt.Fprintln(l.stderr, color.RedString(" ✘ failed to install or find the %s binary", l.agent.Name()))
		return 1
	}

	return l.delegate(path, argv)
}

// delegate hands the full argument vector and the standard streams to the
// resolved binary and adopts its exit status. The terminal delivers
// interrupts to the whole process group, so the child receives its own
// copy; the launcher only acknowledges and reports 130.
func (l *Launcher) delegate(path string, argv []string) int {
	cmd := exec.Command(path, argv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)

	if err := cmd.Start(); err != nil {
		fmt.Fprintln(l.stderr, color.RedString(" ✘ error running %s: %s", l.agent.Name(), err))
		return 1
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-sigc:
		fmt.Fprintln(l.stderr, "\ninterrupted")
		return 130
	case err := <-done:
		if err == nil {
			return 0
		}

		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return exit.ExitCode()
		}

		fmt.Fprintln(l.stderr, color.RedString(" ✘ error running %s: %s", l.agent.Name(), err))
		return 1
	}
}

const usage = `Sprite Multi-Agent Workflow Toolkit

USAGE:
    sprite [COMMAND] [OPTIONS]

COMMANDS:
    init          Initialize a new multi-agent environment
    start         Start a multi-agent session
    attach        Attach to an existing session
    kill          Terminate a session
    status        Show system and session status
    agents        Manage AI agents
    config        Configuration management
    help          Show this help message

QUICK START:
    sprite init --agents 3
    sprite start
    sprite attach sprite-session

INSTALLATION:
    This launcher installs the sprite binary automatically when needed.
    For manual installation, visit: https://github.com/hotaq/Sprit-mutil

For detailed help, run: sprite help
`
