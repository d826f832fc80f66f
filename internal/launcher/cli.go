package launcher

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hotaq/sprite-launcher/internal/agent"
)

// Version of the launcher itself; the agent binary reports its own.
const Version = "0.1.0"

// Main builds the CLI and runs it; the return value is the process exit code.
func Main() int {
	agt, err := agent.New(agent.DefaultConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	root := NewRootCmd(New(Config{Version: Version}, agt, os.Stdout, os.Stderr))
	if err := root.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}

		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	return 0
}

// NewRootCmd wraps the launcher in a cobra command that forwards arbitrary
// arguments verbatim. Flag parsing is disabled because every flag belongs
// to the delegated binary except the two the launcher intercepts itself.
func NewRootCmd(launch *Launcher) *cobra.Command {
	return &cobra.Command{
		Use:                "sprite [command] [options]",
		Short:              "Bootstrap launcher for the Sprite multi-agent toolkit",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := launch.Run(cmd.Context(), args); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

// exitError carries a process exit code through cobra's error path.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) ExitCode() int {
	return e.code
}
