package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config describes the agent binary the launcher manages. All fields are
// fixed at construction; nothing mutates them during a run.
type Config struct {
	// Name of the binary, as it appears on disk and on the search path.
	Name string

	// CandidateDirs are checked in order when the binary is not on the
	// search path. User-scoped directories come before system-wide ones.
	CandidateDirs []string

	// InstallScriptURL serves the installation shell script.
	InstallScriptURL string

	// ProbeTimeout bounds the version probe subprocess.
	ProbeTimeout time.Duration

	// SettleDelay is how long to wait after a successful install before
	// re-resolving the binary; install scripts may create search-path
	// symlinks asynchronously.
	SettleDelay time.Duration

	// MinCompatVersion is the oldest agent version this launcher knows how
	// to drive. Older agents still run, they just get flagged.
	MinCompatVersion string
}

// DefaultConfig returns the production configuration for the sprite toolkit.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()

	return Config{
		Name: "sprite",
		CandidateDirs: []string{
			filepath.Join(home, ".cargo", "bin"),
			filepath.Join(home, ".local", "bin"),
			"/usr/local/bin",
			"/usr/bin",
		},
		InstallScriptURL: "https://raw.githubusercontent.com/hotaq/Sprit-mutil/main/scripts/install.sh",
		ProbeTimeout:     10 * time.Second,
		SettleDelay:      2 * time.Second,
		MinCompatVersion: "v0.1.0",
	}
}

// Agent handles resolution, health checking and installation of the
// toolkit binary.
type Agent struct {
	cfg Config
}

func New(cfg Config) (*Agent, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("binary name must be set")
	}

	if cfg.InstallScriptURL == "" {
		return nil, fmt.Errorf("install script url must be set")
	}

	return &Agent{cfg: cfg}, nil
}

// Name of the managed binary.
func (a *Agent) Name() string {
	return a.cfg.Name
}

// Ensure returns the path of a usable agent binary, installing one when the
// host has none or the one found no longer executes. Installation is
// attempted at most once; a persistently broken environment surfaces as an
// error instead of an install loop.
func (a *Agent) Ensure(ctx context.Context) (string, error) {
	if path, ok := a.Locate(); ok {
		if a.Probe(ctx, path).OK {
			return path, nil
		}
	}

	logstep(fmt.Sprintf("installing %s toolkit", a.cfg.Name))
	return a.Install(ctx)
}
