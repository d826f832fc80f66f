package agent

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"time"

	"golang.org/x/mod/semver"
)

// ProbeResult classifies a candidate binary as usable or not.
type ProbeResult struct {
	// OK is true only when the version query exited zero within the timeout.
	OK bool
	// ExitCode of the version query; -1 when the process never ran or was
	// killed by the timeout.
	ExitCode int
	// Output is the combined stdout/stderr of the version query.
	Output []byte
	// Elapsed is how long the probe took.
	Elapsed time.Duration
}

var versionToken = regexp.MustCompile(`v?\d+\.\d+\.\d+`)

// Probe runs the candidate with a version query under the configured
// timeout. Timeouts, non-zero exits and spawn failures all classify as
// unusable, so a stale install triggers reinstallation instead of a crash
// during delegation.
func (a *Agent) Probe(ctx context.Context, path string) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ProbeTimeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, path, "--version")
	// a forked grandchild can hold the output pipes open past the kill;
	// abandon them after a short grace so the timeout stays a hard bound
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()

	res := ProbeResult{
		OK:       err == nil,
		ExitCode: -1,
		Output:   out,
		Elapsed:  time.Since(start),
	}

	var exit *exec.ExitError
	if err == nil {
		res.ExitCode = 0
	} else if errors.As(err, &exit) {
		res.ExitCode = exit.ExitCode()
	}

	if res.OK {
		a.checkCompat(out)
	}

	return res
}

// checkCompat flags agents older than the launcher knows how to drive.
// Advisory only; an old agent still runs.
func (a *Agent) checkCompat(out []byte) {
	if a.cfg.MinCompatVersion == "" {
		return
	}

	token := versionToken.Find(out)
	if token == nil {
		return
	}

	found := string(token)
	if found[0] != 'v' {
		found = "v" + found
	}

	if semver.IsValid(found) && semver.Compare(found, a.cfg.MinCompatVersion) < 0 {
		logdetail(fmt.Sprintf("agent %s predates %s; consider reinstalling", found, a.cfg.MinCompatVersion))
	}
}
