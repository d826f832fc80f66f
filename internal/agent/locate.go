package agent

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Locate resolves the agent binary on the host. A search-path hit wins over
// the static candidate list because it reflects the user's active shell
// configuration; within the list the first existing path wins. No side
// effects, no caching across calls.
func (a *Agent) Locate() (string, bool) {
	if path, err := exec.LookPath(a.cfg.Name); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return path, true
	}

	for _, dir := range a.cfg.CandidateDirs {
		path := filepath.Join(dir, a.cfg.Name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}
