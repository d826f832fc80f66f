package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/fatih/color"
)

// Install fetches the remote install script, runs it, and re-resolves the
// binary afterwards. The returned path is empty with a nil error when the
// script claimed success but left nothing discoverable; the user gets
// advised to refresh their shell instead of the launcher erroring out,
// since the install usually did land outside the current search path.
func (a *Agent) Install(ctx context.Context) (string, error) {
	script, err := a.fetchScript(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to download install script: %w", err)
	}

	tmp, err := os.CreateTemp("", "sprite-install-*.sh")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary script: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(script); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temporary script: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write temporary script: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return "", fmt.Errorf("failed to mark script executable: %w", err)
	}

	if err := a.runScript(tmp.Name()); err != nil {
		return "", err
	}

	// search-path symlink creation inside the script can race the
	// re-resolution below
	time.Sleep(a.cfg.SettleDelay)

	if path, ok := a.Locate(); ok {
		return path, nil
	}

	color.Yellow(" • installation completed but %s was not found on the search path", a.cfg.Name)
	logdetail("restart your terminal or add ~/.cargo/bin to your PATH")

	return "", nil
}

// runScript executes the install script with no arguments and no timeout;
// installation may legitimately take long. Stderr is kept separate so a
// failing script's diagnostics reach the user verbatim.
func (a *Agent) runScript(path string) (err error) {
	logdetail("running installer")

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("installation failed:\n%s", stderr.String())
		}
		return fmt.Errorf("installation failed: %w", err)
	}

	return nil
}

// fetchScript downloads the install script content, reporting any non-2xx
// response as an error.
func (a *Agent) fetchScript(ctx context.Context) ([]byte, error) {
	logdetail(fmt.Sprintf("downloading %s", a.cfg.InstallScriptURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.InstallScriptURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("received unexpected response when downloading script: http%d", resp.StatusCode)
	}

	data, finish := progress(resp.Body, resp.ContentLength)
	defer finish()

	return io.ReadAll(data)
}
