package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptServer serves body as the install script and counts how many times
// it gets fetched.
func scriptServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "#!/bin/sh\n"+body+"\n")
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func newInstallAgent(t *testing.T, name, url string, dirs ...string) *Agent {
	t.Helper()

	agt, err := New(Config{
		Name:             name,
		CandidateDirs:    dirs,
		InstallScriptURL: url,
	})
	require.NoError(t, err)

	return agt
}

func TestInstall(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("install tests need a POSIX shell")
	}

	t.Run("installs and resolves the binary", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "sprite-install-a")

		srv, hits := scriptServer(t, fmt.Sprintf("echo bin > %s", target))

		path, err := newInstallAgent(t, "sprite-install-a", srv.URL, dir).Install(context.Background())
		require.NoError(t, err)
		assert.Equal(t, target, path)
		assert.EqualValues(t, 1, hits.Load())
	})

	t.Run("soft failure when the script claims success but nothing lands", func(t *testing.T) {
		srv, _ := scriptServer(t, "exit 0")

		path, err := newInstallAgent(t, "sprite-install-b", srv.URL, t.TempDir()).Install(context.Background())
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("script failure surfaces stderr verbatim", func(t *testing.T) {
		srv, _ := scriptServer(t, `echo "disk full: cannot install" >&2`+"\nexit 1")

		path, err := newInstallAgent(t, "sprite-install-c", srv.URL, t.TempDir()).Install(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full: cannot install")
		assert.Empty(t, path)
	})

	t.Run("download failure reports the response status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		_, err := newInstallAgent(t, "sprite-install-d", srv.URL, t.TempDir()).Install(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http404")
	})

	t.Run("temporary script is always removed", func(t *testing.T) {
		for name, body := range map[string]string{
			"on success": `echo "$0" > %s`,
			"on failure": `echo "$0" > %s` + "\nexit 1",
		} {
			t.Run(name, func(t *testing.T) {
				marker := filepath.Join(t.TempDir(), "scriptpath")
				srv, _ := scriptServer(t, fmt.Sprintf(body, marker))

				_, _ = newInstallAgent(t, "sprite-install-e", srv.URL, t.TempDir()).Install(context.Background())

				recorded, err := os.ReadFile(marker)
				require.NoError(t, err, "install script never ran")
				assert.NoFileExists(t, strings.TrimSpace(string(recorded)))
			})
		}
	})
}
