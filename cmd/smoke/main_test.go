package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/environment"
	"github.com/programme-lv/smoke/internal/harness"
	"github.com/programme-lv/smoke/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const testBattery = `
[[languages]]
id = "python"
version = "3.10.0"

[[checks]]
name = "API Connectivity"
kind = "connectivity"

[[checks]]
name = "Python Execution"
kind = "execute"
lang_id = "python"
code = 'print("Hello from Python!")'
expect = "Hello from Python!"

[[checks]]
name = "Coverage"
kind = "runtimes"
`

func fakeApi(t *testing.T, execStatus int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/runtimes":
			io.WriteString(w, `[{"language":"python","version":"3.10.0","aliases":["py"]}]`)
		case "/execute":
			var req api.ExecReq
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.WriteHeader(execStatus)
			io.WriteString(w, `{"run":{"stdout":"Hello from Python!\n","output":"Hello from Python!\n","stderr":""}}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func runCli(t *testing.T, args ...string) (int, error) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())

	code := 0
	prev := cli.OsExiter
	cli.OsExiter = func(c int) { code = c }
	t.Cleanup(func() { cli.OsExiter = prev })

	env := &environment.EnvConfig{Threshold: harness.DefaultThreshold, NatsSubject: "smoke.runs"}
	err := newCommand(env).Run(context.Background(), append([]string{appName, "--no-color"}, args...))
	return code, err
}

func writeBattery(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "battery.toml")
	require.NoError(t, os.WriteFile(path, []byte(testBattery), 0o644))
	return path
}

func TestRun_Healthy(t *testing.T) {
	srv := fakeApi(t, http.StatusOK)
	defer srv.Close()

	reportPath := filepath.Join(t.TempDir(), "report.json.zst")
	code, err := runCli(t, "--url", srv.URL, "--battery", writeBattery(t), "--delay", "0s", "--report", reportPath, "run")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	rep, err := report.Read(reportPath)
	require.NoError(t, err)
	assert.Equal(t, api.Working, rep.Status)
	assert.Equal(t, 3, rep.TestsRun)
	assert.Equal(t, 3, rep.TestsPassed)
	assert.Equal(t, srv.URL, rep.BaseUrl)
}

func TestRun_BrokenExecute(t *testing.T) {
	srv := fakeApi(t, http.StatusInternalServerError)
	defer srv.Close()

	// 2 of 3 passed is below 0.70
	code, err := runCli(t, "--url", srv.URL, "--battery", writeBattery(t), "--delay", "0s")
	require.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestRun_LowerThreshold(t *testing.T) {
	srv := fakeApi(t, http.StatusInternalServerError)
	defer srv.Close()

	code, err := runCli(t, "--url", srv.URL, "--battery", writeBattery(t), "--delay", "0s", "--threshold", "0.5")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRun_ThresholdOutOfRange(t *testing.T) {
	for _, raw := range []string{"NaN", "1.2"} {
		code, err := runCli(t, "--threshold", raw, "run")
		require.Error(t, err, raw)
		assert.Equal(t, exitConfig, code, raw)
	}
}

func TestRun_BadBattery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[[checks]]
name = "x"
kind = "nope"`), 0o644))

	code, err := runCli(t, "--battery", path)
	require.Error(t, err)
	assert.Equal(t, exitConfig, code)
	assert.True(t, strings.Contains(err.Error(), "unknown kind"))
}

func TestRuntimes(t *testing.T) {
	srv := fakeApi(t, http.StatusOK)
	defer srv.Close()

	code, err := runCli(t, "--url", srv.URL, "--battery", writeBattery(t), "runtimes")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	// the built-in battery pins languages the fake server lacks
	code, err = runCli(t, "--url", srv.URL, "runtimes")
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), "javascript@18.15.0")
}

func TestLoadBattery_XdgConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())

	b, err := loadBattery("")
	require.NoError(t, err)
	assert.Len(t, b.Checks, 8)

	require.NoError(t, os.MkdirAll(filepath.Join(home, appName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, appName, batteryFileName), []byte(testBattery), 0o644))
	b, err = loadBattery("")
	require.NoError(t, err)
	assert.Len(t, b.Checks, 3)
}
