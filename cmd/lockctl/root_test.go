package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"lockstat/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		configPath = "lockstat.yaml"
		debugFlag = false
		simTapPath, simKeys, simFor, simCode = "", "", 2*time.Second, 2048
		monitorPort, monitorBaud, monitorFile, monitorRows = "", 0, "", false
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	out, err := runCommand(t, "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, *config.Default(), got)
}

func TestConfigCommandRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensor:\n  window: 500\n"), 0644))

	_, err := runCommand(t, "config", "--config", path)
	assert.Error(t, err)
}

func TestSimTapThenMonitorReplay(t *testing.T) {
	dir := t.TempDir()
	capture := filepath.Join(dir, "bus.tap")
	cfgPath := filepath.Join(dir, "none.yaml")

	out, err := runCommand(t, "sim", "--config", cfgPath, "--keys", "1111A3", "--for", "100ms", "--tap", capture)
	require.NoError(t, err)
	assert.Contains(t, out, "|PATTERN IN-OUT  |")

	out, err = runCommand(t, "monitor", "--config", cfgPath, "--file", capture, "--rows")
	require.NoError(t, err)
	assert.Contains(t, out, "0x45 opcode 3 (pattern IN-OUT)")
	assert.Contains(t, out, `0x40 text   "UNLOCKED`)
	assert.Contains(t, out, "  |PATTERN IN-OUT  |")
}
