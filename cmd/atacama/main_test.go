package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssilveira/atacama/domain/entities"
)

func TestPrintResultsKeepsOrderAndIsolatesErrors(t *testing.T) {
	var out bytes.Buffer
	printResults(&out, []entities.CommandResult{
		{Device: "r1", Host: "10.0.0.1", Output: "Junos: 21.4R3", Elapsed: 120 * time.Millisecond},
		{Device: "r2", Host: "10.0.0.2", Err: errors.New("connection refused"), Elapsed: time.Second},
		{Device: "r3", Host: "10.0.0.3", Output: "", Elapsed: 80 * time.Millisecond},
	})

	text := out.String()
	first := bytes.Index(out.Bytes(), []byte("r1"))
	second := bytes.Index(out.Bytes(), []byte("r2"))
	third := bytes.Index(out.Bytes(), []byte("r3"))
	assert.Less(t, first, second)
	assert.Less(t, second, third)

	assert.Contains(t, text, "Junos: 21.4R3")
	assert.Contains(t, text, "ERROR: connection refused")
	assert.Contains(t, text, "(no output)")
}

func TestFindTopoConfigExplicitPath(t *testing.T) {
	path, err := findTopoConfig("/tmp/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)
}

func TestFindTopoConfigSearchesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultTopoConfig), []byte("devices: []\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path, err := findTopoConfig(defaultTopoConfig)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".", defaultTopoConfig), path)
}

func TestRootCmdWiring(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "topo")
}
