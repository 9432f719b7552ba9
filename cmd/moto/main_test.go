package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "moto version")
}

func TestRunFromStdin(t *testing.T) {
	out, err := execute(t, "inc\ninc\n", "run", "--demo", "thing", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "| counter | 2 |")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate", "--demo", "todo", "../../examples/manifests/todo.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "store: todos")
	assert.Contains(t, out, "Manifest is valid!")

	_, err = execute(t, "", "validate", "--demo", "todo", "../../examples/manifests/broken.yaml")
	assert.ErrorContains(t, err, "validation failed")
}

func TestValidateCommand_Mermaid(t *testing.T) {
	out, err := execute(t, "", "validate", "--demo", "thing", "--format", "mermaid", "../../examples/manifests/thing.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "dispatch --> mw_logger")
	assert.Contains(t, out, "subgraph thing_sub_state_sub")

	_, err = execute(t, "", "validate", "--format", "toml", "../../examples/manifests/thing.yaml")
	assert.Error(t, err)
}

func TestRunBannerFollowsOutput(t *testing.T) {
	out, err := execute(t, "inc\n", "run", "--demo", "thing", "--plain=false")
	require.NoError(t, err)
	assert.NotContains(t, out, "|_| |_| |_|")
	assert.Contains(t, out, "counter")

	var buf bytes.Buffer
	printBanner(&buf, false)
	assert.Empty(t, buf.String())

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	printBanner(f, false)
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "a regular file is not a terminal")
}
