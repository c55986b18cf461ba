package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMergeCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.go", "package sample\n\nfunc A() {\n\tx()\n}\n")
	local := writeFile(t, dir, "local.go", "package sample\n\nfunc A() {\n\ty()\n}\n")
	patched := writeFile(t, dir, "patched.go", "package sample\n\nfunc A() {\n\tx()\n}\n")
	out := filepath.Join(dir, "merged.go")

	root := newRootCmd()
	root.SetArgs([]string{
		"merge", base, local, patched,
		"--workspace", dir,
		"--no-history",
		"--language", "go",
		"-o", out,
	})
	var stderr bytes.Buffer
	root.SetErr(&stderr)
	require.NoError(t, root.Execute())

	merged, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(merged), "y()")
	assert.NotContains(t, string(merged), "x()")
}

func TestMergeCommandRequiresInputs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"merge", "--no-history"})
	root.SetErr(&bytes.Buffer{})
	root.SetOut(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"merge", "serve", "rpc", "history", "review", "init"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
