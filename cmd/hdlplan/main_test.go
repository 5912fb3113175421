package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/hdlplan/internal/cli"
	"github.com/stretchr/testify/require"
)

const testManifest = `
project "simstm" {
  tb_top_entity = "tbTop"
}

source "tb/hdl/tbTop.vhd" {
  type  = "VHDL 2008"
  order = 10
}

test_suite "basic" {
  file        = "basic.stm"
  entry_file  = "basic.stm"
  entry_label = "$testMain"
}
`

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"generate", "--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Generate(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	path := filepath.Join(dir, "project.hcl")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o600))
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, logs, []string{"generate", "--manifest", path})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), `<project name="simstm" default="modelsim-all"`)
	require.NotContains(t, out.String(), "level=", "logs must not leak into the descriptor")
	require.Contains(t, logs.String(), "Build descriptor written.")
}

func TestRun_ConfigurationErrorIsUsage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "project.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`project "simstm" {}`), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"generate", "--manifest", path})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, exitErr.Message, "configuration error")
}
