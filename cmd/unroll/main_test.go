package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/unroll/internal/cli"
	"github.com/specialistvlad/unroll/internal/testutil"
	"github.com/specialistvlad/unroll/internal/unroll"
	"github.com/stretchr/testify/require"
)

func TestRun_ExpandsToStdout(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"pwm.S": "nop\nloop: ; repeat 3\nadd r0,r1\nsub r0,r2\nend:\nnop\n",
	})
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, []string{filepath.Join(dir, "pwm.S")})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "nop\nloop: ; repeat 3\n"+
		"add r0,r1\nsub r0,r2\nadd r0,r1\nsub r0,r2\nadd r0,r1\nsub r0,r2\n"+
		"end:\nnop\n", out.String())
	require.Empty(t, errOut.String(), "default log level is quiet")
}

func TestRun_ProjectFileSetsOutput(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"pwm.S": "a: ; repeat 2\n  nop\nb:\n; repeat 4\n  dropped\n",
		"unroll.hcl": `
expander {
  unterminated = "silent"
}

output {
  path = "build/pwm.S"
}
`,
	})
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, []string{
		"-config", filepath.Join(dir, "unroll.hcl"),
		filepath.Join(dir, "pwm.S"),
	})

	// --- Assert ---
	require.NoError(t, err)
	require.Empty(t, out.String())
	require.Equal(t, "a: ; repeat 2\n  nop\n  nop\nb:\n; repeat 4\n", testutil.ReadFile(t, filepath.Join(dir, "build", "pwm.S")))
	require.NotContains(t, errOut.String(), "level=WARN", "silent policy must not warn")
}

func TestRun_UnterminatedBlockWarns(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"pwm.S": "; repeat 3\nmov a,b\n"})
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, errOut, []string{filepath.Join(dir, "pwm.S")})

	require.NoError(t, err)
	require.Equal(t, "; repeat 3\n", out.String())
	require.Contains(t, errOut.String(), "level=WARN")
	require.Contains(t, errOut.String(), "dropped_lines=1")
}

func TestRun_MalformedDirectiveFails(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"pwm.S": "nop\nloop: ; repeat\nnop\nend:\n"})
	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, []string{filepath.Join(dir, "pwm.S")})

	require.Error(t, err)
	require.True(t, errors.Is(err, unroll.ErrMalformedDirective))
	require.Contains(t, err.Error(), "line 2")
	require.Empty(t, out.String(), "no partial output on error")
}

func TestRun_MissingInputFails(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{filepath.Join(t.TempDir(), "nope.S")})

	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	errOut := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, errOut, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errOut.String(), "Usage:", "Expected help text to be printed to the diagnostic stream")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
