package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return shouldExit=true.
	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "expected help text on the output writer")
}

func TestRun_GeneratesToStdout(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	targetPath := filepath.Join(tmp, "target.hcl")
	patchPath := filepath.Join(tmp, "patch.hcl")
	require.NoError(t, os.WriteFile(targetPath, []byte(`
target "box" {
  component "knob1" {
    kind = "analog_control"
    pin  = 0
  }
}
`), 0644))
	require.NoError(t, os.WriteFile(patchPath, []byte(`
patch "p" {
  outlet { tag = "out1" }
  param "knob1_gain" {
    index = 0
  }
}
`), 0644))

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"-target", targetPath, patchPath})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "// Generated by patchwire. Do not edit.")
	assert.Contains(t, out.String(), "patch_param_apply(hw.knob1.Value()")
}

func TestRun_WritesOutputFile(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	targetPath := filepath.Join(tmp, "target.hcl")
	patchPath := filepath.Join(tmp, "patch.hcl")
	outPath := filepath.Join(tmp, "gen.cpp")
	require.NoError(t, os.WriteFile(targetPath, []byte(`
target "box" {
  component "led1" {
    kind = "led"
    pin  = 1
  }
}
`), 0644))
	require.NoError(t, os.WriteFile(patchPath, []byte(`
patch "blink" {
  outlet { tag = "led1" }
}
`), 0644))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"-target", targetPath, "-o", outPath, patchPath})
	require.NoError(t, err)

	generated, readErr := os.ReadFile(outPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(generated), "hw.led1.Set(")
}

func TestRun_MalformedDescriptor(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	targetPath := filepath.Join(tmp, "target.hcl")
	require.NoError(t, os.WriteFile(targetPath, []byte(`target "x" {`), 0644))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"-target", targetPath, targetPath})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse")
}
