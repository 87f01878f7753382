// Package testutil provides a standardized harness for running the full
// generation pipeline against in-memory descriptor sources.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patchwire/patchwire/internal/app"
	"github.com/patchwire/patchwire/internal/ctxlog"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Result holds the outcomes of one harness generation run.
type Result struct {
	Source    string
	Warnings  []error
	LogOutput string
	Err       error
}

// Generate writes the given descriptor sources to a temporary directory and
// runs the full pipeline over them, capturing logs at debug level.
func Generate(t *testing.T, targetHCL string, patchHCLs ...string) *Result {
	t.Helper()

	tmpDir := t.TempDir()
	targetPath := filepath.Join(tmpDir, "target.hcl")
	require.NoError(t, os.WriteFile(targetPath, []byte(targetHCL), 0644))

	var patchPaths []string
	for i, src := range patchHCLs {
		p := filepath.Join(tmpDir, fmt.Sprintf("patch%02d.hcl", i))
		require.NoError(t, os.WriteFile(p, []byte(src), 0644))
		patchPaths = append(patchPaths, p)
	}

	cfg, err := app.NewConfig(app.Config{
		TargetPath: targetPath,
		PatchPaths: patchPaths,
		LogLevel:   "debug",
		LogFormat:  "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	generator := app.NewApp(&bytes.Buffer{}, logBuffer, cfg)
	source, warnings, genErr := generator.Generate(ctx)

	if os.Getenv("PATCHWIRE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &Result{
		Source:    source,
		Warnings:  warnings,
		LogOutput: logBuffer.String(),
		Err:       genErr,
	}
}
