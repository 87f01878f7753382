package app

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/patchwire/patchwire/internal/config"
	"github.com/patchwire/patchwire/internal/ctxlog"
	"github.com/patchwire/patchwire/internal/emit"
	"github.com/patchwire/patchwire/internal/fsutil"
	"github.com/patchwire/patchwire/internal/graph"
	"github.com/patchwire/patchwire/internal/hcl"
	"github.com/patchwire/patchwire/internal/target"
)

// Run executes one full generation: load descriptors, normalize, build the
// graph, emit, and write the result to the configured output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	source, warnings, err := a.Generate(ctx)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		color.New(color.FgYellow).Fprintf(a.errW, "warning: %v\n", w)
	}

	if a.config.OutputPath == "" {
		_, err = fmt.Fprint(a.outW, source)
		return err
	}
	if err := os.WriteFile(a.config.OutputPath, []byte(source), 0644); err != nil {
		return fmt.Errorf("failed to write generated source: %w", err)
	}
	a.logger.Info("Generated source written.",
		"path", a.config.OutputPath, "bytes", len(source))
	return nil
}

// Generate runs the pure part of the pipeline and returns the generated
// source text plus any recoverable warnings. It performs no writes, so the
// same inputs always produce byte-identical output.
func (a *App) Generate(ctx context.Context) (string, []error, error) {
	logger := ctxlog.FromContext(ctx)
	loader := hcl.NewLoader()

	targetSpec, err := loader.LoadTarget(ctx, a.config.TargetPath)
	if err != nil {
		return "", nil, err
	}

	var patches []*config.PatchSpec
	for _, path := range a.config.PatchPaths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return "", nil, fmt.Errorf("failed to locate patch descriptors at %s: %w", path, err)
		}
		if len(files) == 0 {
			logger.Warn("No patch descriptors found at path.", "path", path)
		}
		for _, f := range files {
			patch, err := loader.LoadPatch(ctx, f)
			if err != nil {
				return "", nil, err
			}
			patches = append(patches, patch)
		}
	}
	if len(patches) == 0 {
		return "", nil, fmt.Errorf("no patch descriptors loaded")
	}

	norm, err := target.Normalize(ctx, targetSpec)
	if err != nil {
		return "", nil, err
	}

	g, err := graph.Build(ctx, norm, patches)
	if err != nil {
		return "", nil, err
	}

	source, err := emit.Emit(ctx, g, norm)
	if err != nil {
		return "", nil, err
	}

	logger.Info("Generation complete.",
		"target", targetSpec.Name, "patches", len(patches), "nodes", g.Len())
	return source, g.Warnings, nil
}
