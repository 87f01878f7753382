package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/patchwire/patchwire/internal/config"
	"github.com/patchwire/patchwire/internal/ctxlog"
	"github.com/patchwire/patchwire/internal/schema"
)

// Loader parses HCL descriptor files and translates them into the
// format-agnostic config model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL descriptor loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// LoadTarget reads and translates a target descriptor file.
func (l *Loader) LoadTarget(ctx context.Context, path string) (*config.TargetSpec, error) {
	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse target descriptor %s: %w", path, diags)
	}
	return l.translateTargetBody(ctx, file.Body, path)
}

// LoadTargetSource translates a target descriptor from an in-memory buffer.
// The filename is used only for diagnostics.
func (l *Loader) LoadTargetSource(ctx context.Context, filename string, src []byte) (*config.TargetSpec, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse target descriptor %s: %w", filename, diags)
	}
	return l.translateTargetBody(ctx, file.Body, filename)
}

// LoadPatch reads and translates a patch descriptor file.
func (l *Loader) LoadPatch(ctx context.Context, path string) (*config.PatchSpec, error) {
	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse patch descriptor %s: %w", path, diags)
	}
	return l.translatePatchBody(ctx, file.Body, path)
}

// LoadPatchSource translates a patch descriptor from an in-memory buffer.
func (l *Loader) LoadPatchSource(ctx context.Context, filename string, src []byte) (*config.PatchSpec, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse patch descriptor %s: %w", filename, diags)
	}
	return l.translatePatchBody(ctx, file.Body, filename)
}

func (l *Loader) translateTargetBody(ctx context.Context, body hcl.Body, filename string) (*config.TargetSpec, error) {
	logger := ctxlog.FromContext(ctx)

	var tf schema.TargetFile
	if diags := gohcl.DecodeBody(body, nil, &tf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode target descriptor %s: %w", filename, diags)
	}
	if tf.Target == nil {
		return nil, fmt.Errorf("descriptor %s contains no target block", filename)
	}

	spec, err := l.translateTarget(tf.Target)
	if err != nil {
		return nil, err
	}
	logger.Debug("Target descriptor loaded.",
		"target", spec.Name, "components", len(spec.Components))
	return spec, nil
}

func (l *Loader) translatePatchBody(ctx context.Context, body hcl.Body, filename string) (*config.PatchSpec, error) {
	logger := ctxlog.FromContext(ctx)

	var pf schema.PatchFile
	if diags := gohcl.DecodeBody(body, nil, &pf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode patch descriptor %s: %w", filename, diags)
	}
	if pf.Patch == nil {
		return nil, fmt.Errorf("descriptor %s contains no patch block", filename)
	}

	spec := l.translatePatch(pf.Patch)
	logger.Debug("Patch descriptor loaded.",
		"patch", spec.Name,
		"inlets", len(spec.Inlets), "outlets", len(spec.Outlets),
		"params", len(spec.Params), "datas", len(spec.Datas))
	return spec, nil
}
