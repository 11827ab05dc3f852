package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/unroll/internal/config"
	"github.com/specialistvlad/unroll/internal/ctxlog"
	"github.com/specialistvlad/unroll/internal/unroll"
)

// DefaultFileName is the project file looked up in the working directory.
const DefaultFileName = "unroll.hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Environ supplies the `env` object. Nil means os.Environ.
	Environ func() []string
}

// NewLoader creates a new HCL project file loader.
func NewLoader() *Loader {
	return &Loader{Environ: os.Environ}
}

// Load parses and decodes the project file at path. Relative output paths
// are resolved against the directory of the file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("error accessing project file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, newEvalContext(environ()), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	settings, err := l.translate(path, &root)
	if err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "path", path, "fields", settings.Set)
	return settings, nil
}

// translate converts the decoded HCL schema into the agnostic settings,
// marking only the attributes that were present.
func (l *Loader) translate(path string, root *fileRoot) (*config.Settings, error) {
	s := &config.Settings{}

	if e := root.Expander; e != nil {
		if e.Keyword != nil {
			s.Keyword = *e.Keyword
			s.Set |= config.FieldKeyword
		}
		if e.CommentPrefix != nil {
			s.CommentPrefix = *e.CommentPrefix
			s.Set |= config.FieldCommentPrefix
		}
		if e.LabelPattern != nil {
			s.LabelPattern = *e.LabelPattern
			s.Set |= config.FieldLabelPattern
		}
		if e.Unterminated != nil {
			if _, err := unroll.ParsePolicy(*e.Unterminated); err != nil {
				return nil, err
			}
			s.Unterminated = *e.Unterminated
			s.Set |= config.FieldUnterminated
		}
		if e.MaxRepeat != nil {
			if *e.MaxRepeat < 0 {
				return nil, fmt.Errorf("max_repeat must not be negative, got %d", *e.MaxRepeat)
			}
			s.MaxRepeat = *e.MaxRepeat
			s.Set |= config.FieldMaxRepeat
		}
	}

	if o := root.Output; o != nil {
		if o.Path == "" {
			return nil, fmt.Errorf("output path must not be empty")
		}
		out := o.Path
		if !filepath.IsAbs(out) {
			out = filepath.Join(filepath.Dir(path), out)
		}
		s.Output = out
		s.Set |= config.FieldOutput
	}

	return s, nil
}
