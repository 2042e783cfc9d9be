// Package runner drives batch work over an input directory: outline
// extraction for every document and relevance analysis for every
// collection. Results are written as schema-validated JSON files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/docsift/internal/collection"
	"github.com/jackzampolin/docsift/internal/ingest"
	"github.com/jackzampolin/docsift/internal/outline"
	"github.com/jackzampolin/docsift/internal/output"
	"github.com/jackzampolin/docsift/internal/schema"
	"github.com/jackzampolin/docsift/internal/types"
)

// Config configures a Runner.
type Config struct {
	Loader     *ingest.Loader
	Thresholds outline.Thresholds
	Workers    int
	Analyzer   *collection.Analyzer // required for Collections
	Logger     *slog.Logger
}

// Runner processes input directories.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// Summary counts the units a batch handled.
type Summary struct {
	Processed int      `json:"processed" yaml:"processed"`
	Failed    int      `json:"failed" yaml:"failed"`
	Written   []string `json:"written" yaml:"written"`
}

// New creates a runner.
func New(cfg Config) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Loader == nil {
		cfg.Loader = ingest.NewLoader(cfg.Logger)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{cfg: cfg, logger: cfg.Logger}
}

// ExtractOutline loads one document and builds its outline. An empty
// document yields an empty outline and no error.
func (r *Runner) ExtractOutline(ctx context.Context, path string) (output.Outline, error) {
	lines, err := r.cfg.Loader.Load(ctx, path)
	if err != nil {
		return output.Outline{}, err
	}
	res, err := outline.Extract(filepath.Base(path), lines, r.cfg.Thresholds)
	if err != nil && !errors.Is(err, types.ErrEmptyDocument) {
		return output.Outline{}, err
	}
	return output.AssembleOutline(res), nil
}

// OutlinePath returns where the outline of the document at path is written.
func OutlinePath(outDir, path string) string {
	return filepath.Join(outDir, ingest.BaseName(path)+".json")
}

// WriteOutline extracts the outline of one document into outDir and
// returns the written path.
func (r *Runner) WriteOutline(ctx context.Context, path, outDir string) (string, error) {
	o, err := r.ExtractOutline(ctx, path)
	if err != nil {
		return "", err
	}
	dest := OutlinePath(outDir, path)
	if err := output.WriteFile(dest, schema.OutlineOutput, o); err != nil {
		return "", err
	}
	r.logger.Info("outline written", "document", filepath.Base(path), "title", o.Title, "headings", len(o.Outline), "path", dest)
	return dest, nil
}

// Outlines writes an outline for every supported document in inDir.
// Documents are processed in parallel; one failing document does not stop
// the others.
func (r *Runner) Outlines(ctx context.Context, inDir, outDir string) (*Summary, error) {
	paths, err := r.cfg.Loader.ListDocuments(inDir)
	if err != nil {
		return nil, err
	}

	written := make([]string, len(paths))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dest, err := r.WriteOutline(gctx, path, outDir)
			if err != nil {
				r.logger.Error("outline failed", "document", filepath.Base(path), "error", err)
				failed.Add(1)
				return gctx.Err()
			}
			written[i] = dest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(len(paths), int(failed.Load()), written), nil
}

// Collections analyzes every collection under inRoot and writes
// <outRoot>/<collection>/challenge1b_output.json for each. Collections run
// one after another; their documents run in parallel.
func (r *Runner) Collections(ctx context.Context, inRoot, outRoot string) (*Summary, error) {
	if r.cfg.Analyzer == nil {
		return nil, fmt.Errorf("runner has no collection analyzer")
	}

	collections, err := collection.Discover(inRoot)
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		r.logger.Warn("no collections found", "input", inRoot, "prefix", collection.DirPrefix)
	}

	written := make([]string, len(collections))
	failed := 0
	for i, c := range collections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dest, err := r.writeCollection(ctx, c, outRoot)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Error("collection failed", "collection", c.Name, "error", err)
			failed++
			continue
		}
		written[i] = dest
	}
	return summarize(len(collections), failed, written), nil
}

func (r *Runner) writeCollection(ctx context.Context, c collection.Collection, outRoot string) (string, error) {
	desc, err := collection.LoadDescriptor(c.DescriptorPath)
	if err != nil {
		return "", err
	}
	result, err := r.cfg.Analyzer.Analyze(ctx, c.Name, desc, c.DocumentsDir)
	if err != nil {
		return "", err
	}
	dest := c.OutputPath(outRoot)
	if err := output.WriteFile(dest, schema.CollectionOutput, result); err != nil {
		return "", err
	}
	r.logger.Info("collection written", "collection", c.Name, "path", dest)
	return dest, nil
}

func summarize(total, failed int, written []string) *Summary {
	s := &Summary{Processed: total - failed, Failed: failed, Written: []string{}}
	for _, w := range written {
		if w != "" {
			s.Written = append(s.Written, w)
		}
	}
	return s
}
