package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mis-reports/internal/report"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Artifact describes one written export file.
type Artifact struct {
	Format Format `json:"format"`
	Name   string `json:"name"`
	Path   string `json:"path"`
	Size   int    `json:"size"`
}

// Exporter writes reports to a directory using a fixed set of renderers.
type Exporter struct {
	dir       string
	renderers map[Format]Renderer
}

// NewExporter creates an exporter writing into dir.
func NewExporter(dir string, renderers ...Renderer) *Exporter {
	e := &Exporter{dir: dir, renderers: make(map[Format]Renderer, len(renderers))}
	for _, r := range renderers {
		e.renderers[r.Format()] = r
	}
	return e
}

// Renderer returns the renderer registered for f.
func (e *Exporter) Renderer(f Format) (Renderer, bool) {
	r, ok := e.renderers[f]
	return r, ok
}

// Export renders rep in every requested format concurrently. Renderers only
// read rep. No file is written unless every format renders.
func (e *Exporter) Export(ctx context.Context, rep *report.Report, meta Metadata, formats ...Format) ([]Artifact, error) {
	if rep == nil {
		return nil, ErrNoReportAvailable
	}
	if len(formats) == 0 {
		formats = Formats()
	}
	formats = uniqueFormats(formats)

	var mu sync.Mutex
	rendered := make(map[Format][]byte, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		r, ok := e.renderers[f]
		if !ok {
			return nil, fmt.Errorf("no renderer registered for %s", f)
		}
		g.Go(func() error {
			var buf bytes.Buffer
			if err := r.Render(gctx, &buf, rep, meta); err != nil {
				return fmt.Errorf("render %s: %w", f, err)
			}
			mu.Lock()
			rendered[f] = buf.Bytes()
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	artifacts := make([]Artifact, 0, len(formats))
	for _, f := range formats {
		name := FileName(meta, f)
		path := filepath.Join(e.dir, name)
		if err := os.WriteFile(path, rendered[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		log.Info().Str("format", string(f)).Str("path", path).Int("bytes", len(rendered[f])).Msg("Report exported")
		artifacts = append(artifacts, Artifact{Format: f, Name: name, Path: path, Size: len(rendered[f])})
	}
	return artifacts, nil
}

// uniqueFormats drops repeated formats, keeping first-seen order.
func uniqueFormats(formats []Format) []Format {
	seen := make(map[Format]bool, len(formats))
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
