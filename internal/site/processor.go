// Package site augments rendered documentation sites on disk and builds
// them from markdown sources.
package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/explorer-docs/docaug/internal/augment"
	"github.com/explorer-docs/docaug/internal/progress"
	"github.com/explorer-docs/docaug/internal/walker"
)

// DefaultConcurrency is used when Processor.Concurrency is not positive.
const DefaultConcurrency = 4

// Processor augments every HTML page of a built site in place.
type Processor struct {
	Dir         string
	Include     []string
	Exclude     []string
	Concurrency int
	DryRun      bool

	Augmenter *augment.Augmenter
	Checker   augment.Checker
	Reporter  progress.Reporter
	Log       logrus.FieldLogger
}

// PageError records a page that could not be processed.
type PageError struct {
	Path string
	Err  error
}

func (e PageError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Summary describes a processing run.
type Summary struct {
	State   augment.State
	Pages   int // Pages matched by the include/exclude globs.
	Changed int // Pages that were (or, in dry-run mode, would be) rewritten.
	Links   int
	Frames  int
	Skipped int
	Failed  []PageError
}

// Run probes the explorer once and, if it answers, augments every page.
// When the probe fails no file is touched, the summary state is
// augment.StateAborted and the returned error wraps
// augment.ErrProbeUnreachable.
func (p *Processor) Run(ctx context.Context) (*Summary, error) {
	log := p.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	reporter := p.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: p.Dir,
		Include: p.Include,
		Exclude: p.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("site: listing pages: %w", err)
	}

	summary := &Summary{State: augment.StateProbing, Pages: len(files)}
	baseURL := p.Augmenter.BaseURL()
	if err := p.Checker.Probe(ctx, baseURL); err != nil {
		summary.State = augment.StateAborted
		log.WithError(err).WithField("base_url", baseURL).Warn("Explorer not reachable, leaving site untouched")
		return summary, err
	}
	summary.State = augment.StateAugmenting

	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu   sync.Mutex
		done int
	)
	reporter.Start(len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, written, err := p.processPage(f)

			mu.Lock()
			defer mu.Unlock()
			done++
			reporter.Update(done, f.RelPath)
			if err != nil {
				log.WithError(err).WithField("page", f.RelPath).Warn("Failed to process page")
				summary.Failed = append(summary.Failed, PageError{Path: f.RelPath, Err: err})
				return nil
			}
			summary.Links += report.Links
			summary.Frames += report.Frames
			summary.Skipped += report.Skipped
			if written {
				summary.Changed++
			}
			return nil
		})
	}
	err = g.Wait()
	reporter.Finish()
	if err != nil {
		return summary, err
	}

	summary.State = augment.StateIdle
	log.WithFields(logrus.Fields{
		"pages":   summary.Pages,
		"changed": summary.Changed,
		"links":   summary.Links,
		"frames":  summary.Frames,
		"skipped": summary.Skipped,
		"failed":  len(summary.Failed),
		"dry_run": p.DryRun,
	}).Info("Site augmented")
	return summary, nil
}

// processPage augments one file. written reports whether the page changed;
// in dry-run mode the file is left alone but written is still set.
func (p *Processor) processPage(f walker.FileInfo) (*augment.Report, bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, false, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("parsing html: %w", err)
	}

	report := p.Augmenter.Augment(doc)
	if !report.Changed() {
		return report, false, nil
	}
	if p.DryRun {
		return report, true, nil
	}

	out, err := Render(doc)
	if err != nil {
		return nil, false, err
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(f.Path, out, info.Mode().Perm()); err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// Render serializes a whole document, doctype included.
func Render(doc *goquery.Document) ([]byte, error) {
	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("rendering html: %w", err)
		}
	}
	return buf.Bytes(), nil
}
