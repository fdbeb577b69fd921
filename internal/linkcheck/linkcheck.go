// Package linkcheck crawls a served documentation site and reports broken
// pages, links and images.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gocolly/colly"
	"github.com/sirupsen/logrus"
)

// NotFoundMarker identifies the site's "page not found" page.
const NotFoundMarker = "<h1>404 - Not found</h1>"

const userAgent = "docaug-linkcheck/1.0"

// Kind classifies a finding.
type Kind string

const (
	KindNotFound   Kind = "404"
	KindBrokenLink Kind = "Broken LINK"
	KindBrokenImg  Kind = "Broken IMG"
)

// Finding is one problem found while crawling.
type Finding struct {
	Kind   Kind
	URL    string // The missing page, link target or image source.
	Page   string // The page the URL was found on.
	Status int    // HTTP status, 0 when the request failed.
	Err    error
}

func (f Finding) String() string {
	switch f.Kind {
	case KindNotFound:
		return fmt.Sprintf("[404] %s (linked from %s)", f.URL, f.Page)
	case KindBrokenImg:
		return fmt.Sprintf("[Broken IMG] %s on %s", f.URL, f.Page)
	default:
		if f.Err != nil {
			return fmt.Sprintf("[Broken LINK] %s on %s (error %v)", f.URL, f.Page, f.Err)
		}
		return fmt.Sprintf("[Broken LINK] %s on %s (status %d)", f.URL, f.Page, f.Status)
	}
}

// Report summarizes a crawl.
type Report struct {
	Visited  []string
	Findings []Finding
}

// Options configures a Checker. Empty file paths disable that output.
type Options struct {
	BaseURL      string
	VisitedFile  string
	BrokenFile   string
	ContentsFile string
	Timeout      time.Duration
	Logger       logrus.FieldLogger
}

// Checker crawls every page under a base URL.
type Checker struct {
	opts Options
	base string
	log  logrus.FieldLogger
}

// New returns a Checker for opts.BaseURL.
func New(opts Options) (*Checker, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("linkcheck: invalid base URL %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return &Checker{opts: opts, base: u.String(), log: log}, nil
}

// BaseURL returns the normalized URL the crawl starts from.
func (c *Checker) BaseURL() string {
	return c.base
}

// pageVisit collects what the crawler saw on the page being fetched.
type pageVisit struct {
	status int
	body   []byte
	isHTML bool
	links  []string
	images []string
	err    error
}

// outcome is the cached result of fetching a link or image.
type outcome struct {
	status int
	size   int
	err    error
}

func (o outcome) broken() bool {
	return o.err != nil || o.status >= 400
}

type queued struct {
	url    string
	source string
}

// Check crawls the site breadth first from the base URL. It stops early,
// returning the partial report, when ctx is cancelled.
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	out, err := openOutputs(c.opts)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	var current *pageVisit
	pages := c.newCollector()
	pages.OnResponse(func(r *colly.Response) {
		current.status = r.StatusCode
		current.body = r.Body
		current.isHTML = strings.Contains(r.Headers.Get("Content-Type"), "html")
	})
	pages.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if link := e.Request.AbsoluteURL(e.Attr("href")); link != "" {
			current.links = append(current.links, link)
		}
	})
	pages.OnHTML("img[src]", func(e *colly.HTMLElement) {
		if src := e.Request.AbsoluteURL(e.Attr("src")); src != "" {
			current.images = append(current.images, src)
		}
	})
	pages.OnError(func(r *colly.Response, err error) {
		current.err = err
	})

	cache := make(map[string]outcome)
	var fetched *outcome
	links := c.newCollector()
	links.OnResponse(func(r *colly.Response) {
		fetched.status = r.StatusCode
		fetched.size = len(r.Body)
	})
	links.OnError(func(r *colly.Response, err error) {
		fetched.err = err
		if r != nil {
			fetched.status = r.StatusCode
		}
	})
	fetch := func(target string) outcome {
		if o, ok := cache[target]; ok {
			return o
		}
		fetched = &outcome{}
		if err := links.Visit(target); err != nil && fetched.err == nil {
			fetched.err = err
		}
		cache[target] = *fetched
		return *fetched
	}

	report := &Report{}
	record := func(f Finding) {
		report.Findings = append(report.Findings, f)
		out.broken(f.String())
		c.log.WithFields(logrus.Fields{"kind": string(f.Kind), "url": f.URL, "page": f.Page}).Warn("Broken reference")
	}

	visited := make(map[string]bool)
	queue := []queued{{url: c.base, source: "(start)"}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		next := queue[0]
		queue = queue[1:]
		page := stripFragment(next.url)
		if visited[page] || !c.internal(page) {
			continue
		}
		visited[page] = true

		current = &pageVisit{}
		if err := pages.Visit(page); err != nil && current.err == nil {
			current.err = err
		}
		if current.err != nil {
			c.log.WithError(current.err).WithField("url", page).Warn("Error visiting page")
			continue
		}

		report.Visited = append(report.Visited, page)
		out.visited(page)
		if current.isHTML {
			out.contents(current.body)
		}
		if strings.Contains(string(current.body), NotFoundMarker) {
			record(Finding{Kind: KindNotFound, URL: page, Page: next.source, Status: current.status})
		}

		for _, src := range current.images {
			if !fetchable(src) {
				continue
			}
			if o := fetch(src); o.broken() || o.size == 0 {
				record(Finding{Kind: KindBrokenImg, URL: src, Page: page, Status: o.status, Err: o.err})
			}
		}
		for _, link := range current.links {
			target := stripFragment(link)
			if !c.internal(target) {
				continue
			}
			if o := fetch(target); o.broken() {
				record(Finding{Kind: KindBrokenLink, URL: target, Page: page, Status: o.status, Err: o.err})
			}
			if !visited[target] {
				queue = append(queue, queued{url: target, source: page})
			}
		}
	}

	c.log.WithFields(logrus.Fields{"visited": len(report.Visited), "broken": len(report.Findings)}).Info("Link check finished")
	return report, nil
}

func (c *Checker) newCollector() *colly.Collector {
	col := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	col.SetRequestTimeout(c.opts.Timeout)
	col.ParseHTTPErrorResponse = true
	return col
}

func (c *Checker) internal(u string) bool {
	return strings.HasPrefix(u, c.base)
}

func fetchable(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}

// outputs holds the crawl's log files.
type outputs struct {
	files     []*os.File
	visitedW  io.Writer
	brokenW   io.Writer
	contentsW io.Writer
}

func openOutputs(opts Options) (*outputs, error) {
	o := &outputs{visitedW: io.Discard, brokenW: io.Discard, contentsW: io.Discard}
	for _, out := range []struct {
		path string
		dst  *io.Writer
	}{
		{opts.VisitedFile, &o.visitedW},
		{opts.BrokenFile, &o.brokenW},
		{opts.ContentsFile, &o.contentsW},
	} {
		if out.path == "" {
			continue
		}
		f, err := os.Create(out.path)
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("linkcheck: %w", err)
		}
		o.files = append(o.files, f)
		*out.dst = f
	}
	return o, nil
}

func (o *outputs) visited(u string)     { fmt.Fprintln(o.visitedW, u) }
func (o *outputs) broken(line string)   { fmt.Fprintln(o.brokenW, line) }
func (o *outputs) contents(body []byte) { _, _ = o.contentsW.Write(body) }

func (o *outputs) Close() {
	for _, f := range o.files {
		f.Close()
	}
}
