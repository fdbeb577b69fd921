// Package progress reports how far a multi-page run has got.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress while pages are processed. Update may be
// called from several goroutines at once.
type Reporter interface {
	Start(total int)
	Update(current int, page string)
	Finish()
}

// NewReporter picks a line-oriented reporter under CI and a progress bar
// otherwise. Both write to stderr.
func NewReporter(description string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{Description: description, Out: os.Stderr}
	}
	return &BarReporter{description: description, out: os.Stderr}
}

// BarReporter draws a single updating bar.
type BarReporter struct {
	description string
	out         io.Writer
	mu          sync.Mutex
	bar         *progressbar.ProgressBar
	current     int
}

func (r *BarReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = 0
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(r.description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// Update moves the bar forward. Pages finish out of order, so a lower
// count than already shown is ignored.
func (r *BarReporter) Update(current int, page string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil || current < r.current {
		return
	}
	r.current = current
	r.bar.Describe(fmt.Sprintf("%s %s", r.description, page))
	_ = r.bar.Set(current)
}

func (r *BarReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// LineReporter prints one line per page, for logs that do not render
// carriage returns.
type LineReporter struct {
	Description string
	Out         io.Writer

	mu    sync.Mutex
	total int
}

func (r *LineReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	fmt.Fprintf(r.Out, "%s: %d pages\n", r.Description, total)
}

func (r *LineReporter) Update(current int, page string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", current, r.total, page)
}

func (r *LineReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.Out, "%s: done\n", r.Description)
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Start(int) {}

func (Nop) Update(int, string) {}

func (Nop) Finish() {}
