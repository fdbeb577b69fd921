// Package augment rewrites rendered documentation pages so that marked code
// blocks link to, or embed, the playground/explorer service.
//
// A pass over one page first probes the explorer. If it is unreachable the
// page is left untouched. Otherwise every block matched by a category is
// augmented independently: link-mode blocks get action links appended,
// embed-mode blocks are replaced by an iframe whose resize messages are
// routed by frame id.
package augment

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/atom"

	"github.com/explorer-docs/docaug/internal/config"
	"github.com/explorer-docs/docaug/internal/encoder"
)

// State is the stage a page pass has reached.
type State int

const (
	StateInit State = iota
	StateProbing
	StateAugmenting
	StateIdle
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateProbing:
		return "probing"
	case StateAugmenting:
		return "augmenting"
	case StateIdle:
		return "idle"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Report summarizes one page pass.
type Report struct {
	State    State
	Links    int // Elements that received action links.
	Frames   int // Elements replaced by frames.
	Skipped  int // Elements left alone because their text could not be encoded.
	Registry *FrameRegistry
}

// Changed reports whether the document was modified.
func (r *Report) Changed() bool {
	return r.Links > 0 || r.Frames > 0
}

// Options configures an Augmenter.
type Options struct {
	BaseURL           string
	Categories        []config.CategoryConfig
	ExampleInputClass string
	CaptionPrefix     string
	DefaultTitle      string
	NewID             func() string // Defaults to random UUIDs.
	Logger            logrus.FieldLogger
}

// OptionsFromConfig fills Options from cfg for pages whose explorer lives
// at baseURL.
func OptionsFromConfig(cfg *config.Config, baseURL string, logger logrus.FieldLogger) Options {
	return Options{
		BaseURL:           baseURL,
		Categories:        cfg.Categories,
		ExampleInputClass: cfg.ExampleInputClass,
		CaptionPrefix:     cfg.CaptionPrefix,
		DefaultTitle:      cfg.DefaultTitle,
		Logger:            logger,
	}
}

type category struct {
	config.CategoryConfig
	matcher cascadia.Selector
}

// Augmenter applies the configured categories to parsed pages. It holds no
// per-page state and may be shared between goroutines.
type Augmenter struct {
	baseURL      string
	categories   []category
	inputClass   string
	prefix       string
	defaultTitle string
	newID        func() string
	log          logrus.FieldLogger
}

// New compiles the category selectors and returns an Augmenter.
func New(opts Options) (*Augmenter, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("augment: base URL is required")
	}
	a := &Augmenter{
		baseURL:      opts.BaseURL,
		inputClass:   opts.ExampleInputClass,
		prefix:       opts.CaptionPrefix,
		defaultTitle: opts.DefaultTitle,
		newID:        opts.NewID,
		log:          opts.Logger,
	}
	if a.newID == nil {
		a.newID = uuid.NewString
	}
	if a.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		a.log = l
	}
	for _, c := range opts.Categories {
		m, err := cascadia.Compile(c.Selector)
		if err != nil {
			return nil, fmt.Errorf("augment: category %s: compiling selector %q: %w", c.Name, c.Selector, err)
		}
		a.categories = append(a.categories, category{CategoryConfig: c, matcher: m})
	}
	return a, nil
}

// BaseURL returns the explorer address links and frames point at.
func (a *Augmenter) BaseURL() string {
	return a.baseURL
}

// Run probes the explorer with checker and, if it is reachable, augments
// doc. On probe failure the report is StateAborted, doc is untouched and the
// returned error wraps ErrProbeUnreachable.
func (a *Augmenter) Run(ctx context.Context, checker Checker, doc *goquery.Document) (*Report, error) {
	report := &Report{State: StateProbing, Registry: NewFrameRegistry()}
	if err := checker.Probe(ctx, a.baseURL); err != nil {
		report.State = StateAborted
		a.log.WithError(err).WithField("base_url", a.baseURL).Warn("Explorer not reachable, skipping augmentation")
		return report, err
	}
	a.augment(doc, report)
	return report, nil
}

// Augment applies every category to doc without probing.
func (a *Augmenter) Augment(doc *goquery.Document) *Report {
	report := &Report{Registry: NewFrameRegistry()}
	a.augment(doc, report)
	return report
}

func (a *Augmenter) augment(doc *goquery.Document, report *Report) {
	report.State = StateAugmenting
	for _, c := range a.categories {
		for _, el := range Query(doc, c.matcher) {
			var err error
			switch c.Mode {
			case config.ModeEmbed:
				err = a.embed(el, c, report)
			default:
				err = a.link(el, c, report)
			}
			if err != nil {
				report.Skipped++
				a.log.WithError(err).WithField("category", c.Name).Warn("Skipping code block")
			}
		}
	}
	if report.Frames > 0 {
		injectResizeScript(doc)
	}
	report.State = StateIdle
}

// link appends the playground and agent links to el.
func (a *Augmenter) link(el Element, c category, report *Report) error {
	if el.Augmented() {
		return nil
	}
	text := el.Text()
	encoded, err := encoder.Encode(text)
	if err != nil {
		return fmt.Errorf("encoding block: %w", err)
	}
	var encodedInput string
	if input, ok := el.ExampleInput(a.inputClass); ok {
		encodedInput, err = encoder.Encode(input)
		if err != nil {
			return fmt.Errorf("encoding example input: %w", err)
		}
	}
	title := a.defaultTitle
	if caption, ok := el.Caption(); ok {
		title = ExtractTitle(caption, a.prefix, a.defaultTitle)
	}

	container := newElement(atom.Div, attr("class", "action-links"))
	agent := newElement(atom.A,
		attr("class", "link add-to-agent"),
		attr("href", AgentURL(a.baseURL, text, title)),
		attr("target", "_blank"),
	)
	agent.AppendChild(newText("+ Add to Agent"))
	playground := newElement(atom.A,
		attr("class", "link open-in-playground"),
		attr("href", PlaygroundURL(a.baseURL, c.Endpoint, encoded, encodedInput)),
		attr("target", "_blank"),
	)
	playground.AppendChild(newText("⏵ Open In Playground"))
	container.AppendChild(agent)
	container.AppendChild(playground)

	el.appendLinks(container)
	report.Links++
	return nil
}

// embed replaces el with an explorer frame and registers it.
func (a *Augmenter) embed(el Element, c category, report *Report) error {
	encoded, err := encoder.Encode(el.Text())
	if err != nil {
		return fmt.Errorf("encoding block: %w", err)
	}
	id := a.newID()
	src := EmbedURL(a.baseURL, c.Endpoint, encoded, id)
	node := newElement(atom.Iframe,
		attr("id", id),
		attr("data-frame-id", id),
		attr("class", "docaug-embed"),
		attr("src", src),
	)
	el.replaceWith(node)
	report.Registry.Register(&Frame{ID: id, Src: src, Category: c.Name, node: node})
	report.Frames++
	return nil
}

// injectResizeScript appends the shared resize dispatcher to the body once.
func injectResizeScript(doc *goquery.Document) {
	if doc.Find(`script[data-docaug="resize"]`).Length() > 0 {
		return
	}
	target := doc.Find("body").First()
	if target.Length() == 0 {
		target = doc.Selection
	}
	script := newElement(atom.Script, attr("data-docaug", "resize"))
	script.AppendChild(newText(resizeScript))
	target.AppendNodes(script)
}
