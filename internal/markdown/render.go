package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// New returns a goldmark instance that renders fences in marked (or carrying
// a {.language-X} attribute) as <div class="language-X highlight"> blocks
// and highlights every other fence.
func New(marked []string) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeRenderer(marked), 100),
			),
		),
	)
}

var classAttrRe = regexp.MustCompile(`\{\s*\.(language-[A-Za-z0-9_-]+)\s*\}`)

// codeRenderer renders marked fences itself and hands the rest to the
// highlighting renderer.
type codeRenderer struct {
	marked    map[string]bool
	highlight renderer.NodeRenderer
	fallback  renderer.NodeRendererFunc
}

func newCodeRenderer(marked []string) *codeRenderer {
	r := &codeRenderer{
		marked:    make(map[string]bool, len(marked)),
		highlight: highlighting.NewHTMLRenderer(highlighting.WithStyle("github")),
	}
	for _, lang := range marked {
		r.marked[lang] = true
	}
	capture := &funcCapture{kind: ast.KindFencedCodeBlock}
	r.highlight.RegisterFuncs(capture)
	r.fallback = capture.fn
	return r
}

// SetOption forwards renderer options to the highlighting renderer.
func (r *codeRenderer) SetOption(name renderer.OptionName, value interface{}) {
	if so, ok := r.highlight.(renderer.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *codeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	class := r.markedClass(n, source)
	if class == "" {
		return r.fallback(w, source, node, entering)
	}
	if !entering {
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<div class="` + class + ` highlight"><pre><code>`)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString("</code></pre></div>\n")
	return ast.WalkSkipChildren, nil
}

// markedClass returns the marker class for a fence, or "" for an ordinary
// fence.
func (r *codeRenderer) markedClass(n *ast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return ""
	}
	info := string(n.Info.Segment.Value(source))
	if m := classAttrRe.FindStringSubmatch(info); m != nil {
		return m[1]
	}
	fields := strings.Fields(info)
	if len(fields) > 0 && r.marked[fields[0]] {
		return "language-" + fields[0]
	}
	return ""
}

// funcCapture records the render function another NodeRenderer registers
// for one node kind.
type funcCapture struct {
	kind ast.NodeKind
	fn   renderer.NodeRendererFunc
}

func (c *funcCapture) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if kind == c.kind {
		c.fn = fn
	}
}
