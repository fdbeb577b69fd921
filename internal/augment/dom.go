package augment

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// markerAttr is set on link-mode elements once their action links are
// attached, so running twice over the same page adds nothing.
const markerAttr = "data-docaug"

// Element is an opaque handle to one marked code block.
type Element struct {
	sel *goquery.Selection
}

// Query returns every element under doc matched by m, in document order.
// It does not modify the document.
func Query(doc *goquery.Document, m goquery.Matcher) []Element {
	var out []Element
	doc.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s})
	})
	return out
}

// Text returns the block's text content.
func (e Element) Text() string {
	return e.sel.Text()
}

// ExampleInput returns the text of the next element sibling if it carries
// class.
func (e Element) ExampleInput(class string) (string, bool) {
	if class == "" {
		return "", false
	}
	next := e.sel.Next()
	if next.Length() == 0 || !next.HasClass(class) {
		return "", false
	}
	return next.Text(), true
}

// Caption returns the text of the previous element sibling if it is a
// paragraph.
func (e Element) Caption() (string, bool) {
	prev := e.sel.Prev()
	if prev.Length() == 0 || goquery.NodeName(prev) != "p" {
		return "", false
	}
	return prev.Text(), true
}

// Augmented reports whether action links were already attached.
func (e Element) Augmented() bool {
	_, ok := e.sel.Attr(markerAttr)
	return ok
}

func (e Element) appendLinks(container *html.Node) {
	e.sel.AppendNodes(container)
	e.sel.SetAttr(markerAttr, "augmented")
}

func (e Element) replaceWith(n *html.Node) {
	e.sel.ReplaceWithNodes(n)
}

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func newText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
