package site

import (
	"fmt"
	"html"
	"path"
	"sort"
	"strings"
)

// NavNode is one entry of the sidebar navigation: a section (directory) or
// a page.
type NavNode struct {
	Name      string
	Title     string // Display label; frontmatter title or first heading for pages.
	Path      string // Slash-separated source path; directory path for sections.
	IsSection bool
	Children  []*NavNode
}

// BuildNav constructs the navigation tree from markdown paths relative to
// the docs directory. titles maps a page path to its display title.
func BuildNav(paths []string, titles map[string]string) *NavNode {
	root := &NavNode{Name: "docs", IsSection: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			leaf := i == len(parts)-1
			next := current.child(part)
			if next == nil {
				next = &NavNode{Name: part, IsSection: !leaf}
				if leaf {
					next.Path = p
					next.Title = titles[p]
				} else {
					next.Path = strings.Join(parts[:i+1], "/")
					next.Title = sectionTitle(part)
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	root.sort()
	return root
}

func (n *NavNode) child(name string) *NavNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sort orders children with index.md first, then pages, then sections,
// alphabetically within each group.
func (n *NavNode) sort() {
	rank := func(c *NavNode) int {
		switch {
		case !c.IsSection && c.Name == "index.md":
			return 0
		case !c.IsSection:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		ri, rj := rank(n.Children[i]), rank(n.Children[j])
		if ri != rj {
			return ri < rj
		}
		return n.Children[i].Name < n.Children[j].Name
	})
	for _, c := range n.Children {
		if c.IsSection {
			c.sort()
		}
	}
}

// HTML renders the tree as nested lists for the page at activePath.
// basePath is the relative prefix back to the site root, e.g. "../".
func (n *NavNode) HTML(activePath, basePath string) string {
	open := openSections(activePath)
	var b strings.Builder
	n.render(&b, activePath, basePath, open)
	return b.String()
}

// openSections returns the directories containing activePath.
func openSections(activePath string) map[string]bool {
	open := make(map[string]bool)
	for dir := path.Dir(activePath); dir != "." && dir != "/"; dir = path.Dir(dir) {
		open[dir] = true
	}
	return open
}

func (n *NavNode) render(b *strings.Builder, activePath, basePath string, open map[string]bool) {
	if len(n.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, c := range n.Children {
		if c.IsSection {
			class := "section"
			if open[c.Path] {
				class += " open"
			}
			fmt.Fprintf(b, "<li class=%q><span>%s</span>\n", class, html.EscapeString(c.label()))
			c.render(b, activePath, basePath, open)
			b.WriteString("</li>\n")
			continue
		}
		active := ""
		if c.Path == activePath {
			active = ` class="active"`
		}
		fmt.Fprintf(b, "<li class=\"page\"><a href=\"%s\"%s>%s</a></li>\n",
			html.EscapeString(basePath+mdPathToHTML(c.Path)), active, html.EscapeString(c.label()))
	}
	b.WriteString("</ul>\n")
}

func (n *NavNode) label() string {
	if n.Title != "" {
		return n.Title
	}
	return strings.TrimSuffix(n.Name, ".md")
}

// mdPathToHTML converts a markdown path to the page it renders to.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// sectionTitle turns a directory slug such as "getting-started" into
// "Getting Started".
func sectionTitle(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
