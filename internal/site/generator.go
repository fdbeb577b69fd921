package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/explorer-docs/docaug/internal/frontmatter"
	"github.com/explorer-docs/docaug/internal/markdown"
	"github.com/explorer-docs/docaug/internal/walker"
)

// Builder renders a markdown docs directory into a static HTML site.
type Builder struct {
	DocsDir   string
	OutputDir string
	SiteName  string
	Log       logrus.FieldLogger
}

// BuildResult counts what Build wrote.
type BuildResult struct {
	Pages  int
	Assets int
}

// pageData holds the data passed to the page template.
type pageData struct {
	Title       string
	Description string
	SiteName    string
	Content     template.HTML
	Nav         template.HTML
	BasePath    string
}

// Build renders every .md file under DocsDir to an .html page in OutputDir
// and copies all other files unchanged.
func (b *Builder) Build() (*BuildResult, error) {
	log := b.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	files, err := walker.Walk(walker.WalkerConfig{RootDir: b.DocsDir})
	if err != nil {
		return nil, fmt.Errorf("site: listing docs: %w", err)
	}

	var pages []walker.FileInfo
	var assets []walker.FileInfo
	for _, f := range files {
		if strings.HasSuffix(f.RelPath, ".md") {
			pages = append(pages, f)
		} else {
			assets = append(assets, f)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("site: no markdown files found in %s", b.DocsDir)
	}

	sources := make(map[string]source, len(pages))
	titles := make(map[string]string, len(pages))
	paths := make([]string, 0, len(pages))
	for _, f := range pages {
		src, err := readSource(f)
		if err != nil {
			return nil, err
		}
		sources[f.RelPath] = src
		titles[f.RelPath] = src.title
		paths = append(paths, f.RelPath)
	}
	nav := BuildNav(paths, titles)

	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.OutputDir, "style.css"), []byte(stylesheet), 0o644); err != nil {
		return nil, fmt.Errorf("site: writing stylesheet: %w", err)
	}

	md := markdown.New(markdown.DefaultMarkedLanguages)
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("site: parsing page template: %w", err)
	}

	for _, rel := range paths {
		if err := b.renderPage(md, tmpl, nav, rel, sources[rel]); err != nil {
			return nil, fmt.Errorf("site: rendering %s: %w", rel, err)
		}
		log.WithField("page", rel).Debug("Rendered page")
	}
	for _, f := range assets {
		if err := copyFile(f.Path, filepath.Join(b.OutputDir, filepath.FromSlash(f.RelPath))); err != nil {
			return nil, fmt.Errorf("site: copying %s: %w", f.RelPath, err)
		}
	}

	return &BuildResult{Pages: len(pages), Assets: len(assets)}, nil
}

// source is a markdown page split into frontmatter and body.
type source struct {
	title       string
	description string
	body        string
}

func readSource(f walker.FileInfo) (source, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return source{}, fmt.Errorf("site: reading %s: %w", f.RelPath, err)
	}
	m, body, _, err := frontmatter.Parse(string(data))
	if err != nil {
		return source{}, fmt.Errorf("site: %s: %w", f.RelPath, err)
	}
	title := m.Title
	if title == "" {
		title = extractTitle(body, f.RelPath)
	}
	return source{title: title, description: m.Description, body: body}, nil
}

func (b *Builder) renderPage(md goldmark.Markdown, tmpl *template.Template, nav *NavNode, rel string, src source) error {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown.RewriteFences(src.body)), &buf); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	htmlRel := mdPathToHTML(rel)
	basePath := strings.Repeat("../", strings.Count(htmlRel, "/"))
	outPath := filepath.Join(b.OutputDir, filepath.FromSlash(htmlRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, pageData{
		Title:       src.title,
		Description: src.description,
		SiteName:    b.SiteName,
		Content:     template.HTML(rewriteMDLinks(buf.String())),
		Nav:         template.HTML(nav.HTML(rel, basePath)),
		BasePath:    basePath,
	})
}

// extractTitle returns the first "# " heading of content, or the file name
// without extension.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), ".md")
}

var mdHrefRe = regexp.MustCompile(`href="([^"#:]+)\.md(#[^"]*)?"`)

// rewriteMDLinks points relative links at .md sources to the rendered pages.
func rewriteMDLinks(content string) string {
	return mdHrefRe.ReplaceAllString(content, `href="$1.html$2"`)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
