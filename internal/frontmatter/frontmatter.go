// Package frontmatter reads and inserts the YAML metadata block at the top
// of documentation markdown files.
package frontmatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/explorer-docs/docaug/internal/walker"
)

var (
	blockRe    = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n`)
	titleRe    = regexp.MustCompile(`(?m)^# (.+)`)
	subtitleRe = regexp.MustCompile(`(?s)<div class='subtitle'>(.*?)</div>`)
)

// Matter is the metadata a page declares in its frontmatter.
type Matter struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Parse splits content into its frontmatter and body. ok is false when the
// content has no leading block; err is set when the block is not valid YAML.
func Parse(content string) (m Matter, body string, ok bool, err error) {
	loc := blockRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return Matter{}, content, false, nil
	}
	raw := content[loc[2]:loc[3]]
	if err := yaml.Unmarshal([]byte(raw), &m); err != nil {
		return Matter{}, content, true, fmt.Errorf("frontmatter: parse yaml: %w", err)
	}
	return m, content[loc[1]:], true, nil
}

// Collect walks dir for markdown files and returns the frontmatter of each
// file that has a valid block, keyed by slash-separated path under dir.
func Collect(dir string, log logrus.FieldLogger) (map[string]Matter, error) {
	files, err := markdownFiles(dir)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Matter)
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("frontmatter: read %s: %w", f.RelPath, err)
		}
		m, _, ok, err := Parse(string(data))
		if err != nil {
			log.WithError(err).WithField("file", f.RelPath).Warn("Invalid frontmatter")
			continue
		}
		if !ok {
			continue
		}
		out[filepath.ToSlash(filepath.Join(dir, f.RelPath))] = m
	}
	return out, nil
}

// GenerateResult lists the files Generate changed and the ones it could not.
type GenerateResult struct {
	Inserted []string
	Skipped  []string
}

// Generate inserts frontmatter into every markdown file under dir that lacks
// it, taking the title from the first "# " heading and the description from
// the subtitle div. Files missing either are skipped.
func Generate(dir string, log logrus.FieldLogger) (*GenerateResult, error) {
	files, err := markdownFiles(dir)
	if err != nil {
		return nil, err
	}

	res := &GenerateResult{}
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("frontmatter: read %s: %w", f.RelPath, err)
		}
		content := string(data)
		if blockRe.MatchString(content) {
			continue
		}

		m, ok := Derive(content)
		if !ok {
			log.WithField("file", f.RelPath).Info("Skipping, missing title or subtitle")
			res.Skipped = append(res.Skipped, f.RelPath)
			continue
		}

		block, err := Render(m)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(f.Path, []byte(block+"\n"+content), 0o644); err != nil {
			return nil, fmt.Errorf("frontmatter: write %s: %w", f.RelPath, err)
		}
		log.WithField("file", f.RelPath).Info("Inserted frontmatter")
		res.Inserted = append(res.Inserted, f.RelPath)
	}
	return res, nil
}

// Derive builds frontmatter from a page's heading and subtitle.
func Derive(content string) (Matter, bool) {
	title := titleRe.FindStringSubmatch(content)
	subtitle := subtitleRe.FindStringSubmatch(content)
	if title == nil || subtitle == nil {
		return Matter{}, false
	}
	return Matter{
		Title:       strings.TrimSpace(title[1]),
		Description: strings.TrimSpace(subtitle[1]),
	}, true
}

// Render formats m as a "---" delimited YAML block ending in a newline.
func Render(m Matter) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("frontmatter: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("frontmatter: encode: %w", err)
	}
	buf.WriteString("---\n")
	return buf.String(), nil
}

func markdownFiles(dir string) ([]walker.FileInfo, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: dir,
		Include: []string{"**/*.md"},
	})
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	return files, nil
}
