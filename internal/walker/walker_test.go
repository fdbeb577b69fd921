package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates files (relative path -> content) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func relPaths(files []FileInfo) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	return out
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWalk_IncludeHTML(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":              "<html></html>",
		"guides/rules/index.html": "<html></html>",
		"assets/app.js":           "console.log(1)",
		"sitemap.xml":             "<urlset/>",
	})

	files, err := Walk(WalkerConfig{RootDir: dir, Include: []string{"**/*.html"}})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	want := []string{"guides/rules/index.html", "index.html"}
	if got := relPaths(files); !equalPaths(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalk_ExcludeFilter(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":             "x",
		"404.html":               "x",
		"assets/partials/a.html": "x",
	})

	files, err := Walk(WalkerConfig{
		RootDir: dir,
		Include: []string{"**/*.html"},
		Exclude: []string{"assets/**", "**/404.html"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := relPaths(files); !equalPaths(got, []string{"index.html"}) {
		t.Errorf("Walk() = %v, want [index.html]", got)
	}
}

func TestWalk_FileInfoFields(t *testing.T) {
	dir := writeTree(t, map[string]string{"a/b.md": "# Title\n"})

	files, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Walk() returned %d files, want 1", len(files))
	}
	f := files[0]
	if f.RelPath != "a/b.md" {
		t.Errorf("RelPath = %q", f.RelPath)
	}
	if !filepath.IsAbs(f.Path) {
		t.Errorf("Path %q is not absolute", f.Path)
	}
	if f.Size != int64(len("# Title\n")) {
		t.Errorf("Size = %d", f.Size)
	}
}

func TestWalk_SkipsLargeFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"small.html": "x",
		"big.html":   "0123456789",
	})

	files, err := Walk(WalkerConfig{RootDir: dir, MaxFileSize: 5})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := relPaths(files); !equalPaths(got, []string{"small.html"}) {
		t.Errorf("Walk() = %v, want [small.html]", got)
	}
}

func TestWalk_DefaultExcludeDirs(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":                "x",
		".git/config.html":          "x",
		"node_modules/pkg/doc.html": "x",
	})

	files, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := relPaths(files); !equalPaths(got, []string{"index.html"}) {
		t.Errorf("Walk() = %v, want [index.html]", got)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	if _, err := Walk(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestMatchesInclude_Empty(t *testing.T) {
	if !MatchesInclude("anything.html", nil) {
		t.Error("empty include should match everything")
	}
}

func TestMatchesInclude_DoubleStarPattern(t *testing.T) {
	if !MatchesInclude("a/b/c/page.html", []string{"**/*.html"}) {
		t.Error("**/*.html should match nested html")
	}
	if MatchesInclude("a/b/c/page.md", []string{"**/*.html"}) {
		t.Error("**/*.html should not match markdown")
	}
}

func TestMatchesExclude_Pattern(t *testing.T) {
	if !MatchesExclude("assets/js/x.html", []string{"assets/**"}) {
		t.Error("assets/** should exclude nested files")
	}
	if MatchesExclude("guides/x.html", []string{"assets/**"}) {
		t.Error("assets/** should not exclude guides")
	}
	if MatchesExclude("x.html", nil) {
		t.Error("empty exclude should exclude nothing")
	}
}

func TestWalk_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	_, err := Walk(WalkerConfig{RootDir: dir, Include: []string{"[unclosed"}})
	if err == nil || !strings.Contains(err.Error(), "invalid glob pattern") {
		t.Fatalf("expected invalid pattern error, got %v", err)
	}
}

func TestMatchesExclude_BaseName(t *testing.T) {
	if !MatchesExclude("deep/nested/404.html", []string{"404.html"}) {
		t.Error("base-name pattern should match at any depth")
	}
}
