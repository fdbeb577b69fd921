package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestRewriteFences(t *testing.T) {
	src := "# Rules\n\n```guardrail\nraise \"x\" if: (m: Message)\n```\n\n```example-trace\n[]\n```\n\n  ```trace\n[]\n  ```\n\n```python\nprint(1)\n```\n\n```traceback\nboom\n```\n"
	got := RewriteFences(src)

	for _, want := range []string{
		"```python {.language-guardrail}\n",
		"```python {.language-example-trace}\n",
		"  ```json {.language-trace}\n",
		"```python\nprint(1)",
		"```traceback\nboom",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RewriteFences output missing %q:\n%s", want, got)
		}
	}
	if RewriteFences(got) != got {
		t.Error("RewriteFences is not idempotent")
	}
}

func render(t *testing.T, src string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := New(DefaultMarkedLanguages).Convert([]byte(src), &buf); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return buf.String()
}

func TestRenderMarkedFence(t *testing.T) {
	out := render(t, "```guardrail\nraise \"x\" if:\n    (m: Message)\n```\n")
	want := "<div class=\"language-guardrail highlight\"><pre><code>raise &quot;x&quot; if:\n    (m: Message)\n</code></pre></div>"
	if !strings.Contains(out, want) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRenderAttributeFence(t *testing.T) {
	out := render(t, RewriteFences("```trace\n[{\"role\": \"user\"}]\n```\n"))
	if !strings.Contains(out, `<div class="language-trace highlight"><pre><code>[{&quot;role&quot;: &quot;user&quot;}]`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRenderOrdinaryFenceIsHighlighted(t *testing.T) {
	out := render(t, "```go\nfmt.Println(\"hi\")\n```\n")
	if strings.Contains(out, "highlight\"><pre><code>") {
		t.Errorf("ordinary fence rendered as marked block:\n%s", out)
	}
	if !strings.Contains(out, "Println") || !strings.Contains(out, "<pre") {
		t.Errorf("ordinary fence missing from output:\n%s", out)
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	out := render(t, "```guardrail\n<script>alert(1)</script>\n```\n")
	if strings.Contains(out, "<script>") {
		t.Errorf("marked block content not escaped:\n%s", out)
	}
}
