// Package markdown prepares documentation sources so that trace and
// guardrail examples come out of rendering as marked code blocks.
package markdown

import (
	"regexp"
)

// fenceLanguages maps a marker language to the language its block is
// highlighted as once rewritten.
var fenceLanguages = map[string]string{
	"trace":         "json",
	"guardrail":     "python",
	"example-trace": "python",
}

// DefaultMarkedLanguages are the fence languages rendered as marked blocks.
var DefaultMarkedLanguages = []string{"trace", "guardrail", "example-trace"}

var fenceOpenRe = regexp.MustCompile("(?m)^([ \\t]*)(`{3,}|~{3,})[ \\t]*(trace|guardrail|example-trace)[ \\t]*$")

// RewriteFences turns ```trace, ```guardrail and ```example-trace fence
// openers into a highlightable language plus a {.language-X} class
// attribute, e.g. ```json {.language-trace}. Other fences are left alone.
func RewriteFences(src string) string {
	return fenceOpenRe.ReplaceAllStringFunc(src, func(line string) string {
		m := fenceOpenRe.FindStringSubmatch(line)
		indent, fence, lang := m[1], m[2], m[3]
		return indent + fence + fenceLanguages[lang] + " {.language-" + lang + "}"
	})
}
