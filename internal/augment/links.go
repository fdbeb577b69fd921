package augment

import (
	"strings"

	"github.com/explorer-docs/docaug/internal/encoder"
)

// PlaygroundURL builds the "Open In Playground" target. encodedInput is
// omitted when empty.
func PlaygroundURL(baseURL, endpoint, encodedContent, encodedInput string) string {
	u := baseURL + endpoint + "=" + encodedContent
	if encodedInput != "" {
		u += "&input=" + encodedInput
	}
	return u
}

// AgentURL builds the "Add to Agent" target. The explorer reads both values
// from the fragment, so content is percent-encoded raw rather than tokenized.
func AgentURL(baseURL, content, title string) string {
	return baseURL + "deploy-guardrail#policy-code=" + encoder.URIComponent(content) +
		"&name=" + encoder.URIComponent(title)
}

// EmbedURL builds the iframe source for an embedded explorer view.
func EmbedURL(baseURL, endpoint, encodedContent, id string) string {
	return baseURL + "embed/" + endpoint + "=" + encodedContent + "&id=" + id
}

// ExtractTitle derives a policy name from a caption such as
// "Example: My Policy:". It returns fallback when caption does not start
// with prefix or names nothing.
func ExtractTitle(caption, prefix, fallback string) string {
	caption = strings.TrimSpace(caption)
	if prefix == "" || !strings.HasPrefix(caption, prefix) {
		return fallback
	}
	title := strings.TrimSpace(caption[len(prefix):])
	if strings.HasSuffix(title, ":") {
		title = strings.TrimSpace(title[:len(title)-1])
	}
	if title == "" {
		return fallback
	}
	return title
}
