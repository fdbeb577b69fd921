package augment

import "testing"

func TestPlaygroundURL(t *testing.T) {
	got := PlaygroundURL("https://explorer.example.com/", "playground?policy", "abc", "")
	want := "https://explorer.example.com/playground?policy=abc"
	if got != want {
		t.Errorf("PlaygroundURL = %q, want %q", got, want)
	}

	got = PlaygroundURL("https://explorer.example.com/", "playground?policy", "abc", "xyz")
	want = "https://explorer.example.com/playground?policy=abc&input=xyz"
	if got != want {
		t.Errorf("PlaygroundURL with input = %q, want %q", got, want)
	}
}

func TestAgentURL(t *testing.T) {
	got := AgentURL("http://localhost/", "raise \"x\" if:\n  (msg: Message)", "My Policy")
	want := "http://localhost/deploy-guardrail#policy-code=raise%20%22x%22%20if%3A%0A%20%20(msg%3A%20Message)&name=My%20Policy"
	if got != want {
		t.Errorf("AgentURL = %q, want %q", got, want)
	}
}

func TestEmbedURL(t *testing.T) {
	got := EmbedURL("http://localhost/", "traceview?trace", "tok", "id-1")
	want := "http://localhost/embed/traceview?trace=tok&id=id-1"
	if got != want {
		t.Errorf("EmbedURL = %q, want %q", got, want)
	}
}

func TestExtractTitle(t *testing.T) {
	const fallback = "New Guardrail"
	tests := []struct {
		caption string
		want    string
	}{
		{"Example: My Policy:", "My Policy"},
		{"Example: My Policy", "My Policy"},
		{"Example:   Spaced Out  :  ", "Spaced Out"},
		{"  Example: Leading", "Leading"},
		{"Example:NoSpace", "NoSpace"},
		{"Example: Ratio 1:2:", "Ratio 1:2"},
		{"Example:", fallback},
		{"Example: :", fallback},
		{"Note: something", fallback},
		{"", fallback},
		{"example: lower case", fallback},
	}
	for _, tt := range tests {
		if got := ExtractTitle(tt.caption, "Example:", fallback); got != tt.want {
			t.Errorf("ExtractTitle(%q) = %q, want %q", tt.caption, got, tt.want)
		}
	}
}
