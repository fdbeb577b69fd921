package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runWith(t *testing.T, c *cobra.Command, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c.SetIn(strings.NewReader(stdin))
	c.SetOut(&out)
	defer c.SetIn(nil)
	defer c.SetOut(nil)
	if err := c.RunE(c, args); err != nil {
		t.Fatalf("%s: %v", c.Name(), err)
	}
	return out.String()
}

func TestEncodeDecodeCommands(t *testing.T) {
	text := `raise "café" if: (m: Message)`
	token := strings.TrimSpace(runWith(t, encodeCmd, "", text))
	if token == "" || strings.ContainsAny(token, " \"") {
		t.Fatalf("token %q is not URL safe", token)
	}
	if got := runWith(t, decodeCmd, token+"\n"); got != text {
		t.Errorf("decode = %q, want %q", got, text)
	}
}

func TestEncodeCommand_Unrepresentable(t *testing.T) {
	if err := encodeCmd.RunE(encodeCmd, []string{"✓"}); err == nil {
		t.Error("expected error for text outside Latin-1")
	}
}

func TestFencesCommand_Stdin(t *testing.T) {
	got := runWith(t, fencesCmd, "```trace\n[]\n```\n")
	if !strings.HasPrefix(got, "```json {.language-trace}") {
		t.Errorf("fences output = %q", got)
	}
}
