package encoder

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"raise \"Rule 1\" if:\n    (msg: Message)\n    \"fight club\" in msg.content\n",
		`[{"role": "user", "content": "What is the weather?"}]`,
		"café naïve ¿qué?",
		"a+b/c=d&e?f#g",
		"\x00\x7fÿ",
	}
	for _, in := range inputs {
		token, err := Encode(in)
		if err != nil {
			t.Fatalf("Encode(%q) error: %v", in, err)
		}
		got, err := Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", token, err)
		}
		if got != in {
			t.Errorf("round trip = %q, want %q", got, in)
		}
	}
}

func TestEncodeIsQuerySafe(t *testing.T) {
	// "??>" base64-encodes to "Pz8+" and "???" to "Pz8/", covering + and /.
	for _, in := range []string{"??>", "???", "a"} {
		token, err := Encode(in)
		if err != nil {
			t.Fatalf("Encode(%q) error: %v", in, err)
		}
		if strings.ContainsAny(token, "+/=&?# ") {
			t.Errorf("Encode(%q) = %q, contains reserved characters", in, token)
		}
	}
}

func TestEncodeKnownValue(t *testing.T) {
	token, err := Encode("a")
	if err != nil {
		t.Fatal(err)
	}
	// btoa("a") == "YQ==".
	if token != "YQ%3D%3D" {
		t.Errorf("Encode(a) = %q, want %q", token, "YQ%3D%3D")
	}
}

func TestEncodeUnrepresentable(t *testing.T) {
	_, err := Encode("ok ✓ done")
	if err == nil {
		t.Fatal("expected error for rune outside Latin-1")
	}
	if !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("error %v does not match ErrUnrepresentable", err)
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("error %T is not *EncodingError", err)
	}
	if encErr.Rune != '✓' {
		t.Errorf("Rune = %U, want U+2713", encErr.Rune)
	}
	if encErr.Offset != 3 {
		t.Errorf("Offset = %d, want 3", encErr.Offset)
	}
}

func TestURIComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc-_.!~*'()", "abc-_.!~*'()"},
		{"a b", "a%20b"},
		{"a+b=c/d", "a%2Bb%3Dc%2Fd"},
		{"My Policy", "My%20Policy"},
		{"é", "%C3%A9"},
		{"✓", "%E2%9C%93"},
	}
	for _, tt := range tests {
		if got := URIComponent(tt.in); got != tt.want {
			t.Errorf("URIComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
		back, err := DecodeURIComponent(tt.want)
		if err != nil {
			t.Fatalf("DecodeURIComponent(%q): %v", tt.want, err)
		}
		if back != tt.in {
			t.Errorf("DecodeURIComponent(%q) = %q, want %q", tt.want, back, tt.in)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode("%zz"); err == nil {
		t.Error("expected error for bad escape")
	}
	if _, err := Decode("!!!"); err == nil {
		t.Error("expected error for bad base64")
	}
}
