// Package encoder turns code block text into the URL-safe tokens the explorer
// expects in its query strings.
//
// A token is the block text transcoded to Latin-1, base64 encoded, then
// percent-encoded as a single URI component. The explorer reverses the three
// steps, so only text representable in Latin-1 can be tokenized.
package encoder

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnrepresentable is matched by every *EncodingError.
var ErrUnrepresentable = errors.New("encoder: text not representable in Latin-1")

// EncodingError reports the first rune that has no Latin-1 representation.
type EncodingError struct {
	Rune   rune
	Offset int // Byte offset of Rune in the input.
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoder: rune %U at byte %d is outside Latin-1", e.Rune, e.Offset)
}

func (e *EncodingError) Unwrap() error { return ErrUnrepresentable }

// Encode returns the query-string token for content.
func Encode(content string) (string, error) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(content)
	if err != nil {
		return "", unrepresentable(content)
	}
	return URIComponent(base64.StdEncoding.EncodeToString([]byte(latin1))), nil
}

// Decode reverses Encode. The explorer performs the same steps on its side.
func Decode(token string) (string, error) {
	raw, err := url.PathUnescape(token)
	if err != nil {
		return "", fmt.Errorf("encoder: unescape token: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("encoder: decode base64: %w", err)
	}
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("encoder: decode latin-1: %w", err)
	}
	return string(text), nil
}

// unrepresentable locates the rune that made the Latin-1 transcode fail.
func unrepresentable(content string) error {
	for i, r := range content {
		if r > 0xFF {
			return &EncodingError{Rune: r, Offset: i}
		}
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(content[i:]); size == 1 {
				return &EncodingError{Rune: r, Offset: i}
			}
		}
	}
	return &EncodingError{Rune: utf8.RuneError, Offset: len(content)}
}

const upperhex = "0123456789ABCDEF"

// URIComponent percent-encodes s the way browsers encode a single URI
// component: everything outside A-Z a-z 0-9 and -_.!~*'() becomes %XX of its
// UTF-8 bytes.
func URIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// DecodeURIComponent reverses URIComponent.
func DecodeURIComponent(s string) (string, error) {
	return url.PathUnescape(s)
}
