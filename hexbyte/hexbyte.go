// Package hexbyte converts between human-entered byte lists such as
// "7E 14,17 00" and raw bytes, and renders bytes back for display.
package hexbyte

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseError reports a byte list that could not be converted.
type ParseError struct {
	Text  string // The whole input
	Token string // The offending token, empty when the input has no tokens
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("hexbyte: %s", e.Err)
	}
	return fmt.Sprintf("hexbyte: %s: %s", strconv.Quote(e.Token), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	ErrNoTokens   = errors.New("no byte values found")
	ErrNotInteger = errors.New("not an integer")
	ErrOutOfRange = errors.New("value outside byte range [0,255]")
)

// Parse converts text into bytes. Tokens are separated by whitespace, commas or
// semicolons. Each token is a hexadecimal byte with an optional 0x/0X prefix,
// so the output of Format parses back to the same bytes.
func Parse(text string) ([]byte, error) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	if len(tokens) == 0 {
		return nil, &ParseError{Text: text, Err: ErrNoTokens}
	}

	data := make([]byte, 0, len(tokens))
	for _, token := range tokens {
		digits := token
		if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
			digits = digits[2:]
		}

		v, err := strconv.ParseUint(digits, 16, 64)
		if errors.Is(err, strconv.ErrRange) {
			return nil, &ParseError{Text: text, Token: token, Err: ErrOutOfRange}
		}
		if err != nil {
			return nil, &ParseError{Text: text, Token: token, Err: ErrNotInteger}
		}
		if v > 0xFF {
			return nil, &ParseError{Text: text, Token: token, Err: ErrOutOfRange}
		}

		data = append(data, byte(v))
	}

	return data, nil
}

// Format renders data as "7E, 14, 17, 00".
func Format(data []byte) string {
	return join(data, ", ")
}

// FormatCompact renders data as "7E 14 17 00".
func FormatCompact(data []byte) string {
	return join(data, " ")
}

func join(data []byte, sep string) string {
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(data) * (2 + len(sep)))
	for i, b := range data {
		if i > 0 {
			sb.WriteString(sep)
		}
		fmt.Fprintf(&sb, "%02X", b)
	}

	return sb.String()
}
