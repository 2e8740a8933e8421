package hexbyte

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		expect []byte
	}{
		{name: "bare hex", text: "7E 14 17 00", expect: []byte{0x7E, 0x14, 0x17, 0x00}},
		{name: "mixed separators", text: "0x7E 0x14,0x17;0x00", expect: []byte{0x7E, 0x14, 0x17, 0x00}},
		{name: "uppercase prefix lowercase digits", text: "0X7e", expect: []byte{0x7E}},
		{name: "single digit", text: "7 a 0", expect: []byte{0x07, 0x0A, 0x00}},
		{name: "0B is a byte not a prefix", text: "0B", expect: []byte{0x0B}},
		{name: "surrounding separators", text: " ,;ff ;, ", expect: []byte{0xFF}},
		{name: "tabs and newlines", text: "1\t2\n3", expect: []byte{1, 2, 3}},
		{name: "bare digits are hex", text: "10 99", expect: []byte{0x10, 0x99}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Parse(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, data)
		})
	}
}

func TestParseEquivalentForms(t *testing.T) {
	a, err := Parse("7E 14,17 00")
	require.NoError(t, err)
	b, err := Parse("0x7E,0x14,0x17,0x00")
	require.NoError(t, err)

	assert.Equal(t, []byte{0x7E, 0x14, 0x17, 0x00}, a)
	assert.Equal(t, a, b)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		text  string
		token string
		err   error
	}{
		{text: "", err: ErrNoTokens},
		{text: " , ; ", err: ErrNoTokens},
		{text: "0x100", token: "0x100", err: ErrOutOfRange},
		{text: "1FF", token: "1FF", err: ErrOutOfRange},
		{text: "0xFFFFFFFFFFFFFFFFFF", token: "0xFFFFFFFFFFFFFFFFFF", err: ErrOutOfRange},
		{text: "ZZ", token: "ZZ", err: ErrNotInteger},
		{text: "0x7E -1", token: "-1", err: ErrNotInteger},
		{text: "0x", token: "0x", err: ErrNotInteger},
		{text: "12 0xG1", token: "0xG1", err: ErrNotInteger},
		{text: "255", token: "255", err: ErrOutOfRange},
		{text: "0b101", token: "0b101", err: ErrOutOfRange},
		{text: "0o17", token: "0o17", err: ErrNotInteger},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			_, err := Parse(tc.text)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.text, perr.Text)
			assert.Equal(t, tc.token, perr.Token)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "", FormatCompact([]byte{}))
	assert.Equal(t, "7E, 14, 17, 00", Format([]byte{0x7E, 0x14, 0x17, 0x00}))
	assert.Equal(t, "7E 14 17 00", FormatCompact([]byte{0x7E, 0x14, 0x17, 0x00}))
	assert.Equal(t, "0A, FF", Format([]byte{0x0A, 0xFF}))
}

func TestFormatRoundTrip(t *testing.T) {
	for _, text := range []string{"0x7e 0x14 0x17 0x00", "1,2,3", "ff;0;10", "7E, 14, 17, 00"} {
		data, err := Parse(text)
		require.NoError(t, err)

		canonical := Format(data)
		again, err := Parse(canonical)
		require.NoError(t, err)
		assert.Equal(t, data, again)
		assert.Equal(t, canonical, Format(again))

		compact, err := Parse(FormatCompact(data))
		require.NoError(t, err)
		assert.Equal(t, data, compact)
	}
}
