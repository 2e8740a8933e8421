package hdlc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedAll(d *Decoder, in []byte) [][]byte {
	var bodies [][]byte
	for _, b := range in {
		if body, ok := d.Feed(b); ok {
			bodies = append(bodies, body)
		}
	}
	return bodies
}

func TestDecoder(t *testing.T) {
	testCases := []struct {
		name      string
		in        []byte
		expect    [][]byte
		discarded int
		dropped   int
	}{
		{
			name:   "single frame",
			in:     []byte{0x7E, 0x14, 0x17, 0x00, 0x7E},
			expect: [][]byte{{0x14, 0x17, 0x00}},
		},
		{
			name:   "escaped flag and escape",
			in:     []byte{0x7E, 0x7D, 0x5E, 0x7D, 0x5D, 0x7E},
			expect: [][]byte{{0x7E, 0x7D}},
		},
		{
			name:   "back-to-back flags",
			in:     []byte{0x7E, 0x7E, 0x7E, 0x01, 0x7E, 0x7E, 0x02, 0x7E},
			expect: [][]byte{{0x01}, {0x02}},
		},
		{
			name:      "noise before and between frames",
			in:        []byte{0x01, 0x02, 0x7E, 0x03, 0x7E, 0x04, 0x7E, 0x05, 0x7E},
			expect:    [][]byte{{0x03}, {0x05}},
			discarded: 3,
		},
		{
			name:    "abort sequence",
			in:      []byte{0x7E, 0x01, 0x7D, 0x7E, 0x02, 0x7E},
			expect:  [][]byte{{0x02}},
			dropped: 1,
		},
		{
			name:   "partial frame",
			in:     []byte{0x7E, 0x01, 0x02},
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Decoder
			assert.Equal(t, tc.expect, feedAll(&d, tc.in))
			assert.Equal(t, tc.discarded, d.Discarded)
			assert.Equal(t, tc.dropped, d.Dropped)
		})
	}
}

func TestDecoderInFrame(t *testing.T) {
	var d Decoder
	assert.False(t, d.InFrame())

	d.Feed(Flag)
	assert.False(t, d.InFrame(), "an opening flag alone is idle line")

	d.Feed(0x01)
	assert.True(t, d.InFrame())

	d.Reset()
	assert.False(t, d.InFrame())
	d.Feed(0x02)
	assert.Equal(t, 1, d.Discarded)
}

func TestDecoderOversize(t *testing.T) {
	var d Decoder

	in := append([]byte{Flag}, bytes.Repeat([]byte{0x01}, MaxFrameLen+1)...)
	in = append(in, Flag, 0x09, Flag)

	bodies := feedAll(&d, in)
	assert.Equal(t, 1, d.Dropped)
	assert.Equal(t, [][]byte{{0x09}}, bodies)
}

func TestDecoderEncodeRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0x7E, 0x7D, 0x20, 0x5E, 0xFF}

	var d Decoder
	bodies := feedAll(&d, Encode(payload, CRCAbsent))
	assert.Equal(t, [][]byte{payload}, bodies)
}

func TestDecoderSharedFlags(t *testing.T) {
	in := []byte{0x7E, 0x01, 0x7E, 0x02, 0x7E, 0x7E, 0x03, 0x7E}

	var d Decoder
	assert.Equal(t, [][]byte{{0x01}, {0x03}}, feedAll(&d, in))
	assert.Equal(t, 1, d.Discarded, "0x02 is hunt noise")

	d = Decoder{SharedFlags: true}
	assert.Equal(t, [][]byte{{0x01}, {0x02}, {0x03}}, feedAll(&d, in))
	assert.Zero(t, d.Discarded)
}
