package plot

import (
	"testing"
	"time"

	"github.com/mdouchement/bedlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	capture := bedlink.Capture{
		Port: "COM5",
		Records: []bedlink.Record{
			{Kind: bedlink.KindOpening},
			{Kind: bedlink.KindObserved, Index: 1, Offset: 1 * time.Second, Bytes: []byte{0x7E, 0x14, 0x7E}},
			{Kind: bedlink.KindObserved, Index: 2, Offset: 2*time.Second + 500*time.Microsecond, Bytes: []byte{0x7E, 0x14, 0x17, 0x7E}},
			{Kind: bedlink.KindSent, Request: 1, Offset: 3 * time.Second, Bytes: []byte{0x7E, 0x15, 0x7E}},
			{Kind: bedlink.KindResponse, Request: 1, Index: 1, Offset: 3 * time.Second, Bytes: []byte{0x7E, 0x06, 0x7E}},
		},
	}

	s, err := Extract(capture)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, s.Labels)
	assert.Equal(t, []float64{3, 4}, s.Lengths)
	assert.Equal(t, []float64{0, 1000.5}, s.Gaps)

	opts := s.Charts()
	require.Len(t, opts, 2)
	assert.Equal(t, "COM5: frame length", opts[0].Title.Text)
	assert.Equal(t, "COM5: inter-arrival", opts[1].Title.Text)
}

func TestExtractNotEnoughFrames(t *testing.T) {
	_, err := Extract(bedlink.Capture{Records: []bedlink.Record{{Kind: bedlink.KindNothingObserved}}})
	assert.ErrorIs(t, err, ErrNotEnoughFrames)
}
