package qr

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	text := `{"userId":"stu-1","eventId":"ev-1","userName":"Sam","eventName":"Go Night","registrationId":"stu-1-ev-1"}`

	raw, err := NewEncoder().EncodePNG(text, 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())

	got, found, err := NewDecoder().Decode(img)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, text, got)
}

func TestDecode_NoCode(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	_, found, err := NewDecoder().Decode(blank)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = NewDecoder().Decode(image.NewGray(image.Rect(0, 0, 0, 0)))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEncode_Empty(t *testing.T) {
	_, err := NewEncoder().EncodePNG("", 128)
	require.Error(t, err)
}
