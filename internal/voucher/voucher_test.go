package voucher

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type recordingStore struct {
	key         string
	contentType string
	body        []byte
}

func (s *recordingStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	s.key, s.contentType, s.body = key, contentType, body
	return "https://cdn.example.com/" + key, nil
}

func TestNormalize_ShrinksToMaxDimension(t *testing.T) {
	out, err := Normalize(pngOf(t, 200, 100), 50, DefaultQuality)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestNormalize_KeepsSmallImages(t *testing.T) {
	out, err := Normalize(pngOf(t, 40, 60), 100, DefaultQuality)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestNormalize_RejectsNonImages(t *testing.T) {
	_, err := Normalize([]byte("%PDF-1.4"), 100, DefaultQuality)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestUploader_Upload(t *testing.T) {
	store := &recordingStore{}
	u := NewUploader(store)

	url, err := u.Upload(context.Background(), 4, bytes.NewReader(pngOf(t, 10, 10)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(store.key, "vouchers/4/"))
	assert.True(t, strings.HasSuffix(store.key, ".webp"))
	assert.Equal(t, "image/webp", store.contentType)
	assert.NotEmpty(t, store.body)
	assert.Equal(t, "https://cdn.example.com/"+store.key, url)
}

func TestUploader_TooLarge(t *testing.T) {
	u := NewUploader(&recordingStore{})

	_, err := u.Upload(context.Background(), 1, bytes.NewReader(make([]byte, MaxUploadBytes+1)))
	assert.ErrorIs(t, err, ErrTooLarge)
}
