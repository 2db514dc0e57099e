package voucher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	DefaultMaxDimension = 1600
	DefaultQuality      = 80
	MaxUploadBytes      = 8 << 20
)

var (
	ErrTooLarge    = errors.New("voucher image exceeds upload limit")
	ErrUnsupported = errors.New("voucher must be a jpeg, png or webp image")
)

// ObjectStore is where normalized vouchers end up.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type Uploader struct {
	store        ObjectStore
	maxDimension int
	quality      float32
	now          func() time.Time
}

func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{
		store:        store,
		maxDimension: DefaultMaxDimension,
		quality:      DefaultQuality,
		now:          time.Now,
	}
}

// Upload decodes the image, shrinks it to fit the max dimension, re-encodes
// it as webp and stores it. Returns the public URL.
func (u *Uploader) Upload(ctx context.Context, branchID uint, r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read voucher: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return "", ErrTooLarge
	}

	body, err := Normalize(raw, u.maxDimension, u.quality)
	if err != nil {
		return "", err
	}

	return u.store.Put(ctx, u.key(branchID), "image/webp", body)
}

func (u *Uploader) key(branchID uint) string {
	now := u.now().UTC()
	return fmt.Sprintf("vouchers/%d/%04d/%02d/%s.webp", branchID, now.Year(), now.Month(), uuid.NewString())
}

func Normalize(raw []byte, maxDimension int, quality float32) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupported
	}

	img := fit(src, maxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxDimension int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return src
	}

	if w >= h {
		h = h * maxDimension / w
		w = maxDimension
	} else {
		w = w * maxDimension / h
		h = maxDimension
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
