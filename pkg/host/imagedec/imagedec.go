// Package imagedec decodes brand logos and QR codes into image handles.
//
// PNG, JPEG, GIF, WebP and BMP inputs are accepted. Images larger than the
// configured bound are downscaled, and every image is re-encoded as PNG so
// sinks only ever deal with one format.
package imagedec

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/host"
)

// DefaultMaxSide bounds the longest side of a decoded image in pixels.
const DefaultMaxSide = 1024

// MediaPNG is the media type of every decoded image.
const MediaPNG = "image/png"

// Image is a decoded, PNG-encoded image.
type Image struct {
	width, height int
	data          []byte
	img           image.Image
}

// Size implements host.ImageHandle.
func (i *Image) Size() (int, int) { return i.width, i.height }

// MediaType implements host.ImageHandle.
func (i *Image) MediaType() string { return MediaPNG }

// Data implements host.ImageHandle.
func (i *Image) Data() []byte { return i.data }

// Image returns the decoded pixels.
func (i *Image) Image() image.Image { return i.img }

// Decoder implements host.ImageDecoder.
type Decoder struct {
	MaxSide int
}

// New returns a decoder bounded to DefaultMaxSide.
func New() *Decoder {
	return &Decoder{MaxSide: DefaultMaxSide}
}

var _ host.ImageDecoder = (*Decoder)(nil)

// DecodeImage implements host.ImageDecoder.
func (d *Decoder) DecodeImage(ctx context.Context, data []byte) (host.ImageHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeAsset, "empty image")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAsset, err, "decode image")
	}
	return d.FromImage(img, format)
}

// FromImage fits an already decoded image and encodes it.
func (d *Decoder) FromImage(img image.Image, format string) (*Image, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New(errors.ErrCodeAsset, "%s image has no pixels", format)
	}
	maxSide := d.MaxSide
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAsset, err, "encode image")
	}
	fb := img.Bounds()
	return &Image{width: fb.Dx(), height: fb.Dy(), data: buf.Bytes(), img: img}, nil
}
