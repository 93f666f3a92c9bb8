package dataset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is the decoded sidebar picture plus a PNG thumbnail ready to serve.
type Image struct {
	Path      string
	Format    string
	Width     int
	Height    int
	Decoded   image.Image
	Thumbnail []byte
}

// DecodeImage decodes any registered raster format and scales a copy down to
// maxWidth pixels wide. Images already narrower keep their size.
func DecodeImage(r io.Reader, maxWidth int) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	thumb, err := thumbnail(src, maxWidth)
	if err != nil {
		return nil, err
	}

	return &Image{
		Format:    format,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Decoded:   src,
		Thumbnail: thumb,
	}, nil
}

func thumbnail(src image.Image, maxWidth int) ([]byte, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
