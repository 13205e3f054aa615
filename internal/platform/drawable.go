package platform

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Drawable is an icon as handed out by the host, not necessarily a bitmap
type Drawable interface {
	// IntrinsicSize returns the natural size; non-positive values mean unknown
	IntrinsicSize() (width, height int)

	// Draw renders the drawable scaled into the bounds of dst
	Draw(dst draw.Image) error
}

// BitmapDrawable wraps an already decoded image
type BitmapDrawable struct {
	Image image.Image
}

func (d *BitmapDrawable) IntrinsicSize() (int, int) {
	b := d.Image.Bounds()
	return b.Dx(), b.Dy()
}

func (d *BitmapDrawable) Draw(dst draw.Image) error {
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), d.Image, d.Image.Bounds(), xdraw.Over, nil)
	return nil
}

// EncodedDrawable holds encoded image bytes (PNG, JPEG, GIF, WebP, BMP)
type EncodedDrawable struct {
	Data []byte
}

func (d *EncodedDrawable) IntrinsicSize() (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(d.Data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func (d *EncodedDrawable) Draw(dst draw.Image) error {
	img, _, err := image.Decode(bytes.NewReader(d.Data))
	if err != nil {
		return fmt.Errorf("decode icon: %w", err)
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return nil
}
