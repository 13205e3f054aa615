package appdetail

import (
	"fmt"
	"image"

	"Mansoor88-6/launcher-kit/internal/platform"
)

// MaxIconPixels bounds the bitmap allocated for a non-bitmap drawable
const MaxIconPixels = 4096 * 4096

// Rasterize returns the drawable as a bitmap. Bitmap drawables are passed
// through; anything else is drawn into an NRGBA canvas of its intrinsic
// size (at least 1x1). Oversized drawables and drawables panicking while
// drawing yield a KindResourceExhausted error.
func Rasterize(d platform.Drawable) (img image.Image, err error) {
	const op = "rasterize icon"

	if d == nil {
		return nil, platform.NotFound(op, "drawable")
	}
	if bd, ok := d.(*platform.BitmapDrawable); ok && bd.Image != nil {
		return bd.Image, nil
	}

	w, h := d.IntrinsicSize()
	w, h = max(w, 1), max(h, 1)
	if int64(w)*int64(h) > MaxIconPixels {
		return nil, platform.Errorf(platform.KindResourceExhausted, op, "drawable too large: %dx%d", w, h)
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = platform.Errorf(platform.KindResourceExhausted, op, "draw panicked: %v", r)
		}
	}()

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	if err := d.Draw(canvas); err != nil {
		return nil, platform.Wrap(platform.KindUnknown, op, fmt.Errorf("draw: %w", err))
	}
	return canvas, nil
}
