package appdetail

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestAccentColor(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want string
	}{
		{"red", solid(8, 8, color.NRGBA{R: 255, A: 255}), "#FF0000"},
		{"blue", solid(8, 8, color.NRGBA{B: 255, A: 255}), "#0000FF"},
		{"black is ignored", solid(8, 8, color.NRGBA{A: 255}), "#000000"},
		{"white is ignored", solid(8, 8, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), "#000000"},
		{"skin tone is ignored", solid(8, 8, color.NRGBA{R: 230, G: 170, B: 120, A: 255}), "#000000"},
		{"transparent is ignored", solid(8, 8, color.NRGBA{R: 255}), "#000000"},
		{"large image is scaled down", solid(600, 400, color.NRGBA{G: 255, A: 255}), "#00FF00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccentColor(tt.img, "#000000"))
		})
	}
}

func TestAccentColor_MostPopulousWins(t *testing.T) {
	img := solid(10, 10, color.NRGBA{B: 255, A: 255})
	for y := 0; y < 4; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
		}
	}

	assert.Equal(t, "#0000FF", AccentColor(img, "#000000"))
}

func TestPalette_CapsColorCount(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 2), G: uint8(y * 2), B: 128, A: 255})
		}
	}

	swatches := Palette(img, 16)
	require.NotEmpty(t, swatches)
	assert.LessOrEqual(t, len(swatches), 16)

	total := 0
	for _, s := range swatches {
		total += s.Population
	}
	assert.Positive(t, total)
}

func TestDominantSwatch_Empty(t *testing.T) {
	_, ok := DominantSwatch(nil)
	assert.False(t, ok)
}

func TestSwatchHex(t *testing.T) {
	assert.Equal(t, "#0A0B0C", Swatch{R: 10, G: 11, B: 12}.Hex())
}
