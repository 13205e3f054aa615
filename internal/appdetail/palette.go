package appdetail

import (
	"container/heap"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// MaxPaletteColors caps the number of swatches a palette may hold
	MaxPaletteColors = 100

	// paletteArea is the pixel area images are scaled down to before quantizing
	paletteArea = 112 * 112

	// pixels with less alpha are not counted
	minAlpha = 0x80
)

// Swatch is one color of a generated palette
type Swatch struct {
	R, G, B    uint8
	Population int
}

// Hex formats the swatch as #RRGGBB
func (s Swatch) Hex() string {
	return fmt.Sprintf("#%06X", uint32(s.R)<<16|uint32(s.G)<<8|uint32(s.B))
}

// Palette extracts up to maxColors representative colors from img using
// median cut over a 5-bit-per-channel histogram. Near black, near white and
// skin-tone-like colors are excluded.
func Palette(img image.Image, maxColors int) []Swatch {
	if maxColors <= 0 {
		maxColors = MaxPaletteColors
	}

	hist := histogram(scaleDown(img))
	colors := make([]uint16, 0, len(hist))
	for c := range hist {
		if !ignored(expand(c)) {
			colors = append(colors, c)
		}
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })

	if len(colors) <= maxColors {
		out := make([]Swatch, 0, len(colors))
		for _, c := range colors {
			r, g, b := expand(c)
			out = append(out, Swatch{R: r, G: g, B: b, Population: hist[c]})
		}
		return out
	}

	return medianCut(colors, hist, maxColors)
}

// DominantSwatch returns the most populous swatch
func DominantSwatch(swatches []Swatch) (Swatch, bool) {
	var best Swatch
	found := false
	for _, s := range swatches {
		if !found || s.Population > best.Population {
			best = s
			found = true
		}
	}
	return best, found
}

// AccentColor returns the dominant color of img as #RRGGBB, or fallback
// when the palette is empty
func AccentColor(img image.Image, fallback string) string {
	s, ok := DominantSwatch(Palette(img, MaxPaletteColors))
	if !ok {
		return fallback
	}
	return s.Hex()
}

func scaleDown(img image.Image) *image.NRGBA {
	b := img.Bounds()
	area := b.Dx() * b.Dy()
	if area <= paletteArea {
		return imaging.Clone(img)
	}
	ratio := math.Sqrt(float64(paletteArea) / float64(area))
	w := int(math.Ceil(float64(b.Dx()) * ratio))
	h := int(math.Ceil(float64(b.Dy()) * ratio))
	return imaging.Resize(img, w, h, imaging.NearestNeighbor)
}

func histogram(img *image.NRGBA) map[uint16]int {
	hist := make(map[uint16]int)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			px := row[x*4 : x*4+4]
			if px[3] < minAlpha {
				continue
			}
			hist[quantize(px[0], px[1], px[2])]++
		}
	}
	return hist
}

func quantize(r, g, b uint8) uint16 {
	return uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
}

func channels(c uint16) (r, g, b int) {
	return int(c>>10) & 0x1f, int(c>>5) & 0x1f, int(c) & 0x1f
}

// expand maps 5-bit channels onto the full 8-bit range
func expand(c uint16) (uint8, uint8, uint8) {
	r, g, b := channels(c)
	return widen(r), widen(g), widen(b)
}

func widen(v int) uint8 {
	return uint8(v<<3 | v>>2)
}

func ignored(r, g, b uint8) bool {
	h, s, l := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}.Hsl()

	switch {
	case l <= 0.05:
		return true
	case l >= 0.95:
		return true
	case h >= 10 && h <= 37 && s <= 0.82:
		return true
	}
	return false
}

// vbox is a box of the color cube covering colors[lower:upper+1]
type vbox struct {
	lower, upper int
	population   int
	min, max     [3]int
}

func newVbox(colors []uint16, hist map[uint16]int, lower, upper int) *vbox {
	v := &vbox{lower: lower, upper: upper}
	v.fit(colors, hist)
	return v
}

func (v *vbox) fit(colors []uint16, hist map[uint16]int) {
	v.min = [3]int{math.MaxInt, math.MaxInt, math.MaxInt}
	v.max = [3]int{math.MinInt, math.MinInt, math.MinInt}
	v.population = 0
	for _, c := range colors[v.lower : v.upper+1] {
		r, g, b := channels(c)
		for i, ch := range [3]int{r, g, b} {
			v.min[i] = min(v.min[i], ch)
			v.max[i] = max(v.max[i], ch)
		}
		v.population += hist[c]
	}
}

func (v *vbox) volume() int {
	return (v.max[0] - v.min[0] + 1) * (v.max[1] - v.min[1] + 1) * (v.max[2] - v.min[2] + 1)
}

func (v *vbox) canSplit() bool {
	return v.upper > v.lower
}

func (v *vbox) longestDimension() int {
	dim := 0
	for i := 1; i < 3; i++ {
		if v.max[i]-v.min[i] > v.max[dim]-v.min[dim] {
			dim = i
		}
	}
	return dim
}

// split cuts the box at the population median of its longest dimension and
// returns the upper half; v keeps the lower half
func (v *vbox) split(colors []uint16, hist map[uint16]int) *vbox {
	dim := v.longestDimension()
	part := colors[v.lower : v.upper+1]
	sort.SliceStable(part, func(i, j int) bool {
		a, b := component(part[i], dim), component(part[j], dim)
		if a != b {
			return a < b
		}
		return part[i] < part[j]
	})

	mid := v.population / 2
	at := v.upper - 1
	count := 0
	for i := v.lower; i <= v.upper; i++ {
		count += hist[colors[i]]
		if count >= mid {
			at = min(v.upper-1, i)
			break
		}
	}

	upper := newVbox(colors, hist, at+1, v.upper)
	v.upper = at
	v.fit(colors, hist)
	return upper
}

func (v *vbox) average(colors []uint16, hist map[uint16]int) Swatch {
	var sr, sg, sb, pop int
	for _, c := range colors[v.lower : v.upper+1] {
		n := hist[c]
		r, g, b := channels(c)
		sr += r * n
		sg += g * n
		sb += b * n
		pop += n
	}
	if pop == 0 {
		return Swatch{}
	}
	round := func(sum int) int { return int(math.Round(float64(sum) / float64(pop))) }
	return Swatch{
		R:          widen(round(sr)),
		G:          widen(round(sg)),
		B:          widen(round(sb)),
		Population: pop,
	}
}

func component(c uint16, dim int) int {
	r, g, b := channels(c)
	return [3]int{r, g, b}[dim]
}

type boxQueue []*vbox

func (q boxQueue) Len() int            { return len(q) }
func (q boxQueue) Less(i, j int) bool  { return q[i].volume() > q[j].volume() }
func (q boxQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *boxQueue) Push(x interface{}) { *q = append(*q, x.(*vbox)) }
func (q *boxQueue) Pop() interface{} {
	old := *q
	v := old[len(old)-1]
	*q = old[:len(old)-1]
	return v
}

func medianCut(colors []uint16, hist map[uint16]int, maxColors int) []Swatch {
	q := &boxQueue{newVbox(colors, hist, 0, len(colors)-1)}
	heap.Init(q)

	for q.Len() < maxColors {
		v := heap.Pop(q).(*vbox)
		if !v.canSplit() {
			heap.Push(q, v)
			break
		}
		upper := v.split(colors, hist)
		heap.Push(q, v)
		heap.Push(q, upper)
	}

	out := make([]Swatch, 0, q.Len())
	for _, v := range *q {
		s := v.average(colors, hist)
		if s.Population > 0 && !ignored(s.R, s.G, s.B) {
			out = append(out, s)
		}
	}
	return out
}
