package frame

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

type baseline int

const (
	baseAlphabetic baseline = iota
	baseMiddle
)

// textStyle is the complete paint state for one piece of text. It is passed by
// value so nothing configured for one line can leak into the next.
type textStyle struct {
	font     fontID
	size     float64 // pixels
	color    color.Color
	align    align
	baseline baseline
	tracking float64 // extra advance per glyph, in ems
}

// painter draws onto a single canvas.
type painter struct {
	dst   *image.RGBA
	faces *faceCache
}

func newPainter(dst *image.RGBA, fs *FontSet) *painter {
	return &painter{dst: dst, faces: newFaceCache(fs)}
}

func (p *painter) close() {
	p.faces.close()
}

// fill paints the whole canvas with c.
func (p *painter) fill(c color.Color) {
	draw.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// drawImage draws src unscaled with its top-left corner at (x, y).
func (p *painter) drawImage(src image.Image, x, y int) {
	b := src.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(p.dst, r, src, b.Min, draw.Over)
}

// measure returns the advance width of s in pixels.
func (p *painter) measure(s textStyle, text string) (float64, error) {
	if text == "" || s.size < 1 {
		return 0, nil
	}
	face, err := p.faces.face(s.font, s.size)
	if err != nil {
		return 0, err
	}
	w := fixedToFloat(font.MeasureString(face, text))
	return w + s.tracking*s.size*float64(utf8.RuneCountInString(text)), nil
}

// text draws text with x interpreted according to s.align and y according to s.baseline.
func (p *painter) text(s textStyle, x, y float64, text string) error {
	if text == "" || s.size < 1 {
		return nil
	}
	face, err := p.faces.face(s.font, s.size)
	if err != nil {
		return err
	}

	w, err := p.measure(s, text)
	if err != nil {
		return err
	}
	switch s.align {
	case alignCenter:
		x -= w / 2
	case alignRight:
		x -= w
	}

	if s.baseline == baseMiddle {
		m := face.Metrics()
		y += fixedToFloat(m.Ascent-m.Descent) / 2
	}

	d := &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(s.color),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	if s.tracking == 0 {
		d.DrawString(text)
		return nil
	}

	step := floatToFixed(s.tracking * s.size)
	for _, r := range text {
		d.DrawString(string(r))
		d.Dot.X += step
	}
	return nil
}

// rect fills the rectangle with top-left (x, y) and size w×h.
func (p *painter) rect(x, y, w, h float64, c color.Color) {
	r := image.Rect(round(x), round(y), round(x+w), round(y+h))
	draw.Draw(p.dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// circleK places cubic Bézier control points for a quarter circle.
const circleK = 0.5522847498

// circle fills an anti-aliased disc.
func (p *painter) circle(cx, cy, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	box := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	).Intersect(p.dst.Bounds())
	if box.Empty() {
		return
	}

	// Rasterizer coordinates are relative to box.Min.
	ox, oy := cx-float64(box.Min.X), cy-float64(box.Min.Y)
	pt := func(x, y float64) (float32, float32) {
		return float32(ox + x), float32(oy + y)
	}
	k := circleK * r

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(pt(r, 0))
	cubeTo(z, pt, r, k, k, r, 0, r)
	cubeTo(z, pt, -k, r, -r, k, -r, 0)
	cubeTo(z, pt, -r, -k, -k, -r, 0, -r)
	cubeTo(z, pt, k, -r, r, -k, r, 0)
	z.ClosePath()
	z.Draw(p.dst, box, image.NewUniform(c), image.Point{})
}

func cubeTo(z *vector.Rasterizer, pt func(x, y float64) (float32, float32), x1, y1, x2, y2, x3, y3 float64) {
	ax, ay := pt(x1, y1)
	bx, by := pt(x2, y2)
	cx, cy := pt(x3, y3)
	z.CubeTo(ax, ay, bx, by, cx, cy)
}

// verticalGradient darkens rows [top, bottom) from transparent to maxAlpha black.
func (p *painter) verticalGradient(top, bottom float64, maxAlpha float64) {
	h := bottom - top
	if h <= 0 {
		return
	}
	w := p.dst.Bounds().Dx()
	for y := int(math.Floor(top)); y < int(math.Ceil(bottom)); y++ {
		t := (float64(y) + 0.5 - top) / h
		t = math.Max(0, math.Min(1, t))
		a := uint8(math.Round(t * maxAlpha * 255))
		if a == 0 {
			continue
		}
		draw.Draw(p.dst, image.Rect(0, y, w, y+1), image.NewUniform(color.NRGBA{A: a}), image.Point{}, draw.Over)
	}
}

// fitted returns the size of img scaled to fit a size×size square without distortion.
func fitted(img image.Image, size float64) (w, h float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0, 0
	}
	aspect := float64(b.Dx()) / float64(b.Dy())
	w, h = size, size
	if aspect > 1 {
		h = size / aspect
	} else {
		w = size * aspect
	}
	return w, h
}

// imageFit draws img centred on (cx, cy), scaled to fit a size×size square.
func (p *painter) imageFit(img image.Image, cx, cy, size float64) {
	w, h := fitted(img, size)
	iw, ih := round(w), round(h)
	if iw < 1 || ih < 1 {
		return
	}
	scaled := transform.Resize(img, iw, ih, transform.Lanczos)
	p.drawImage(scaled, round(cx-w/2), round(cy-h/2))
}

func round(v float64) int {
	return int(math.Round(v))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// parseHexColor converts "#rrggbb" or "#rrggbbaa" to a colour, white on error.
func parseHexColor(hex string) color.NRGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{255, 255, 255, 255}
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{255, 255, 255, 255}
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
