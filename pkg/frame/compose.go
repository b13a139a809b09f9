// Package frame composes a photo and its metadata into a framed JPEG.
package frame

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"k8s.io/klog/v2"

	"github.com/tstromberg/exifframe/pkg/exifmeta"
)

// Quality is the fixed JPEG quality of every composed frame.
const Quality = 95

// maxPixels bounds the canvas allocation (256 megapixels).
const maxPixels = 1 << 28

// Options controls logo rendering.
type Options struct {
	Brand BrandID
	// CustomLogo is owned by the caller and only read during the render.
	CustomLogo image.Image
	ShowLogo   bool
}

// Compositor renders frames. It holds no per-render state and is safe for
// concurrent use.
type Compositor struct {
	fonts *FontSet
}

// New returns a Compositor using the embedded fonts, or the TTF/OTF at fontPath
// for proportional text when it can be loaded.
func New(fontPath string) (*Compositor, error) {
	fs, err := NewFontSet(fontPath)
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	return &Compositor{fonts: fs}, nil
}

// Render draws the frame and returns the raw canvas.
func (c *Compositor) Render(src image.Image, rec exifmeta.Record, s Style, o Options) (*image.RGBA, error) {
	l, ok := layouts[s]
	if !ok {
		return nil, fmt.Errorf("unknown style %q", s)
	}
	if src == nil {
		return nil, decodeError("render", fmt.Errorf("no source image"))
	}

	b := src.Bounds()
	g := Layout(b.Dx(), b.Dy(), s)
	if g.ImageWidth <= 0 || g.ImageHeight <= 0 || g.CanvasWidth*g.CanvasHeight > maxPixels {
		return nil, &Error{Kind: SurfaceAcquisition, Op: "render", Err: fmt.Errorf("canvas %dx%d", g.CanvasWidth, g.CanvasHeight)}
	}
	klog.V(1).Infof("rendering %s frame: image %dx%d, canvas %dx%d", s, g.ImageWidth, g.ImageHeight, g.CanvasWidth, g.CanvasHeight)

	dst := image.NewRGBA(image.Rect(0, 0, g.CanvasWidth, g.CanvasHeight))
	p := newPainter(dst, c.fonts)
	defer p.close()

	if l.background {
		p.fill(color.White)
	}
	p.drawImage(src, g.ImageX, g.ImageY)

	if l.gradient > 0 {
		bottom := float64(g.ImageY + g.ImageHeight)
		p.verticalGradient(bottom-l.gradient*float64(g.ImageHeight), bottom, 0.7)
	}

	r := l.region(g)
	shift, err := drawSlot(p, l, r, o)
	if err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}

	for _, ln := range l.lines {
		text := ln.text(rec)
		if text == "" {
			continue
		}
		ts := textStyle{
			font:     ln.font,
			size:     float64(round(ln.size * r.unit)),
			color:    parseHexColor(ln.color),
			align:    ln.at.align(),
			tracking: ln.tracking,
		}
		if err := p.text(ts, r.x(ln.at, shift), r.y(ln.y), text); err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
	}
	return dst, nil
}

// drawSlot draws the logo, or the style's accent when no logo is rendered, and
// returns how far left-anchored text must move to clear it.
func drawSlot(p *painter, l layout, r region, o Options) (float64, error) {
	size := l.logo.size * r.unit
	cy := r.y(l.logo.y)

	if o.ShowLogo && o.Brand != "" && o.Brand != BrandNone {
		w, err := markWidth(p, o.Brand, size, o.CustomLogo)
		if err != nil {
			return 0, err
		}
		cx := r.x(l.logo.at, 0)
		if l.logo.at == atLeft {
			cx += w / 2
		}
		if err := drawBrand(p, o.Brand, cx, cy, size, o.CustomLogo); err != nil {
			return 0, err
		}
		return leftShift(l, r, w), nil
	}

	a := l.accent
	as := a.size * r.unit
	cx := r.x(l.logo.at, 0)
	if l.logo.at == atLeft {
		cx += as / 2
	}
	switch a.kind {
	case dotAccent:
		p.circle(cx, cy, float64(round(as/2)), parseHexColor(a.color))
	case squareAccent:
		side := float64(round(as))
		p.rect(cx-side/2, cy-side/2, side, side, parseHexColor(a.color))
	default:
		return 0, nil
	}
	return leftShift(l, r, as), nil
}

func leftShift(l layout, r region, w float64) float64 {
	if l.logo.at != atLeft || w == 0 {
		return 0
	}
	return w + r.inset
}

// Compose renders the frame and encodes it as JPEG at Quality.
func (c *Compositor) Compose(src image.Image, rec exifmeta.Record, s Style, o Options) ([]byte, error) {
	img, err := c.Render(src, rec, s, o)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(Quality)(&buf, img); err != nil {
		return nil, &Error{Kind: Encoding, Op: "encode", Err: err}
	}
	if buf.Len() == 0 {
		return nil, &Error{Kind: Encoding, Op: "encode"}
	}
	return buf.Bytes(), nil
}

// ComposeBytes decodes raw, applies its EXIF orientation and composes it.
func (c *Compositor) ComposeBytes(raw []byte, rec exifmeta.Record, s Style, o Options) ([]byte, error) {
	img, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return c.Compose(Orient(img, exifmeta.Orientation(raw)), rec, s, o)
}

// FramedName returns the download name for a frame of the photo at path.
func FramedName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_framed.jpg"
}
