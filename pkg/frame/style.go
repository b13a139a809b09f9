package frame

import (
	"fmt"
	"strings"
)

// Style selects a composition layout.
type Style string

const (
	Classic   Style = "classic"
	Elegant   Style = "elegant"
	Cinematic Style = "cinematic"
	Badge     Style = "badge"
	Insta     Style = "insta"
)

// Styles returns every supported style in display order.
func Styles() []Style {
	return []Style{Classic, Elegant, Cinematic, Badge, Insta}
}

// ParseStyle maps a case-insensitive name to a Style.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := layouts[s]; !ok {
		return "", fmt.Errorf("unknown style %q (want one of %s)", name, joinStyles())
	}
	return s, nil
}

func joinStyles() string {
	var names []string
	for _, s := range Styles() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// Geometry is the canvas arrangement for one render.
type Geometry struct {
	ImageWidth   int
	ImageHeight  int
	CanvasWidth  int
	CanvasHeight int
	ImageX       int
	ImageY       int
	BarHeight    int
}

const (
	barRatio      = 0.12
	instaPadRatio = 0.04
	instaBand     = 0.10
)

// Layout computes the canvas geometry for a w×h source image.
func Layout(w, h int, s Style) Geometry {
	g := Geometry{
		ImageWidth:   w,
		ImageHeight:  h,
		CanvasWidth:  w,
		CanvasHeight: h,
	}

	switch s {
	case Cinematic:
	case Insta:
		pad := round(float64(w) * instaPadRatio)
		g.BarHeight = round(float64(h) * instaBand)
		g.CanvasWidth = w + 2*pad
		g.CanvasHeight = h + 2*pad + g.BarHeight
		g.ImageX, g.ImageY = pad, pad
	default:
		g.BarHeight = round(float64(h) * barRatio)
		g.CanvasHeight = h + g.BarHeight
	}
	return g
}
