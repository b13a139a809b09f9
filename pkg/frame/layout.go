package frame

import (
	"strings"

	"github.com/tstromberg/exifframe/pkg/exifmeta"
)

type anchor int

const (
	atLeft anchor = iota
	atCenter
	atRight
)

// line is one conditional piece of text. y and size are fractions of the
// style's unit, measured from the top of its text region.
type line struct {
	text     func(r exifmeta.Record) string
	at       anchor
	y        float64
	size     float64
	font     fontID
	color    string
	tracking float64
}

// slot is where the logo (or the style's accent) goes.
type slot struct {
	at   anchor
	y    float64
	size float64
}

type accentKind int

const (
	noAccent accentKind = iota
	dotAccent
	squareAccent
)

type accent struct {
	kind  accentKind
	size  float64
	color string
}

// layout is the per-style table consumed by Render.
type layout struct {
	background bool
	// overlay styles measure in image widths from the bottom edge of the image;
	// bar styles measure in bar heights from the top of the bar.
	overlay  bool
	inset    float64 // horizontal padding, in image widths
	gradient float64 // fraction of image height darkened at the bottom
	logo     slot
	accent   accent
	lines    []line
}

func upper(f func(r exifmeta.Record) string) func(exifmeta.Record) string {
	return func(r exifmeta.Record) string { return strings.ToUpper(f(r)) }
}

func prefixed(prefix string, f func(r exifmeta.Record) string) func(exifmeta.Record) string {
	return func(r exifmeta.Record) string {
		if v := f(r); v != "" {
			return prefix + " " + v
		}
		return ""
	}
}

var (
	makeText     = func(r exifmeta.Record) string { return r.Make }
	modelText    = func(r exifmeta.Record) string { return r.Model }
	lensText     = func(r exifmeta.Record) string { return r.Lens }
	settingsText = func(r exifmeta.Record) string { return r.Settings }
	photographer = func(r exifmeta.Record) string { return r.Photographer }
)

// dateLine pairs the date with the location when one is set.
func dateLine(r exifmeta.Record) string {
	switch {
	case r.Location == "":
		return r.Date
	case r.Date == "":
		return r.Location
	}
	return r.Date + " · " + r.Location
}

func modelSettings(r exifmeta.Record) string {
	return r.Model + "  |  " + r.Settings
}

var layouts = map[Style]layout{
	Classic: {
		background: true,
		inset:      0.03,
		logo:       slot{at: atLeft, y: 0.5, size: 0.4},
		accent:     accent{kind: dotAccent, size: 0.4, color: "#E21B24"},
		lines: []line{
			{text: modelText, at: atLeft, y: 0.45, size: 0.18, font: sansBold, color: "#333333"},
			{text: settingsText, at: atLeft, y: 0.72, size: 0.14, font: sans, color: "#888888"},
			{text: lensText, at: atRight, y: 0.45, size: 0.14, font: sansMedium, color: "#333333"},
			{text: dateLine, at: atRight, y: 0.72, size: 0.14, font: sans, color: "#888888"},
			{text: prefixed("©", photographer), at: atLeft, y: 0.92, size: 0.10, font: sans, color: "#AAAAAA"},
		},
	},
	Elegant: {
		background: true,
		inset:      0.03,
		logo:       slot{at: atLeft, y: 0.5, size: 0.4},
		lines: []line{
			{text: upper(makeText), at: atCenter, y: 0.42, size: 0.28, font: italic, color: "#333333", tracking: 0.2},
			{text: modelSettings, at: atCenter, y: 0.65, size: 0.14, font: sans, color: "#888888"},
			{text: dateLine, at: atCenter, y: 0.85, size: 0.119, font: sans, color: "#AAAAAA"},
			{text: prefixed("by", photographer), at: atRight, y: 0.85, size: 0.119, font: italic, color: "#AAAAAA"},
		},
	},
	Cinematic: {
		overlay:  true,
		inset:    0.03,
		gradient: 0.25,
		logo:     slot{at: atCenter, y: -0.05, size: 0.05},
		lines: []line{
			{text: prefixed("©", photographer), at: atLeft, y: -0.105, size: 0.018, font: sans, color: "#FFFFFFB3"},
			{text: dateLine, at: atLeft, y: -0.0675, size: 0.018, font: sans, color: "#FFFFFFB3"},
			{text: makeText, at: atLeft, y: -0.03, size: 0.025, font: sansMedium, color: "#FFFFFF"},
			{text: settingsText, at: atRight, y: -0.0675, size: 0.025, font: mono, color: "#FFFFFF"},
			{text: lensText, at: atRight, y: -0.03, size: 0.018, font: sans, color: "#FFFFFFB3"},
		},
	},
	Badge: {
		background: true,
		inset:      0.03,
		logo:       slot{at: atCenter, y: 0.29, size: 0.28},
		accent:     accent{kind: squareAccent, size: 0.28, color: "#FFCC00"},
		lines: []line{
			{text: settingsText, at: atCenter, y: 0.65, size: 0.2, font: monoBold, color: "#333333"},
			{text: dateLine, at: atCenter, y: 0.85, size: 0.12, font: sans, color: "#888888"},
			{text: prefixed("©", photographer), at: atRight, y: 0.85, size: 0.12, font: sans, color: "#888888"},
		},
	},
	// The credit has its own baseline below the date line.
	Insta: {
		background: true,
		inset:      0.03,
		logo:       slot{at: atLeft, y: 0.5, size: 0.5},
		lines: []line{
			{text: upper(makeText), at: atCenter, y: 0.32, size: 0.25, font: sansBold, color: "#333333", tracking: 0.15},
			{text: settingsText, at: atCenter, y: 0.56, size: 0.2, font: mono, color: "#666666"},
			{text: dateLine, at: atCenter, y: 0.76, size: 0.15, font: sans, color: "#999999"},
			{text: prefixed("by", photographer), at: atRight, y: 0.97, size: 0.13, font: italic, color: "#999999"},
		},
	},
}

// region is the resolved coordinate frame for a layout on a given geometry.
type region struct {
	x0, x1 float64 // horizontal extent of the image
	top    float64 // y origin for ratios
	unit   float64
	inset  float64
}

func (l layout) region(g Geometry) region {
	r := region{
		x0:    float64(g.ImageX),
		x1:    float64(g.ImageX + g.ImageWidth),
		inset: l.inset * float64(g.ImageWidth),
	}
	r.top = float64(g.ImageY + g.ImageHeight)
	r.unit = float64(g.BarHeight)
	if l.overlay {
		r.unit = float64(g.ImageWidth)
	}
	return r
}

func (r region) y(ratio float64) float64 {
	return r.top + ratio*r.unit
}

// x returns the x coordinate for a at the given extra left offset.
func (r region) x(a anchor, shift float64) float64 {
	switch a {
	case atCenter:
		return (r.x0 + r.x1) / 2
	case atRight:
		return r.x1 - r.inset
	}
	return r.x0 + r.inset + shift
}

func (a anchor) align() align {
	switch a {
	case atCenter:
		return alignCenter
	case atRight:
		return alignRight
	}
	return alignLeft
}
