package frame

import (
	"fmt"
	"image"
	"math"
	"strings"

	"k8s.io/klog/v2"
)

// BrandID identifies a logo: none, custom, or a built-in manufacturer mark.
type BrandID string

const (
	BrandNone   BrandID = "none"
	BrandCustom BrandID = "custom"
)

type shapeKind int

const (
	shapeText shapeKind = iota
	shapeCircle
	shapeRect
)

// shape is one primitive of a brand mark. Dimensions are fractions of the
// requested logo size and positions are relative to the logo centre.
type shape struct {
	kind     shapeKind
	w, h     float64 // rect size; w is the radius for circles
	dy       float64
	text     string
	font     fontID
	size     float64
	tracking float64
	color    string
}

// Brand is a catalog entry.
type Brand struct {
	ID    BrandID
	Name  string
	Color string

	mark []shape
}

var catalog = []Brand{
	{ID: BrandNone, Name: "None"},
	{ID: BrandCustom, Name: "Custom"},
	{ID: "leica", Name: "Leica", Color: "#E21B24", mark: []shape{
		{kind: shapeCircle, w: 0.45, color: "#E21B24"},
		{kind: shapeText, text: "Leica", font: italic, size: 0.35, dy: 0.05, color: "#FFFFFF"},
	}},
	{ID: "hasselblad", Name: "Hasselblad", Color: "#000000", mark: []shape{
		{kind: shapeText, text: "HASSELBLAD", font: sans, size: 0.5, tracking: 0.1, color: "#333333"},
	}},
	{ID: "sony", Name: "Sony", Color: "#000000", mark: []shape{
		{kind: shapeText, text: "SONY", font: sansBold, size: 0.7, color: "#000000"},
	}},
	{ID: "canon", Name: "Canon", Color: "#BC0024", mark: []shape{
		{kind: shapeText, text: "Canon", font: sans, size: 0.7, color: "#BC0024"},
	}},
	{ID: "nikon", Name: "Nikon", Color: "#FFCC00", mark: []shape{
		{kind: shapeRect, w: 2, h: 0.6, color: "#FFCC00"},
		{kind: shapeText, text: "Nikon", font: sansBold, size: 0.4, dy: 0.02, color: "#000000"},
	}},
	{ID: "fujifilm", Name: "Fujifilm", Color: "#ED1A3A", mark: []shape{
		{kind: shapeText, text: "FUJIFILM", font: sansBold, size: 0.5, color: "#ED1A3A"},
	}},
	{ID: "panasonic", Name: "Panasonic", Color: "#0F58A8", mark: []shape{
		{kind: shapeText, text: "LUMIX", font: sansBold, size: 0.5, color: "#0F58A8"},
	}},
	{ID: "olympus", Name: "Olympus", Color: "#08326B"},
	{ID: "pentax", Name: "Pentax", Color: "#000000"},
	{ID: "samsung", Name: "Samsung", Color: "#1428A0"},
	{ID: "apple", Name: "Apple", Color: "#000000", mark: []shape{
		{kind: shapeText, text: "iPhone", font: sans, size: 0.5, color: "#000000"},
	}},
	{ID: "google", Name: "Google Pixel", Color: "#4285F4"},
	{ID: "xiaomi", Name: "Xiaomi", Color: "#FF6700"},
	{ID: "huawei", Name: "Huawei", Color: "#CF0A2C"},
	{ID: "oppo", Name: "Oppo", Color: "#1BA784"},
	{ID: "vivo", Name: "Vivo", Color: "#415FFF"},
	{ID: "oneplus", Name: "OnePlus", Color: "#EB0028"},
	{ID: "dji", Name: "DJI", Color: "#000000"},
	{ID: "gopro", Name: "GoPro", Color: "#00A8E8"},
	{ID: "ricoh", Name: "Ricoh", Color: "#CC0000"},
	{ID: "sigma", Name: "Sigma", Color: "#000000"},
}

var brandIndex = func() map[BrandID]int {
	m := map[BrandID]int{}
	for i, b := range catalog {
		m[b.ID] = i
	}
	return m
}()

// Brands returns the catalog, including none and custom.
func Brands() []Brand {
	return append([]Brand(nil), catalog...)
}

// ParseBrand maps a case-insensitive id to a BrandID. The empty string is BrandNone.
func ParseBrand(name string) (BrandID, error) {
	id := BrandID(strings.ToLower(strings.TrimSpace(name)))
	if id == "" {
		return BrandNone, nil
	}
	if _, ok := brandIndex[id]; !ok {
		return "", fmt.Errorf("unknown brand %q", name)
	}
	return id, nil
}

// shapes returns the primitives used to draw the brand. Entries without a
// dedicated mark use their upper-cased name in the accent colour.
func (b Brand) shapes() []shape {
	if len(b.mark) > 0 {
		return b.mark
	}
	c := b.Color
	if c == "" {
		c = "#333333"
	}
	return []shape{{kind: shapeText, text: strings.ToUpper(b.Name), font: sansBold, size: 0.5, color: c}}
}

func lookupBrand(id BrandID) (Brand, bool) {
	i, ok := brandIndex[id]
	if !ok {
		return Brand{}, false
	}
	return catalog[i], true
}

func (s shape) style(size float64) textStyle {
	return textStyle{
		font:     s.font,
		size:     math.Round(s.size * size),
		color:    parseHexColor(s.color),
		align:    alignCenter,
		baseline: baseMiddle,
		tracking: s.tracking,
	}
}

// markWidth is the horizontal extent of the brand mark drawn at size.
func markWidth(p *painter, id BrandID, size float64, custom image.Image) (float64, error) {
	if id == BrandCustom {
		if custom == nil {
			return 0, nil
		}
		w, _ := fitted(custom, size)
		return w, nil
	}

	b, ok := lookupBrand(id)
	if !ok || id == BrandNone {
		return 0, nil
	}
	var width float64
	for _, s := range b.shapes() {
		var w float64
		switch s.kind {
		case shapeCircle:
			w = 2 * s.w * size
		case shapeRect:
			w = s.w * size
		case shapeText:
			var err error
			if w, err = p.measure(s.style(size), s.text); err != nil {
				return 0, err
			}
		}
		width = math.Max(width, w)
	}
	return width, nil
}

// drawBrand renders the mark for id centred on (cx, cy).
func drawBrand(p *painter, id BrandID, cx, cy, size float64, custom image.Image) error {
	if id == BrandNone {
		return nil
	}
	if id == BrandCustom {
		if custom == nil {
			klog.Warningf("custom brand selected without a logo image, skipping logo")
			return nil
		}
		p.imageFit(custom, cx, cy, size)
		return nil
	}

	b, ok := lookupBrand(id)
	if !ok {
		return fmt.Errorf("unknown brand %q", id)
	}
	for _, s := range b.shapes() {
		c := parseHexColor(s.color)
		switch s.kind {
		case shapeCircle:
			p.circle(cx, cy+s.dy*size, s.w*size, c)
		case shapeRect:
			w, h := s.w*size, s.h*size
			p.rect(cx-w/2, cy+s.dy*size-h/2, w, h, c)
		case shapeText:
			if err := p.text(s.style(size), cx, cy+s.dy*size, s.text); err != nil {
				return err
			}
		}
	}
	return nil
}
