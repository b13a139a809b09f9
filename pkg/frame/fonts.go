package frame

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"k8s.io/klog/v2"
)

type fontID int

const (
	sans fontID = iota
	sansMedium
	sansBold
	italic
	mono
	monoBold
)

var embeddedFonts = map[fontID][]byte{
	sans:       goregular.TTF,
	sansMedium: gomedium.TTF,
	sansBold:   gobold.TTF,
	italic:     goitalic.TTF,
	mono:       gomono.TTF,
	monoBold:   gomonobold.TTF,
}

// FontSet holds the parsed fonts used by every style.
type FontSet struct {
	fonts map[fontID]*opentype.Font
}

// NewFontSet parses the embedded Go fonts. If customPath names a readable TTF/OTF
// file it replaces the proportional faces; otherwise the embedded fonts are used.
func NewFontSet(customPath string) (*FontSet, error) {
	fs := &FontSet{fonts: map[fontID]*opentype.Font{}}
	for id, data := range embeddedFonts {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse embedded font %d: %w", id, err)
		}
		fs.fonts[id] = f
	}

	if customPath == "" {
		return fs, nil
	}

	data, err := os.ReadFile(customPath)
	if err != nil {
		klog.Warningf("could not load custom font %q, using default: %v", customPath, err)
		return fs, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		klog.Warningf("could not parse custom font %q, using default: %v", customPath, err)
		return fs, nil
	}
	for _, id := range []fontID{sans, sansMedium, sansBold} {
		fs.fonts[id] = f
	}
	return fs, nil
}

type faceKey struct {
	id   fontID
	size float64
}

// faceCache creates faces on demand for a single render and closes them afterwards.
type faceCache struct {
	fs    *FontSet
	faces map[faceKey]font.Face
}

func newFaceCache(fs *FontSet) *faceCache {
	return &faceCache{fs: fs, faces: map[faceKey]font.Face{}}
}

func (c *faceCache) face(id fontID, size float64) (font.Face, error) {
	k := faceKey{id: id, size: size}
	if f, ok := c.faces[k]; ok {
		return f, nil
	}

	f, err := opentype.NewFace(c.fs.fonts[id], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	c.faces[k] = f
	return f, nil
}

func (c *faceCache) close() {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
}
