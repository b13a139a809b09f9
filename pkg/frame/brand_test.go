package frame

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStyle(t *testing.T) {
	for _, s := range Styles() {
		got, err := ParseStyle(" " + string(s) + " ")
		if err != nil || got != s {
			t.Errorf("ParseStyle(%q) = %q, %v", s, got, err)
		}
	}
	if got, err := ParseStyle("CINEMATIC"); err != nil || got != Cinematic {
		t.Errorf("ParseStyle(CINEMATIC) = %q, %v", got, err)
	}
	if _, err := ParseStyle("polaroid"); err == nil {
		t.Error("ParseStyle(polaroid) succeeded, want error")
	}
}

func TestParseBrand(t *testing.T) {
	tests := []struct {
		in      string
		want    BrandID
		wantErr bool
	}{
		{"", BrandNone, false},
		{"none", BrandNone, false},
		{"Custom", BrandCustom, false},
		{"LEICA", "leica", false},
		{"oneplus", "oneplus", false},
		{"kodak", "", true},
	}
	for _, tc := range tests {
		got, err := ParseBrand(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseBrand(%q) = %q, %v; want %q (err %v)", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestBrandsCatalog(t *testing.T) {
	bs := Brands()
	if len(bs) != 23 {
		t.Fatalf("Brands() has %d entries, want 23", len(bs))
	}
	seen := map[BrandID]bool{}
	for _, b := range bs {
		if seen[b.ID] {
			t.Errorf("duplicate brand %q", b.ID)
		}
		seen[b.ID] = true
	}

	// Callers cannot modify the catalog through the returned slice.
	bs[2].Name = "changed"
	if Brands()[2].Name == "changed" {
		t.Error("Brands() exposes the catalog")
	}
}

func TestDrawEveryBrand(t *testing.T) {
	fs, err := NewFontSet("")
	if err != nil {
		t.Fatalf("NewFontSet: %v", err)
	}

	for _, b := range Brands() {
		if b.ID == BrandNone || b.ID == BrandCustom {
			continue
		}
		dst := image.NewRGBA(image.Rect(0, 0, 200, 60))
		p := newPainter(dst, fs)
		p.fill(color.White)
		blank := append([]byte(nil), dst.Pix...)

		w, err := markWidth(p, b.ID, 40, nil)
		if err != nil || w <= 0 {
			t.Errorf("markWidth(%s) = %v, %v", b.ID, w, err)
		}
		if err := drawBrand(p, b.ID, 100, 30, 40, nil); err != nil {
			t.Errorf("drawBrand(%s): %v", b.ID, err)
		}
		if cmp.Equal(blank, dst.Pix) {
			t.Errorf("drawBrand(%s) drew nothing", b.ID)
		}
		p.close()
	}
}

func TestDrawBrandNoneAndMissingCustom(t *testing.T) {
	fs, err := NewFontSet("")
	if err != nil {
		t.Fatalf("NewFontSet: %v", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	p := newPainter(dst, fs)
	defer p.close()

	for _, id := range []BrandID{BrandNone, BrandCustom} {
		if err := drawBrand(p, id, 25, 25, 40, nil); err != nil {
			t.Errorf("drawBrand(%s): %v", id, err)
		}
	}
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatal("canvas modified")
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#E21B24", color.NRGBA{0xE2, 0x1B, 0x24, 0xFF}},
		{"FFCC00", color.NRGBA{0xFF, 0xCC, 0x00, 0xFF}},
		{"#FFFFFFB3", color.NRGBA{0xFF, 0xFF, 0xFF, 0xB3}},
		{"#abc", color.NRGBA{255, 255, 255, 255}},
		{"#zzzzzz", color.NRGBA{255, 255, 255, 255}},
	}
	for _, tc := range tests {
		if got := parseHexColor(tc.in); got != tc.want {
			t.Errorf("parseHexColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewFontSetFallback(t *testing.T) {
	fs, err := NewFontSet("/nonexistent/font.ttf")
	if err != nil {
		t.Fatalf("NewFontSet: %v", err)
	}
	if len(fs.fonts) != len(embeddedFonts) {
		t.Errorf("got %d fonts, want %d", len(fs.fonts), len(embeddedFonts))
	}
}
