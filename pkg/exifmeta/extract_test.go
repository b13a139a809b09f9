package exifmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type tiffEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

var le = binary.LittleEndian

func asciiTag(tag uint16, s string) tiffEntry {
	b := append([]byte(s), 0)
	return tiffEntry{tag: tag, typ: 2, count: uint32(len(b)), data: b}
}

func shortTag(tag uint16, v uint16) tiffEntry {
	return tiffEntry{tag: tag, typ: 3, count: 1, data: le.AppendUint16(nil, v)}
}

func ratTag(tag uint16, num, den uint32) tiffEntry {
	b := le.AppendUint32(nil, num)
	return tiffEntry{tag: tag, typ: 5, count: 1, data: le.AppendUint32(b, den)}
}

func sratTag(tag uint16, num, den int32) tiffEntry {
	b := le.AppendUint32(nil, uint32(num))
	return tiffEntry{tag: tag, typ: 10, count: 1, data: le.AppendUint32(b, uint32(den))}
}

// buildTIFF lays out a little-endian TIFF block with IFD0 and an optional Exif sub-IFD.
func buildTIFF(ifd0, sub []tiffEntry) []byte {
	ifdSize := func(n int) int {
		if n == 0 {
			return 0
		}
		return 2 + 12*n + 4
	}

	ifd0 = append([]tiffEntry{}, ifd0...)
	if len(sub) > 0 {
		ifd0 = append(ifd0, tiffEntry{tag: 0x8769, typ: 4, count: 1, data: make([]byte, 4)})
	}
	subOff := 8 + ifdSize(len(ifd0))
	dataOff := subOff + ifdSize(len(sub))
	if len(sub) > 0 {
		le.PutUint32(ifd0[len(ifd0)-1].data, uint32(subOff))
	}

	var data []byte
	writeIFD := func(buf []byte, entries []tiffEntry) []byte {
		buf = le.AppendUint16(buf, uint16(len(entries)))
		for _, e := range entries {
			buf = le.AppendUint16(buf, e.tag)
			buf = le.AppendUint16(buf, e.typ)
			buf = le.AppendUint32(buf, e.count)
			if len(e.data) <= 4 {
				v := make([]byte, 4)
				copy(v, e.data)
				buf = append(buf, v...)
				continue
			}
			buf = le.AppendUint32(buf, uint32(dataOff+len(data)))
			data = append(data, e.data...)
			if len(data)%2 == 1 {
				data = append(data, 0)
			}
		}
		return le.AppendUint32(buf, 0)
	}

	buf := append([]byte("II*\x00"), 8, 0, 0, 0)
	buf = writeIFD(buf, ifd0)
	if len(sub) > 0 {
		buf = writeIFD(buf, sub)
	}
	return append(buf, data...)
}

func plainJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(3, 3, color.RGBA{255, 0, 0, 255})

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

// withExif inserts an APP1 Exif segment right after the JPEG SOI marker.
func withExif(t *testing.T, tiff []byte) []byte {
	t.Helper()
	j := plainJPEG(t)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	seg := []byte{0xFF, 0xE1}
	seg = binary.BigEndian.AppendUint16(seg, uint16(len(payload)+2))
	seg = append(seg, payload...)

	out := append([]byte{}, j[:2]...)
	out = append(out, seg...)
	return append(out, j[2:]...)
}

func newTestExtractor() *Extractor {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestExtractJPEG(t *testing.T) {
	raw := withExif(t, buildTIFF(
		[]tiffEntry{
			asciiTag(0x010F, "SONY"),
			asciiTag(0x0110, "ILCE-7M4"),
			asciiTag(0x013B, "Ana Lima"),
		},
		[]tiffEntry{
			ratTag(0x829A, 1, 250),
			ratTag(0x829D, 14, 10),
			shortTag(0x8827, 160),
			asciiTag(0x9003, "2023:09:19 14:30:00"),
			ratTag(0x920A, 354, 10),
			asciiTag(0xA434, "FE 35mm F1.4 GM"),
		},
	))

	got, err := newTestExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := Record{
		Make:         "SONY",
		Model:        "ILCE-7M4",
		Lens:         "FE 35mm F1.4 GM",
		FocalLength:  "35mm",
		Aperture:     "f/1.4",
		Shutter:      "1/250s",
		ISO:          "ISO160",
		Date:         "2023.09.19",
		Settings:     "35mm f/1.4 1/250s ISO160",
		Photographer: "Ana Lima",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFallbackTags(t *testing.T) {
	raw := buildTIFF(
		[]tiffEntry{
			asciiTag(0x0110, "X100V"),
			asciiTag(0x0132, "2024:01:05 08:00:00"),
		},
		[]tiffEntry{
			sratTag(0x9201, 8, 1),
			ratTag(0x9202, 3, 1),
			shortTag(0xA405, 28),
		},
	)

	got, err := newTestExtractor().Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := Record{
		Make:        "Camera",
		Model:       "X100V",
		Lens:        "28mm",
		FocalLength: "28mm",
		Aperture:    "f/2.8",
		Shutter:     "1/256s",
		ISO:         "ISO400",
		Date:        "2024.01.05",
		Settings:    "28mm f/2.8 1/256s ISO400",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		is   error
	}{
		{"empty", nil, nil},
		{"garbage", []byte("definitely not an image"), nil},
		{"truncated tiff", []byte("II*\x00\xff\xff"), nil},
		{"jpeg without exif", plainJPEG(t), nil},
		{"no usable tags", buildTIFF([]tiffEntry{asciiTag(0x0131, "editor 1.0")}, nil), ErrNoTags},
	}

	want := Default(fixedNow)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := newTestExtractor().Extract(tc.raw)

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Extract error = %v, want *ParseError", err)
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Errorf("Extract error = %v, want %v", err, tc.is)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Extract record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrientation(t *testing.T) {
	raw := withExif(t, buildTIFF([]tiffEntry{shortTag(0x0112, 6)}, nil))
	if got := Orientation(raw); got != 6 {
		t.Errorf("Orientation = %d, want 6", got)
	}
	if got := Orientation(plainJPEG(t)); got != 1 {
		t.Errorf("Orientation(no exif) = %d, want 1", got)
	}
}
