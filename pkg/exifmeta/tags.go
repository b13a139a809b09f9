package exifmeta

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

// ErrNoTags is returned when a container carries no usable metadata.
var ErrNoTags = errors.New("no metadata tags")

// Tags is a metadata tag dictionary. Numbers are returned in physical units
// (seconds, millimetres, f-numbers) regardless of how the container stores them.
type Tags interface {
	String(name string) (string, bool)
	Number(name string) (float64, bool)
}

// firstString returns the first candidate tag that has a non-empty string value.
func firstString(t Tags, names ...string) (string, bool) {
	for _, n := range names {
		if s, ok := t.String(n); ok {
			return s, true
		}
	}
	return "", false
}

// firstNumber returns the value of the first candidate tag that is present.
func firstNumber(t Tags, names ...string) (float64, bool) {
	for _, n := range names {
		if v, ok := t.Number(n); ok {
			return v, true
		}
	}
	return 0, false
}

func cleanString(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

// exifTags reads tags decoded by goexif.
type exifTags struct {
	x *exif.Exif
}

func decodeExif(raw []byte) (*exifTags, error) {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("exif decode: %w", err)
	}
	if err != nil {
		klog.V(1).Infof("non-critical exif error: %v", err)
	}
	return &exifTags{x: x}, nil
}

func (t *exifTags) String(name string) (string, bool) {
	tag, err := t.x.Get(exif.FieldName(name))
	if err != nil || tag.Format() != tiff.StringVal {
		return "", false
	}
	s, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	s = cleanString(s)
	return s, s != ""
}

func (t *exifTags) Number(name string) (float64, bool) {
	tag, err := t.x.Get(exif.FieldName(name))
	if err != nil || tag.Count == 0 {
		return 0, false
	}

	var v float64
	switch tag.Format() {
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil || den == 0 {
			return 0, false
		}
		v = float64(num) / float64(den)
	case tiff.IntVal:
		i, err := tag.Int64(0)
		if err != nil {
			return 0, false
		}
		v = float64(i)
	case tiff.FloatVal:
		f, err := tag.Float(0)
		if err != nil {
			return 0, false
		}
		v = f
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return 0, false
		}
		f, ok := parseNumber(s)
		if !ok {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}

	// APEX units.
	switch name {
	case "ApertureValue":
		v = math.Pow(2, v/2)
	case "ShutterSpeedValue":
		v = math.Pow(2, -v)
	}
	return v, true
}

func (t *exifTags) orientation() int {
	tag, err := t.x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// toolTags reads tags reported by an exiftool process.
type toolTags struct {
	fm exiftool.FileMetadata
}

func extractWithTool(et *exiftool.Exiftool, raw []byte) (*toolTags, error) {
	f, err := os.CreateTemp("", "exifframe-*")
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(raw); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp: %w", err)
	}

	fms := et.ExtractMetadata(f.Name())
	if len(fms) == 0 {
		return nil, ErrNoTags
	}
	if fms[0].Err != nil {
		return nil, fmt.Errorf("exiftool: %w", fms[0].Err)
	}

	for k, v := range fms[0].Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}
	return &toolTags{fm: fms[0]}, nil
}

func (t *toolTags) String(name string) (string, bool) {
	s, err := t.fm.GetString(name)
	if err != nil {
		return "", false
	}
	s = cleanString(s)
	return s, s != ""
}

func (t *toolTags) Number(name string) (float64, bool) {
	if f, err := t.fm.GetFloat(name); err == nil {
		return f, true
	}
	s, err := t.fm.GetString(name)
	if err != nil {
		return 0, false
	}
	return parseNumber(s)
}

var leadingNumber = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?(?:/\d+(?:\.\d+)?)?`)

// parseNumber reads the leading number of a tag description: "35.0 mm", "1/250", "400".
func parseNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}

	num, den, frac := strings.Cut(m, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if !frac {
		return n, true
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}
