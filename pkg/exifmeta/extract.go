package exifmeta

import (
	"errors"
	"fmt"
	"time"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// ParseError reports that metadata could not be read. It is never fatal:
// Extract returns it next to a usable default record.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not read EXIF data: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extractor turns raw image bytes into a Record.
type Extractor struct {
	now func() time.Time
	et  *exiftool.Exiftool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used for the default date.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// WithExiftool enables exiftool as a fallback for containers goexif cannot read.
// The caller owns et and must close it.
func WithExiftool(et *exiftool.Exiftool) Option {
	return func(e *Extractor) {
		e.et = et
	}
}

// New returns an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract reads the metadata embedded in raw. It always returns a usable record;
// a non-nil error is a *ParseError and means the defaults were substituted.
func (e *Extractor) Extract(raw []byte) (rec Record, err error) {
	now := e.now()

	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("EXIF parsing panic: %v", r)
			rec = Default(now)
			err = &ParseError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	t, err := e.tags(raw)
	if err != nil {
		klog.Warningf("EXIF parsing error: %v", err)
		return Default(now), &ParseError{Err: err}
	}

	rec, found := fromTags(t, now)
	if !found {
		klog.Warningf("EXIF parsing error: %v", ErrNoTags)
		return Default(now), &ParseError{Err: ErrNoTags}
	}
	return rec, nil
}

func (e *Extractor) tags(raw []byte) (Tags, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty input")
	}

	t, err := decodeExif(raw)
	if err == nil {
		return t, nil
	}
	if e.et == nil {
		return nil, err
	}

	klog.V(1).Infof("goexif failed (%v), trying exiftool", err)
	tt, terr := extractWithTool(e.et, raw)
	if terr != nil {
		return nil, errors.Join(err, terr)
	}
	return tt, nil
}

// Orientation returns the EXIF orientation of raw, 1 when unknown.
func Orientation(raw []byte) int {
	t, err := decodeExif(raw)
	if err != nil {
		return 1
	}
	return t.orientation()
}

// fromTags builds a record from a tag dictionary. found reports whether any
// of the consulted tags was present.
func fromTags(t Tags, now time.Time) (Record, bool) {
	def := Default(now)
	found := false

	str := func(names ...string) string {
		s, ok := firstString(t, names...)
		found = found || ok
		return s
	}
	num := func(names ...string) (float64, bool) {
		v, ok := firstNumber(t, names...)
		found = found || ok
		return v, ok && v > 0
	}

	r := Record{
		Make:        str("Make"),
		Model:       str("Model"),
		FocalLength: def.FocalLength,
		Aperture:    def.Aperture,
		Shutter:     def.Shutter,
		ISO:         def.ISO,
	}

	if v, ok := num("FocalLength", "FocalLengthIn35mmFilm"); ok {
		r.FocalLength = FormatFocalLength(v)
	}
	if v, ok := num("FNumber", "ApertureValue"); ok {
		r.Aperture = FormatAperture(v)
	}
	if v, ok := num("ExposureTime", "ShutterSpeedValue"); ok {
		r.Shutter = FormatShutterSpeed(v)
	}
	if v, ok := num("ISOSpeedRatings", "ISO", "PhotographicSensitivity"); ok {
		r.ISO = FormatISO(v)
	}

	r.Date = FormatDate(str("DateTimeOriginal", "DateTime", "CreateDate", "DateTimeDigitized"))
	if r.Date == "" {
		r.Date = def.Date
	}

	r.Lens = CleanLensModel(str("LensModel", "Lens", "LensInfo"), r.Make)
	if r.Lens == "" {
		r.Lens = r.FocalLength
	}

	r.Photographer = str("Artist")

	if r.Make == "" {
		r.Make = def.Make
	}
	if r.Model == "" {
		r.Model = def.Model
	}

	r.Settings = SettingsLine(r.FocalLength, r.Aperture, r.Shutter, r.ISO)
	return r, found
}
