// Package exifmeta extracts display-ready camera metadata from image files.
package exifmeta

import (
	"fmt"
	"strings"
	"time"
)

// DisplayDate is the layout used for all dates shown on a frame.
var DisplayDate = "2006.01.02"

// Record is the normalized, display-ready metadata of a photo.
type Record struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Lens        string `json:"lens"`
	FocalLength string `json:"focalLength"`
	Aperture    string `json:"aperture"`
	Shutter     string `json:"shutter"`
	ISO         string `json:"iso"`
	Date        string `json:"date"`

	// Settings is derived from FocalLength, Aperture, Shutter and ISO.
	Settings string `json:"settings"`

	Photographer string `json:"photographer"`
	Location     string `json:"location"`
}

// Field names an editable Record field.
type Field string

const (
	Make         Field = "make"
	Model        Field = "model"
	Lens         Field = "lens"
	FocalLength  Field = "focalLength"
	Aperture     Field = "aperture"
	Shutter      Field = "shutter"
	ISO          Field = "iso"
	Date         Field = "date"
	Photographer Field = "photographer"
	Location     Field = "location"
)

// Fields lists every editable field in display order.
func Fields() []Field {
	return []Field{Make, Model, Lens, FocalLength, Aperture, Shutter, ISO, Date, Photographer, Location}
}

// Default returns the record used when nothing can be extracted.
func Default(now time.Time) Record {
	r := Record{
		Make:        "Camera",
		Model:       "Model",
		Lens:        "50mm",
		FocalLength: "50mm",
		Aperture:    "f/2.8",
		Shutter:     "1/125s",
		ISO:         "ISO400",
		Date:        now.Format(DisplayDate),
	}
	r.Settings = SettingsLine(r.FocalLength, r.Aperture, r.Shutter, r.ISO)
	return r
}

// SettingsLine joins the exposure fields in their fixed display order.
func SettingsLine(focal, aperture, shutter, iso string) string {
	return strings.Join([]string{focal, aperture, shutter, iso}, " ")
}

// Get returns the current value of a field.
func (r *Record) Get(f Field) (string, error) {
	p, err := r.field(f)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set updates a single field, keeping Settings in sync with the exposure fields.
func (r *Record) Set(f Field, v string) error {
	p, err := r.field(f)
	if err != nil {
		return err
	}
	*p = v

	switch f {
	case FocalLength, Aperture, Shutter, ISO:
		r.Settings = SettingsLine(r.FocalLength, r.Aperture, r.Shutter, r.ISO)
	}
	return nil
}

// Apply sets every field in overrides. Empty values are ignored. Nothing is
// changed if overrides names an unknown field.
func (r *Record) Apply(overrides map[Field]string) error {
	for f := range overrides {
		if _, err := r.field(f); err != nil {
			return err
		}
	}
	for _, f := range Fields() {
		v, ok := overrides[f]
		if !ok || v == "" {
			continue
		}
		if err := r.Set(f, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Record) field(f Field) (*string, error) {
	switch f {
	case Make:
		return &r.Make, nil
	case Model:
		return &r.Model, nil
	case Lens:
		return &r.Lens, nil
	case FocalLength:
		return &r.FocalLength, nil
	case Aperture:
		return &r.Aperture, nil
	case Shutter:
		return &r.Shutter, nil
	case ISO:
		return &r.ISO, nil
	case Date:
		return &r.Date, nil
	case Photographer:
		return &r.Photographer, nil
	case Location:
		return &r.Location, nil
	}
	return nil, fmt.Errorf("unknown field %q", f)
}
