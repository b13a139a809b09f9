package exifmeta

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

func TestDefault(t *testing.T) {
	want := Record{
		Make:        "Camera",
		Model:       "Model",
		Lens:        "50mm",
		FocalLength: "50mm",
		Aperture:    "f/2.8",
		Shutter:     "1/125s",
		ISO:         "ISO400",
		Date:        "2026.03.07",
		Settings:    "50mm f/2.8 1/125s ISO400",
	}
	if diff := cmp.Diff(want, Default(fixedNow)); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetKeepsSettings(t *testing.T) {
	r := Default(fixedNow)

	steps := []struct {
		f    Field
		v    string
		want string
	}{
		{FocalLength, "35mm", "35mm f/2.8 1/125s ISO400"},
		{Aperture, "f/1.4", "35mm f/1.4 1/125s ISO400"},
		{Shutter, "1/250s", "35mm f/1.4 1/250s ISO400"},
		{ISO, "ISO160", "35mm f/1.4 1/250s ISO160"},
		{Make, "Leica", "35mm f/1.4 1/250s ISO160"},
		{Photographer, "Ana", "35mm f/1.4 1/250s ISO160"},
		{Location, "Lisboa", "35mm f/1.4 1/250s ISO160"},
	}
	for _, s := range steps {
		if err := r.Set(s.f, s.v); err != nil {
			t.Fatalf("Set(%s): %v", s.f, err)
		}
		if r.Settings != s.want {
			t.Errorf("after Set(%s, %q): Settings = %q, want %q", s.f, s.v, r.Settings, s.want)
		}
		got, err := r.Get(s.f)
		if err != nil || got != s.v {
			t.Errorf("Get(%s) = %q, %v; want %q", s.f, got, err, s.v)
		}
	}
}

func TestSetUnknownField(t *testing.T) {
	r := Default(fixedNow)
	if err := r.Set("settings", "x"); err == nil {
		t.Error("Set(settings) succeeded, want error")
	}
	if r.Settings != "50mm f/2.8 1/125s ISO400" {
		t.Errorf("Settings changed to %q", r.Settings)
	}
}

func TestApply(t *testing.T) {
	r := Default(fixedNow)
	err := r.Apply(map[Field]string{
		Model:        "Q3",
		ISO:          "ISO100",
		Photographer: "Ana",
		Location:     "",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := Default(fixedNow)
	want.Model = "Q3"
	want.ISO = "ISO100"
	want.Photographer = "Ana"
	want.Settings = "50mm f/2.8 1/125s ISO100"
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyUnknownField(t *testing.T) {
	r := Default(fixedNow)
	err := r.Apply(map[Field]string{Model: "Q3", "settings": "hand edited"})
	if err == nil {
		t.Fatal("Apply succeeded, want error")
	}
	if diff := cmp.Diff(Default(fixedNow), r); diff != "" {
		t.Errorf("Apply changed the record (-want +got):\n%s", diff)
	}
}
