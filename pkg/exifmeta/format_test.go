package exifmeta

import "testing"

func TestFormatShutterSpeed(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1s"},
		{2.4, "2s"},
		{30, "30s"},
		{0.004, "1/250s"},
		{0.00826, "1/121s"},
		{1.0 / 8000, "1/8000s"},
		{0.5, "1/2s"},
		{0, ""},
		{-1, ""},
	}
	for _, tc := range tests {
		if got := FormatShutterSpeed(tc.in); got != tc.want {
			t.Errorf("FormatShutterSpeed(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatAperture(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.8, "f/2.8"},
		{4.0, "f/4"},
		{1.4, "f/1.4"},
		{11, "f/11"},
		{1.96, "f/2"},
		{5.66, "f/5.7"},
	}
	for _, tc := range tests {
		if got := FormatAperture(tc.in); got != tc.want {
			t.Errorf("FormatAperture(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatFocalLength(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{35.4, "35mm"},
		{35.5, "36mm"},
		{200, "200mm"},
	}
	for _, tc := range tests {
		if got := FormatFocalLength(tc.in); got != tc.want {
			t.Errorf("FormatFocalLength(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatISO(t *testing.T) {
	if got := FormatISO(159.6); got != "ISO160" {
		t.Errorf("FormatISO(159.6) = %q, want ISO160", got)
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023:09:19 14:30:00", "2023.09.19"},
		{"2024-01-05", "2024.01.05"},
		{"2024-01-05T10:11:12Z", "2024.01.05"},
		{"19/09/2023", "19/09/2023"},
		{"yesterday", "yesterday"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := FormatDate(tc.in); got != tc.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanLensModel(t *testing.T) {
	tests := []struct {
		name string
		lens string
		make string
		want string
	}{
		{"make prefix", "Sony FE 35mm F1.4 GM", "Sony", "FE 35mm F1.4 GM"},
		{"upper-case prefix", "SONY FE 35mm F1.4 GM", "Sony", "FE 35mm F1.4 GM"},
		{"lower-case prefix", "sony FE 35mm F1.4 GM", "SONY", "FE 35mm F1.4 GM"},
		{"no prefix", "XF23mmF1.4 R", "FUJIFILM", "XF23mmF1.4 R"},
		{"make inside word", "Sonya 50mm", "Sony", "Sonya 50mm"},
		{"long zoom", "FE 24-70mm F2.8 GM II OSS Lens", "Sony", "24-70mm f/2.8"},
		{"long with slash", "Tamron SP 150-600mm F/5-6.3 Di VC USD G2", "Tamron", "150-600mm f/5-6.3"},
		{"long without focal", "Some Very Long Adapted Manual Lens", "", "Some Very Long Adapted Manual Lens"},
		{"long without aperture", "Super Takumar Macro 100mm Vintage Glass", "", "100mm"},
		{"trim", "  50mm F1.8  ", "", "50mm F1.8"},
		{"empty", "", "Nikon", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanLensModel(tc.lens, tc.make); got != tc.want {
				t.Errorf("CleanLensModel(%q, %q) = %q, want %q", tc.lens, tc.make, got, tc.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"35.0 mm", 35, true},
		{"1/250", 0.004, true},
		{"400", 400, true},
		{"f/2.8", 0, false},
		{"1/0", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := parseNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseNumber(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
