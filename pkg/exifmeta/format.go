package exifmeta

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxLensLen is the longest lens name shown verbatim.
const maxLensLen = 25

var (
	colonDate = regexp.MustCompile(`(\d{4}):(\d{2}):(\d{2})`)
	isoDate   = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

	lensFocal    = regexp.MustCompile(`(?i)(\d+(?:-\d+)?mm)`)
	lensAperture = regexp.MustCompile(`[fF][\s/]?(\d+\.?\d*(?:-\d+\.?\d*)?)`)
)

// FormatShutterSpeed renders an exposure time in seconds: 0.004 -> "1/250s", 2 -> "2s".
func FormatShutterSpeed(v float64) string {
	if !(v > 0) || math.IsInf(v, 0) {
		return ""
	}
	if v >= 1 {
		return fmt.Sprintf("%ds", int64(math.Round(v)))
	}
	return fmt.Sprintf("1/%ds", int64(math.Round(1/v)))
}

// FormatAperture renders an f-number: 2.8 -> "f/2.8", 4.0 -> "f/4".
func FormatAperture(v float64) string {
	var s string
	if v == math.Trunc(v) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', 1, 64)
	}
	return "f/" + strings.TrimSuffix(s, ".0")
}

// FormatFocalLength renders a focal length in millimetres: 35.4 -> "35mm".
func FormatFocalLength(v float64) string {
	return fmt.Sprintf("%dmm", int64(math.Round(v)))
}

// FormatISO renders a sensitivity value: 160 -> "ISO160".
func FormatISO(v float64) string {
	return fmt.Sprintf("ISO%d", int64(math.Round(v)))
}

// FormatDate converts "YYYY:MM:DD ..." and "YYYY-MM-DD" dates to "YYYY.MM.DD".
// Anything else is returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	if m := colonDate.FindStringSubmatch(s); m != nil {
		return m[1] + "." + m[2] + "." + m[3]
	}
	if m := isoDate.FindStringSubmatch(s); m != nil {
		return m[1] + "." + m[2] + "." + m[3]
	}
	return s
}

// CleanLensModel drops a repeated camera make from the front of a lens name and
// shortens overly long names to their focal range and aperture.
func CleanLensModel(lens, cameraMake string) string {
	if lens == "" {
		return ""
	}

	cleaned := lens
	if cameraMake != "" {
		for _, v := range []string{cameraMake, strings.ToUpper(cameraMake), strings.ToLower(cameraMake)} {
			if strings.HasPrefix(cleaned, v+" ") {
				cleaned = cleaned[len(v)+1:]
			}
		}
	}

	cleaned = strings.TrimSpace(cleaned)
	if utf8.RuneCountInString(cleaned) <= maxLensLen {
		return cleaned
	}

	focal := lensFocal.FindStringSubmatch(cleaned)
	if focal == nil {
		return cleaned
	}

	short := focal[1]
	if ap := lensAperture.FindStringSubmatch(cleaned); ap != nil {
		short += " f/" + ap[1]
	}
	return short
}
