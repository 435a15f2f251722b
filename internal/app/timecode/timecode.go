// Package timecode converts fractional-second timestamps into the SRT
// (HH:MM:SS,mmm) and ASS (H:MM:SS.cc) timecode formats.
package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	apperrors "opencaption/internal/app/errors"
)

// epsilon absorbs binary floating point error before truncation, so that
// 1.001 is 1001ms and not 1000ms.
const epsilon = 1e-6

var srtPattern = regexp.MustCompile(`^(\d{2,}):([0-5]\d):([0-5]\d),(\d{3})$`)

func validate(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return apperrors.InvalidField("timestamp", "not a finite number")
	}
	if seconds < 0 {
		return apperrors.InvalidField("timestamp", fmt.Sprintf("%v is negative", seconds))
	}
	return nil
}

// ToSRT formats seconds as HH:MM:SS,mmm, truncated to the millisecond.
func ToSRT(seconds float64) (string, error) {
	if err := validate(seconds); err != nil {
		return "", err
	}
	ms := int64(math.Floor(seconds*1000 + epsilon))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000), nil
}

// ToScript formats seconds as H:MM:SS.cc, truncated to the centisecond.
func ToScript(seconds float64) (string, error) {
	if err := validate(seconds); err != nil {
		return "", err
	}
	cs := int64(math.Floor(seconds*100 + epsilon))
	h := cs / 360_000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs%100), nil
}

// CentisecondDuration returns round((end-start)*100).
func CentisecondDuration(start, end float64) (int, error) {
	if err := validate(start); err != nil {
		return 0, err
	}
	if err := validate(end); err != nil {
		return 0, err
	}
	if end < start {
		return 0, apperrors.InvalidField("duration", fmt.Sprintf("end %v before start %v", end, start))
	}
	cs := int(math.Round((end - start) * 100))
	if cs < 0 {
		cs = 0
	}
	return cs, nil
}

// ParseSRT parses an HH:MM:SS,mmm timecode back into seconds.
func ParseSRT(value string) (float64, error) {
	parts := srtPattern.FindStringSubmatch(value)
	if parts == nil {
		return 0, apperrors.InvalidField("srt timecode", fmt.Sprintf("%q", value))
	}
	h, _ := strconv.ParseInt(parts[1], 10, 64)
	m, _ := strconv.ParseInt(parts[2], 10, 64)
	s, _ := strconv.ParseInt(parts[3], 10, 64)
	ms, _ := strconv.ParseInt(parts[4], 10, 64)
	total := ((h*60+m)*60+s)*1000 + ms
	return float64(total) / 1000, nil
}
