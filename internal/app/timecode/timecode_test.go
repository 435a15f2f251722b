package timecode

import (
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opencaption/internal/app/errors"
)

func TestToSRT(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"zero", 0, "00:00:00,000"},
		{"sub_second", 0.5, "00:00:00,500"},
		{"truncates_not_rounds", 1.2349, "00:00:01,234"},
		{"float_noise", 1.001, "00:00:01,001"},
		{"minutes", 75.25, "00:01:15,250"},
		{"hours", 3723.004, "01:02:03,004"},
		{"many_hours", 100 * 3600, "100:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSRT(tt.seconds)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToScript(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"zero", 0, "0:00:00.00"},
		{"centiseconds", 1.239, "0:00:01.23"},
		{"float_noise", 0.29, "0:00:00.29"},
		{"hours", 3723.5, "1:02:03.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToScript(tt.seconds)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNegativeAndNonFiniteAreInvalid(t *testing.T) {
	for _, v := range []float64{-0.001, -10, math.NaN(), math.Inf(1)} {
		_, err := ToSRT(v)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "ToSRT(%v)", v)

		_, err = ToScript(v)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "ToScript(%v)", v)
	}
}

func TestSRTRoundTripTruncatesToMilliseconds(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2}:\d{2}:\d{2},\d{3}$`)

	for _, s := range []float64{0, 0.0004, 0.5, 1.2345, 59.999, 61.0019, 3599.9999, 7325.125} {
		formatted, err := ToSRT(s)
		require.NoError(t, err)
		assert.Regexp(t, pattern, formatted)

		parsed, err := ParseSRT(formatted)
		require.NoError(t, err)
		assert.InDelta(t, math.Floor(s*1000+epsilon)/1000, parsed, 1e-9, "input %v", s)
	}
}

func TestParseSRT_Malformed(t *testing.T) {
	for _, v := range []string{"", "1:02:03,004", "00:00:00.000", "00:61:00,000", "aa:bb:cc,ddd"} {
		_, err := ParseSRT(v)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "ParseSRT(%q)", v)
	}
}

func TestCentisecondDuration(t *testing.T) {
	cs, err := CentisecondDuration(0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 50, cs)

	cs, err = CentisecondDuration(0.5, 1.2)
	require.NoError(t, err)
	assert.Equal(t, 70, cs)

	cs, err = CentisecondDuration(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, cs)

	_, err = CentisecondDuration(1.2, 0.5)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
