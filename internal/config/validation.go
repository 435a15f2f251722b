package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// x264 presets accepted by ffmpeg's -preset.
var encoderPresets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

// ValidateTimeout rejects non-positive or absurdly long durations.
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 6*time.Hour {
		return fmt.Errorf("%s timeout too large (max 6 hours)", name)
	}
	return nil
}

// ValidateConcurrency bounds a worker pool size.
func ValidateConcurrency(concurrency int, name string) error {
	switch {
	case concurrency <= 0:
		return fmt.Errorf("%s concurrency must be positive", name)
	case concurrency > 100:
		return fmt.Errorf("%s concurrency too high (max 100)", name)
	}
	return nil
}

// ValidateAPIKey checks presence and, for OpenAI, the key format.
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}
	if keyType == "OpenAI" {
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	}
	return nil
}

// ValidateURL parses raw and checks its scheme against schemes, which
// defaults to http and https.
func ValidateURL(raw, name string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s URL %q is not valid", name, raw)
	}
	if !lo.Contains(schemes, u.Scheme) {
		return fmt.Errorf("%s URL must use one of %s", name, strings.Join(schemes, ", "))
	}
	return nil
}

// ValidatePort accepts 0 (pick a free port) through 65535.
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("%s port invalid", name)
	}
	return nil
}

// ValidateOneOf checks value against the allowed set
func ValidateOneOf(value, name string, allowed ...string) error {
	if lo.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, ", "), value)
}

// ValidateEncoder checks the x264 quality settings.
func ValidateEncoder(crf int, preset string) error {
	if crf < 0 || crf > 51 {
		return fmt.Errorf("encoder.crf must be between 0 and 51, got %d", crf)
	}
	return ValidateOneOf(preset, "encoder.preset", encoderPresets...)
}

// ValidateCanvas requires a positive, even frame size, since yuv420p
// output cannot have odd dimensions.
func ValidateCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("canvas width and height must be positive, got %dx%d", width, height)
	}
	if width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("canvas width and height must be even, got %dx%d", width, height)
	}
	return nil
}
