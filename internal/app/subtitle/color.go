package subtitle

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "opencaption/internal/app/errors"
)

var hexColorPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// HexToScriptColor converts an RRGGBB colour (leading '#' optional) into the
// ASS &HAABBGGRR& form with an opaque alpha byte.
func HexToScriptColor(hex string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if !hexColorPattern.MatchString(v) {
		return "", apperrors.InvalidField("color", fmt.Sprintf("%q is not a 6-digit hex colour", hex))
	}
	v = strings.ToUpper(v)
	return "&H00" + v[4:6] + v[2:4] + v[0:2] + "&", nil
}
