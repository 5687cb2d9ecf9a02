// Package palette picks and checks the display colors of work items.
package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Random returns a bright, readable color as "#rrggbb".
func Random() string {
	return colorful.HappyColor().Hex()
}

// Normalize parses a "#rgb" or "#rrggbb" color and returns it as lower-case "#rrggbb".
// A missing leading '#' is tolerated.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("palette: empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return "", fmt.Errorf("palette: %q is not a hex color", s)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return "", fmt.Errorf("palette: %q is not a hex color: %w", s, err)
	}
	return c.Hex(), nil
}

// TextOn returns black or white, whichever reads better on top of bg.
// Unparseable backgrounds get white.
func TextOn(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return "#ffffff"
	}
	_, _, l := c.Hcl()
	if l > 0.65 {
		return "#000000"
	}
	return "#ffffff"
}
