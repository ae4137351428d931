package export

import "strconv"

// hexRGB parses a #rrggbb (or #rgb) color, defaulting to black on anything
// unparseable.
func hexRGB(s string) (r, g, b int) {
	if len(s) == 0 || s[0] != '#' {
		return 0, 0, 0
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
