// Package generator implements the built-in generator plugins: solid
// color/test pattern, a static picture loader, and four procedural
// patterns (plasma, noise, oscillator, rainbow wave), grounded in
// original_source/plugins/generators.
package generator

import "math"

// hsvToRGB converts h,s,v in 0..1 to r,g,b in 0..1, the same
// vectorized formula original_source's plasma/rainbow_wave generators
// use per-pixel here instead of array-wide.
func hsvToRGB(h, s, v float64) (r, g, b float64) {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h++
	}
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - s*f)
	t := v * (1.0 - s*(1.0-f))

	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func to8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(v * 255)
}
