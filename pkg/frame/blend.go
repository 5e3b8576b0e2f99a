package frame

// BlendMode selects the per-channel (or, for Mask, per-pixel) compositing
// function used to combine an overlay frame with a running composite.
type BlendMode uint8

// The required blend modes.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendAdd
	BlendSubtract
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendMask
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendOverlay:
		return "overlay"
	case BlendAdd:
		return "add"
	case BlendSubtract:
		return "subtract"
	case BlendDarken:
		return "darken"
	case BlendLighten:
		return "lighten"
	case BlendColorDodge:
		return "color-dodge"
	case BlendColorBurn:
		return "color-burn"
	case BlendHardLight:
		return "hard-light"
	case BlendSoftLight:
		return "soft-light"
	case BlendDifference:
		return "difference"
	case BlendExclusion:
		return "exclusion"
	case BlendMask:
		return "mask"
	default:
		return "unknown"
	}
}

const epsilon = 1.0 / 512

// overlayFormula is the shared Photoshop-style overlay curve: when the
// control channel is below the midpoint it multiplies, otherwise it
// screens. Overlay uses (base, ov); hard-light swaps the roles.
func overlayFormula(control, other float64) float64 {
	if control < 0.5 {
		return 2 * control * other
	}
	return 1 - 2*(1-control)*(1-other)
}

// blendChannel computes the per-channel blended value in 0..1 space for
// every mode except Mask, which needs full pixels and is handled in Blend.
func blendChannel(mode BlendMode, base, ov float64) float64 {
	switch mode {
	case BlendNormal:
		return ov
	case BlendMultiply:
		return base * ov
	case BlendScreen:
		return 1 - (1-base)*(1-ov)
	case BlendOverlay:
		return overlayFormula(base, ov)
	case BlendAdd:
		return clamp01(base + ov)
	case BlendSubtract:
		return clamp01(base - ov)
	case BlendDarken:
		return minF(base, ov)
	case BlendLighten:
		return maxF(base, ov)
	case BlendColorDodge:
		if ov >= 1-epsilon {
			return 1
		}
		return clamp01(base / (1 - ov))
	case BlendColorBurn:
		if ov <= epsilon {
			return 0
		}
		return clamp01(1 - (1-base)/ov)
	case BlendHardLight:
		return overlayFormula(ov, base)
	case BlendSoftLight:
		return (1-2*ov)*base*base + 2*ov*base
	case BlendDifference:
		return absF(base - ov)
	case BlendExclusion:
		return base + ov - 2*base*ov
	default:
		return ov
	}
}

// luminance is the standard Rec. 601 perceptual weighting, used by Mask
// mode to turn the overlay pixel into a scalar alpha.
func luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Blend composites overlay onto base for one pixel, in 0..1 float space.
// Opacity and mix both interpolate linearly: mix selects how much of the
// blend-mode result shows through versus the untouched base, and opacity
// then interpolates the whole layer against the running composite.
func Blend(mode BlendMode, baseR, baseG, baseB, ovR, ovG, ovB, opacity, mix float64) (r, g, b float64) {
	var mixedR, mixedG, mixedB float64

	if mode == BlendMask {
		alpha := luminance(ovR, ovG, ovB)
		mixedR = lerp(baseR, ovR, alpha)
		mixedG = lerp(baseG, ovG, alpha)
		mixedB = lerp(baseB, ovB, alpha)
	} else {
		mixedR = blendChannel(mode, baseR, ovR)
		mixedG = blendChannel(mode, baseG, ovG)
		mixedB = blendChannel(mode, baseB, ovB)
	}

	effectR := lerp(baseR, mixedR, mix)
	effectG := lerp(baseG, mixedG, mix)
	effectB := lerp(baseB, mixedB, mix)

	r = lerp(baseR, effectR, opacity)
	g = lerp(baseG, effectG, opacity)
	b = lerp(baseB, effectB, opacity)
	return
}

// BlendPixel blends one 8-bit overlay pixel onto one 8-bit base pixel.
func BlendPixel(mode BlendMode, base, ov [3]uint8, opacity, mix float64) [3]uint8 {
	r, g, b := Blend(mode,
		float64(base[0])/255, float64(base[1])/255, float64(base[2])/255,
		float64(ov[0])/255, float64(ov[1])/255, float64(ov[2])/255,
		opacity, mix)
	return [3]uint8{to8(r), to8(g), to8(b)}
}

// BlendFrame composites overlay onto base, writing into a new frame sized
// to base. overlay is nearest-resized to base's dimensions first if the
// sizes differ, per the dimensional policy.
func BlendFrame(base, overlay *Frame, mode BlendMode, opacity, mix float64) *Frame {
	if overlay.W != base.W || overlay.H != base.H {
		overlay = ResizeNearest(overlay, base.W, base.H)
	}

	out := New(base.W, base.H)
	for y := 0; y < base.H; y++ {
		for x := 0; x < base.W; x++ {
			br, bg, bb := base.At(x, y)
			or, og, ob := overlay.At(x, y)
			px := BlendPixel(mode, [3]uint8{br, bg, bb}, [3]uint8{or, og, ob}, opacity, mix)
			out.Set(x, y, px[0], px[1], px[2])
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 { return a*(1-t) + b*t }

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func to8(v float64) uint8 {
	v = clamp01(v)
	return uint8(v*255 + 0.5)
}
