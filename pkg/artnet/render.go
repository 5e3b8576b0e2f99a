package artnet

import (
	"time"

	"lumenbridge/pkg/frame"
)

// Render runs the full per-output pipeline (sample, object correction,
// white derivation, output correction, channel remap, flatten, delay
// buffer) against canvas and returns the DMX byte stream ready for UDP
// send, or nil if the FPS gate suppresses this tick.
func Render(o *Output, canvas *frame.Frame, now time.Time) []byte {
	if !o.fpsGate(now) {
		return nil
	}

	var flat []byte
	for _, obj := range o.AssignedObjects {
		flat = append(flat, renderObject(o, obj, canvas)...)
	}

	o.ensureDelayRing()
	if o.delayRing != nil {
		flat = o.delayRing.pushPop(flat)
	}

	o.mu.Lock()
	o.tickCount++
	isFullFrameTick := o.FullFrameInterval <= 1 || o.tickCount%int64(o.FullFrameInterval) == 0
	out := flat
	if o.DeltaEnabled {
		out = applyDelta(o.lastFullBytes, flat, o.DeltaThreshold, isFullFrameTick)
		if isFullFrameTick || o.lastFullBytes == nil {
			o.lastFullBytes = append([]byte(nil), flat...)
		} else {
			// Track the baseline as what was actually retained so
			// suppressed channels don't drift from the last full frame.
			merged := append([]byte(nil), o.lastFullBytes...)
			for i := range merged {
				if i < len(out) {
					merged[i] = out[i]
				}
			}
			o.lastFullBytes = merged
		}
	}
	o.LastDMX = out
	o.mu.Unlock()

	return out
}

func renderObject(o *Output, obj *Object, canvas *frame.Frame) []byte {
	perm, err := frame.BuildPermutation(obj.ChannelOrder)
	if err != nil {
		perm = nil // malformed channel order: emit raw RGB(+derived) order
	}

	capturedW, capturedH := obj.CapturedW, obj.CapturedH
	if capturedW <= 0 {
		capturedW = canvas.W
	}
	if capturedH <= 0 {
		capturedH = canvas.H
	}

	var out []byte
	for _, pt := range obj.Points {
		x := clampInt(roundInt(float64(pt.X)*float64(canvas.W)/float64(capturedW)), 0, canvas.W-1)
		y := clampInt(roundInt(float64(pt.Y)*float64(canvas.H)/float64(capturedH)), 0, canvas.H-1)

		r, g, b := canvas.At(x, y)

		cr, cg, cb := frame.ColorCorrect(int(r), int(g), int(b), obj.Brightness, obj.Contrast, obj.Red, obj.Green, obj.Blue)

		channels := deriveWhite(obj, cr, cg, cb)

		cr2, cg2, cb2 := frame.ColorCorrect(int(channels[0]), int(channels[1]), int(channels[2]), o.Brightness, o.Contrast, o.Red, o.Green, o.Blue)
		channels[0], channels[1], channels[2] = cr2, cg2, cb2

		if perm != nil {
			channels = frame.Permute(perm, channels)
		}
		out = append(out, channels...)
	}
	return out
}

// deriveWhite computes the white-channel(s) for led types beyond plain
// RGB: w = min(r,g,b) in auto mode, partitioned across warm/cool for
// dual-white types by color_temp.
func deriveWhite(obj *Object, r, g, b uint8) []uint8 {
	if obj.LEDType == LEDRGB {
		return []uint8{r, g, b}
	}

	w := minByte(r, g, b)
	if obj.WhiteMode == WhiteManual {
		w = clampByteF(float64(obj.WhiteThreshold))
	}

	sub := float64(w) * obj.WhiteBehavior
	r = subtractClamped(r, sub)
	g = subtractClamped(g, sub)
	b = subtractClamped(b, sub)

	switch obj.LEDType {
	case LEDRGBW:
		return []uint8{r, g, b, w}
	case LEDRGBWW, LEDRGBWWCW:
		warm := uint8(float64(w) * obj.ColorTemp)
		cool := w - warm
		return []uint8{r, g, b, warm, cool}
	default:
		return []uint8{r, g, b, w}
	}
}

func subtractClamped(v uint8, sub float64) uint8 {
	result := float64(v) - sub
	if result < 0 {
		return 0
	}
	if result > 255 {
		return 255
	}
	return uint8(result)
}

func minByte(vs ...uint8) uint8 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func clampByteF(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// applyDelta suppresses channels unchanged from baseline by less than
// threshold, except on a full-frame tick where every channel is sent
// unconditionally. Suppressed channels are left at their baseline value
// in the returned slice; the caller still transmits a full-length
// packet, since what needs bounding is recovery time, not packet size.
func applyDelta(baseline, current []byte, threshold int, fullFrame bool) []byte {
	if fullFrame || baseline == nil || len(baseline) != len(current) {
		return append([]byte(nil), current...)
	}
	out := append([]byte(nil), baseline...)
	for i := range current {
		diff := int(current[i]) - int(baseline[i])
		if diff < 0 {
			diff = -diff
		}
		if diff >= threshold {
			out[i] = current[i]
		}
	}
	return out
}
