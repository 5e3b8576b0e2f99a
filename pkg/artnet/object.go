// Package artnet implements the rendering pipeline that turns a canvas
// frame into DMX byte streams and the ArtDMX UDP wire encoder.
package artnet

// Point is a canvas-pixel-space coordinate assigned to one LED.
type Point struct {
	X, Y int
}

// LEDType selects how many physical channels one point occupies and how
// the white channel (if any) is derived.
type LEDType uint8

// LED types.
const (
	LEDRGB LEDType = iota
	LEDRGBW
	LEDRGBWW
	LEDRGBWWCW
)

// WhiteMode selects automatic or user-formula white-channel derivation.
type WhiteMode uint8

// White modes.
const (
	WhiteAuto WhiteMode = iota
	WhiteManual
)

// Object is a physical LED strip or matrix assigned to one or more
// outputs.
type Object struct {
	ID     string
	Name   string
	Points []Point

	// CapturedW/H record the canvas resolution the points were
	// authored against; zero means "same as the canvas currently being
	// rendered", the common case.
	CapturedW, CapturedH int

	LEDType        LEDType
	ChannelOrder   string // e.g. "RGB", "GRB", "RGBW", "WRGB", "RGBWC"
	Brightness     int    // -255..255
	Contrast       int    // -255..255
	Red            int
	Green          int
	Blue           int
	WhiteMode      WhiteMode
	WhiteThreshold int
	WhiteBehavior  float64 // subtraction weight applied to RGB after deriving W
	ColorTemp      float64 // 0..1, warm/cool partition for dual-white types
}
