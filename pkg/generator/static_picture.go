package generator

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

func init() {
	plugin.Register(plugin.Descriptor{
		ID:   "generator.static-picture",
		Kind: plugin.KindGenerator,
		Schema: plugin.Schema{
			{Name: "image_path", Kind: paramval.KindString, Default: paramval.String("")},
			{Name: "duration", Kind: paramval.KindFloat, Default: paramval.Float(30), Min: 1, Max: 3600},
		},
	}, func() interface{} { return &StaticPicture{} })
}

// StaticPicture loads one image file once and resamples it to every
// requested canvas size thereafter, grounded in
// original_source/plugins/generators/static_picture.py.
type StaticPicture struct {
	cfg *plugin.AtomicConfig[pictureConfig]
	img *frame.Frame
}

type pictureConfig struct {
	imagePath string
	duration  float64
}

// Initialize loads image_path, decoding PNG/JPEG via the stdlib.
func (s *StaticPicture) Initialize(config map[string]paramval.Value) error {
	cfg := pictureConfig{duration: 30}
	if v, ok := config["image_path"]; ok {
		cfg.imagePath = v.AsString()
	}
	if v, ok := config["duration"]; ok {
		cfg.duration = v.AsFloat()
	}
	s.cfg = plugin.NewAtomicConfig(cfg)

	if cfg.imagePath == "" {
		return nil
	}
	f, err := os.Open(cfg.imagePath)
	if err != nil {
		return fmt.Errorf("generator: could not open image %q: %w", cfg.imagePath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("generator: could not decode image %q: %w", cfg.imagePath, err)
	}
	s.img = frameFromImage(img)
	return nil
}

// Process returns the loaded image resampled to width x height, or a
// black frame if no image was configured.
func (s *StaticPicture) Process(width, height int, timeSeconds float64, frameNumber int64) (*frame.Frame, error) {
	if s.img == nil {
		return frame.New(width, height), nil
	}
	return frame.ResizeNearest(s.img, width, height), nil
}

// DurationSeconds reports the configured display duration.
func (s *StaticPicture) DurationSeconds() float64 {
	return s.cfg.Load().duration
}

// Cleanup releases the decoded image.
func (s *StaticPicture) Cleanup() {
	s.img = nil
}

func frameFromImage(img image.Image) *frame.Frame {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	f := frame.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			f.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
	return f
}
