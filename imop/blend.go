// Package imop implements the Porter-Duff composition operations and a set
// of separable blend modes used for mixing a graphic element with its backdrop.
// The image/draw package only implements the source and source-over-destination
// operators, this package covers the remaining ones.
//
// It is used to overlay the protect and remove masks on top of the source
// image, which helps checking how the masks steer the seams.
package imop

import (
	"github.com/esimov/carver/utils"
	"github.com/pkg/errors"
)

// BlendMode names a separable blend function.
type BlendMode string

const (
	Normal   BlendMode = "normal"
	Darken   BlendMode = "darken"
	Lighten  BlendMode = "lighten"
	Multiply BlendMode = "multiply"
	Screen   BlendMode = "screen"
	Overlay  BlendMode = "overlay"
)

// blendFuncs maps every mode to its per channel function. Both the backdrop
// (cb) and the source (cs) channels are normalized to [0, 1].
var blendFuncs = map[BlendMode]func(cb, cs float64) float64{
	Normal:   func(_, cs float64) float64 { return cs },
	Darken:   utils.Min[float64],
	Lighten:  utils.Max[float64],
	Multiply: func(cb, cs float64) float64 { return cb * cs },
	Screen:   screen,
	Overlay: func(cb, cs float64) float64 {
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return screen(2*cb-1, cs)
	},
}

func screen(cb, cs float64) float64 {
	return cb + cs - cb*cs
}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType BlendMode
}

// NewBlend initializes a new Blend using the Normal mode.
func NewBlend() *Blend {
	return &Blend{OpType: Normal}
}

// Set activates one of the supported blend modes.
func (b *Blend) Set(mode BlendMode) error {
	if _, ok := blendFuncs[mode]; !ok {
		return errors.Errorf("unsupported blend mode %q", mode)
	}
	b.OpType = mode
	return nil
}

// Get returns the currently active blend mode.
func (b *Blend) Get() BlendMode {
	return b.OpType
}

// mix returns the source channel as seen through the blend mode: where the
// backdrop is transparent the source is left as it is.
func (b *Blend) mix(cb, cs, ab float64) float64 {
	if b == nil {
		return cs
	}
	fn, ok := blendFuncs[b.OpType]
	if !ok {
		return cs
	}
	return (1-ab)*cs + ab*fn(cb, cs)
}
