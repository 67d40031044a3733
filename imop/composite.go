package imop

import (
	"image"
	"image/color"
	"math"

	"github.com/esimov/carver/utils"
	"github.com/pkg/errors"
)

// Op names a Porter-Duff composition operation.
type Op string

const (
	Clear   Op = "clear"
	Copy    Op = "copy"
	Dst     Op = "dst"
	SrcOver Op = "src_over"
	DstOver Op = "dst_over"
	SrcIn   Op = "src_in"
	DstIn   Op = "dst_in"
	SrcOut  Op = "src_out"
	DstOut  Op = "dst_out"
	SrcAtop Op = "src_atop"
	DstAtop Op = "dst_atop"
	Xor     Op = "xor"
)

// fractions returns, for every operation, the share of the source (fa) and
// of the backdrop (fb) kept in the result, given their alpha values.
var fractions = map[Op]func(as, ab float64) (fa, fb float64){
	Clear:   func(_, _ float64) (float64, float64) { return 0, 0 },
	Copy:    func(_, _ float64) (float64, float64) { return 1, 0 },
	Dst:     func(_, _ float64) (float64, float64) { return 0, 1 },
	SrcOver: func(as, _ float64) (float64, float64) { return 1, 1 - as },
	DstOver: func(_, ab float64) (float64, float64) { return 1 - ab, 1 },
	SrcIn:   func(_, ab float64) (float64, float64) { return ab, 0 },
	DstIn:   func(as, _ float64) (float64, float64) { return 0, as },
	SrcOut:  func(_, ab float64) (float64, float64) { return 1 - ab, 0 },
	DstOut:  func(as, _ float64) (float64, float64) { return 0, 1 - as },
	SrcAtop: func(as, ab float64) (float64, float64) { return ab, 1 - as },
	DstAtop: func(as, ab float64) (float64, float64) { return 1 - ab, as },
	Xor:     func(as, ab float64) (float64, float64) { return 1 - ab, 1 - as },
}

// Bitmap holds the result of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite holds the currently active composition operation.
type Composite struct {
	current Op
}

// InitOp returns a Composite using the source-over-destination operation.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop Op) error {
	if _, ok := fractions[cop]; !ok {
		return errors.Errorf("unsupported composite operation %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the currently active composition operation.
func (op *Composite) Get() Op {
	return op.current
}

// Draw composes src over dst and stores the result into bitmap. When blend
// is not nil the source colors are first mixed with the backdrop.
// Only the area shared by the three images is touched.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) {
	if bitmap == nil {
		return
	}
	frac := fractions[op.current]
	rect := src.Bounds().Intersect(dst.Bounds()).Intersect(bitmap.Img.Bounds())

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			s, d := src.NRGBAAt(x, y), dst.NRGBAAt(x, y)

			as, ab := norm(s.A), norm(d.A)
			cs := [3]float64{norm(s.R), norm(s.G), norm(s.B)}
			cb := [3]float64{norm(d.R), norm(d.G), norm(d.B)}

			fa, fb := frac(as, ab)
			ao := as*fa + ab*fb
			if ao == 0 {
				bitmap.Img.SetNRGBA(x, y, color.NRGBA{})
				continue
			}

			var co [3]float64
			for i := range co {
				c := blend.mix(cb[i], cs[i], ab)
				// Premultiplied result, divided back by the output alpha.
				co[i] = (c*as*fa + cb[i]*ab*fb) / ao
			}
			bitmap.Img.SetNRGBA(x, y, color.NRGBA{
				R: denorm(co[0]),
				G: denorm(co[1]),
				B: denorm(co[2]),
				A: denorm(ao),
			})
		}
	}
}

func norm(v uint8) float64 {
	return float64(v) / 255
}

func denorm(v float64) uint8 {
	return uint8(utils.Clamp(math.Round(v*255), 0, 255))
}
