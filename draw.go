package carver

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/esimov/carver/imop"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ShapeType is the marker used to visualize the seams.
type ShapeType string

const (
	Circle ShapeType = "circle"
	Line   ShapeType = "line"
)

// Default colors of the seam and mask overlays.
const (
	DefaultSeamColor    = "#ff0000"
	DefaultProtectColor = "#2196f3"
	DefaultRemoveColor  = "#e91e63"
)

// ParseColor converts a hex color, e.g. "#ff0000", to a color.Color.
func ParseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid seam color %q", hex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// DrawSeams marks every seam point on dst. Seams are expected in dst's
// coordinates, e.g. the values returned by SeamIterator.Original.
// Points falling outside of dst are skipped.
func DrawSeams(dst *image.NRGBA, seams []Seam, shape ShapeType, c color.Color) {
	src := image.NewUniform(c)
	bounds := dst.Bounds()

	for _, seam := range seams {
		for y, x := range seam {
			pt := image.Pt(bounds.Min.X+x, bounds.Min.Y+y)
			if !pt.In(bounds) {
				continue
			}
			switch shape {
			case Circle:
				drawCircle(dst, pt, 1, src)
			default:
				draw.Draw(dst, image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))}, src, image.Point{}, draw.Src)
			}
		}
	}
}

// drawCircle fills a disc of the given radius centered at pt.
func drawCircle(dst *image.NRGBA, pt image.Point, radius int, src image.Image) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			p := pt.Add(image.Pt(dx, dy))
			if p.In(dst.Bounds()) {
				dst.Set(p.X, p.Y, src.At(p.X, p.Y))
			}
		}
	}
}

// DrawMask tints the pixels of dst marked by m with c. The tint is
// multiplied with the underlying pixels so the image stays readable.
func DrawMask(dst *image.NRGBA, m *Mask, c color.Color) {
	if m == nil {
		return
	}
	bounds := dst.Bounds()
	tint := color.NRGBAModel.Convert(c).(color.NRGBA)
	tint.A = 0xff

	overlay := image.NewNRGBA(bounds)
	for y := 0; y < min(m.Height, bounds.Dy()); y++ {
		for x := 0; x < min(m.Width, bounds.Dx()); x++ {
			if m.Bits[y*m.Width+x] {
				overlay.SetNRGBA(bounds.Min.X+x, bounds.Min.Y+y, tint)
			}
		}
	}

	bmp := imop.NewBitmap(bounds)
	imop.InitOp().Draw(bmp, overlay, dst, &imop.Blend{OpType: imop.Multiply})
	draw.Draw(dst, bounds, bmp.Img, bounds.Min, draw.Src)
}
