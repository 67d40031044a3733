package carver

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Image is a flat RGB pixel buffer. Pix holds Width*Height triples in row-major order.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a black image of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// At returns the color channels of the pixel at (x, y).
func (img *Image) At(x, y int) (r, g, b uint8) {
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Set overwrites the pixel at (x, y).
func (img *Image) Set(x, y int, r, g, b uint8) {
	i := (y*img.Width + x) * 3
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Width: img.Width, Height: img.Height, Pix: pix}
}

// Transpose swaps the rows and columns of the image.
func (img *Image) Transpose() *Image {
	return &Image{
		Width:  img.Height,
		Height: img.Width,
		Pix:    transpose(img.Pix, img.Width, img.Height, 3),
	}
}

// validate checks the shape of the image before any carving takes place.
func (img *Image) validate() error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return errors.WithStack(ErrEmptyImage)
	}
	if len(img.Pix) != img.Width*img.Height*3 {
		return errors.Wrapf(ErrInvariantViolation,
			"pixel buffer holds %d bytes, expected %d for a %dx%d image",
			len(img.Pix), img.Width*img.Height*3, img.Width, img.Height,
		)
	}
	return nil
}

// NRGBA converts the image to a fully opaque *image.NRGBA.
func (img *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
		dst.Pix[j+0] = img.Pix[i+0]
		dst.Pix[j+1] = img.Pix[i+1]
		dst.Pix[j+2] = img.Pix[i+2]
		dst.Pix[j+3] = 0xff
	}
	return dst
}

// FromImage converts any image type to an *Image with min-point at (0, 0).
// The alpha channel is dropped.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	dst := NewImage(dx, dy)

	switch src := src.(type) {
	case *image.NRGBA:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * dx * 3
			for x := 0; x < dx; x++ {
				dst.Pix[di+0] = src.Pix[si+0]
				dst.Pix[di+1] = src.Pix[si+1]
				dst.Pix[di+2] = src.Pix[si+2]
				si += 4
				di += 3
			}
		}
	case *image.YCbCr:
		for y := 0; y < dy; y++ {
			di := y * dx * 3
			for x := 0; x < dx; x++ {
				siy := src.YOffset(b.Min.X+x, b.Min.Y+y)
				sic := src.COffset(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = bl
				di += 3
			}
		}
	default:
		for y := 0; y < dy; y++ {
			di := y * dx * 3
			for x := 0; x < dx; x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				di += 3
			}
		}
	}
	return dst
}

// Mask marks a subset of an image's pixels. It is carved together with the
// image it belongs to, so it always keeps the same geometry.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// MaskFromImage creates a mask from the bright pixels of src.
// A pixel is marked when all of its color channels exceed 127.
func MaskFromImage(src image.Image) *Mask {
	img := FromImage(src)
	m := NewMask(img.Width, img.Height)
	for i := range m.Bits {
		r, g, b := img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2]
		m.Bits[i] = r > 127 && g > 127 && b > 127
	}
	return m
}

// Fill marks every pixel of the mask falling inside rect.
func (m *Mask) Fill(rect image.Rectangle) {
	rect = rect.Intersect(image.Rect(0, 0, m.Width, m.Height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			m.Bits[y*m.Width+x] = true
		}
	}
}

// Transpose swaps the rows and columns of the mask.
func (m *Mask) Transpose() *Mask {
	if m == nil {
		return nil
	}
	return &Mask{
		Width:  m.Height,
		Height: m.Width,
		Bits:   transpose(m.Bits, m.Width, m.Height, 1),
	}
}

func (m *Mask) clone() *Mask {
	if m == nil {
		return nil
	}
	bits := make([]bool, len(m.Bits))
	copy(bits, m.Bits)
	return &Mask{Width: m.Width, Height: m.Height, Bits: bits}
}

// union returns a mask marking the pixels set in either m or other.
func (m *Mask) union(other *Mask) *Mask {
	switch {
	case m == nil:
		return other.clone()
	case other == nil:
		return m.clone()
	}
	out := m.clone()
	for i, on := range other.Bits {
		out.Bits[i] = out.Bits[i] || on
	}
	return out
}

func (m *Mask) fits(img *Image) error {
	if m == nil {
		return nil
	}
	if m.Width != img.Width || m.Height != img.Height || len(m.Bits) != m.Width*m.Height {
		return errors.Wrapf(ErrInvalidDimensions,
			"mask is %dx%d, image is %dx%d", m.Width, m.Height, img.Width, img.Height,
		)
	}
	return nil
}
