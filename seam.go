package carver

import (
	"github.com/esimov/carver/utils"
	"github.com/pkg/errors"
)

// Seam is a connected top to bottom path holding one column index per row.
type Seam []int

// Validate reports whether the seam fits an image of the given size and
// whether consecutive rows are at most one column apart.
func (s Seam) Validate(width, height int) error {
	if len(s) != height {
		return errors.Wrapf(ErrInvariantViolation, "seam length %d does not match image height %d", len(s), height)
	}
	for y, x := range s {
		if x < 0 || x >= width {
			return errors.Wrapf(ErrInvariantViolation, "seam column %d at row %d is outside [0, %d)", x, y, width)
		}
		if y > 0 && utils.Abs(x-s[y-1]) > 1 {
			return errors.Wrapf(ErrInvariantViolation, "seam is disconnected between rows %d and %d", y-1, y)
		}
	}
	return nil
}

// RemoveSeam returns a new image one pixel narrower than img, obtained by
// deleting the pixel at seam[y] from every row y. img is left unchanged.
func RemoveSeam(img *Image, seam Seam) (*Image, error) {
	return removeSeam(img, seam, 0)
}

func removeSeam(img *Image, seam Seam, workers int) (*Image, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if err := seam.Validate(img.Width, img.Height); err != nil {
		return nil, err
	}
	if img.Width == 1 {
		return nil, errors.Wrap(ErrInvariantViolation, "cannot remove a seam from a single column image")
	}
	return &Image{
		Width:  img.Width - 1,
		Height: img.Height,
		Pix:    removeColumns(img.Pix, img.Width, img.Height, 3, seam, workers),
	}, nil
}

// RemoveSeam deletes the seam from the mask the same way it is deleted from the image.
func (m *Mask) RemoveSeam(seam Seam) (*Mask, error) {
	if m == nil {
		return nil, nil
	}
	if err := seam.Validate(m.Width, m.Height); err != nil {
		return nil, err
	}
	return &Mask{
		Width:  m.Width - 1,
		Height: m.Height,
		Bits:   removeColumns(m.Bits, m.Width, m.Height, 1, seam, 1),
	}, nil
}
