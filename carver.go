package carver

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// CumulativeTable holds, for every pixel, the minimal total energy of a
// connected top to bottom path ending at that pixel. Offset records which
// of the three upper neighbours (-1, 0, +1) the path came from.
type CumulativeTable struct {
	Width  int
	Height int
	Cost   []float64
	Offset []int8
}

// At returns the cumulative cost stored at (x, y).
func (t *CumulativeTable) At(x, y int) float64 {
	return t.Cost[y*t.Width+x]
}

// Cumulate computes the cumulative minimum energy M for all possible
// connected seams:
//   - the first row is a copy of the energy map;
//   - every other entry is the sum of its own energy and the smallest
//     cumulative value among the in-bounds neighbours of the previous row.
//
// On ties the middle neighbour is preferred, then the left one.
func Cumulate(energy *Grid) (*CumulativeTable, error) {
	if energy == nil || energy.Width <= 0 || energy.Height <= 0 ||
		len(energy.Values) != energy.Width*energy.Height {
		return nil, errors.Wrap(ErrInvariantViolation, "cannot cumulate an empty energy map")
	}
	w, h := energy.Width, energy.Height
	t := &CumulativeTable{
		Width:  w,
		Height: h,
		Cost:   make([]float64, w*h),
		Offset: make([]int8, w*h),
	}
	copy(t.Cost[:w], energy.Values[:w])

	for y := 1; y < h; y++ {
		prev := t.Cost[(y-1)*w : y*w]
		cur := t.Cost[y*w : (y+1)*w]
		off := t.Offset[y*w : (y+1)*w]
		erow := energy.Values[y*w : (y+1)*w]

		for x := 0; x < w; x++ {
			best, dir := prev[x], int8(0)
			// Do not consider neighbours outside of the image.
			if x > 0 && prev[x-1] < best {
				best, dir = prev[x-1], -1
			}
			if x < w-1 && prev[x+1] < best {
				best, dir = prev[x+1], 1
			}
			cur[x] = erow[x] + best
			off[x] = dir
		}
	}
	return t, nil
}

// Trace walks the table from the cheapest cell of the bottom row up to the
// first row and returns the lowest energy vertical seam.
func (t *CumulativeTable) Trace() (Seam, error) {
	if t == nil || t.Width <= 0 || t.Height <= 0 {
		return nil, errors.Wrap(ErrInvariantViolation, "cannot trace a seam over an empty table")
	}
	w, h := t.Width, t.Height
	seam := make(Seam, h)

	// MinIdx returns the first index on ties.
	seam[h-1] = floats.MinIdx(t.Cost[(h-1)*w:])
	for y := h - 2; y >= 0; y-- {
		x := seam[y+1]
		seam[y] = x + int(t.Offset[(y+1)*w+x])
	}
	return seam, nil
}
