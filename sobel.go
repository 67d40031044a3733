package carver

import (
	"math"

	"github.com/esimov/carver/utils"
)

// BorderMode decides how the Sobel operator samples pixels outside the image.
type BorderMode int

const (
	// BorderClamp replicates the nearest edge pixel.
	BorderClamp BorderMode = iota
	// BorderZero treats out of bounds samples as black.
	BorderZero
)

// String implements fmt.Stringer.
func (b BorderMode) String() string {
	switch b {
	case BorderZero:
		return "zero"
	default:
		return "clamp"
	}
}

// Energy runs the Sobel operator over the luminance map and returns the
// gradient magnitude of every pixel. The kernels are
//
//	Kx = [1 0 -1; 2 0 -2; 1 0 -1]
//	Ky = [1 2 1; 0 0 0; -1 -2 -1]
//
// Both gradients are summed from differences of opposite taps, so equal
// samples cancel exactly and flat regions have zero energy.
// See https://en.wikipedia.org/wiki/Sobel_operator
func Energy(lum *Grid, border BorderMode, workers int) *Grid {
	energy := NewGrid(lum.Width, lum.Height)
	w, h := lum.Width, lum.Height

	sample := func(x, y int) float64 {
		if x < 0 || x >= w || y < 0 || y >= h {
			if border == BorderZero {
				return 0
			}
			x = utils.Clamp(x, 0, w-1)
			y = utils.Clamp(y, 0, h-1)
		}
		return lum.Values[y*w+x]
	}

	parallelRows(h, workers, func(y int) {
		row := energy.Row(y)
		for x := range row {
			tl, tm, tr := sample(x-1, y-1), sample(x, y-1), sample(x+1, y-1)
			ml, mr := sample(x-1, y), sample(x+1, y)
			bl, bm, br := sample(x-1, y+1), sample(x, y+1), sample(x+1, y+1)

			gx := (tl - tr) + 2*(ml-mr) + (bl - br)
			gy := (tl - bl) + 2*(tm-bm) + (tr - br)
			row[x] = math.Sqrt(gx*gx + gy*gy)
		}
	})
	return energy
}

// threshold zeroes every energy value not exceeding t.
func threshold(energy *Grid, t float64) {
	for i, v := range energy.Values {
		if v <= t {
			energy.Values[i] = 0
		}
	}
}
