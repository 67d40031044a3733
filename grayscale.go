package carver

// Grid is a single channel map of float values, one per image pixel.
// It backs both the luminance map and the energy map.
type Grid struct {
	Width  int
	Height int
	Values []float64
}

// NewGrid allocates a zero filled grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At returns the value stored at (x, y).
func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

// Set stores v at (x, y).
func (g *Grid) Set(x, y int, v float64) {
	g.Values[y*g.Width+x] = v
}

// Row returns the values of row y. The slice aliases the grid.
func (g *Grid) Row(y int) []float64 {
	return g.Values[y*g.Width : (y+1)*g.Width]
}

// Luminance converts the image to a brightness map using the Rec. 709 weights.
func Luminance(img *Image, workers int) *Grid {
	lum := NewGrid(img.Width, img.Height)

	parallelRows(img.Height, workers, func(y int) {
		row := lum.Row(y)
		pix := img.Pix[y*img.Width*3 : (y+1)*img.Width*3]
		for x := range row {
			r, g, b := pix[x*3], pix[x*3+1], pix[x*3+2]
			row[x] = 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
		}
	})
	return lum
}
