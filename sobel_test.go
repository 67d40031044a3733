package carver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gridFromRows(rows [][]float64) *Grid {
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(g.Row(y), row)
	}
	return g
}

func TestSobel_EnergyHasImageDimensions(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {1, 7}, {7, 1}, {10, 10}, {13, 4}} {
		img := gradientImage(size[0], size[1])
		energy := Energy(Luminance(img, 0), BorderClamp, 0)

		assert.Equal(t, img.Width, energy.Width)
		assert.Equal(t, img.Height, energy.Height)
		assert.Len(t, energy.Values, img.Width*img.Height)
		for _, v := range energy.Values {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestSobel_UniformImageHasNoEnergy(t *testing.T) {
	for v := 0; v <= 0xff; v++ {
		img := NewImage(4, 4)
		for i := range img.Pix {
			img.Pix[i] = uint8(v)
		}
		energy := Energy(Luminance(img, 1), BorderClamp, 1)

		for i, e := range energy.Values {
			if !assert.Zero(t, e, "gray %d, pixel %d", v, i) {
				break
			}
		}
	}
}

func TestSobel_ColoredUniformImageHasNoEnergy(t *testing.T) {
	img := NewImage(5, 3)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Set(x, y, 0x12, 0xab, 0xf7)
		}
	}
	energy := Energy(Luminance(img, 0), BorderClamp, 0)
	for _, e := range energy.Values {
		assert.Zero(t, e)
	}
}

func TestSobel_ZeroBorderDetectsImageEdges(t *testing.T) {
	img := NewImage(4, 4)
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	lum := Luminance(img, 0)

	clamped := Energy(lum, BorderClamp, 0)
	zeroed := Energy(lum, BorderZero, 0)

	assert.Zero(t, clamped.At(0, 0))
	assert.Greater(t, zeroed.At(0, 0), 0.0)
	assert.Zero(t, zeroed.At(1, 1), "inner pixels are not affected by the border")
}

func TestSobel_VerticalEdge(t *testing.T) {
	lum := gridFromRows([][]float64{
		{0, 0, 100},
		{0, 0, 100},
		{0, 0, 100},
	})

	energy := Energy(lum, BorderClamp, 1)
	assert.InDelta(t, 400, energy.At(1, 1), 1e-9)
	assert.InDelta(t, 400, energy.At(1, 0), 1e-9)
	assert.Zero(t, energy.At(0, 0))

	energy = Energy(lum, BorderZero, 1)
	assert.InDelta(t, 400, energy.At(1, 1), 1e-9)
	assert.InDelta(t, math.Sqrt(300*300+100*100), energy.At(1, 0), 1e-9)
}

func TestSobel_WorkersProduceSameResult(t *testing.T) {
	lum := Luminance(gradientImage(17, 11), 0)

	want := Energy(lum, BorderClamp, 1)
	for _, workers := range []int{2, 3, 16, 64} {
		assert.Equal(t, want, Energy(lum, BorderClamp, workers))
	}
}

func TestSobel_Threshold(t *testing.T) {
	g := gridFromRows([][]float64{{0, 1, 5, 10}})
	threshold(g, 5)
	assert.Equal(t, []float64{0, 0, 0, 10}, g.Values)
}

func TestSobel_BorderModeString(t *testing.T) {
	assert.Equal(t, "clamp", BorderClamp.String())
	assert.Equal(t, "zero", BorderZero.String())
}
