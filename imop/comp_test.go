package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(Clear))
	assert.Equal(Clear, op.Get())

	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(Clear, op.Get())

	assert.NoError(op.Set(Dst))
	assert.Equal(Dst, op.Get())
}

func TestComp_Ops(t *testing.T) {
	transparent := color.NRGBA{}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)
	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)
	draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)

	// Three representative pixels: only the backdrop, only the source and
	// the region where the two overlap.
	tests := []struct {
		op         Op
		topRight   color.NRGBA
		bottomLeft color.NRGBA
		center     color.NRGBA
	}{
		{Clear, transparent, transparent, transparent},
		{Copy, transparent, cyan, cyan},
		{Dst, magenta, transparent, magenta},
		{SrcOver, magenta, cyan, cyan},
		{DstOver, magenta, cyan, magenta},
		{SrcIn, transparent, transparent, cyan},
		{DstIn, transparent, transparent, magenta},
		{SrcOut, transparent, cyan, transparent},
		{DstOut, magenta, transparent, transparent},
		{SrcAtop, magenta, transparent, cyan},
		{DstAtop, transparent, cyan, magenta},
		{Xor, magenta, cyan, transparent},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			op := InitOp()
			require.NoError(t, op.Set(tt.op))

			bmp := NewBitmap(rect)
			op.Draw(bmp, source, backdrop, nil)

			assert.Equal(t, tt.topRight, bmp.Img.NRGBAAt(9, 0))
			assert.Equal(t, tt.bottomLeft, bmp.Img.NRGBAAt(0, 9))
			assert.Equal(t, tt.center, bmp.Img.NRGBAAt(5, 5))
		})
	}
}

func TestComp_SemiTransparentSource(t *testing.T) {
	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)
	source.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 51})
	backdrop.SetNRGBA(0, 0, color.NRGBA{B: 255, A: 255})

	bmp := NewBitmap(rect)
	InitOp().Draw(bmp, source, backdrop, nil)
	assert.Equal(t, color.NRGBA{R: 51, B: 204, A: 255}, bmp.Img.NRGBAAt(0, 0))
}

func TestComp_NilBitmap(t *testing.T) {
	rect := image.Rect(0, 0, 2, 2)
	assert.NotPanics(t, func() {
		InitOp().Draw(nil, image.NewNRGBA(rect), image.NewNRGBA(rect), nil)
	})
}
