package carver

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcess_Resize(t *testing.T) {
	assert := assert.New(t)

	src := encodePNG(t, gradientImage(16, 12).NRGBA())
	p := &Processor{NewWidth: 10, NewHeight: 8}

	var out bytes.Buffer
	require.NoError(t, p.Process(context.Background(), src, &out, imaging.PNG))

	res, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(10, res.Bounds().Dx())
	assert.Equal(8, res.Bounds().Dy())
}

func TestProcess_Errors(t *testing.T) {
	var out bytes.Buffer

	p := &Processor{NewWidth: 10}
	err := p.Process(context.Background(), bytes.NewBufferString("not an image"), &out, imaging.PNG)
	assert.Error(t, err)

	p = &Processor{NewWidth: 20}
	src := encodePNG(t, gradientImage(16, 12).NRGBA())
	err = p.Process(context.Background(), src, &out, imaging.PNG)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	assert.Zero(t, out.Len())
}

func TestProcess_Targets(t *testing.T) {
	tests := []struct {
		name string
		p    Processor
		w, h int
	}{
		{name: "unchanged", p: Processor{}, w: 200, h: 100},
		{name: "width", p: Processor{NewWidth: 150}, w: 150, h: 100},
		{name: "height", p: Processor{NewHeight: 80}, w: 200, h: 80},
		{name: "percentage", p: Processor{NewWidth: 50, NewHeight: 25, Percentage: true}, w: 100, h: 25},
		{name: "percentage of width only", p: Processor{NewWidth: 10, Percentage: true}, w: 20, h: 100},
		{name: "square", p: Processor{Square: true}, w: 100, h: 100},
		{name: "square of targets", p: Processor{NewWidth: 120, NewHeight: 90, Square: true}, w: 90, h: 90},
		{name: "square of width", p: Processor{NewWidth: 150, Square: true}, w: 100, h: 100},
		{name: "square percentage", p: Processor{NewWidth: 50, NewHeight: 50, Percentage: true, Square: true}, w: 50, h: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.p.Targets(200, 100)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestProcess_LoadMask(t *testing.T) {
	assert := assert.New(t)

	img := NewImage(4, 2)
	img.Set(1, 0, 0xff, 0xff, 0xff)
	img.Set(3, 1, 0xc0, 0xd0, 0xe0)
	img.Set(2, 1, 0xff, 0x20, 0xff)

	path := filepath.Join(t.TempDir(), "mask.png")
	require.NoError(t, imaging.Save(img.NRGBA(), path))

	m, err := LoadMask(path)
	require.NoError(t, err)
	assert.Equal(4, m.Width)
	assert.Equal(2, m.Height)
	assert.Equal([]bool{
		false, true, false, false,
		false, false, false, true,
	}, m.Bits)

	_, err = LoadMask(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0644))
	_, err = LoadMask(bad)
	assert.Error(err)
}
