package main

import (
	"context"
	"image"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeams_Command(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir, "in.png", 16, 12)
	out := filepath.Join(dir, "seams.png")

	root := newRootCmd()
	root.SetArgs([]string{"seams", "--in", in, "--out", out, "--count", "3", "--color", "#00ff00", "--shape", "circle"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assertSize(t, out, 16, 12)

	img, err := imaging.Open(out)
	require.NoError(t, err)

	var marked int
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0 && g == 0xffff && b == 0 {
				marked++
			}
		}
	}
	assert.GreaterOrEqual(t, marked, 3*12)
}

func TestSeams_CommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir, "in.png", 8, 8)
	out := filepath.Join(dir, "seams.png")

	tests := [][]string{
		{"seams", "--out", out},
		{"seams", "--in", in, "--out", out, "--color", "green"},
		{"seams", "--in", in, "--out", out, "--border", "mirror"},
		{"seams", "--in", in, "--out", out, "--count", "8"},
		{"seams", "--in", filepath.Join(dir, "missing.png"), "--out", out},
	}
	for _, args := range tests {
		root := newRootCmd()
		root.SetArgs(args)
		assert.Error(t, root.ExecuteContext(context.Background()), "%v", args)
	}
}

func TestSeams_CommandDebugMasks(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir, "in.png", 16, 12)
	out := filepath.Join(dir, "seams.png")

	mask := image.NewNRGBA(image.Rect(0, 0, 16, 12))
	draw.Draw(mask, image.Rect(0, 0, 4, 12), image.White, image.Point{}, draw.Src)
	maskPath := filepath.Join(dir, "protect.png")
	require.NoError(t, imaging.Save(mask, maskPath))

	root := newRootCmd()
	root.SetArgs([]string{"seams", "--in", in, "--out", out, "--count", "2", "--protect", maskPath, "--debug"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	src, err := imaging.Open(in)
	require.NoError(t, err)
	res, err := imaging.Open(out)
	require.NoError(t, err)

	// The protected band is tinted, the seams never cross it.
	assert.NotEqual(t, src.At(1, 5), res.At(1, 5))
	for y := 0; y < 12; y++ {
		for x := 0; x < 4; x++ {
			r, g, b, _ := res.At(x, y).RGBA()
			assert.False(t, r == 0xffff && g == 0 && b == 0, "seam drawn at (%d, %d)", x, y)
		}
	}
}
