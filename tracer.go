package carver

import (
	"context"

	"github.com/pkg/errors"
)

// SeamIterator lazily yields the successive seams a width reduction would
// remove. Each call to Next carves one seam from a private working copy,
// so the caller's image is never touched. An iterator cannot be rewound.
type SeamIterator struct {
	p         *Processor
	st        *state
	origin    []int
	remaining int

	seam Seam
	orig Seam
	err  error
	done bool
}

// TraceSeams returns an iterator over the first count seams removed from img.
// count must leave at least one column in place.
func (p *Processor) TraceSeams(img *Image, count int) (*SeamIterator, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if count < 0 || count >= img.Width {
		return nil, errors.Wrapf(ErrInvalidDimensions,
			"cannot trace %d seams over an image %d pixels wide", count, img.Width)
	}
	st, err := p.prepare(img)
	if err != nil {
		return nil, err
	}

	// origin maps every pixel of the working image to its source column.
	origin := make([]int, img.Width*img.Height)
	for i := range origin {
		origin[i] = i % img.Width
	}
	return &SeamIterator{
		p:         p,
		st:        st,
		origin:    origin,
		remaining: count,
	}, nil
}

// Next advances to the next seam. It returns false once all seams were
// produced, the context was cancelled or an error occurred.
func (it *SeamIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}
	if it.remaining == 0 {
		it.finish(nil)
		return false
	}
	if err := ctx.Err(); err != nil {
		it.finish(errors.Wrap(err, "seam tracing stopped"))
		return false
	}

	seam, err := it.p.findSeam(it.st)
	if err != nil {
		it.finish(err)
		return false
	}
	w, h := it.st.img.Width, it.st.img.Height

	orig := make(Seam, h)
	for y, x := range seam {
		orig[y] = it.origin[y*w+x]
	}
	next, err := it.p.removeSeam(it.st, seam)
	if err != nil {
		it.finish(err)
		return false
	}

	it.origin = removeColumns(it.origin, w, h, 1, seam, 1)
	it.st = next
	it.seam, it.orig = seam, orig
	it.remaining--
	return true
}

// Seam returns the current seam in the coordinates of the image it was
// carved from, i.e. the source image narrowed by all previous seams.
func (it *SeamIterator) Seam() Seam {
	return it.seam
}

// Original returns the current seam mapped back to the columns of the
// source image. Consecutive rows may be more than one column apart.
func (it *SeamIterator) Original() Seam {
	return it.orig
}

// Image returns the working image after the seams yielded so far were removed.
func (it *SeamIterator) Image() *Image {
	return it.st.img
}

// Err returns the error which stopped the iteration, if any.
func (it *SeamIterator) Err() error {
	return it.err
}

func (it *SeamIterator) finish(err error) {
	it.done = true
	it.err = err
	it.seam, it.orig = nil, nil
}
