package carver

import (
	"context"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// Process decodes the image read from r, resizes it to NewWidth x NewHeight
// and encodes the result into w using the given format.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer, format imaging.Format) error {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return errors.Wrap(err, "could not decode the source image")
	}
	img := FromImage(src)

	nw, nh := p.Targets(img.Width, img.Height)
	res, err := p.Resize(ctx, img, nw, nh)
	if err != nil {
		return err
	}
	return errors.Wrap(
		imaging.Encode(w, res.NRGBA(), format, imaging.JPEGQuality(100)),
		"could not encode the resized image",
	)
}

// Targets resolves NewWidth, NewHeight, Percentage and Square into the
// final dimensions for a source image of size width x height.
func (p *Processor) Targets(width, height int) (int, int) {
	nw, nh := width, height
	if p.NewWidth != 0 {
		nw = p.NewWidth
		if p.Percentage {
			nw = width * p.NewWidth / 100
		}
	}
	if p.NewHeight != 0 {
		nh = p.NewHeight
		if p.Percentage {
			nh = height * p.NewHeight / 100
		}
	}
	if p.Square {
		side := min(nw, nh)
		if p.NewWidth == 0 && p.NewHeight == 0 {
			side = min(width, height)
		}
		nw, nh = side, side
	}
	return nw, nh
}

// LoadMask opens an image file and converts its bright pixels into a mask.
func LoadMask(path string) (*Mask, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "could not open the mask file %s", path)
	}
	return MaskFromImage(src), nil
}
