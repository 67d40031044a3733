package carver

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ProtectedEnergy exceeds the largest Sobel magnitude of an 8 bit image
// (4·255·√2). Protected pixels get it added once per image row, so a single
// protected pixel costs more than any unprotected seam.
const ProtectedEnergy = 1 << 11

// Processor options
type Processor struct {
	// BlurRadius is the sigma of the Gaussian blur applied before edge
	// detection. Zero disables blurring.
	BlurRadius int
	// SobelThreshold zeroes the energy of pixels whose gradient magnitude
	// does not exceed it. Zero keeps the raw magnitude.
	SobelThreshold float64
	// Border selects how the Sobel operator handles the image edges.
	Border BorderMode
	// Workers bounds the goroutines used for the row parallel stages.
	// Zero means runtime.NumCPU().
	Workers int
	// Scale first downsizes the image proportionally with a Lanczos filter
	// when both dimensions shrink, then carves the remaining pixels.
	Scale bool

	// ProtectMask marks pixels that should survive the resize.
	ProtectMask *Mask
	// RemoveMask marks pixels the seams should go through first.
	RemoveMask *Mask
	// FaceDetector, when set, protects every face found in the source image.
	FaceDetector Detector

	// NewWidth and NewHeight are the target dimensions used by Process.
	// Zero keeps the source dimension.
	NewWidth  int
	NewHeight int
	// Percentage reads NewWidth and NewHeight as a percentage of the source size.
	Percentage bool
	// Square shrinks the image to a square based on its shortest edge,
	// or on the smallest of the provided targets.
	Square bool

	Logger *log.Logger
}

// state is the working set of a single carving call. The masks, when
// present, always share the geometry of img.
type state struct {
	img     *Image
	protect *Mask
	remove  *Mask
}

func (s *state) transpose() *state {
	return &state{
		img:     s.img.Transpose(),
		protect: s.protect.Transpose(),
		remove:  s.remove.Transpose(),
	}
}

func (p *Processor) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

// ReduceWidth removes vertical seams until the image is targetWidth pixels wide.
func (p *Processor) ReduceWidth(ctx context.Context, img *Image, targetWidth int) (*Image, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if err := checkTarget("width", targetWidth, img.Width); err != nil {
		return nil, err
	}
	if targetWidth == img.Width {
		return img, nil
	}
	st, err := p.prepare(img)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	st, err = p.carve(ctx, st, targetWidth)
	if err != nil {
		return partial(st, err)
	}
	p.logger().Debug("reduced width", "from", img.Width, "to", targetWidth, "elapsed", time.Since(start))

	return st.img, nil
}

// ReduceHeight removes horizontal seams until the image is targetHeight
// pixels high. A horizontal seam is a vertical seam of the transposed image.
func (p *Processor) ReduceHeight(ctx context.Context, img *Image, targetHeight int) (*Image, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if err := checkTarget("height", targetHeight, img.Height); err != nil {
		return nil, err
	}
	if targetHeight == img.Height {
		return img, nil
	}
	st, err := p.prepare(img)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	st, err = p.carve(ctx, st.transpose(), targetHeight)
	if st != nil {
		st = st.transpose()
	}
	if err != nil {
		return partial(st, err)
	}
	p.logger().Debug("reduced height", "from", img.Height, "to", targetHeight, "elapsed", time.Since(start))

	return st.img, nil
}

// Resize shrinks the image to targetWidth x targetHeight, first removing
// vertical seams, then horizontal ones. Both targets are validated before
// any work is done.
func (p *Processor) Resize(ctx context.Context, img *Image, targetWidth, targetHeight int) (*Image, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if err := checkTarget("width", targetWidth, img.Width); err != nil {
		return nil, err
	}
	if err := checkTarget("height", targetHeight, img.Height); err != nil {
		return nil, err
	}
	if targetWidth == img.Width && targetHeight == img.Height {
		return img, nil
	}

	start := time.Now()
	protect, remove := p.ProtectMask, p.RemoveMask
	if err := protect.fits(img); err != nil {
		return nil, err
	}
	if err := remove.fits(img); err != nil {
		return nil, err
	}

	if p.Scale && targetWidth < img.Width && targetHeight < img.Height {
		img, protect, remove = p.prescale(img, protect, remove, targetWidth, targetHeight)
	}

	st, err := p.prepareMasks(img, protect, remove)
	if err != nil {
		return nil, err
	}
	if st, err = p.carve(ctx, st, targetWidth); err != nil {
		return partial(st, err)
	}
	st, err = p.carve(ctx, st.transpose(), targetHeight)
	if st != nil {
		st = st.transpose()
	}
	if err != nil {
		return partial(st, err)
	}

	p.logger().Debug("resized image",
		"from", [2]int{img.Width, img.Height},
		"to", [2]int{targetWidth, targetHeight},
		"elapsed", time.Since(start),
	)
	return st.img, nil
}

// checkTarget validates a requested dimension against the source one.
func checkTarget(name string, target, size int) error {
	if target < 1 || target > size {
		return errors.Wrapf(ErrInvalidDimensions, "target %s %d must be between 1 and %d", name, target, size)
	}
	return nil
}

// partial decides what a failed carve returns. Cancellation hands back the
// last fully carved image, any other failure returns no image at all.
func partial(st *state, err error) (*Image, error) {
	if st != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return st.img, err
	}
	return nil, err
}

// prepare builds the initial working state from the caller's image and
// the configured masks.
func (p *Processor) prepare(img *Image) (*state, error) {
	if err := p.ProtectMask.fits(img); err != nil {
		return nil, err
	}
	if err := p.RemoveMask.fits(img); err != nil {
		return nil, err
	}
	return p.prepareMasks(img, p.ProtectMask, p.RemoveMask)
}

// Masks returns the protect and remove masks the carving of img starts
// from. The protect mask includes the detected faces.
func (p *Processor) Masks(img *Image) (protect, remove *Mask, err error) {
	if err := img.validate(); err != nil {
		return nil, nil, err
	}
	st, err := p.prepare(img)
	if err != nil {
		return nil, nil, err
	}
	return st.protect, st.remove, nil
}

func (p *Processor) prepareMasks(img *Image, protect, remove *Mask) (*state, error) {
	if p.FaceDetector != nil {
		faces := p.FaceDetector.Detect(img.NRGBA())
		if len(faces) > 0 {
			fm := NewMask(img.Width, img.Height)
			for _, face := range faces {
				fm.Fill(face)
			}
			protect = protect.union(fm)
		}
		p.logger().Debug("face detection", "faces", len(faces))
	}
	return &state{img: img, protect: protect, remove: remove}, nil
}

// carve removes vertical seams from st until its width reaches target.
// The context is only consulted between two iterations.
func (p *Processor) carve(ctx context.Context, st *state, target int) (*state, error) {
	for st.img.Width > target {
		if err := ctx.Err(); err != nil {
			return st, errors.Wrapf(err, "carving stopped at width %d", st.img.Width)
		}
		seam, err := p.findSeam(st)
		if err != nil {
			return nil, err
		}
		next, err := p.removeSeam(st, seam)
		if err != nil {
			return nil, err
		}
		st = next
	}
	return st, nil
}

// energy computes the energy map of the current image with the
// configured filters and masks applied.
func (p *Processor) energy(st *state) *Grid {
	src := st.img
	if p.BlurRadius > 0 {
		src = FromImage(imaging.Blur(src.NRGBA(), float64(p.BlurRadius)))
	}
	energy := Energy(Luminance(src, p.Workers), p.Border, p.Workers)

	if p.SobelThreshold > 0 {
		threshold(energy, p.SobelThreshold)
	}
	if st.protect != nil {
		penalty := ProtectedEnergy * float64(st.img.Height)
		for i, on := range st.protect.Bits {
			if on {
				energy.Values[i] += penalty
			}
		}
	}
	if st.remove != nil {
		for i, on := range st.remove.Bits {
			if on {
				energy.Values[i] = 0
			}
		}
	}
	return energy
}

// findSeam returns the lowest energy vertical seam of the current image.
func (p *Processor) findSeam(st *state) (Seam, error) {
	table, err := Cumulate(p.energy(st))
	if err != nil {
		return nil, err
	}
	return table.Trace()
}

// removeSeam removes the seam from the image and from every mask.
func (p *Processor) removeSeam(st *state, seam Seam) (*state, error) {
	img, err := removeSeam(st.img, seam, p.Workers)
	if err != nil {
		return nil, err
	}
	protect, err := st.protect.RemoveSeam(seam)
	if err != nil {
		return nil, err
	}
	remove, err := st.remove.RemoveSeam(seam)
	if err != nil {
		return nil, err
	}
	return &state{img: img, protect: protect, remove: remove}, nil
}

// prescale downsizes the image, preserving its aspect ratio, to the
// smallest size still covering the target dimensions.
func (p *Processor) prescale(img *Image, protect, remove *Mask, tw, th int) (*Image, *Mask, *Mask) {
	w, h := float64(img.Width), float64(img.Height)
	ratio := math.Max(float64(tw)/w, float64(th)/h)

	sw := min(max(int(math.Ceil(w*ratio)), tw), img.Width)
	sh := min(max(int(math.Ceil(h*ratio)), th), img.Height)
	if sw == img.Width && sh == img.Height {
		return img, protect, remove
	}
	p.logger().Debug("prescaling image", "from", [2]int{img.Width, img.Height}, "to", [2]int{sw, sh})

	scaled := FromImage(imaging.Resize(img.NRGBA(), sw, sh, imaging.Lanczos))
	return scaled, protect.resize(sw, sh), remove.resize(sw, sh)
}

// resize rescales the mask with a nearest neighbour filter.
func (m *Mask) resize(width, height int) *Mask {
	if m == nil {
		return nil
	}
	img := NewImage(m.Width, m.Height)
	for i, on := range m.Bits {
		if on {
			img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2] = 0xff, 0xff, 0xff
		}
	}
	return MaskFromImage(imaging.Resize(img.NRGBA(), width, height, imaging.NearestNeighbor))
}
