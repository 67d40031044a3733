package carver

import (
	"image"

	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"
)

// Detector finds the regions of an image which must be preserved.
type Detector interface {
	Detect(img *image.NRGBA) []image.Rectangle
}

// FaceDetector is a Detector backed by the pigo face classifier.
type FaceDetector struct {
	classifier *pigo.Pigo

	// Angle is the in-plane rotation of the faces, as a fraction of 2π.
	Angle float64
	// MinSize and MaxSize bound the detection window, in pixels.
	// A zero MaxSize means the longest image side.
	MinSize int
	MaxSize int
	// ShiftFactor and ScaleFactor drive the sliding window.
	ShiftFactor float64
	ScaleFactor float64
	// IoUThreshold is used when clustering overlapping detections.
	IoUThreshold float64
	// QThreshold discards detections with a lower score.
	QThreshold float32
}

var _ Detector = (*FaceDetector)(nil)

// NewFaceDetector unpacks the cascade binary and returns a detector with
// the default pigo parameters.
func NewFaceDetector(cascade []byte) (*FaceDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the cascade file")
	}
	return &FaceDetector{
		classifier:   classifier,
		MinSize:      20,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		QThreshold:   5.0,
	}, nil
}

// Detect returns the bounding box of every face found in img.
func (fd *FaceDetector) Detect(img *image.NRGBA) []image.Rectangle {
	cols, rows := img.Bounds().Dx(), img.Bounds().Dy()
	maxSize := fd.MaxSize
	if maxSize == 0 {
		maxSize = max(cols, rows)
	}

	params := pigo.CascadeParams{
		MinSize:     fd.MinSize,
		MaxSize:     maxSize,
		ShiftFactor: fd.ShiftFactor,
		ScaleFactor: fd.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := fd.classifier.RunCascade(params, fd.Angle)
	dets = fd.classifier.ClusterDetections(dets, fd.IoUThreshold)

	faces := make([]image.Rectangle, 0, len(dets))
	for _, d := range dets {
		if d.Q < fd.QThreshold {
			continue
		}
		half := d.Scale / 2
		faces = append(faces, image.Rect(d.Col-half, d.Row-half, d.Col+half, d.Row+half))
	}
	return faces
}
