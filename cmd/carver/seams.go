package main

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/esimov/carver"
	"github.com/spf13/cobra"
)

func newSeamsCmd() *cobra.Command {
	var (
		cfg        config
		hex, shape string
		count      int
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "seams",
		Short: "Draw the seams a width reduction would remove",
		Long: `Traces the first N vertical seams of the source image and draws them
over it. Useful to inspect which parts of an image the carver considers
unimportant. With --debug the protected and removable regions are tinted too.`,
		Example: `  carver seams --in input.jpg --out seams.png --count 50 --color "#00ff00"
  carver seams --in input.jpg --out seams.png --face --cc facefinder --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if cfg.Source == "" || cfg.Destination == "" {
				return fmt.Errorf("both --in and --out are required")
			}
			if cfg.FaceDetect && len(cfg.Cascade) == 0 {
				return fmt.Errorf("please specify a face classifier in case you are using the --face flag")
			}
			col, err := carver.ParseColor(hex)
			if err != nil {
				return err
			}
			proc, err := cfg.processor()
			if err != nil {
				return err
			}
			proc.Logger = logger

			src, err := imaging.Open(cfg.Source, imaging.AutoOrientation(true))
			if err != nil {
				return fmt.Errorf("could not open the source image: %w", err)
			}
			img := carver.FromImage(src)

			it, err := proc.TraceSeams(img, count)
			if err != nil {
				return err
			}
			seams := make([]carver.Seam, 0, count)
			for it.Next(ctx) {
				seams = append(seams, it.Original())
			}
			if err := it.Err(); err != nil {
				return err
			}
			logger.Debug("traced seams", "count", len(seams))

			dst := img.NRGBA()
			if debug {
				protect, remove, err := proc.Masks(img)
				if err != nil {
					return err
				}
				pc, _ := carver.ParseColor(carver.DefaultProtectColor)
				rc, _ := carver.ParseColor(carver.DefaultRemoveColor)
				carver.DrawMask(dst, protect, pc)
				carver.DrawMask(dst, remove, rc)
			}
			carver.DrawSeams(dst, seams, carver.ShapeType(shape), col)

			if err := imaging.Save(dst, cfg.Destination); err != nil {
				return fmt.Errorf("could not save the seam overlay: %w", err)
			}
			logger.Info("seams drawn", "output", cfg.Destination, "count", len(seams))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Source, "in", "", "source image")
	fs.StringVar(&cfg.Destination, "out", "", "destination image")
	fs.IntVar(&count, "count", 10, "number of seams to trace")
	fs.StringVar(&hex, "color", carver.DefaultSeamColor, "seam color")
	fs.StringVar(&shape, "shape", string(carver.Line), "seam marker: line or circle")
	fs.BoolVar(&debug, "debug", false, "tint the protected and removable regions")
	fs.StringVar(&cfg.Border, "border", carver.BorderClamp.String(), "edge handling of the sobel filter: clamp or zero")
	fs.IntVar(&cfg.BlurRadius, "blur", 0, "blur radius applied before edge detection")
	fs.Float64Var(&cfg.Sobel, "sobel", 0, "sobel filter threshold")
	fs.BoolVar(&cfg.FaceDetect, "face", false, "use face detection")
	fs.StringVar(&cfg.Cascade, "cc", "", "face cascade classifier")
	fs.Float64Var(&cfg.FaceAngle, "angle", 0, "plane rotated faces angle")
	fs.StringVar(&cfg.ProtectMask, "protect", "", "mask image of the regions to protect")
	fs.StringVar(&cfg.RemoveMask, "remove", "", "mask image of the regions to remove")

	return cmd
}
