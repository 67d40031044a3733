package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/esimov/carver"
	"github.com/spf13/pflag"
)

// maxWorkers sets the maximum number of concurrently processed files.
const maxWorkers = 20

// config holds the resize options. Every field can be set either from a
// TOML file or from the flag of the same name; flags win.
type config struct {
	Source      string  `toml:"in"`
	Destination string  `toml:"out"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Percentage  bool    `toml:"perc"`
	Square      bool    `toml:"square"`
	Scale       bool    `toml:"scale"`
	BlurRadius  int     `toml:"blur"`
	Sobel       float64 `toml:"sobel"`
	Border      string  `toml:"border"`
	FaceDetect  bool    `toml:"face"`
	Cascade     string  `toml:"cc"`
	FaceAngle   float64 `toml:"angle"`
	ProtectMask string  `toml:"protect"`
	RemoveMask  string  `toml:"remove"`
	Workers     int     `toml:"conc"`
}

func (c *config) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Source, "in", pipeName, "source image, directory, URL or - for stdin")
	fs.StringVar(&c.Destination, "out", pipeName, "destination image, directory or - for stdout")
	fs.IntVar(&c.Width, "width", 0, "new width")
	fs.IntVar(&c.Height, "height", 0, "new height")
	fs.BoolVar(&c.Percentage, "perc", false, "reduce image by percentage")
	fs.BoolVar(&c.Square, "square", false, "reduce image to square dimensions")
	fs.BoolVar(&c.Scale, "scale", false, "proportional scaling before carving")
	fs.IntVar(&c.BlurRadius, "blur", 0, "blur radius applied before edge detection")
	fs.Float64Var(&c.Sobel, "sobel", 0, "sobel filter threshold")
	fs.StringVar(&c.Border, "border", carver.BorderClamp.String(), "edge handling of the sobel filter: clamp or zero")
	fs.BoolVar(&c.FaceDetect, "face", false, "use face detection")
	fs.StringVar(&c.Cascade, "cc", "", "face cascade classifier")
	fs.Float64Var(&c.FaceAngle, "angle", 0, "plane rotated faces angle")
	fs.StringVar(&c.ProtectMask, "protect", "", "mask image of the regions to protect")
	fs.StringVar(&c.RemoveMask, "remove", "", "mask image of the regions to remove")
	fs.IntVar(&c.Workers, "conc", runtime.NumCPU(), "number of files to process concurrently")
}

// loadFile decodes the TOML file at path into c. Flags set on the command
// line keep their value.
func (c *config) loadFile(path string, fs *pflag.FlagSet) error {
	changed := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("unable to read the config file %s: %w", path, err)
	}
	for name, val := range changed {
		if err := fs.Set(name, val); err != nil {
			return err
		}
	}
	return nil
}

func (c *config) validate() error {
	if c.Width <= 0 && c.Height <= 0 && !c.Square {
		return fmt.Errorf("please provide a width, height or percentage for image rescaling")
	}
	if c.Percentage && (c.Width > 100 || c.Height > 100) {
		return fmt.Errorf("cannot use the percentage flag for image enlargement")
	}
	if c.FaceDetect && len(c.Cascade) == 0 {
		return fmt.Errorf("please specify a face classifier in case you are using the --face flag")
	}
	if _, err := parseBorder(c.Border); err != nil {
		return err
	}
	if c.Workers <= 0 || c.Workers > maxWorkers {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// processor builds the carver.Processor described by the configuration.
func (c *config) processor() (*carver.Processor, error) {
	border, err := parseBorder(c.Border)
	if err != nil {
		return nil, err
	}
	p := &carver.Processor{
		BlurRadius:     c.BlurRadius,
		SobelThreshold: c.Sobel,
		Border:         border,
		Scale:          c.Scale,
		NewWidth:       c.Width,
		NewHeight:      c.Height,
		Percentage:     c.Percentage,
		Square:         c.Square,
	}

	if c.FaceDetect {
		cascade, err := os.ReadFile(c.Cascade)
		if err != nil {
			return nil, fmt.Errorf("could not read the cascade file: %w", err)
		}
		fd, err := carver.NewFaceDetector(cascade)
		if err != nil {
			return nil, err
		}
		fd.Angle = c.FaceAngle
		p.FaceDetector = fd
	}
	if c.ProtectMask != "" {
		if p.ProtectMask, err = carver.LoadMask(c.ProtectMask); err != nil {
			return nil, err
		}
	}
	if c.RemoveMask != "" {
		if p.RemoveMask, err = carver.LoadMask(c.RemoveMask); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func parseBorder(s string) (carver.BorderMode, error) {
	switch s {
	case "", carver.BorderClamp.String():
		return carver.BorderClamp, nil
	case carver.BorderZero.String():
		return carver.BorderZero, nil
	}
	return 0, fmt.Errorf("unsupported border mode %q", s)
}
