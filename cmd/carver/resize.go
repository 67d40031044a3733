package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/esimov/carver"
	"github.com/esimov/carver/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// validExtensions lists the supported source files.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

func newResizeCmd() *cobra.Command {
	var (
		cfg        config
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Resize an image, a directory of images or a remote image",
		Example: `  carver resize --in input.jpg --out output.jpg --width 300
  carver resize --in photos/ --out resized/ --width 50 --height 50 --perc
  cat input.png | carver resize --in - --out - --height 200 > output.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := cfg.loadFile(configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			proc, err := cfg.processor()
			if err != nil {
				return err
			}
			proc.Logger = loggerFromContext(cmd.Context())

			return execute(cmd.Context(), proc, &cfg)
		},
	}
	cfg.bindFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "TOML file holding the resize options")

	return cmd
}

// execute runs the resize over a single file, a pipe, a URL or a whole directory.
func execute(ctx context.Context, proc *carver.Processor, cfg *config) error {
	logger := loggerFromContext(ctx)
	src := cfg.Source

	if utils.IsValidURL(src) {
		f, err := utils.DownloadImage(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		defer os.Remove(f.Name())
		f.Close()
		src = f.Name()
	}

	var (
		fi  os.FileInfo
		err error
	)
	if src == pipeName {
		fi, err = os.Stdin.Stat()
	} else {
		fi, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	now := time.Now()
	switch mode := fi.Mode(); {
	case mode.IsDir():
		if cfg.Destination == pipeName {
			return errors.New("a directory source needs a destination directory, not `-`")
		}
		err = processDir(ctx, proc, src, cfg.Destination, cfg.Workers)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		spinner := utils.NewSpinner(os.Stderr, fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ CARVER", utils.StatusMessage),
			utils.DecorateText("is resizing the image...", utils.DefaultMessage),
		), 100*time.Millisecond, true)

		spinner.Start()
		err = processFile(ctx, proc, src, cfg.Destination)
		if err == nil {
			spinner.StopMsg = fmt.Sprintf("%s %s\n",
				utils.DecorateText("⚡ CARVER", utils.StatusMessage),
				utils.DecorateText("the image has been resized successfully ✔", utils.SuccessMessage),
			)
		}
		spinner.Stop()
	default:
		err = fmt.Errorf("unsupported source %s", src)
	}
	if err != nil {
		return err
	}

	if cfg.Destination != pipeName {
		logger.Info("done", "output", cfg.Destination, "elapsed", utils.FormatTime(time.Since(now)))
	}
	return nil
}

// processDir resizes every supported image found in dir and stores the
// result under dest, using at most workers concurrent carvers.
func processDir(ctx context.Context, proc *carver.Processor, dir, dest string, workers int) error {
	logger := loggerFromContext(ctx)

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}

	var (
		total  int
		failed atomic.Int32
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !isValidExtension(filepath.Ext(path), validExtensions) {
			return nil
		}
		if err := gctx.Err(); err != nil {
			return errors.New("directory walk cancelled")
		}
		total++

		g.Go(func() error {
			out := filepath.Join(dest, filepath.Base(path))
			if err := processFile(gctx, proc, path, out); err != nil {
				// Cancellation stops the whole batch, other failures only skip the file.
				if errors.Is(err, context.Canceled) {
					return err
				}
				failed.Add(1)
				logger.Error("resizing image failed", "file", path, "err", err)
				return nil
			}
			logger.Info("image resized", "file", filepath.Base(out))
			return nil
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d images could not be resized", n, total)
	}
	return nil
}

// processFile resizes a single image. The destination file is removed in
// case of an error.
func processFile(ctx context.Context, proc *carver.Processor, in, out string) (err error) {
	logger := loggerFromContext(ctx)

	src, dst, err := pathToFile(logger, in, out)
	if err != nil {
		return err
	}
	defer closeReader(logger, src)
	defer func() {
		f, ok := dst.(*os.File)
		if !ok || f == os.Stdout {
			return
		}
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	format := imaging.JPEG
	if out != pipeName {
		if format, err = imaging.FormatFromFilename(out); err != nil {
			return fmt.Errorf("%v file type not supported", filepath.Ext(out))
		}
	}
	return proc.Process(ctx, src, dst, format)
}

// pathToFile converts the source and destination paths to readable and writable files.
func pathToFile(logger *log.Logger, in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
	)
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		f, err := os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
		src = f
	}

	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeReader(logger, src)
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			closeReader(logger, src)
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
		dst = f
	}
	return src, dst, nil
}

// closeReader closes r when it is an opened file, logging the failure.
func closeReader(logger *log.Logger, r io.Reader) {
	if f, ok := r.(*os.File); ok && f != os.Stdin {
		if err := f.Close(); err != nil {
			logger.Warn("could not close the opened file", "file", f.Name(), "err", err)
		}
	}
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	ext = strings.ToLower(ext)
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
