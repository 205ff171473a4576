package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.LookupEnv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders one image. The image goes to stdout or -out; all diagnostics go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, lookup func(string) (string, bool)) error {
	cfg := config.Default()
	fs := config.NewFlagSet("raytracer", &cfg)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }

	if err := config.Load(fs, &cfg, args, lookup); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	logger := log.New(stderr, "", 0)
	logger.Printf("Vector backend: %s", core.VectorBackend())

	selectedScene, err := cfg.LoadScene()
	if err != nil {
		return err
	}
	sampling := selectedScene.SamplingConfig
	logger.Printf("Rendering %s: %dx%d, %d samples, depth %d, seed %d",
		selectedScene.Name, sampling.Width, sampling.Height, sampling.SamplesPerPixel, sampling.MaxDepth, sampling.Seed)

	raytracer, err := renderer.NewRaytracer(selectedScene, logger)
	if err != nil {
		return err
	}
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v (%d samples, %d escaped, %d absorbed, %d hit depth limit)",
		stats.Duration, stats.TotalSamples, stats.Paths.Escaped, stats.Paths.Absorbed, stats.Paths.DepthExhausted)

	var encoded bytes.Buffer
	if err := imageio.Encode(&encoded, img, format); err != nil {
		return err
	}

	// Output sinks are independent; the first failure cancels the rest
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if cfg.ToStdout() {
			_, err := stdout.Write(encoded.Bytes())
			return err
		}
		if err := os.WriteFile(cfg.Out, encoded.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfg.Out, err)
		}
		logger.Printf("Render saved as %s", cfg.Out)
		return nil
	})

	if cfg.Thumbnail != "" {
		g.Go(func() error {
			return writeThumbnail(cfg.Thumbnail, img, cfg.ThumbnailWidth, logger)
		})
	}

	if cfg.Upload {
		g.Go(func() error {
			publisher, err := imageio.NewS3Publisher(cfg.S3, logger)
			if err != nil {
				return err
			}
			key := cfg.UploadKey(selectedScene.Name, sampling.Seed, format)
			location, err := publisher.Publish(gctx, key, encoded.Bytes(), format.ContentType())
			if err != nil {
				return err
			}
			logger.Printf("Published %s", location)
			return nil
		})
	}

	return g.Wait()
}

func writeThumbnail(path string, img *image.RGBA, width int, logger *log.Logger) error {
	format, err := imageio.FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer file.Close()

	if err := imageio.Encode(file, imageio.Thumbnail(img, width), format); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	logger.Printf("Thumbnail saved as %s", path)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Sphere Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-10s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings can also come from RAYTRACER_* environment variables or a .env file.")
	fmt.Fprintln(w, "S3 uploads read S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_ACL and S3_PREFIX.")
}
