// Package config resolves render settings from defaults, a .env file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultEnvFile is read when no -env flag is given. Its absence is not an error.
const DefaultEnvFile = ".env"

// Config holds everything a render run needs. Zero render fields mean "use the scene's value".
type Config struct {
	Scene     string // Built-in scene name or "file:<name>"
	SceneFile string // Path to a JSON scene file; takes precedence over Scene
	ScenesDir string // Directory searched for scene files

	Width   int
	Height  int
	Samples int
	Depth   int
	Seed    int64

	Out            string // Output path; empty or "-" writes to stdout
	Format         string // Output format; inferred from Out when empty
	Thumbnail      string // Optional thumbnail path
	ThumbnailWidth int

	Upload   bool   // Publish the render to S3
	S3Prefix string // Key prefix for uploads
	S3       imageio.S3Config

	EnvFile string
}

// Default returns the configuration used before any source is applied
func Default() Config {
	return Config{
		Scene:          "default",
		ScenesDir:      "scenes",
		ThumbnailWidth: 160,
		EnvFile:        DefaultEnvFile,
	}
}

// envFlags maps environment variables onto the flag that carries the same setting
var envFlags = []struct {
	env  string
	flag string
}{
	{"RAYTRACER_SCENE", "scene"},
	{"RAYTRACER_SCENE_FILE", "scene-file"},
	{"RAYTRACER_SCENES_DIR", "scenes-dir"},
	{"RAYTRACER_WIDTH", "width"},
	{"RAYTRACER_HEIGHT", "height"},
	{"RAYTRACER_SAMPLES", "samples"},
	{"RAYTRACER_DEPTH", "depth"},
	{"RAYTRACER_SEED", "seed"},
	{"RAYTRACER_OUT", "out"},
	{"RAYTRACER_FORMAT", "format"},
	{"RAYTRACER_THUMBNAIL", "thumbnail"},
	{"RAYTRACER_THUMBNAIL_WIDTH", "thumbnail-width"},
	{"RAYTRACER_UPLOAD", "upload"},
	{"RAYTRACER_PORT", "port"},
}

// NewFlagSet binds the configuration's flags to cfg. Callers may register
// extra flags (e.g. -port) before calling Load; matching RAYTRACER_* variables
// are picked up for them too.
func NewFlagSet(name string, cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Built-in scene: default, spheregrid, empty (or file:<name> from -scenes-dir)")
	fs.StringVar(&cfg.SceneFile, "scene-file", cfg.SceneFile, "Path to a JSON scene file")
	fs.StringVar(&cfg.ScenesDir, "scenes-dir", cfg.ScenesDir, "Directory containing JSON scene files")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels (0 = scene default)")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Image height in pixels (0 = derive from aspect ratio)")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "Samples per pixel (0 = scene default)")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "Maximum bounce depth (0 = scene default)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = scene default)")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "Output file (default stdout)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: ppm, png, bmp, tiff (default from -out, else ppm)")
	fs.StringVar(&cfg.Thumbnail, "thumbnail", cfg.Thumbnail, "Also write a downscaled preview to this file")
	fs.IntVar(&cfg.ThumbnailWidth, "thumbnail-width", cfg.ThumbnailWidth, "Preview width in pixels")
	fs.BoolVar(&cfg.Upload, "upload", cfg.Upload, "Upload the render to the configured S3 bucket")
	fs.StringVar(&cfg.EnvFile, "env", cfg.EnvFile, "Environment file to load")
	return fs
}

// Load parses args into cfg through fs, then fills every flag that was not
// given on the command line from the environment, falling back to the env file.
// lookup is normally os.LookupEnv.
func Load(fs *flag.FlagSet, cfg *Config, args []string, lookup func(string) (string, bool)) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fileEnv, err := godotenv.Read(cfg.EnvFile)
	if err != nil {
		// A missing default file is fine; an explicitly requested one must exist
		if explicit["env"] || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", cfg.EnvFile, err)
		}
		fileEnv = map[string]string{}
	}

	getenv := func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := fileEnv[key]
		return value, ok
	}

	for _, ef := range envFlags {
		if explicit[ef.flag] || fs.Lookup(ef.flag) == nil {
			continue
		}
		if value, ok := getenv(ef.env); ok {
			if err := fs.Set(ef.flag, value); err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, ef.env, value, err)
			}
		}
	}

	// Credentials never come from flags
	cfg.S3.AccessKey, _ = getenv("S3_ACCESS_KEY")
	cfg.S3.SecretKey, _ = getenv("S3_SECRET_KEY")
	cfg.S3.Endpoint, _ = getenv("S3_ENDPOINT")
	cfg.S3.Region, _ = getenv("S3_REGION")
	cfg.S3.Bucket, _ = getenv("S3_BUCKET")
	cfg.S3.ACL, _ = getenv("S3_ACL")
	cfg.S3Prefix, _ = getenv("S3_PREFIX")
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}

	return nil
}

// Validate checks the configuration for values no render could use
func (c Config) Validate() error {
	if c.Width != 0 && c.Width < 2 {
		return fmt.Errorf("%w: width %d must be at least 2", ErrInvalidConfig, c.Width)
	}
	if c.Height != 0 && c.Height < 2 {
		return fmt.Errorf("%w: height %d must be at least 2", ErrInvalidConfig, c.Height)
	}
	if c.Samples < 0 {
		return fmt.Errorf("%w: samples %d must not be negative", ErrInvalidConfig, c.Samples)
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: depth %d must not be negative", ErrInvalidConfig, c.Depth)
	}
	if c.Thumbnail != "" && c.ThumbnailWidth < 1 {
		return fmt.Errorf("%w: thumbnail width %d must be positive", ErrInvalidConfig, c.ThumbnailWidth)
	}
	if _, err := c.OutputFormat(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Upload && !c.S3.Enabled() {
		return fmt.Errorf("%w: upload requested but S3_BUCKET is not set", ErrInvalidConfig)
	}
	return nil
}

// ToStdout reports whether the image goes to standard output
func (c Config) ToStdout() bool {
	return c.Out == "" || c.Out == "-"
}

// OutputFormat resolves the encoding: -format if given, else the -out extension, else PPM
func (c Config) OutputFormat() (imageio.Format, error) {
	if c.Format != "" {
		return imageio.ParseFormat(c.Format)
	}
	if c.ToStdout() {
		return imageio.FormatPPM, nil
	}
	return imageio.FormatFromPath(c.Out)
}

// SamplingOverrides returns the render settings to lay over the scene's own
func (c Config) SamplingOverrides() scene.SamplingConfig {
	return scene.SamplingConfig{
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.Depth,
		Seed:            c.Seed,
	}
}

// UploadKey names the object a render is stored under
func (c Config) UploadKey(sceneName string, seed int64, format imageio.Format) string {
	return c.S3Prefix + sceneName + "-seed" + strconv.FormatInt(seed, 10) + format.Extension()
}

// LoadScene builds the configured scene and applies the size and sampling overrides
func (c Config) LoadScene() (*scene.Scene, error) {
	var s *scene.Scene
	var err error
	if c.SceneFile != "" {
		s, err = scene.LoadSceneFile(c.SceneFile)
	} else {
		s, err = scene.Load(c.Scene, c.ScenesDir, c.Seed)
	}
	if err != nil {
		return nil, err
	}

	s.SamplingConfig = scene.MergeSamplingConfig(s.SamplingConfig, c.SamplingOverrides())
	if c.Width != 0 || c.Height != 0 {
		width := c.Width
		if width == 0 {
			width = s.SamplingConfig.Width
		}
		if err := s.Resize(width, c.Height); err != nil {
			return nil, err
		}
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
