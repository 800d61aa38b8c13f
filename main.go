package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/filmio"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
	"github.com/golang/glog"
)

// options holds the command line settings. Zero values keep the scene's defaults.
type options struct {
	Scene       string
	Width       int
	Height      int
	Samples     int
	Passes      int
	Workers     int
	Depth       int
	Termination string
	Seed        int64
	Sequential  bool
	OutputRoot  string
	Checkpoint  string
	Resume      string
	TraceRatio  float64
	CPUProfile  string
}

func main() {
	var opts options
	flag.StringVar(&opts.Scene, "scene", "default", "Scene name ("+strings.Join(scene.Names(), ", ")+")")
	flag.IntVar(&opts.Width, "width", 0, "Image width (0 keeps the scene default)")
	flag.IntVar(&opts.Height, "height", 0, "Image height (0 keeps the scene default)")
	flag.IntVar(&opts.Samples, "samples", 0, "Samples per pixel (0 keeps the scene default)")
	flag.IntVar(&opts.Passes, "passes", 7, "Number of progressive passes")
	flag.IntVar(&opts.Workers, "workers", 0, "Parallel tile workers (0 = CPU count)")
	flag.IntVar(&opts.Depth, "depth", 0, "Maximum path length (0 keeps the scene default)")
	flag.StringVar(&opts.Termination, "termination", "", "Long path policy: 'sentinel' or 'roulette'")
	flag.Int64Var(&opts.Seed, "seed", 0, "Render seed (0 keeps the scene default)")
	flag.BoolVar(&opts.Sequential, "sequential", false, "Render on one goroutine with a single sampler")
	flag.StringVar(&opts.OutputRoot, "out", "output", "Root directory for rendered images")
	flag.StringVar(&opts.Checkpoint, "checkpoint", "", "Write the film to this file after every pass")
	flag.StringVar(&opts.Resume, "resume", "", "Continue from a film checkpoint")
	flag.Float64Var(&opts.TraceRatio, "trace-ratio", 0, "Fraction of renders to trace (spans are logged at -v=1)")
	flag.StringVar(&opts.CPUProfile, "cpu-profile", "", "Write a CPU profile to `file`")
	flag.Parse()
	defer glog.Flush()

	glog.CopyStandardLogTo("INFO")

	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			glog.Exitf("Could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Exitf("Could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if opts.TraceRatio > 0 {
		shutdown := renderer.InstallTracing(opts.TraceRatio)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				glog.Errorf("Error shutting down tracing: %v", err)
			}
		}()
	}

	if err := renderer.RegisterViews(); err != nil {
		glog.Exitf("Error registering metric views: %v", err)
	}

	selectedScene, err := createScene(opts)
	if err != nil {
		glog.Exitf("Error creating scene: %v", err)
	}
	cfg := selectedScene.SamplingConfig
	glog.Infof("Rendering scene %q: %dx%d, %d spp, %d spheres, termination %v",
		opts.Scene, cfg.Width, cfg.Height, cfg.SamplesPerPixel, selectedScene.GetPrimitiveCount(), cfg.Termination)

	outputDir, err := createOutputDir(opts.OutputRoot, opts.Scene)
	if err != nil {
		glog.Exitf("Error creating output directory: %v", err)
	}

	startTime := time.Now()
	var film *renderer.Film
	var stats renderer.RenderStats
	if opts.Sequential {
		film, stats = renderSequential(selectedScene)
	} else {
		film, stats, err = renderProgressive(context.Background(), selectedScene, opts, renderer.NewGlogLogger())
		if err != nil {
			glog.Exitf("Error rendering: %v", err)
		}
	}

	glog.Infof("Render completed in %v", time.Since(startTime))
	glog.Infof("Samples per pixel: %d, paths: %d, mean bounces: %.2f",
		film.Samples, stats.Paths(), stats.MeanBounces())

	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	if err := savePNG(film.Image(), filename); err != nil {
		glog.Exitf("Error saving image: %v", err)
	}
	glog.Infof("Render saved as %s", filename)
}

// createScene builds the named scene and applies command line overrides
func createScene(opts options) (*scene.Scene, error) {
	s, err := scene.ByName(opts.Scene)
	if err != nil {
		return nil, err
	}

	if opts.Width > 0 || opts.Height > 0 {
		width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
		if opts.Width > 0 {
			width = opts.Width
		}
		if opts.Height > 0 {
			height = opts.Height
		}
		s.SetFilmSize(width, height)
	}
	if opts.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.Samples
	}
	if opts.Depth > 0 {
		s.SamplingConfig.MaxDepth = opts.Depth
	}
	if opts.Seed != 0 {
		s.SamplingConfig.Seed = opts.Seed
	}
	if opts.Termination != "" {
		termination, err := scene.ParseTermination(opts.Termination)
		if err != nil {
			return nil, err
		}
		s.SamplingConfig.Termination = termination
	}

	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("while validating sampling config: %w", err)
	}
	return s, nil
}

// createOutputDir creates root/<scene> and returns its path
func createOutputDir(root, sceneName string) (string, error) {
	if sceneName == "" {
		return "", errors.New("empty scene name")
	}
	dir := filepath.Join(root, filepath.Base(sceneName))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("while creating %s: %w", dir, err)
	}
	return dir, nil
}

// renderSequential renders with the single-goroutine reference renderer
func renderSequential(s *scene.Scene) (*renderer.Film, renderer.RenderStats) {
	rt := renderer.NewRaytracer(s)
	stats := rt.Render()
	return rt.Film(), stats
}

// renderProgressive runs all passes, writing a checkpoint after each one if requested
func renderProgressive(ctx context.Context, s *scene.Scene, opts options, logger core.Logger) (*renderer.Film, renderer.RenderStats, error) {
	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	config.MaxPasses = opts.Passes
	config.NumWorkers = opts.Workers
	if config.MaxPasses > config.MaxSamplesPerPixel {
		config.MaxPasses = config.MaxSamplesPerPixel
	}

	pr, err := renderer.NewProgressiveRaytracer(s, config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	if opts.Resume != "" {
		film, err := filmio.ReadFilmFromFile(opts.Resume)
		if err != nil {
			return nil, renderer.RenderStats{}, fmt.Errorf("while reading checkpoint %s: %w", opts.Resume, err)
		}
		if err := pr.Resume(film); err != nil {
			return nil, renderer.RenderStats{}, fmt.Errorf("while resuming: %w", err)
		}
		logger.Printf("Resuming from %s with %d samples per pixel\n", opts.Resume, film.Samples)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var total renderer.RenderStats
	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})
	for result := range passChan {
		total.Merge(result.Stats)
		if opts.Checkpoint != "" {
			if err := filmio.WriteFilmToFile(result.Film, opts.Checkpoint); err != nil {
				return nil, total, fmt.Errorf("while writing checkpoint after pass %d: %w", result.PassNumber, err)
			}
		}
	}
	if err := <-errChan; err != nil {
		return nil, total, err
	}

	return pr.Film(), total, nil
}

// savePNG writes img to filename
func savePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("while creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("while encoding png: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("while closing file: %w", err)
	}
	return nil
}
