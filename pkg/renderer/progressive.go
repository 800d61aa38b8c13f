package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/df07/go-sphere-pathtracer/pkg/renderer")

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile (64x64 recommended)
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // 1, then six even steps up to 50
		NumWorkers:         0,
	}
}

// Validate reports the first inconsistent setting
func (c ProgressiveConfig) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	case c.InitialSamples <= 0:
		return fmt.Errorf("initial samples must be positive, got %d", c.InitialSamples)
	case c.MaxSamplesPerPixel < c.InitialSamples:
		return fmt.Errorf("max samples per pixel %d is below initial samples %d", c.MaxSamplesPerPixel, c.InitialSamples)
	case c.MaxPasses <= 0:
		return fmt.Errorf("max passes must be positive, got %d", c.MaxPasses)
	case c.NumWorkers < 0:
		return fmt.Errorf("worker count must not be negative, got %d", c.NumWorkers)
	}
	return nil
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene        *scene.Scene
	config       ProgressiveConfig
	tiles        []*Tile
	currentPass  int
	film         *Film
	tileRenderer *TileRenderer
	workerPool   *WorkerPool
	logger       core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer. The film size
// and seed come from the scene's sampling config.
func NewProgressiveRaytracer(s *scene.Scene, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("while validating progressive config: %w", err)
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("while validating sampling config: %w", err)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
	pathTracer := integrator.NewPathTracingIntegrator(s.SamplingConfig)

	return &ProgressiveRaytracer{
		scene:        s,
		config:       config,
		tiles:        NewTileGrid(width, height, config.TileSize),
		film:         NewFilm(width, height),
		tileRenderer: NewTileRenderer(s, pathTracer),
		workerPool:   NewWorkerPool(config.NumWorkers),
		logger:       logger,
	}, nil
}

// Film returns the accumulation buffer
func (pr *ProgressiveRaytracer) Film() *Film {
	return pr.film
}

// Resume continues from a previously saved film. Passes whose target is
// already covered by the film are skipped.
func (pr *ProgressiveRaytracer) Resume(film *Film) error {
	if film.Width != pr.film.Width || film.Height != pr.film.Height {
		return fmt.Errorf("checkpoint is %dx%d but the scene renders %dx%d",
			film.Width, film.Height, pr.film.Width, pr.film.Height)
	}
	pr.film = film
	return nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// The final pass picks up the remainder
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass renders a single progressive pass using parallel processing.
// Each tile draws from its own sampler seeded by the render seed, the tile
// and the samples already taken, so the film does not depend on the number
// of workers or on tile completion order.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ProgressiveRaytracer.RenderPass")
	defer span.End()

	pr.currentPass = passNumber
	startSamples := pr.film.Samples
	targetSamples := pr.getSamplesForPass(passNumber)
	span.SetAttributes(
		attribute.Int("pass", passNumber),
		attribute.Int("target_samples", targetSamples),
	)

	var stats RenderStats
	if targetSamples <= startSamples {
		pr.logger.Printf("Pass %d: film already has %d samples per pixel, skipping\n", passNumber, startSamples)
		stats.finalize(len(pr.film.Pixels), startSamples)
		return pr.film.Image(), stats, nil
	}

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	start := time.Now()
	tasks := make([]TileTask, len(pr.tiles))
	for i, tile := range pr.tiles {
		tasks[i] = TileTask{
			Tile:        tile,
			PassNumber:  passNumber,
			StartSample: startSamples,
			Samples:     targetSamples - startSamples,
			TaskID:      i,
		}
	}

	results, wait := pr.workerPool.Run(ctx, tasks, pr.renderTile)

	// Tile callbacks are dispatched from this goroutine only
	completed := 0
	for result := range results {
		completed++
		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++
		stats.Merge(result.Stats)

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile, targetSamples),
				PassNumber:  passNumber,
				TileNumber:  completed,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	if err := wait(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("while rendering pass %d: %w", passNumber, err)
	}

	pr.film.Samples = targetSamples
	stats.finalize(len(pr.film.Pixels), targetSamples)
	recordPassMetrics(ctx, stats, time.Since(start))
	span.SetAttributes(attribute.Int64("paths", stats.Paths()))

	return pr.film.Image(), stats, nil
}

// renderTile is the worker body for one tile of one pass
func (pr *ProgressiveRaytracer) renderTile(ctx context.Context, task TileTask) (TileResult, error) {
	if err := ctx.Err(); err != nil {
		return TileResult{}, err
	}

	var span trace.Span
	_, span = tracer.Start(ctx, "ProgressiveRaytracer.renderTile")
	defer span.End()
	span.SetAttributes(
		attribute.Int("tile", task.Tile.ID),
		attribute.Int("pass", task.PassNumber),
	)

	seed := core.MixSeed(pr.scene.SamplingConfig.Seed, int64(task.Tile.ID), int64(task.StartSample))
	sampler := core.NewSeededSampler(seed)
	stats := pr.tileRenderer.RenderTileBounds(task.Tile.Bounds, pr.film, sampler, task.Samples)

	return TileResult{TaskID: task.TaskID, Stats: stats}, nil
}

// extractTileImage tone maps one tile of the film
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile, samples int) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		y := pr.film.imageRow(row)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImage.SetRGBA(x-bounds.Min.X, row-bounds.Min.Y, ToneMap(pr.film.Get(x, y), samples))
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	Film       *Film // Copy of the film taken before the next pass starts
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders all passes in the background and reports them
// on channels. If options.TileUpdates is false the tile channel is closed
// immediately. All channels are closed when rendering stops.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			if err := ctx.Err(); err != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- err
				return
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumer; the pass image still carries this tile
					}
				}
			}

			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			actualSamples := int(stats.AverageSamples)
			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, time.Since(startTime), actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			result := PassResult{PassNumber: pass, Image: img, Stats: stats, Film: pr.film.Clone(), IsLast: isLast}
			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}

			if actualSamples >= pr.config.MaxSamplesPerPixel {
				pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", pr.config.MaxSamplesPerPixel)
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds in image space (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
