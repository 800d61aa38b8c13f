package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sphere-pathtracer/pkg/scene"
	"github.com/golang/glog"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 64

// Request limits shared by parsing and /api/scene-config
const (
	minImageSize  = 16
	maxImageSize  = 2000
	maxSamples    = 10000
	maxPasses     = 10000
	maxDepthLimit = 1000
)

// Server handles web requests for the path tracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene        string `json:"scene"`        // Scene name (e.g., "default")
	Width        int    `json:"width"`        // Image width
	Height       int    `json:"height"`       // Image height
	MaxSamples   int    `json:"maxSamples"`   // Maximum samples per pixel
	MaxPasses    int    `json:"maxPasses"`    // Maximum number of passes
	MaxDepth     int    `json:"maxDepth"`     // Path length limit
	Termination  string `json:"termination"`  // "sentinel" or "roulette"
	RRMinBounces int    `json:"rrMinBounces"` // Russian Roulette minimum bounces
	Seed         int64  `json:"seed"`         // Render seed
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	glog.Infof("Starting web server on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, s.Handler()); err != nil {
		return fmt.Errorf("while serving on %s: %w", addr, err)
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseCommonSceneParams parses the scene name and image size shared by
// render and inspect requests
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minImageSize, maxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 300, minImageSize, maxImageSize); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the named scene at the requested film size
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.ByName(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.SetFilmSize(req.Width, req.Height)
	return sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("while encoding png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeJSON writes a JSON response with CORS enabled
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		glog.Errorf("Error writing JSON response: %v", err)
	}
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.ByName(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene":  sceneName,
		"scenes": scene.ListScenes(),
		"defaults": map[string]interface{}{
			"width":                     config.Width,
			"height":                    config.Height,
			"samplesPerPixel":           config.SamplesPerPixel,
			"maxDepth":                  config.MaxDepth,
			"termination":               config.Termination.String(),
			"russianRouletteMinBounces": config.RussianRouletteMinBounces,
			"seed":                      config.Seed,
			"primitiveCount":            sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": minImageSize,
				"max": maxImageSize,
			},
			"height": map[string]int{
				"min": minImageSize,
				"max": maxImageSize,
			},
			"maxSamples": map[string]int{
				"min": 1,
				"max": maxSamples,
			},
			"maxPasses": map[string]int{
				"min": 1,
				"max": maxPasses,
			},
			"maxDepth": map[string]int{
				"min": 1,
				"max": maxDepthLimit,
			},
			"russianRouletteMinBounces": map[string]int{
				"min": 0,
				"max": maxDepthLimit,
			},
		},
	}

	writeJSON(w, http.StatusOK, response)
}
