package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, NewServer(0), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"status": "ok"}, body); diff != "" {
		t.Errorf("Health body mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantScene  string
	}{
		{"default scene", "/api/scene-config", http.StatusOK, "default"},
		{"named scene", "/api/scene-config?scene=materials", http.StatusOK, "materials"},
		{"unknown scene", "/api/scene-config?scene=cornell-box", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, NewServer(0), tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Scene    string `json:"scene"`
				Defaults struct {
					SamplesPerPixel int    `json:"samplesPerPixel"`
					Termination     string `json:"termination"`
				} `json:"defaults"`
				Scenes []struct {
					ID string `json:"id"`
				} `json:"scenes"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if body.Scene != tt.wantScene {
				t.Errorf("Expected scene %q, got %q", tt.wantScene, body.Scene)
			}
			if body.Defaults.SamplesPerPixel <= 0 || body.Defaults.Termination == "" {
				t.Errorf("Missing defaults: %+v", body.Defaults)
			}
			if len(body.Scenes) != 3 {
				t.Errorf("Expected 3 listed scenes, got %d", len(body.Scenes))
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	const base = "/api/inspect?scene=single-sphere&width=64&height=64"

	t.Run("centre hits the sphere", func(t *testing.T) {
		rec := get(t, NewServer(0), base+"&x=32&y=32")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !resp.Hit || resp.MaterialType != "diffuse" || resp.GeometryType != "sphere" {
			t.Fatalf("Unexpected inspection %+v", resp)
		}
		if !resp.FrontFace {
			t.Error("Expected a front-face hit from outside the sphere")
		}
		// Eye at z=5, unit sphere at the origin
		if math.Abs(resp.Distance-4) > 0.05 {
			t.Errorf("Expected distance near 4, got %f", resp.Distance)
		}
		length := math.Sqrt(resp.Normal[0]*resp.Normal[0] + resp.Normal[1]*resp.Normal[1] + resp.Normal[2]*resp.Normal[2])
		if math.Abs(length-1) > 1e-9 {
			t.Errorf("Expected unit normal, got length %f", length)
		}
	})

	t.Run("corner sees the sky", func(t *testing.T) {
		rec := get(t, NewServer(0), base+"&x=0&y=0")
		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if resp.Hit {
			t.Errorf("Expected a miss in the corner, got %+v", resp)
		}
	})

	badRequests := []struct {
		name   string
		target string
	}{
		{"missing x", base + "&y=3"},
		{"out of bounds", base + "&x=64&y=3"},
		{"negative y", base + "&x=3&y=-1"},
		{"unknown scene", "/api/inspect?scene=nope&x=1&y=1"},
		{"tiny image", "/api/inspect?width=2&height=2&x=1&y=1"},
	}
	for _, tt := range badRequests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(t, NewServer(0), tt.target); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

// sseEvents splits an SSE stream into event names
func sseEvents(body string) []string {
	var events []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
	}
	return events
}

func TestHandleRender(t *testing.T) {
	rec := get(t, NewServer(0), "/api/render?scene=single-sphere&width=16&height=16&maxSamples=2&maxPasses=2&maxDepth=8")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected SSE content type, got %q", ct)
	}

	counts := map[string]int{}
	for _, event := range sseEvents(rec.Body.String()) {
		counts[event]++
	}
	if counts["passComplete"] != 2 {
		t.Errorf("Expected 2 passComplete events, got %d (%v)", counts["passComplete"], counts)
	}
	if counts["tile"] != 2 {
		t.Errorf("Expected one tile event per pass, got %d", counts["tile"])
	}
	if counts["complete"] != 1 || counts["error"] != 0 {
		t.Errorf("Expected a clean completion, got %v", counts)
	}

	events := sseEvents(rec.Body.String())
	if events[len(events)-1] != "complete" && events[len(events)-1] != "console" {
		t.Errorf("Unexpected final event %q", events[len(events)-1])
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	tests := []string{
		"/api/render?maxSamples=0",
		"/api/render?termination=forever",
		"/api/render?scene=nope&width=16&height=16",
		"/api/render?seed=abc",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rec := get(t, NewServer(0), target)
			events := sseEvents(rec.Body.String())
			if len(events) == 0 || events[0] != "error" {
				t.Errorf("Expected an error event, got %v", events)
			}
		})
	}
}

func TestParseRenderRequest_PassesFollowSamples(t *testing.T) {
	tests := []struct {
		query      string
		wantPasses int
	}{
		{"maxSamples=50&maxPasses=10000", 50},
		{"maxSamples=3", 3},
		{"maxSamples=50&maxPasses=7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req, err := NewServer(0).parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render?"+tt.query, nil))
			if err != nil {
				t.Fatalf("parseRenderRequest: %v", err)
			}
			if req.MaxPasses != tt.wantPasses {
				t.Errorf("Expected %d passes, got %d", tt.wantPasses, req.MaxPasses)
			}
		})
	}
}

func TestHandleRender_ExcessPassesAreClamped(t *testing.T) {
	rec := get(t, NewServer(0), "/api/render?scene=single-sphere&width=16&height=16&maxSamples=2&maxPasses=50&maxDepth=8")

	counts := map[string]int{}
	for _, event := range sseEvents(rec.Body.String()) {
		counts[event]++
	}
	if counts["passComplete"] != 2 || counts["complete"] != 1 {
		t.Errorf("Expected 2 passes and a clean completion, got %v", counts)
	}
}
