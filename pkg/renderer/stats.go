package renderer

import "github.com/df07/go-sphere-pathtracer/pkg/integrator"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Maximum samples allowed per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel

	Outcomes     [integrator.NumOutcomes]int64 // Paths by how they ended
	TotalBounces int64                         // Scatter events over all paths
}

// recordPath adds one camera path to the statistics
func (s *RenderStats) recordPath(result integrator.PathResult) {
	s.TotalSamples++
	s.Outcomes[result.Outcome]++
	s.TotalBounces += int64(result.Bounces)
}

// Merge folds the path counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalSamples += other.TotalSamples
	for i, n := range other.Outcomes {
		s.Outcomes[i] += n
	}
	s.TotalBounces += other.TotalBounces
}

// Paths returns the number of camera paths recorded
func (s *RenderStats) Paths() int64 {
	var total int64
	for _, n := range s.Outcomes {
		total += n
	}
	return total
}

// MeanBounces returns the average number of scatter events per path
func (s *RenderStats) MeanBounces() float64 {
	paths := s.Paths()
	if paths == 0 {
		return 0
	}
	return float64(s.TotalBounces) / float64(paths)
}

// finalize fills in the per-pixel summary once all paths of a pass are in
func (s *RenderStats) finalize(pixels, samplesPerPixel int) {
	s.TotalPixels = pixels
	s.MaxSamples = samplesPerPixel
	s.MinSamples = samplesPerPixel
	s.MaxSamplesUsed = samplesPerPixel
	s.AverageSamples = float64(samplesPerPixel)
}
