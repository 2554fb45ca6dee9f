package engine

import (
	"fmt"
)

const statsSmoothing = 0.1

// Stats tracks frame timing for the debug panel.
type Stats struct {
	Frames  uint64
	FPS     float64 // exponentially smoothed
	FrameMS float64 // exponentially smoothed
}

// Update records one frame that took dt seconds.
func (s *Stats) Update(dt float64) {
	s.Frames++
	if dt <= 0 {
		return
	}
	fps, ms := 1/dt, dt*1000
	if s.Frames == 1 || s.FPS == 0 {
		s.FPS, s.FrameMS = fps, ms
		return
	}
	s.FPS += (fps - s.FPS) * statsSmoothing
	s.FrameMS += (ms - s.FrameMS) * statsSmoothing
}

func (s *Stats) String() string {
	return fmt.Sprintf("%.0f fps (%.2f ms)", s.FPS, s.FrameMS)
}
