package engine

import (
	"PBRShowcase/internal/loader"
	"PBRShowcase/internal/renderer"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeRenderer records calls instead of drawing.
type fakeRenderer struct {
	events   []string
	renders  int
	cleanups int
	viewport [2]int32
	initErr  error
}

func (f *fakeRenderer) Init(width, height int32) error {
	f.events = append(f.events, "init")
	return f.initErr
}

func (f *fakeRenderer) Render(scene *renderer.Scene, camera *renderer.Camera) {
	f.renders++
	f.events = append(f.events, "render")
}

func (f *fakeRenderer) RenderCube(scene *renderer.Scene, cube *renderer.CubeCamera) {
	f.events = append(f.events, "cube")
}

func (f *fakeRenderer) ReleaseCube(cube *renderer.CubeCamera) {
	f.events = append(f.events, "release-cube")
}

func (f *fakeRenderer) UpdateViewport(width, height int32) {
	f.viewport = [2]int32{width, height}
}

func (f *fakeRenderer) Cleanup() {
	f.cleanups++
	f.events = append(f.events, "cleanup")
}

func (f *fakeRenderer) UploadTexture(t *renderer.Texture) error { return nil }
func (f *fakeRenderer) DeleteTexture(t *renderer.Texture)       {}

func newTestContext() (*Context, *fakeRenderer) {
	fake := &fakeRenderer{}
	c := New(Options{Width: 640, Height: 480, Renderer: fake})
	return c, fake
}

func TestNewDefaults(t *testing.T) {
	c := New(Options{Renderer: &fakeRenderer{}})

	if c.Width != 1280 || c.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", c.Width, c.Height)
	}
	if c.Scene == nil || c.Camera == nil || c.Controls == nil || c.Panel == nil || c.Textures == nil {
		t.Fatal("Expected scene, camera, controls, panel and textures")
	}
	if c.Controls.Camera != c.Camera {
		t.Error("Expected controls to drive the context camera")
	}
}

func TestResizeRendersOnce(t *testing.T) {
	c, fake := newTestContext()

	c.Resize(800, 600)

	if fake.renders != 1 {
		t.Errorf("Expected exactly 1 render, got %d", fake.renders)
	}
	if c.Camera.AspectRatio != float32(800)/float32(600) {
		t.Errorf("Expected aspect %f, got %f", float32(800)/float32(600), c.Camera.AspectRatio)
	}
	if fake.viewport != [2]int32{800, 600} {
		t.Errorf("Expected viewport 800x600, got %v", fake.viewport)
	}
	if c.Width != 800 || c.Height != 600 {
		t.Errorf("Expected size 800x600, got %dx%d", c.Width, c.Height)
	}
}

func TestResizeIgnoresEmptySize(t *testing.T) {
	c, fake := newTestContext()
	aspect := c.Camera.AspectRatio

	c.Resize(0, 600)
	c.Resize(800, -1)

	if fake.renders != 0 {
		t.Errorf("Expected no render, got %d", fake.renders)
	}
	if c.Camera.AspectRatio != aspect {
		t.Errorf("Expected aspect to stay %f, got %f", aspect, c.Camera.AspectRatio)
	}
}

func TestFrameOrder(t *testing.T) {
	c, fake := newTestContext()
	c.Capture = renderer.NewCubeCamera(1, 10000, 128)

	c.Frame(1.0 / 60)

	if len(fake.events) != 2 || fake.events[0] != "cube" || fake.events[1] != "render" {
		t.Errorf("Expected [cube render], got %v", fake.events)
	}
	if c.Stats.Frames != 1 {
		t.Errorf("Expected 1 frame, got %d", c.Stats.Frames)
	}
}

func TestFrameWithoutCapture(t *testing.T) {
	c, fake := newTestContext()

	c.Frame(1.0 / 60)

	if len(fake.events) != 1 || fake.events[0] != "render" {
		t.Errorf("Expected [render], got %v", fake.events)
	}
}

func TestFrameUpdatesControlsBeforeRender(t *testing.T) {
	c, _ := newTestContext()
	c.Camera.Position = mgl32.Vec3{3, 2, 0}
	c.Controls.SetTarget(mgl32.Vec3{0, 0.7, 0})
	c.Controls.RotateLeft(0.5)
	before := c.Camera.Position

	c.Frame(1.0 / 60)

	if c.Camera.Position.ApproxEqual(before) {
		t.Error("Expected the frame to move the camera")
	}
}

func TestFramePollsLoads(t *testing.T) {
	c, _ := newTestContext()
	model := renderer.NewGroup("cutter")
	req := loader.Start(c.Context(), "cutter", func(context.Context, func(float64)) (*renderer.Model, error) {
		return model, nil
	}, loader.Handlers{OnLoad: func(m *renderer.Model) { c.Scene.Add(m) }})
	c.Track(req)

	select {
	case <-req.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
	c.Frame(1.0 / 60)

	if len(c.Scene.Models) != 1 || c.Scene.Models[0] != model {
		t.Error("Expected the loaded model in the scene")
	}
	if c.Pending() != 0 {
		t.Errorf("Expected no pending loads, got %d", c.Pending())
	}
}

func TestStartFailure(t *testing.T) {
	fake := &fakeRenderer{initErr: errors.New("no GL")}
	c := New(Options{Renderer: fake})

	if err := c.Start(); err == nil {
		t.Error("Expected Start to fail")
	}
	c.Dispose()
	if fake.cleanups != 0 {
		t.Errorf("Expected no cleanup for a renderer that never started, got %d", fake.cleanups)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	c, fake := newTestContext()
	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	c.Dispose()
	c.Dispose()

	if fake.cleanups != 1 {
		t.Errorf("Expected 1 cleanup, got %d", fake.cleanups)
	}
	if !c.Disposed() {
		t.Error("Expected context to report disposed")
	}
	if c.Context().Err() == nil {
		t.Error("Expected the context to be cancelled")
	}
}

func TestStatsSmoothing(t *testing.T) {
	var s Stats
	s.Update(0.02)
	if s.FPS != 50 {
		t.Errorf("Expected first sample 50 fps, got %f", s.FPS)
	}
	s.Update(0.01)
	if s.FPS <= 50 || s.FPS >= 100 {
		t.Errorf("Expected smoothed fps between 50 and 100, got %f", s.FPS)
	}
	s.Update(0)
	if s.Frames != 3 {
		t.Errorf("Expected 3 frames, got %d", s.Frames)
	}
}

func TestDisposeReleasesCapture(t *testing.T) {
	c, fake := newTestContext()
	c.Capture = renderer.NewCubeCamera(1, 10000, 128)
	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	fake.events = nil

	c.Dispose()

	if len(fake.events) != 2 || fake.events[0] != "release-cube" || fake.events[1] != "cleanup" {
		t.Errorf("Expected [release-cube cleanup], got %v", fake.events)
	}
}

func TestDisposeWithoutStartKeepsCapture(t *testing.T) {
	c, fake := newTestContext()
	c.Capture = renderer.NewCubeCamera(1, 10000, 128)

	c.Dispose()

	if len(fake.events) != 0 {
		t.Errorf("Expected no GPU calls, got %v", fake.events)
	}
}
