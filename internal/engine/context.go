// Package engine owns the window and the frame loop. A Context replaces
// process wide globals: everything a frame touches hangs off it, and it is
// torn down explicitly with Dispose.
package engine

import (
	"PBRShowcase/internal/loader"
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/panel"
	"PBRShowcase/internal/panel/backend"
	"PBRShowcase/internal/renderer"
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
	"go.uber.org/zap"
)

type Options struct {
	Title  string
	Width  int32
	Height int32
	VSync  bool
	// Renderer defaults to the OpenGL renderer.
	Renderer renderer.Render
}

type Context struct {
	// HOT DATA - used every frame
	Scene    *renderer.Scene
	Camera   *renderer.Camera
	Controls *renderer.OrbitControls
	Capture  *renderer.CubeCamera // nil disables environment capture
	Panel    *panel.Panel
	Stats    Stats

	// MEDIUM DATA
	Textures *renderer.TextureManager
	Width    int32
	Height   int32
	rend     renderer.Render
	requests []*loader.Request

	// COLD DATA
	opts          Options
	ctx           context.Context
	cancel        context.CancelFunc
	started       bool
	disposed      bool
	window        *glfw.Window
	imguiContext  *imgui.Context
	platform      *backend.GLFW
	panelRenderer *backend.OpenGL3
	lastCursor    [2]float64
	dragging      bool
}

// New creates a context. No window or GL resources exist until Run.
func New(opts Options) *Context {
	if opts.Title == "" {
		opts.Title = "PBR Showcase"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	rend := opts.Renderer
	if rend == nil {
		rend = renderer.NewOpenGLRenderer()
	}

	ctx, cancel := context.WithCancel(context.Background())
	camera := renderer.NewPerspectiveCamera(opts.Width, opts.Height)
	return &Context{
		Scene:    renderer.NewScene(),
		Camera:   camera,
		Controls: renderer.NewOrbitControls(camera),
		Panel:    panel.New(opts.Title),
		Textures: renderer.NewTextureManager(),
		Width:    opts.Width,
		Height:   opts.Height,
		rend:     rend,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Context is cancelled by Dispose. Background work started for the scene
// should derive from it.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Load starts an asynchronous model load whose handlers fire during Frame.
func (c *Context) Load(path string, opts loader.Options, h loader.Handlers) *loader.Request {
	req := loader.Load(c.ctx, path, opts, h)
	c.Track(req)
	return req
}

// Track makes Frame poll req until it is delivered.
func (c *Context) Track(req *loader.Request) {
	c.requests = append(c.requests, req)
}

// Pending is the number of tracked requests not yet delivered.
func (c *Context) Pending() int {
	return len(c.requests)
}

// Start initialises the renderer for the current GL context.
func (c *Context) Start() error {
	if c.started {
		return nil
	}
	if err := c.rend.Init(c.Width, c.Height); err != nil {
		return fmt.Errorf("renderer init: %w", err)
	}
	c.Textures.SetUploader(c.rend)
	c.started = true
	return nil
}

// Run opens the window and loops until it closes or ctx ends. It must be
// called from the main goroutine.
func (c *Context) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer c.Dispose()

	if err := c.openWindow(); err != nil {
		return err
	}
	if err := c.Start(); err != nil {
		return err
	}
	if err := c.initPanel(); err != nil {
		return err
	}
	logger.Log.Info("Frame loop started",
		zap.Int32("width", c.Width),
		zap.Int32("height", c.Height))

	lastTime := glfw.GetTime()
	for !c.window.ShouldClose() && ctx.Err() == nil {
		now := glfw.GetTime()
		dt := now - lastTime
		lastTime = now

		c.handleMouse()
		c.Frame(dt)
		c.window.SwapBuffers()
		glfw.PollEvents()
	}
	logger.Log.Info("Frame loop stopped", zap.Uint64("frames", c.Stats.Frames))
	return nil
}

// Frame runs one iteration of the loop: deliver finished loads, update the
// orbit controls, refresh the environment capture, render, draw the panel and
// record stats.
func (c *Context) Frame(dt float64) {
	c.pollLoads()
	c.Controls.Update()
	if c.Capture != nil {
		c.Capture.Update(c.rend, c.Scene)
	}
	c.render()
	c.drawPanel()
	c.Stats.Update(dt)
}

// Resize adapts the camera and viewport to a new framebuffer size and renders
// once. Non-positive sizes, as reported for minimised windows, are ignored.
func (c *Context) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Width, c.Height = width, height
	c.Camera.SetAspectRatio(float32(width) / float32(height))
	c.rend.UpdateViewport(width, height)
	c.render()
	logger.Log.Debug("Resized", zap.Int32("width", width), zap.Int32("height", height))
}

// Dispose cancels pending loads and frees GPU and window resources. Calling
// it again does nothing.
func (c *Context) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.cancel()
	c.requests = nil

	if c.panelRenderer != nil {
		c.panelRenderer.Dispose()
		c.panelRenderer = nil
	}
	if c.imguiContext != nil {
		c.imguiContext.Destroy()
		c.imguiContext = nil
	}
	if c.started {
		if c.Capture != nil {
			c.rend.ReleaseCube(c.Capture)
		}
		c.Textures.Clear()
		c.rend.Cleanup()
		c.started = false
	}
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
		glfw.Terminate()
	}
	logger.Log.Info("Context disposed")
}

func (c *Context) Disposed() bool {
	return c.disposed
}

func (c *Context) render() {
	c.rend.Render(c.Scene, c.Camera)
}

func (c *Context) pollLoads() {
	pending := c.requests[:0]
	for _, req := range c.requests {
		if !req.Poll() && !req.Delivered() {
			pending = append(pending, req)
		}
	}
	c.requests = pending
}

func (c *Context) openWindow() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(c.Width), int(c.Height), c.opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	c.window = window
	window.MakeContextCurrent()
	if c.opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	styleTitleBar(window, c.Scene.Background)

	// Work in framebuffer pixels so HiDPI displays get a full resolution viewport.
	fbWidth, fbHeight := window.GetFramebufferSize()
	c.Width, c.Height = int32(fbWidth), int32(fbHeight)
	c.Camera.SetAspectRatio(float32(fbWidth) / float32(max(fbHeight, 1)))
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		c.Resize(int32(width), int32(height))
		w.SwapBuffers()
	})
	return nil
}

func (c *Context) initPanel() error {
	c.imguiContext = imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	c.platform = backend.NewGLFW(c.window, io)
	c.platform.OnScroll = func(_, y float64) {
		c.Controls.Scroll(float32(y))
	}
	r, err := backend.NewOpenGL3(io)
	if err != nil {
		return fmt.Errorf("panel renderer: %w", err)
	}
	c.panelRenderer = r
	return nil
}

func (c *Context) drawPanel() {
	if c.platform == nil || c.panelRenderer == nil {
		return
	}
	c.platform.NewFrame()
	imgui.NewFrame()
	c.Panel.Draw()
	imgui.Render()
	c.panelRenderer.Render(c.platform.DisplaySize(), c.platform.FramebufferSize(), imgui.RenderedDrawData())
}

// handleMouse turns left button drags into orbit rotation.
func (c *Context) handleMouse() {
	x, y := c.window.GetCursorPos()
	pressed := c.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	if !pressed || (c.platform != nil && c.platform.WantsMouse() && !c.dragging) {
		c.dragging = false
		c.lastCursor = [2]float64{x, y}
		return
	}
	if c.dragging {
		dx, dy := x-c.lastCursor[0], y-c.lastCursor[1]
		_, windowHeight := c.window.GetSize()
		c.Controls.Drag(float32(dx), float32(dy), int32(windowHeight))
	}
	c.dragging = true
	c.lastCursor = [2]float64{x, y}
}
