// Package backend connects imgui to the engine window (GLFW) and draws its
// output with OpenGL.
package backend

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

// GLFW feeds window state and input events into imgui.
type GLFW struct {
	imguiIO imgui.IO
	window  *glfw.Window

	time             float64
	mouseJustPressed [3]bool

	// Called after imgui has seen the event, when imgui does not want it.
	OnScroll func(x, y float64)
}

// NewGLFW installs input callbacks on an existing window.
func NewGLFW(window *glfw.Window, io imgui.IO) *GLFW {
	p := &GLFW{imguiIO: io, window: window}
	p.setKeyMapping()
	p.installCallbacks()
	return p
}

func (p *GLFW) DisplaySize() [2]float32 {
	w, h := p.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

func (p *GLFW) FramebufferSize() [2]float32 {
	w, h := p.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

// NewFrame marks the begin of a render pass. It forwards all current state
// to imgui.
func (p *GLFW) NewFrame() {
	size := p.DisplaySize()
	p.imguiIO.SetDisplaySize(imgui.Vec2{X: size[0], Y: size[1]})

	now := glfw.GetTime()
	if p.time > 0 {
		p.imguiIO.SetDeltaTime(float32(now - p.time))
	}
	p.time = now

	if p.window.GetAttrib(glfw.Focused) != 0 {
		x, y := p.window.GetCursorPos()
		p.imguiIO.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		p.imguiIO.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	buttons := [3]glfw.MouseButton{glfw.MouseButton1, glfw.MouseButton2, glfw.MouseButton3}
	for i, b := range buttons {
		down := p.mouseJustPressed[i] || p.window.GetMouseButton(b) == glfw.Press
		p.imguiIO.SetMouseButtonDown(i, down)
		p.mouseJustPressed[i] = false
	}
}

// WantsMouse reports whether imgui is using the mouse this frame.
func (p *GLFW) WantsMouse() bool {
	return p.imguiIO.WantCaptureMouse()
}

func (p *GLFW) setKeyMapping() {
	keys := map[int]glfw.Key{
		imgui.KeyTab:        glfw.KeyTab,
		imgui.KeyLeftArrow:  glfw.KeyLeft,
		imgui.KeyRightArrow: glfw.KeyRight,
		imgui.KeyUpArrow:    glfw.KeyUp,
		imgui.KeyDownArrow:  glfw.KeyDown,
		imgui.KeyHome:       glfw.KeyHome,
		imgui.KeyEnd:        glfw.KeyEnd,
		imgui.KeyDelete:     glfw.KeyDelete,
		imgui.KeyBackspace:  glfw.KeyBackspace,
		imgui.KeyEnter:      glfw.KeyEnter,
		imgui.KeyEscape:     glfw.KeyEscape,
	}
	for imguiKey, nativeKey := range keys {
		p.imguiIO.KeyMap(imguiKey, int(nativeKey))
	}
}

func (p *GLFW) installCallbacks() {
	p.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press && int(button) < len(p.mouseJustPressed) {
			p.mouseJustPressed[button] = true
		}
	})
	p.window.SetScrollCallback(func(w *glfw.Window, x, y float64) {
		p.imguiIO.AddMouseWheelDelta(float32(x), float32(y))
		if p.OnScroll != nil && !p.imguiIO.WantCaptureMouse() {
			p.OnScroll(x, y)
		}
	})
	p.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			p.imguiIO.KeyPress(int(key))
		}
		if action == glfw.Release {
			p.imguiIO.KeyRelease(int(key))
		}
		p.imguiIO.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		p.imguiIO.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		p.imguiIO.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		p.imguiIO.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	})
	p.window.SetCharCallback(func(w *glfw.Window, char rune) {
		p.imguiIO.AddInputCharacters(string(char))
	})
}
