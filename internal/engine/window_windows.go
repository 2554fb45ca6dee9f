//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	DWMWA_BORDER_COLOR  = 34
	DWMWA_CAPTION_COLOR = 35
)

// styleTitleBar tints the caption and border with color.
func styleTitleBar(window *glfw.Window, color mgl32.Vec3) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}

	// COLORREF is 0x00BBGGRR
	colorRef := uint32(uint8(color[0]*255)) | uint32(uint8(color[1]*255))<<8 | uint32(uint8(color[2]*255))<<16
	for _, attr := range []uintptr{DWMWA_CAPTION_COLOR, DWMWA_BORDER_COLOR} {
		procDwmSetWindowAttribute.Call(
			uintptr(unsafe.Pointer(hwnd)),
			attr,
			uintptr(unsafe.Pointer(&colorRef)),
			unsafe.Sizeof(colorRef),
		)
	}
}
