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
	DWMWA_USE_IMMERSIVE_DARK_MODE = 20
	DWMWA_BORDER_COLOR            = 34
	DWMWA_CAPTION_COLOR           = 35
)

// styleTitleBar darkens the title bar and tints it with the scene background.
func styleTitleBar(window *glfw.Window, background mgl32.Vec3) {
	win32 := window.GetWin32Window()
	if win32 == nil {
		return
	}
	hwnd := unsafe.Pointer(win32)

	var useDarkMode int32 = 1
	setWindowAttribute(hwnd, DWMWA_USE_IMMERSIVE_DARK_MODE, unsafe.Pointer(&useDarkMode), unsafe.Sizeof(useDarkMode))

	colorBGR := colorRef(background)
	setWindowAttribute(hwnd, DWMWA_BORDER_COLOR, unsafe.Pointer(&colorBGR), unsafe.Sizeof(colorBGR))
	setWindowAttribute(hwnd, DWMWA_CAPTION_COLOR, unsafe.Pointer(&colorBGR), unsafe.Sizeof(colorBGR))
}

func setWindowAttribute(hwnd unsafe.Pointer, attr uintptr, value unsafe.Pointer, size uintptr) {
	procDwmSetWindowAttribute.Call(uintptr(hwnd), attr, uintptr(value), size)
}

// colorRef packs a color as a Win32 COLORREF (0x00BBGGRR).
func colorRef(c mgl32.Vec3) uint32 {
	clamp := func(v float32) uint32 { return uint32(mgl32.Clamp(v, 0, 1) * 255) }
	return clamp(c.X()) | clamp(c.Y())<<8 | clamp(c.Z())<<16
}
