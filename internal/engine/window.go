// Package engine hosts the scene in a GLFW window: it owns the GL context,
// the frame loop and the window's input and resize events.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"DoorScene/internal/config"
	"DoorScene/internal/controls"
	"DoorScene/internal/logger"
	"DoorScene/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// KeyHandler receives key events other than Escape, which closes the window.
type KeyHandler func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)

type Window struct {
	Width  int32
	Height int32
	Title  string

	window *glfw.Window

	mu         sync.Mutex
	nextHandle scene.AnimationHandle
	frames     map[scene.AnimationHandle]func(dt float64)

	nextListener int
	resize       map[int]func()
	keys         []KeyHandler
	idle         func()

	controls     *controls.Orbit
	dragging     bool
	lastX, lastY float64
}

func NewWindow(cfg config.Window) *Window {
	return &Window{
		Width:  cfg.Width,
		Height: cfg.Height,
		Title:  cfg.Title,
		frames: make(map[scene.AnimationHandle]func(float64)),
		resize: make(map[int]func()),
	}
}

// Open creates the window and makes its OpenGL 4.1 core context current on
// the calling thread, which must stay the render thread.
func (w *Window) Open(background mgl32.Vec3) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(w.Width), int(w.Height), w.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	w.window = window
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	styleTitleBar(window, background)

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.notifyResize()
	})
	window.SetMouseButtonCallback(w.mouseButtonCallback)
	window.SetCursorPosCallback(w.mouseCallback)
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.controls != nil {
			w.controls.Zoom(float32(yoff))
		}
	})
	window.SetKeyCallback(w.keyCallback)

	fw, fh := window.GetFramebufferSize()
	logger.Log.Info("Window opened",
		zap.String("title", w.Title),
		zap.Int("framebufferWidth", fw),
		zap.Int("framebufferHeight", fh))
	return nil
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.window == nil {
		return
	}
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
}

// RequestFrame queues fn for the next frame.
func (w *Window) RequestFrame(fn func(dt float64)) scene.AnimationHandle {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextHandle++
	w.frames[w.nextHandle] = fn
	return w.nextHandle
}

func (w *Window) CancelFrame(h scene.AnimationHandle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.frames, h)
}

// runFrames runs the callbacks queued before this frame, oldest first, and
// reports whether any ran. Callbacks queued meanwhile wait for the next
// frame.
func (w *Window) runFrames(dt float64) bool {
	w.mu.Lock()
	queued := w.frames
	w.frames = make(map[scene.AnimationHandle]func(float64))
	w.mu.Unlock()

	handles := make([]scene.AnimationHandle, 0, len(queued))
	for h := range queued {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	for _, h := range handles {
		queued[h](dt)
	}
	return len(handles) > 0
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) {
	if w.window == nil {
		return int(w.Width), int(w.Height)
	}
	return w.window.GetFramebufferSize()
}

// OnResize registers fn for framebuffer resizes until remove is called.
func (w *Window) OnResize(fn func()) (remove func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextListener
	w.nextListener++
	w.resize[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.resize, id)
	}
}

func (w *Window) notifyResize() {
	w.mu.Lock()
	ids := make([]int, 0, len(w.resize))
	for id := range w.resize {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, w.resize[id])
	}
	w.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (w *Window) OnKey(fn KeyHandler) {
	w.keys = append(w.keys, fn)
}

// OnIdle sets fn to run on frames no scene callback claimed, so the
// viewport is still cleared before the scene is ready.
func (w *Window) OnIdle(fn func()) {
	w.idle = fn
}

// AttachControls routes pointer input to o; nil detaches.
func (w *Window) AttachControls(o *controls.Orbit) {
	w.controls = o
	w.dragging = false
}

// Run drives the frame loop until the window closes or ctx is done.
func (w *Window) Run(ctx context.Context) {
	lastTime := glfw.GetTime()
	for !w.window.ShouldClose() {
		if ctx.Err() != nil {
			return
		}
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		if !w.runFrames(deltaTime) && w.idle != nil {
			w.idle()
		}

		w.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (w *Window) keyCallback(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		win.SetShouldClose(true)
		return
	}
	for _, fn := range w.keys {
		fn(key, action, mods)
	}
}

func (w *Window) mouseButtonCallback(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || w.controls == nil {
		return
	}
	switch action {
	case glfw.Press:
		w.dragging = true
		w.lastX, w.lastY = win.GetCursorPos()
	case glfw.Release:
		w.dragging = false
		w.controls.Release()
	}
}

// Mouse callback function
func (w *Window) mouseCallback(win *glfw.Window, xpos, ypos float64) {
	if !w.dragging || w.controls == nil || win.GetAttrib(glfw.Focused) != glfw.True {
		return
	}
	xoffset := xpos - w.lastX
	yoffset := ypos - w.lastY
	w.lastX, w.lastY = xpos, ypos
	w.controls.Drag(float32(xoffset), float32(yoffset))
}
