package scene

// AnimationHandle identifies one pending frame request.
type AnimationHandle uint64

// Scheduler runs callbacks on the next frame of the host's frame loop. The
// callback receives the seconds since the previous frame. RequestFrame must
// not invoke fn synchronously.
type Scheduler interface {
	RequestFrame(fn func(dt float64)) AnimationHandle
	CancelFrame(h AnimationHandle)
}

// Viewport reports the drawable size in pixels.
type Viewport interface {
	Size() (width, height int)
}

// ResizeNotifier delivers viewport resize events until the returned func is
// called.
type ResizeNotifier interface {
	OnResize(fn func()) (remove func())
}
