package scene

import (
	"sync"

	"DoorScene/internal/config"

	"fyne.io/fyne/v2/data/binding"
	"github.com/go-gl/mathgl/mgl32"
)

// DoorParameters is one requested door size.
type DoorParameters struct {
	Width  float32
	Height float32
}

// ParameterSource yields at most one pending parameter change per call.
type ParameterSource interface {
	Poll() (DoorParameters, bool)
}

// ParameterWatcher turns changes of the width and height bindings into
// door parameter requests. Bindings notify on their own goroutine; the
// watcher keeps only the newest pair until the frame loop polls it.
type ParameterWatcher struct {
	width, height binding.Float
	listener      binding.DataListener
	pending       chan DoorParameters

	mu     sync.Mutex
	last   DoorParameters
	closed bool
}

// NewParameterWatcher starts observing width and height. Their current
// values count as already applied.
func NewParameterWatcher(width, height binding.Float) *ParameterWatcher {
	w := &ParameterWatcher{
		width:   width,
		height:  height,
		pending: make(chan DoorParameters, 1),
	}
	w.last, _ = w.read()
	w.listener = binding.NewDataListener(w.changed)
	width.AddListener(w.listener)
	height.AddListener(w.listener)
	return w
}

func (w *ParameterWatcher) read() (DoorParameters, error) {
	width, err := w.width.Get()
	if err != nil {
		return DoorParameters{}, err
	}
	height, err := w.height.Get()
	if err != nil {
		return DoorParameters{}, err
	}
	return DoorParameters{Width: float32(width), Height: float32(height)}, nil
}

func (w *ParameterWatcher) changed() {
	p, err := w.read()
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || p == w.last {
		return
	}
	w.last = p

	// Replace whatever is queued; only the newest size matters.
	select {
	case <-w.pending:
	default:
	}
	w.pending <- p
}

// Poll returns the newest unapplied parameters, if any. It never blocks.
func (w *ParameterWatcher) Poll() (DoorParameters, bool) {
	select {
	case p := <-w.pending:
		return p, true
	default:
		return DoorParameters{}, false
	}
}

// Close removes the binding listeners and drops anything pending.
func (w *ParameterWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.width.RemoveListener(w.listener)
	w.height.RemoveListener(w.listener)
	w.Poll()
	return nil
}

// ClampWidth limits a width to the range the input layer offers.
func ClampWidth(v float64) float64 {
	return float64(mgl32.Clamp(float32(v), config.MinDoorWidth, config.MaxDoorWidth))
}

// ClampHeight limits a height to the range the input layer offers.
func ClampHeight(v float64) float64 {
	return float64(mgl32.Clamp(float32(v), config.MinDoorHeight, config.MaxDoorHeight))
}
