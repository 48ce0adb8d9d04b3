package scene

import (
	"context"
	"sync"

	"fyne.io/fyne/v2/data/binding"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type MountOptions struct {
	Manager *Manager
	Resize  ResizeNotifier
	Width   binding.Float
	Height  binding.Float
}

// Unmount tears down what Mount set up. It is safe to call more than once.
type Unmount func() error

// Mount initializes and starts the scene, then subscribes it to viewport
// resizes and door parameter changes. If initialization fails the manager
// is disposed and the error returned.
func Mount(ctx context.Context, opts MountOptions) (Unmount, error) {
	m := opts.Manager
	if err := m.Initialize(ctx); err != nil {
		return nil, multierr.Append(err, m.Dispose())
	}
	if err := m.Start(); err != nil {
		return nil, multierr.Append(err, m.Dispose())
	}

	removeResize := opts.Resize.OnResize(func() {
		if err := m.HandleResize(); err != nil {
			m.log.Warn("Resize ignored", zap.Error(err))
		}
	})
	watcher := NewParameterWatcher(opts.Width, opts.Height)
	m.SetParameterSource(watcher)

	var (
		once sync.Once
		err  error
	)
	return func() error {
		once.Do(func() {
			removeResize()
			m.SetParameterSource(nil)
			err = multierr.Combine(watcher.Close(), m.Dispose())
		})
		return err
	}, nil
}
