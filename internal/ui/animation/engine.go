package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains flash timing values.
type Config struct {
	On  time.Duration
	Off time.Duration
}

// Engine flashes a highlight on and off until stopped.
type Engine struct {
	mu     sync.Mutex
	config Config
	apply  func(highlight bool)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a flash engine. apply is called from the engine goroutine.
func New(config Config, apply func(highlight bool)) *Engine {
	defaults := DefaultConfig()
	if config.On <= 0 {
		config.On = defaults.On
	}
	if config.Off <= 0 {
		config.Off = defaults.Off
	}
	return &Engine{config: config, apply: apply}
}

// Start begins flashing. Calling Start while active keeps the current loop.
func (engine *Engine) Start(ctx context.Context) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		defer engine.apply(false)
		engine.run(runCtx)
	}()
}

// Stop ends flashing and waits until the highlight is cleared.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel := engine.cancel
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Active reports whether a flash loop is running.
func (engine *Engine) Active() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancel != nil
}

func (engine *Engine) run(ctx context.Context) {
	for {
		engine.apply(true)
		if !sleepWithContext(ctx, engine.config.On) {
			return
		}
		engine.apply(false)
		if !sleepWithContext(ctx, engine.config.Off) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
