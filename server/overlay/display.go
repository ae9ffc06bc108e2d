package overlay

import (
	"sync/atomic"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/halo/pkg/perfstats"
	"github.com/cyclopcam/logs"
)

// Presenter receives one fully composited viewport image per display tick.
// Present must not hold onto img; it is reused on the next tick.
type Presenter interface {
	Present(img *cimg.Image) error
}

// Loop is the display loop: it ticks at a fixed rate, pulls the latest state
// from the exchange, runs smoother -> mapper -> compositor, and hands the
// result to the presenter. It never waits for the detector; it renders
// whatever detection state is currently committed.
type Loop struct {
	Log        logs.Log
	exchange   *Exchange
	compositor *Compositor
	smoother   Smoother
	presenter  Presenter
	debug      atomic.Bool

	canvas    *cimg.Image // reused every tick
	interval  time.Duration
	startedAt time.Time

	mustStop      atomic.Bool
	looperStopped chan bool

	lastPresentErrAt time.Time

	// Moving average of nanoseconds spent compositing one tick
	AvgTimeNSPerRender int64
}

// NewLoop creates a display loop rendering at displayHz into a
// viewportWidth x viewportHeight RGB canvas.
func NewLoop(logger logs.Log, exchange *Exchange, cfg Config, viewportWidth, viewportHeight, displayHz int, presenter Presenter) *Loop {
	if displayHz <= 0 {
		displayHz = 30
	}
	l := &Loop{
		Log:        logger,
		exchange:   exchange,
		compositor: NewCompositor(cfg),
		smoother: Smoother{
			FadeDecay: cfg.FadeDecay,
			Alpha:     cfg.SmoothAlpha,
		},
		presenter: presenter,
		canvas:    cimg.NewImage(viewportWidth, viewportHeight, cimg.PixelFormatRGB),
		interval:  time.Second / time.Duration(displayHz),
	}
	l.debug.Store(cfg.Debug)
	return l
}

func (l *Loop) Start() {
	l.mustStop.Store(false)
	l.looperStopped = make(chan bool)
	l.startedAt = time.Now()
	go l.loop()
}

func (l *Loop) Stop() {
	l.mustStop.Store(true)
	<-l.looperStopped
}

// SetDebug toggles the debug reference overlay at runtime
func (l *Loop) SetDebug(enabled bool) {
	l.debug.Store(enabled)
}

func (l *Loop) Debug() bool {
	return l.debug.Load()
}

func (l *Loop) loop() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for !l.mustStop.Load() {
		<-ticker.C
		l.Tick()
	}
	close(l.looperStopped)
}

// Tick renders one display frame. Exported so that tests and the snapshot
// API can drive the loop without the ticker.
func (l *Loop) Tick() {
	state := l.exchange.DisplayTick(&l.smoother)
	start := time.Now()
	if state.Frame == nil {
		// No frame yet: present a cleared surface and try again next tick
		Clear(l.canvas)
	} else {
		l.compositor.Render(l.canvas, state, time.Now().Sub(l.startedAt).Seconds(), l.debug.Load())
	}
	perfstats.UpdateMovingAverage(&l.AvgTimeNSPerRender, time.Now().Sub(start).Nanoseconds())

	if err := l.presenter.Present(l.canvas); err != nil {
		// Presentation failures are local to the tick; keep looping
		if time.Now().Sub(l.lastPresentErrAt) > 15*time.Second {
			l.Log.Errorf("Present failed: %v", err)
			l.lastPresentErrAt = time.Now()
		}
	}
}
