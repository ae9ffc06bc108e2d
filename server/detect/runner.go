package detect

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmharper/ringbuffer"
	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/cyclopcam/halo/pkg/nv12"
	"github.com/cyclopcam/halo/pkg/perfstats"
	"github.com/cyclopcam/halo/server/overlay"
	"github.com/cyclopcam/logs"
)

// How many committed detections we keep around for the status API
const recentRingSize = 32

// A detection we committed, with the time we committed it
type RecentDetection struct {
	Time      time.Time    `json:"time"`
	Detection nn.Detection `json:"detection"`
}

// Runner drives an ObjectDetector against the frame exchange at the
// detector's own cadence. It acquires the latest frame when the detector is
// free, runs inference without holding any lock, and commits the best
// qualifying candidate (or "none") back to the exchange. Frames published
// while a pass is in flight are skipped; a pass is never cancelled.
type Runner struct {
	Log       logs.Log
	detector  nn.ObjectDetector
	exchange  *overlay.Exchange
	threshold float32

	// Minimum pause between passes. Zero means run as fast as the detector allows.
	interval time.Duration

	mustStop      atomic.Bool
	looperStopped chan bool
	lastErrAt     time.Time

	recentLock sync.Mutex
	recent     ringbuffer.RingP[RecentDetection]

	// Moving average of nanoseconds per detection pass
	AvgTimeNSPerDetection int64
}

func NewRunner(logger logs.Log, detector nn.ObjectDetector, exchange *overlay.Exchange, threshold float32, interval time.Duration) *Runner {
	if threshold <= 0 {
		threshold = nn.DefaultConfidenceThreshold
	}
	return &Runner{
		Log:       logger,
		detector:  detector,
		exchange:  exchange,
		threshold: threshold,
		interval:  interval,
		recent:    ringbuffer.NewRingP[RecentDetection](recentRingSize),
	}
}

func (r *Runner) Start() {
	r.mustStop.Store(false)
	r.looperStopped = make(chan bool)
	go r.loop()
}

func (r *Runner) Stop() {
	r.mustStop.Store(true)
	<-r.looperStopped
	r.detector.Close()
}

// Recent returns the most recently committed detections, oldest first
func (r *Runner) Recent() []RecentDetection {
	r.recentLock.Lock()
	defer r.recentLock.Unlock()
	out := make([]RecentDetection, 0, r.recent.Len())
	for i := 0; i < r.recent.Len(); i++ {
		out = append(out, r.recent.Peek(i))
	}
	return out
}

func (r *Runner) loop() {
	// Poll delay while the exchange has nothing for us. Much smaller than a
	// frame interval, so we start a pass soon after a frame lands.
	const idlePause = 5 * time.Millisecond

	for !r.mustStop.Load() {
		frame, ok := r.exchange.TryAcquireForDetection()
		if !ok {
			time.Sleep(idlePause)
			continue
		}
		r.runPass(frame)
		if r.interval > 0 {
			time.Sleep(r.interval)
		}
	}
	close(r.looperStopped)
}

// runPass runs inference on one frame and commits the outcome.
// A detector error is the same as "no qualifying detection": the fade timer
// keeps decaying and nothing else changes.
func (r *Runner) runPass(frame *nv12.Frame) {
	start := time.Now()
	candidates, err := r.detector.DetectObjects(frame)
	perfstats.UpdateMovingAverage(&r.AvgTimeNSPerDetection, time.Now().Sub(start).Nanoseconds())
	if err != nil {
		if time.Now().Sub(r.lastErrAt) > 15*time.Second {
			r.Log.Errorf("Error detecting objects: %v", err)
			r.lastErrAt = time.Now()
		}
		r.exchange.CommitDetection(nil)
		return
	}
	if best, ok := nn.SelectBest(candidates, r.threshold); ok {
		r.exchange.CommitDetection(&best)
		r.recentLock.Lock()
		r.recent.Add(RecentDetection{Time: time.Now(), Detection: best})
		r.recentLock.Unlock()
	} else {
		r.exchange.CommitDetection(nil)
	}
}
