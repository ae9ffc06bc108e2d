package overlay

import (
	"sync"

	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/cyclopcam/halo/pkg/nv12"
)

// Exchange is the single-slot holder for the most recent frame and the
// mutable detection state. The capture path, the detector and the display
// loop all run at their own cadence, so everything in here is guarded by one
// short-held lock. Nobody holds the lock across inference or drawing.
//
// There is no queue and no backpressure: a new frame replaces the old one
// unconditionally, and frames that arrive while a detection pass is in flight
// are simply never seen by the detector.
type Exchange struct {
	lock         sync.Mutex
	frame        *nv12.Frame
	detection    nn.Detection
	hasDetection bool
	rawConf      float32
	smoothedConf float32
	fadeTimer    float32
	busy         bool // a detection pass is in flight
}

// State is a copy-out snapshot of the exchange, safe to use without the lock.
// Frame is a reference: frames are immutable after publish.
type State struct {
	Frame        *nv12.Frame  `json:"-"`
	Detection    nn.Detection `json:"detection"`
	HasDetection bool         `json:"hasDetection"`
	RawConf      float32      `json:"rawConfidence"`
	SmoothedConf float32      `json:"smoothedConfidence"`
	FadeTimer    float32      `json:"fadeTimer"`
	Strength     float32      `json:"strength"`
	Busy         bool         `json:"detectionInFlight"`
}

func NewExchange() *Exchange {
	return &Exchange{}
}

// PublishFrame replaces the current frame unconditionally. Never blocks.
// The previous frame is dropped if nobody consumed it.
func (e *Exchange) PublishFrame(frame *nv12.Frame) {
	e.lock.Lock()
	e.frame = frame
	e.lock.Unlock()
}

// TryAcquireForDetection returns the current frame if no detection pass is in
// flight, and marks one as in flight. Returns ok=false if the detector is
// still busy with an earlier frame, or if no frame has been published yet;
// the caller must skip this frame.
func (e *Exchange) TryAcquireForDetection() (frame *nv12.Frame, ok bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.busy || e.frame == nil {
		return nil, false
	}
	e.busy = true
	return e.frame, true
}

// AcquireForDisplay returns the current frame, or nil. Never blocks.
func (e *Exchange) AcquireForDisplay() *nv12.Frame {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.frame
}

// CommitDetection finishes a detection pass. det is nil when the pass
// produced no qualifying detection (including detector failure), in which
// case the fade timer keeps decaying and raw confidence drops to zero, but
// the last detection is retained so the overlay fades out in place.
// A qualifying detection resets the fade timer to exactly 1.
func (e *Exchange) CommitDetection(det *nn.Detection) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if det != nil {
		e.detection = *det
		e.hasDetection = true
		e.rawConf = det.Confidence
		e.fadeTimer = 1.0
	} else {
		e.rawConf = 0
	}
	e.busy = false
}

// DisplayTick applies one smoother step to the detection state and returns a
// snapshot for rendering. Called once per display tick.
func (e *Exchange) DisplayTick(sm *Smoother) State {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.fadeTimer, e.smoothedConf = sm.Step(e.fadeTimer, e.smoothedConf, e.rawConf)
	return e.snapshot()
}

// Snapshot returns the current state without advancing the smoother
func (e *Exchange) Snapshot() State {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.snapshot()
}

func (e *Exchange) snapshot() State {
	return State{
		Frame:        e.frame,
		Detection:    e.detection,
		HasDetection: e.hasDetection,
		RawConf:      e.rawConf,
		SmoothedConf: e.smoothedConf,
		FadeTimer:    e.fadeTimer,
		Strength:     Strength(e.smoothedConf, e.fadeTimer),
		Busy:         e.busy,
	}
}
