package detect

import (
	"time"

	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/cyclopcam/halo/pkg/nv12"
)

// ScriptedDetector emits a predetermined cycle of candidate lists, with an
// optional artificial latency. It backs the synthetic demo mode and the
// pipeline tests, where we want detector behavior that we fully control.
type ScriptedDetector struct {
	// Script is cycled through, one entry per pass. A nil entry means the
	// detector found nothing on that pass.
	Script [][]nn.Candidate

	// Latency is how long each pass pretends to take
	Latency time.Duration

	// Err, if set, is returned by every pass
	Err error

	passes int
}

// NewWanderingDetector builds a scripted detector whose single detection
// wanders around the frame, for the demo mode.
func NewWanderingDetector(label string, latency time.Duration) *ScriptedDetector {
	script := [][]nn.Candidate{}
	for i := 0; i < 40; i++ {
		t := float32(i) / 40
		script = append(script, []nn.Candidate{{
			Label:      label,
			Confidence: 0.55 + 0.4*t*(1-t)*4*0.5, // wobbles between 0.55 and 0.75
			Box: nn.Rect{
				X:      0.15 + 0.5*t,
				Y:      0.3 + 0.2*t*(1-t)*4,
				Width:  0.2,
				Height: 0.25,
			},
		}})
	}
	// A few misses so the fade-out path gets exercised too
	script = append(script, nil, nil, nil)
	return &ScriptedDetector{
		Script:  script,
		Latency: latency,
	}
}

func (d *ScriptedDetector) Close() {
}

func (d *ScriptedDetector) DetectObjects(frame *nv12.Frame) ([]nn.Candidate, error) {
	if d.Latency > 0 {
		time.Sleep(d.Latency)
	}
	if d.Err != nil {
		return nil, d.Err
	}
	if len(d.Script) == 0 {
		return nil, nil
	}
	out := d.Script[d.passes%len(d.Script)]
	d.passes++
	return out, nil
}
