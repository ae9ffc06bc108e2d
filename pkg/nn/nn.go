package nn

// Package nn defines the object detector boundary and the detection types
// that flow through the overlay pipeline.

import (
	"github.com/cyclopcam/halo/pkg/nv12"
)

// Candidates below this confidence are discarded before selection
const DefaultConfidenceThreshold = 0.3

// Candidate is a single detection as reported by a detector, before label
// resolution. The label is the detector's class name text.
type Candidate struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
	Box        Rect    `json:"box"`
}

// Detection is a resolved candidate. Immutable once created.
type Detection struct {
	Label      Label   `json:"label"`
	Confidence float32 `json:"confidence"`
	Box        Rect    `json:"box"`
}

// ObjectDetector is given a frame, and returns zero or more candidate detections.
// Implementations run at their own cadence; latency is opaque to the caller.
type ObjectDetector interface {
	// Close the detector (most implementations own C++ state underneath)
	Close()

	// DetectObjects returns the candidates found in the frame.
	// Boxes are in normalized [0,1] image coordinates, origin top-left.
	DetectObjects(frame *nv12.Frame) ([]Candidate, error)
}

// SelectBest filters candidates to confidence > threshold and returns the one
// with the maximum confidence, with its label resolved.
// ok is false if no candidate qualifies.
func SelectBest(candidates []Candidate, threshold float32) (best Detection, ok bool) {
	bestConfidence := threshold
	for _, c := range candidates {
		if c.Confidence > bestConfidence {
			bestConfidence = c.Confidence
			best = Detection{
				Label:      ParseLabel(c.Label),
				Confidence: c.Confidence,
				Box:        c.Box,
			}
			ok = true
		}
	}
	return
}
