package overlay

import (
	"github.com/chewxy/math32"
)

// Smoother converts the sparse, jittery arrival of detector results into a
// smoothly decaying scalar. Detections land whenever the detector finishes,
// while the display repaints at a fixed rate; without smoothing the overlay
// flickers and pops in and out.
//
// Per display tick:
//  1. fade = max(0, fade - FadeDecay)
//  2. smoothed = smoothed*(1-Alpha) + raw*Alpha
//  3. strength = smoothed * fade
//
// The fade timer is reset to 1.0 by the exchange when a qualifying detection
// is committed; it never increases otherwise.
type Smoother struct {
	FadeDecay float32
	Alpha     float32
}

// Step advances the fade timer and the confidence EMA by one display tick.
func (s *Smoother) Step(fade, smoothed, raw float32) (newFade, newSmoothed float32) {
	newFade = math32.Max(0, fade-s.FadeDecay)
	newSmoothed = smoothed*(1-s.Alpha) + raw*s.Alpha
	return
}

// Strength is the single scalar that drives all overlay opacity
func Strength(smoothed, fade float32) float32 {
	return smoothed * fade
}
