package overlay

// Config holds the overlay tuning constants.
// Radii and offsets are fractions of the viewport height, so the annotation
// keeps its proportions across display sizes.
type Config struct {
	FadeDecay           float32 `json:"fadeDecay"`           // Fade timer decay per display tick
	SmoothAlpha         float32 `json:"smoothAlpha"`         // EMA factor applied to raw confidence each tick
	ConfidenceThreshold float32 `json:"confidenceThreshold"` // Candidates at or below this are ignored
	EdgeHalfWidth       float32 `json:"edgeHalfWidth"`       // Half width of the box edge band
	BloomRadius         float32 `json:"bloomRadius"`         // Outward glow reach from the box edge
	InnerGlowMargin     float32 `json:"innerGlowMargin"`     // Inward glow reach from the box edge
	BadgeRadius         float32 `json:"badgeRadius"`         // Radius of the label badge circle
	BadgeOffsetX        float32 `json:"badgeOffsetX"`        // Badge center offset from box min
	BadgeOffsetY        float32 `json:"badgeOffsetY"`
	PulseAmplitude      float32 `json:"pulseAmplitude"` // Strength of the sinusoidal luminance pulse
	PulseHz             float32 `json:"pulseHz"`        // Pulse rate in cycles per second
	Debug               bool    `json:"debug"`          // Draw the fixed debug reference rectangle
}

func DefaultConfig() Config {
	return Config{
		FadeDecay:           0.008,
		SmoothAlpha:         0.3,
		ConfidenceThreshold: 0.3,
		EdgeHalfWidth:       0.004,
		BloomRadius:         0.045,
		InnerGlowMargin:     0.02,
		BadgeRadius:         0.018,
		BadgeOffsetX:        0.012,
		BadgeOffsetY:        0.012,
		PulseAmplitude:      0.08,
		PulseHz:             1.2,
		Debug:               false,
	}
}
