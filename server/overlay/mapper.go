package overlay

import (
	"github.com/chewxy/math32"
	"github.com/cyclopcam/halo/pkg/nn"
)

// AspectMapping is the letterbox fit of a frame inside a viewport.
//
// One uniform scale fits the entire frame inside the viewport without
// cropping. The SAME scale is applied to the background sampling coordinates
// and to the detection box corners; if those two transforms ever diverge, the
// annotation drifts off the object it belongs to. Keep them on this one
// struct.
//
// Coordinate conventions: detector boxes are normalized [0,1], origin
// top-left, y down. Our raster target is also y down, so the detector to
// display conversion performed here involves no vertical flip; this is the
// only stage that converts between the two spaces.
type AspectMapping struct {
	FrameWidth     int
	FrameHeight    int
	ViewportWidth  int
	ViewportHeight int
	Scale          float32 // viewport pixels per frame pixel, both axes
	OffsetX        float32 // letterbox border, viewport pixels
	OffsetY        float32
}

// FitFrame computes the letterbox mapping of frame into viewport
func FitFrame(frameWidth, frameHeight, viewportWidth, viewportHeight int) AspectMapping {
	scaleX := float32(viewportWidth) / float32(frameWidth)
	scaleY := float32(viewportHeight) / float32(frameHeight)
	scale := math32.Min(scaleX, scaleY)
	return AspectMapping{
		FrameWidth:     frameWidth,
		FrameHeight:    frameHeight,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Scale:          scale,
		OffsetX:        (float32(viewportWidth) - float32(frameWidth)*scale) / 2,
		OffsetY:        (float32(viewportHeight) - float32(frameHeight)*scale) / 2,
	}
}

// FrameUV maps a viewport pixel position to normalized frame coordinates.
// Results outside [0,1] are in the letterbox border; the caller renders
// those pure black. No clamping here.
func (m AspectMapping) FrameUV(px, py float32) (u, v float32) {
	u = (px - m.OffsetX) / (m.Scale * float32(m.FrameWidth))
	v = (py - m.OffsetY) / (m.Scale * float32(m.FrameHeight))
	return
}

// MapBox maps a detector-normalized box into viewport pixel min/max, using
// the same Scale as the background. Boxes partially or fully outside the
// letterboxed region map consistently; visibility clipping is the
// compositor's job.
func (m AspectMapping) MapBox(box nn.Rect) (minX, minY, maxX, maxY float32) {
	fw := float32(m.FrameWidth)
	fh := float32(m.FrameHeight)
	minX = m.OffsetX + box.X*fw*m.Scale
	minY = m.OffsetY + box.Y*fh*m.Scale
	maxX = m.OffsetX + (box.X+box.Width)*fw*m.Scale
	maxY = m.OffsetY + (box.Y+box.Height)*fh*m.Scale
	return
}
