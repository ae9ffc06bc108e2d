package overlay

import (
	"testing"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/cyclopcam/halo/pkg/nv12"
	"github.com/stretchr/testify/require"
)

// Mid-gray video frame (Y=128, neutral chroma)
func grayFrame(width, height int) *nv12.Frame {
	f := nv12.NewFrame(width, height)
	for i := range f.Y {
		f.Y[i] = 128
	}
	for i := range f.CbCr {
		f.CbCr[i] = 128
	}
	return f
}

// At strength zero the output must be byte-identical to the plain background
func TestRenderZeroStrengthIsBackground(t *testing.T) {
	frame := grayFrame(500, 500)
	c := NewCompositor(DefaultConfig())
	m := FitFrame(frame.Width, frame.Height, 640, 360)

	withOverlay := cimg.NewImage(640, 360, cimg.PixelFormatRGB)
	state := State{
		Frame:        frame,
		HasDetection: true,
		Detection:    nn.Detection{Label: nn.LabelPerson, Confidence: 0.9, Box: nn.Rect{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}},
		Strength:     0,
	}
	c.Render(withOverlay, state, 3.7, false)

	background := cimg.NewImage(640, 360, cimg.PixelFormatRGB)
	c.RenderBackground(background, frame, m)

	require.Equal(t, background.Pixels, withOverlay.Pixels)
}

func TestRenderAnnotation(t *testing.T) {
	// 500x500 frame in a 1000x1000 viewport: scale 2, no borders, so the box
	// (0.4, 0.4, 0.2, 0.2) lands at display pixels (400,400)-(600,600)
	frame := grayFrame(500, 500)
	c := NewCompositor(DefaultConfig())
	dst := cimg.NewImage(1000, 1000, cimg.PixelFormatRGB)
	state := State{
		Frame:        frame,
		HasDetection: true,
		Detection:    nn.Detection{Label: nn.LabelPerson, Confidence: 0.9, Box: nn.Rect{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}},
		Strength:     1,
	}
	// timeSec 0 puts the pulse at its neutral point
	c.Render(dst, state, 0, false)

	// A pixel on the top edge of the box is strongly tinted toward the person
	// color (cyan): green and blue saturate, red stays low
	px := dst.Pixels[400*dst.Stride+500*3:]
	require.GreaterOrEqual(t, px[1], byte(250))
	require.GreaterOrEqual(t, px[2], byte(250))
	require.Less(t, px[0], byte(100))

	// A pixel far from the box and outside the bloom radius is untouched
	background := cimg.NewImage(1000, 1000, cimg.PixelFormatRGB)
	c.RenderBackground(background, frame, FitFrame(500, 500, 1000, 1000))
	far := background.Pixels[100*background.Stride+100*3:]
	got := dst.Pixels[100*dst.Stride+100*3:]
	require.Equal(t, far[:3], got[:3])

	// Just outside the edge band, bloom adds light: brighter than background
	bloomPx := dst.Pixels[380*dst.Stride+500*3:]
	require.Greater(t, bloomPx[1], far[1])

	// Badge center is near the box min corner and mostly solid tint with a
	// bright core
	badge := dst.Pixels[412*dst.Stride+412*3:]
	require.GreaterOrEqual(t, badge[1], byte(250))
}

func TestRenderLetterboxBordersAreBlack(t *testing.T) {
	// Square frame in a wide viewport: pillarbox borders left and right
	frame := grayFrame(100, 100)
	c := NewCompositor(DefaultConfig())
	dst := cimg.NewImage(300, 100, cimg.PixelFormatRGB)
	c.RenderBackground(dst, frame, FitFrame(100, 100, 300, 100))

	border := dst.Pixels[50*dst.Stride+10*3:]
	require.Equal(t, []byte{0, 0, 0}, border[:3])
	center := dst.Pixels[50*dst.Stride+150*3:]
	require.Greater(t, center[0], byte(0))
}

func TestDebugReference(t *testing.T) {
	frame := grayFrame(100, 100)
	c := NewCompositor(DefaultConfig())
	dst := cimg.NewImage(1000, 1000, cimg.PixelFormatRGB)
	state := State{Frame: frame}

	// The reference rectangle draws regardless of detection state
	c.Render(dst, state, 0, true)

	// Top-left corner of the fixed rectangle is magenta
	corner := dst.Pixels[200*dst.Stride+150*3:]
	require.Equal(t, []byte{255, 0, 255}, corner[:3])

	// Center of the rectangle is not
	center := dst.Pixels[500*dst.Stride+500*3:]
	require.NotEqual(t, []byte{255, 0, 255}, center[:3])
}

func TestClear(t *testing.T) {
	dst := cimg.NewImage(16, 16, cimg.PixelFormatRGB)
	for i := range dst.Pixels {
		dst.Pixels[i] = 200
	}
	Clear(dst)
	for i := range dst.Pixels {
		require.Equal(t, byte(0), dst.Pixels[i])
	}
}
