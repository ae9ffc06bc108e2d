package overlay

import (
	"testing"

	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/stretchr/testify/require"
)

// The box corners and the background sampling coordinates must share one
// scale value. 1080x1920 frame inside a 1290x2796 viewport is the portrait
// case where the X axis is the tight fit.
func TestSharedScale(t *testing.T) {
	m := FitFrame(1080, 1920, 1290, 2796)
	require.InDelta(t, 1290.0/1080.0, float64(m.Scale), 1e-5)
	require.InDelta(t, 0, float64(m.OffsetX), 1e-3)
	require.Greater(t, m.OffsetY, float32(0))

	box := nn.Rect{X: 0.3, Y: 0.2, Width: 0.25, Height: 0.15}
	minX, minY, maxX, maxY := m.MapBox(box)

	// Box scale on each axis equals the mapping's single scale
	require.InDelta(t, float64(m.Scale), float64((maxX-minX)/(box.Width*1080)), 1e-5)
	require.InDelta(t, float64(m.Scale), float64((maxY-minY)/(box.Height*1920)), 1e-5)

	// Background sampling is the exact inverse of the box mapping: the box
	// min corner in viewport space samples the frame at (box.X, box.Y)
	u, v := m.FrameUV(minX, minY)
	require.InDelta(t, float64(box.X), float64(u), 1e-5)
	require.InDelta(t, float64(box.Y), float64(v), 1e-5)
	u, v = m.FrameUV(maxX, maxY)
	require.InDelta(t, float64(box.X+box.Width), float64(u), 1e-5)
	require.InDelta(t, float64(box.Y+box.Height), float64(v), 1e-5)
}

func TestLetterboxBorders(t *testing.T) {
	// 100x100 frame in a 300x100 viewport: pillarbox with 100px borders
	m := FitFrame(100, 100, 300, 100)
	require.Equal(t, float32(1), m.Scale)
	require.Equal(t, float32(100), m.OffsetX)
	require.Equal(t, float32(0), m.OffsetY)

	// Pixels in the border sample outside [0,1]
	u, _ := m.FrameUV(50, 50)
	require.Less(t, u, float32(0))
	u, _ = m.FrameUV(250, 50)
	require.Greater(t, u, float32(1))
	u, v := m.FrameUV(150, 50)
	require.InDelta(t, 0.5, float64(u), 1e-5)
	require.InDelta(t, 0.5, float64(v), 1e-5)
}

// Boxes outside the frame map consistently; this component never clamps
func TestNoClampingOutsideValidRegion(t *testing.T) {
	m := FitFrame(100, 100, 200, 200)
	box := nn.Rect{X: -0.5, Y: 0.8, Width: 1.0, Height: 0.5}
	minX, minY, maxX, maxY := m.MapBox(box)
	require.Equal(t, float32(-100), minX)
	require.Equal(t, float32(160), minY)
	require.Equal(t, float32(100), maxX)
	require.Equal(t, float32(260), maxY)
}
