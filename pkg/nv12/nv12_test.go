package nv12

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Fill a frame with a uniform color
func uniformFrame(width, height int, y, cb, cr byte) *Frame {
	f := NewFrame(width, height)
	for i := range f.Y {
		f.Y[i] = y
	}
	for i := 0; i < len(f.CbCr); i += 2 {
		f.CbCr[i] = cb
		f.CbCr[i+1] = cr
	}
	return f
}

func TestStrides(t *testing.T) {
	f := NewFrame(16, 8)
	require.Equal(t, 16, f.YStride())
	require.Equal(t, 16, f.CbCrStride())

	// Padded planes: strides are inferred from the buffer sizes
	padded := &Frame{
		Width:  16,
		Height: 8,
		Y:      make([]byte, 20*8),
		CbCr:   make([]byte, 20*4),
	}
	require.Equal(t, 20, padded.YStride())
	require.Equal(t, 20, padded.CbCrStride())
}

func TestCloneCopiesPaddedPlanes(t *testing.T) {
	src := &Frame{
		Width:  4,
		Height: 4,
		Y:      make([]byte, 8*4),
		CbCr:   make([]byte, 8*2),
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Y[y*8+x] = byte(y*4 + x)
		}
	}
	src.CbCr[0] = 99
	src.CbCr[1] = 77

	dst := src.Clone()
	require.Equal(t, 4, dst.YStride())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.Equal(t, byte(y*4+x), dst.Y[y*4+x])
		}
	}
	require.Equal(t, byte(99), dst.CbCr[0])
	require.Equal(t, byte(77), dst.CbCr[1])
}

func TestBT709Conversion(t *testing.T) {
	// Video-range white
	white := uniformFrame(4, 4, 235, 128, 128)
	r, g, b := white.RGBAt(1, 1)
	require.InDelta(t, 1.0, r, 0.01)
	require.InDelta(t, 1.0, g, 0.01)
	require.InDelta(t, 1.0, b, 0.01)

	// Video-range black
	black := uniformFrame(4, 4, 16, 128, 128)
	r, g, b = black.RGBAt(0, 0)
	require.Equal(t, float32(0), r)
	require.Equal(t, float32(0), g)
	require.Equal(t, float32(0), b)

	// Strong Cr pushes red, and the result stays clamped to [0,1]
	red := uniformFrame(4, 4, 81, 90, 240)
	r, g, b = red.RGBAt(2, 2)
	require.Greater(t, r, g)
	require.Greater(t, r, b)
	require.LessOrEqual(t, r, float32(1))
	require.GreaterOrEqual(t, b, float32(0))
}

func TestRGBAtClampsCoordinates(t *testing.T) {
	f := uniformFrame(4, 4, 128, 128, 128)
	r1, g1, b1 := f.RGBAt(0, 0)
	r2, g2, b2 := f.RGBAt(-5, -5)
	r3, g3, b3 := f.RGBAt(100, 100)
	require.Equal(t, [3]float32{r1, g1, b1}, [3]float32{r2, g2, b2})
	require.Equal(t, [3]float32{r1, g1, b1}, [3]float32{r3, g3, b3})
}

func TestToCImageRGB(t *testing.T) {
	f := uniformFrame(8, 6, 128, 128, 128)
	img := f.ToCImageRGB()
	require.Equal(t, 8, img.Width)
	require.Equal(t, 6, img.Height)
	// Uniform input gives a uniform image
	first := img.Pixels[0:3]
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.Pixels[y*img.Stride+x*3 : y*img.Stride+x*3+3]
			require.Equal(t, first, p)
		}
	}
}
