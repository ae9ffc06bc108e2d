package nv12

// Package nv12 holds our in-memory video frame format.
// Frames arrive from the capture path as NV12: a full resolution 8-bit luma
// plane, followed by a half resolution plane of interleaved Cb,Cr pairs.

import (
	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
)

// NV12 image
type Frame struct {
	Width  int
	Height int
	Y      []byte // Luma plane
	CbCr   []byte // Interleaved Cb,Cr plane, half resolution in both axes
}

// Create a tightly packed frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Y:      make([]byte, width*height),
		CbCr:   make([]byte, width*height/2),
	}
}

// Infer our stride from the Y buffer size
func (f *Frame) YStride() int {
	return len(f.Y) / f.Height
}

// Infer our stride from the CbCr buffer size.
// This is a byte stride, so it counts both chroma channels.
func (f *Frame) CbCrStride() int {
	return len(f.CbCr) / (f.Height / 2)
}

// Clone into a tightly packed frame
func (f *Frame) Clone() *Frame {
	dst := NewFrame(f.Width, f.Height)
	dst.CopyFrom(f)
	return dst
}

func (f *Frame) CopyFrom(src *Frame) {
	width := min(f.Width, src.Width)
	height := min(f.Height, src.Height)
	srcYStride := src.YStride()
	srcCStride := src.CbCrStride()
	dstYStride := f.YStride()
	dstCStride := f.CbCrStride()
	for i := 0; i < height; i++ {
		copy(f.Y[i*dstYStride:], src.Y[i*srcYStride:i*srcYStride+width])
	}
	heightHalf := height / 2
	for i := 0; i < heightHalf; i++ {
		copy(f.CbCr[i*dstCStride:], src.CbCr[i*srcCStride:i*srcCStride+width])
	}
}

// RGBAt returns the color of pixel (x,y) as linear-ish RGB in [0,1].
// Coordinates outside the frame are clamped to the nearest edge pixel.
// Conversion is BT.709 video range, clamped.
func (f *Frame) RGBAt(x, y int) (r, g, b float32) {
	x = max(0, min(x, f.Width-1))
	y = max(0, min(y, f.Height-1))
	luma := float32(f.Y[y*f.YStride()+x]) - 16
	ci := (y/2)*f.CbCrStride() + (x/2)*2
	cb := float32(f.CbCr[ci]) - 128
	cr := float32(f.CbCr[ci+1]) - 128
	r = (1.164*luma + 1.793*cr) / 255
	g = (1.164*luma - 0.213*cb - 0.533*cr) / 255
	b = (1.164*luma + 2.112*cb) / 255
	return clamp01(r), clamp01(g), clamp01(b)
}

// Transcode to a packed RGB image
func (f *Frame) ToCImageRGB() *cimg.Image {
	dst := cimg.NewImage(f.Width, f.Height, cimg.PixelFormatRGB)
	for y := 0; y < f.Height; y++ {
		row := dst.Pixels[y*dst.Stride:]
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGBAt(x, y)
			row[x*3] = byte(r*255 + 0.5)
			row[x*3+1] = byte(g*255 + 0.5)
			row[x*3+2] = byte(b*255 + 0.5)
		}
	}
	return dst
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
