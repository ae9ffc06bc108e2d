package source

import (
	"sync/atomic"
	"time"

	"github.com/cyclopcam/halo/pkg/nv12"
	"github.com/cyclopcam/halo/server/overlay"
	"github.com/cyclopcam/logs"
)

// Synthetic generates a moving test pattern, for running the whole pipeline
// without a camera: a diagonal luma gradient that scrolls over time, a bright
// square that drifts across the frame, and a mild chroma wash so the color
// conversion path is exercised.
type Synthetic struct {
	Log    logs.Log
	Width  int
	Height int
	FPS    int

	exchange      *overlay.Exchange
	mustStop      atomic.Bool
	looperStopped chan bool
}

func NewSynthetic(logger logs.Log, exchange *overlay.Exchange, width, height, fps int) *Synthetic {
	if fps <= 0 {
		fps = 30
	}
	return &Synthetic{
		Log:      logger,
		Width:    width,
		Height:   height,
		FPS:      fps,
		exchange: exchange,
	}
}

func (s *Synthetic) Start() {
	s.mustStop.Store(false)
	s.looperStopped = make(chan bool)
	go s.loop()
}

func (s *Synthetic) Stop() {
	s.mustStop.Store(true)
	<-s.looperStopped
}

func (s *Synthetic) loop() {
	ticker := time.NewTicker(time.Second / time.Duration(s.FPS))
	defer ticker.Stop()
	frameIdx := 0
	for !s.mustStop.Load() {
		<-ticker.C
		s.exchange.PublishFrame(MakeTestFrame(s.Width, s.Height, frameIdx))
		frameIdx++
	}
	close(s.looperStopped)
}

// MakeTestFrame builds one frame of the test pattern. Exported for tests.
func MakeTestFrame(width, height, frameIdx int) *nv12.Frame {
	frame := nv12.NewFrame(width, height)

	// Scrolling diagonal gradient, video range (16..235)
	phase := frameIdx * 2
	for y := 0; y < height; y++ {
		row := frame.Y[y*width:]
		for x := 0; x < width; x++ {
			row[x] = byte(16 + (x+y+phase)%220)
		}
	}

	// Bright square drifting horizontally
	side := height / 6
	bx := (frameIdx * 3) % max(1, width-side)
	by := height/2 - side/2
	for y := by; y < by+side; y++ {
		row := frame.Y[y*width:]
		for x := bx; x < bx+side; x++ {
			row[x] = 235
		}
	}

	// Gentle chroma wash so the frame isn't gray
	cStride := frame.CbCrStride()
	for y := 0; y < height/2; y++ {
		row := frame.CbCr[y*cStride:]
		for x := 0; x < width/2; x++ {
			row[x*2] = byte(118 + (x+phase/2)%20)   // Cb
			row[x*2+1] = byte(122 + (y+phase/3)%16) // Cr
		}
	}
	return frame
}
