package source

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/cyclopcam/halo/pkg/nv12"
	"github.com/cyclopcam/halo/server/overlay"
	"github.com/cyclopcam/logs"
)

// NV12File replays a file of concatenated raw NV12 frames at a fixed rate,
// looping forever. Handy for feeding recorded sensor output through the
// pipeline deterministically.
type NV12File struct {
	Log    logs.Log
	Width  int
	Height int
	FPS    int

	exchange      *overlay.Exchange
	raw           []byte
	frameSize     int
	nFrames       int
	mustStop      atomic.Bool
	looperStopped chan bool
}

func NewNV12File(logger logs.Log, exchange *overlay.Exchange, path string, width, height, fps int) (*NV12File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", path, err)
	}
	frameSize := width * height * 3 / 2
	if len(raw) < frameSize {
		return nil, fmt.Errorf("%v is too small for a single %vx%v NV12 frame", path, width, height)
	}
	if fps <= 0 {
		fps = 30
	}
	return &NV12File{
		Log:       logger,
		Width:     width,
		Height:    height,
		FPS:       fps,
		exchange:  exchange,
		raw:       raw,
		frameSize: frameSize,
		nFrames:   len(raw) / frameSize,
	}, nil
}

func (s *NV12File) Start() {
	s.mustStop.Store(false)
	s.looperStopped = make(chan bool)
	go s.loop()
}

func (s *NV12File) Stop() {
	s.mustStop.Store(true)
	<-s.looperStopped
}

func (s *NV12File) loop() {
	ticker := time.NewTicker(time.Second / time.Duration(s.FPS))
	defer ticker.Stop()
	for i := 0; !s.mustStop.Load(); i++ {
		<-ticker.C
		s.exchange.PublishFrame(s.frameAt(i % s.nFrames))
	}
	close(s.looperStopped)
}

func (s *NV12File) frameAt(idx int) *nv12.Frame {
	lumaSize := s.Width * s.Height
	base := idx * s.frameSize
	// The slices alias the file buffer; frames are immutable after publish,
	// so no copy is needed.
	return &nv12.Frame{
		Width:  s.Width,
		Height: s.Height,
		Y:      s.raw[base : base+lumaSize],
		CbCr:   s.raw[base+lumaSize : base+s.frameSize],
	}
}
