package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cyclopcam/halo/server/overlay"
	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

func TestMakeTestFrame(t *testing.T) {
	f := MakeTestFrame(64, 48, 0)
	require.Equal(t, 64, f.Width)
	require.Equal(t, 48, f.Height)
	require.Len(t, f.Y, 64*48)
	require.Len(t, f.CbCr, 64*48/2)

	// Luma stays in video range
	for _, v := range f.Y {
		require.GreaterOrEqual(t, v, byte(16))
		require.LessOrEqual(t, v, byte(235))
	}

	// The pattern moves between frames
	g := MakeTestFrame(64, 48, 1)
	require.NotEqual(t, f.Y, g.Y)
}

func TestSyntheticPublishes(t *testing.T) {
	e := overlay.NewExchange()
	s := NewSynthetic(logs.NewTestingLog(t), e, 32, 24, 120)
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if f := e.AcquireForDisplay(); f != nil {
			require.Equal(t, 32, f.Width)
			require.Equal(t, 24, f.Height)
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("Synthetic source never published a frame")
}

func TestNV12File(t *testing.T) {
	const width, height = 8, 6
	frameSize := width * height * 3 / 2

	// Two frames with distinct luma values
	raw := make([]byte, 2*frameSize)
	for i := 0; i < frameSize; i++ {
		raw[i] = 10
		raw[frameSize+i] = 20
	}
	path := filepath.Join(t.TempDir(), "frames.nv12")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	e := overlay.NewExchange()
	s, err := NewNV12File(logs.NewTestingLog(t), e, path, width, height, 120)
	require.NoError(t, err)
	require.Equal(t, 2, s.nFrames)

	f0 := s.frameAt(0)
	require.Equal(t, byte(10), f0.Y[0])
	require.Len(t, f0.Y, width*height)
	require.Len(t, f0.CbCr, width*height/2)
	f1 := s.frameAt(1)
	require.Equal(t, byte(20), f1.Y[0])

	s.Start()
	defer s.Stop()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if e.AcquireForDisplay() != nil {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("File source never published a frame")
}

func TestNV12FileRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.nv12")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0644))
	_, err := NewNV12File(logs.NewTestingLog(t), overlay.NewExchange(), path, 8, 6, 30)
	require.Error(t, err)
}
