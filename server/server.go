package server

import (
	"fmt"
	"time"

	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/cyclopcam/halo/server/config"
	"github.com/cyclopcam/halo/server/detect"
	"github.com/cyclopcam/halo/server/overlay"
	"github.com/cyclopcam/halo/server/source"
	"github.com/cyclopcam/halo/server/streamer"
	"github.com/cyclopcam/logs"
)

// Server owns the whole pipeline: a frame source publishing into the
// exchange, a detector runner consuming from it at its own pace, the display
// loop compositing at a fixed rate, and the websocket hub presenting the
// result to viewers.
type Server struct {
	Log      logs.Log
	Config   *config.Config
	exchange *overlay.Exchange
	loop     *overlay.Loop
	runner   *detect.Runner
	source   source.Source
	hub      *streamer.Hub

	startedAt time.Time
}

func NewServer(logger logs.Log, cfg *config.Config) (*Server, error) {
	s := &Server{
		Log:      logger,
		Config:   cfg,
		exchange: overlay.NewExchange(),
		hub:      streamer.NewHub(logger),
	}

	src, err := s.makeSource(cfg)
	if err != nil {
		return nil, err
	}
	s.source = src

	detector, err := s.makeDetector(cfg)
	if err != nil {
		return nil, err
	}
	interval := time.Duration(cfg.Detector.IntervalMS) * time.Millisecond
	s.runner = detect.NewRunner(logger, detector, s.exchange, cfg.Overlay.ConfidenceThreshold, interval)

	s.loop = overlay.NewLoop(logger, s.exchange, cfg.Overlay, cfg.ViewportWidth, cfg.ViewportHeight, cfg.DisplayFPS, s.hub)
	return s, nil
}

func (s *Server) makeSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source.Kind {
	case "", "synthetic":
		return source.NewSynthetic(s.Log, s.exchange, cfg.Source.Width, cfg.Source.Height, cfg.Source.FPS), nil
	case "nv12file":
		return source.NewNV12File(s.Log, s.exchange, cfg.Source.Path, cfg.Source.Width, cfg.Source.Height, cfg.Source.FPS)
	}
	return nil, fmt.Errorf("Unknown source kind '%v'", cfg.Source.Kind)
}

func (s *Server) makeDetector(cfg *config.Config) (nn.ObjectDetector, error) {
	switch cfg.Detector.Kind {
	case "dnn":
		return detect.NewDNNDetector(cfg.Detector.Weights, cfg.Detector.Config, cfg.Detector.Names, cfg.Detector.InputSize)
	case "", "scripted":
		return detect.NewWanderingDetector("person", 80*time.Millisecond), nil
	}
	return nil, fmt.Errorf("Unknown detector kind '%v'", cfg.Detector.Kind)
}

// StartAll starts the source, the detector runner and the display loop
func (s *Server) StartAll() error {
	s.startedAt = time.Now()
	s.source.Start()
	s.runner.Start()
	s.loop.Start()
	s.Log.Infof("Pipeline started: %vx%v viewport at %v Hz, source %vx%v",
		s.Config.ViewportWidth, s.Config.ViewportHeight, s.Config.DisplayFPS,
		s.Config.Source.Width, s.Config.Source.Height)
	return nil
}

// Shutdown stops everything, in reverse dependency order
func (s *Server) Shutdown() {
	s.Log.Infof("Server shutting down")
	s.loop.Stop()
	s.runner.Stop()
	s.source.Stop()
	s.Log.Infof("Server is closed")
}
