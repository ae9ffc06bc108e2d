package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/coreos/go-systemd/daemon"
	"github.com/cyclopcam/halo/server"
	"github.com/cyclopcam/halo/server/config"
	"github.com/cyclopcam/logs"
)

func main() {
	parser := argparse.NewParser("halo", "Live detection overlay renderer")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Configuration file (JSON). Omit to run the built-in synthetic demo", Default: ""})
	httpAddr := parser.String("", "http", &argparse.Options{Help: "Override HTTP listen address", Default: ""})
	debugOverlay := parser.Flag("", "debug-overlay", &argparse.Options{Help: "Start with the debug reference rectangle enabled", Default: false})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTP = *httpAddr
	}
	if *debugOverlay {
		cfg.Overlay.Debug = true
	}

	srv, err := server.NewServer(logger, cfg)
	if err != nil {
		logger.Errorf("Failed to create server: %v", err)
		os.Exit(1)
	}
	if err := srv.StartAll(); err != nil {
		logger.Errorf("Failed to start pipeline: %v", err)
		os.Exit(1)
	}

	daemon.SdNotify(false, daemon.SdNotifyReady)

	if err := srv.SetupHTTP(cfg.HTTP); err != nil {
		logger.Errorf("HTTP server failed: %v", err)
		srv.Shutdown()
		os.Exit(1)
	}
}
