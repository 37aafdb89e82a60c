package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/internal/simulator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	port := flag.Int("port", 9000, "simulator server port")
	rows := flag.Int("rows", simulator.DefaultRows, "history rows to generate")
	seed := flag.Int64("seed", simulator.DefaultSeed, "dataset seed")
	latency := flag.Duration("latency", 0, "artificial delay added to every response")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel, "development")
	logger.Info("Starting inference simulator")

	sim := simulator.New(simulator.Config{
		Port:    *port,
		Rows:    *rows,
		Seed:    *seed,
		Latency: *latency,
	})

	if err := sim.Start(); err != nil {
		return fmt.Errorf("failed to start simulator: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down simulator")
	return sim.Stop()
}
