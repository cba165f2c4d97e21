// Command iptsd is the touch/stylus daemon: it reads raw buffers from a
// device.Source, decodes and tracks them through pipeline.Pipeline, and
// emits the result to a sink.EventSink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/curioxide/iptsd-android/device"
	"github.com/curioxide/iptsd-android/internal/config"
	"github.com/curioxide/iptsd-android/internal/observability"
	"github.com/curioxide/iptsd-android/pipeline"
	"github.com/curioxide/iptsd-android/sink"
)

func main() {
	configPath := flag.String("config", "/etc/iptsd/iptsd.toml", "path to the daemon's TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "iptsd: %v\n", err)
		os.Exit(1)
	}

	log := observability.New(observability.ParseLevel(cfg.LogLevel))

	src, err := device.OpenFile(cfg.DevicePath)
	if err != nil {
		log.Fatal().Err(err).Str("device", cfg.DevicePath).Msg("could not open device source")
	}
	defer src.Close()

	p, err := pipeline.New(cfg.Pipeline(), sink.NewLogSink(log))
	if err != nil {
		log.Fatal().Err(err).Msg("could not build pipeline")
	}

	runner := pipeline.NewRunner(cfg.Runner(), src, p, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("device", cfg.DevicePath).Msg("iptsd starting")
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("runner exited")
	}
	log.Info().Msg("iptsd stopped")
}
