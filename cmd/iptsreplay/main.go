// Command iptsreplay feeds a captured sequence of device buffers through
// the same pipeline.Pipeline the daemon uses, without any real hardware,
// logging every decoded stylus sample and stabilized contact frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/curioxide/iptsd-android/device"
	"github.com/curioxide/iptsd-android/internal/config"
	"github.com/curioxide/iptsd-android/internal/observability"
	"github.com/curioxide/iptsd-android/pipeline"
	"github.com/curioxide/iptsd-android/sink"
)

func main() {
	configPath := flag.String("config", "", "optional path to a TOML config file; defaults are used if omitted")
	capturePath := flag.String("capture", "", "path to a captured length-prefixed buffer file")
	logLevel := flag.String("log-level", "debug", "log level (used when -config is omitted)")
	flag.Parse()

	if *capturePath == "" {
		fmt.Fprintln(os.Stderr, "iptsreplay: -capture is required")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "iptsreplay: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.LogLevel = *logLevel
	}

	log := observability.New(observability.ParseLevel(cfg.LogLevel))

	src, err := device.OpenCapture(*capturePath)
	if err != nil {
		log.Fatal().Err(err).Str("capture", *capturePath).Msg("could not open capture file")
	}
	defer src.Close()

	p, err := pipeline.New(cfg.Pipeline(), sink.NewLogSink(log))
	if err != nil {
		log.Fatal().Err(err).Msg("could not build pipeline")
	}

	runner := pipeline.NewRunner(cfg.Runner(), src, p, log)

	log.Info().Str("capture", *capturePath).Msg("replaying capture")
	if err := runner.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("replay failed")
	}
	log.Info().Msg("replay finished")
}
