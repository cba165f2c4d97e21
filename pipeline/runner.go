package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/curioxide/iptsd-android/device"
)

// RunnerConfig parametrizes Runner's read loop.
type RunnerConfig struct {
	// BufferSize bounds a single device read. It should be large enough
	// to hold one full data record.
	BufferSize int
	// MaxConsecutiveErrors is how many back-to-back failed reads the
	// Runner tolerates before giving up, mirroring the original
	// implementation's continuous-error-threshold shutdown.
	MaxConsecutiveErrors int
	// ErrorBackoff is slept after a failed read, before retrying.
	ErrorBackoff time.Duration
}

// DefaultRunnerConfig returns reasonable defaults for a hidraw-style device.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		BufferSize:           64 * 1024,
		MaxConsecutiveErrors: 32,
		ErrorBackoff:         10 * time.Millisecond,
	}
}

// Runner drives a Pipeline from a device.Source in a single goroutine,
// continuing past malformed buffers and transient read errors,
// and stopping once either ctx is cancelled or errors persist past
// MaxConsecutiveErrors.
type Runner struct {
	cfg      RunnerConfig
	src      device.Source
	pipeline *Pipeline
	log      zerolog.Logger
}

// NewRunner constructs a Runner. A BufferSize or MaxConsecutiveErrors left
// unset (zero or negative) takes its value from DefaultRunnerConfig.
func NewRunner(cfg RunnerConfig, src device.Source, p *Pipeline, log zerolog.Logger) *Runner {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultRunnerConfig().BufferSize
	}
	if cfg.MaxConsecutiveErrors <= 0 {
		cfg.MaxConsecutiveErrors = DefaultRunnerConfig().MaxConsecutiveErrors
	}
	return &Runner{
		cfg:      cfg,
		src:      src,
		pipeline: p,
		log:      log.With().Str("component", "runner").Logger(),
	}
}

// Run reads buffers from the Source until ctx is cancelled, a read error
// persists past MaxConsecutiveErrors, or the Source reports
// device.ErrEndOfStream (treated as a clean exit, the way a replayed capture
// file ends).
func (r *Runner) Run(ctx context.Context) error {
	buf := make([]byte, r.cfg.BufferSize)
	consecutiveErrors := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.src.Read(buf)
		if err != nil {
			if errors.Is(err, device.ErrEndOfStream) {
				return nil
			}

			consecutiveErrors++
			r.log.Error().Err(err).Int("consecutive_errors", consecutiveErrors).Msg("device read failed")
			if consecutiveErrors > r.cfg.MaxConsecutiveErrors {
				return errors.Wrap(err, "too many consecutive device read failures")
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.cfg.ErrorBackoff):
			}
			continue
		}
		consecutiveErrors = 0

		if n == 0 {
			continue
		}
		if err := r.pipeline.Decode(buf[:n]); err != nil {
			r.log.Warn().Err(err).Msg("dropping malformed device buffer")
		}
	}
}
