// Package pipeline wires the Frame Decoder, Blob Detector, Tracker, and
// Stabilizer into a single data path, and supplies the Runner loop that
// drives that path from a device.Source.
package pipeline

import (
	"github.com/pkg/errors"

	"github.com/curioxide/iptsd-android/contacts"
	"github.com/curioxide/iptsd-android/heatmap"
	"github.com/curioxide/iptsd-android/protocol"
	"github.com/curioxide/iptsd-android/sink"
)

// Config aggregates every component's configuration so the whole pipeline
// can be validated once at startup rather than failing deep inside a
// running decode loop.
type Config struct {
	Detector   heatmap.Config
	Tracker    contacts.TrackerConfig
	Stabilizer contacts.StabilizerConfig
}

// Validate checks every component config, returning the first error found.
func (c Config) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return errors.Wrap(err, "detector config")
	}
	if err := c.Tracker.Validate(); err != nil {
		return errors.Wrap(err, "tracker config")
	}
	if err := c.Stabilizer.Validate(); err != nil {
		return errors.Wrap(err, "stabilizer config")
	}
	return nil
}

// Pipeline implements protocol.Handler, turning decoded stylus records and
// heatmaps into sink calls. A Pipeline is not safe for concurrent use; the
// Runner drives it from a single goroutine.
type Pipeline struct {
	detector   *heatmap.Detector
	tracker    *contacts.Tracker
	stabilizer *contacts.Stabilizer
	sink       sink.EventSink
}

// New constructs a Pipeline, rejecting an invalid Config.
func New(cfg Config, s sink.EventSink) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	detector, err := heatmap.NewDetector(cfg.Detector)
	if err != nil {
		return nil, errors.Wrap(err, "build detector")
	}
	tracker, err := contacts.NewTracker(cfg.Tracker)
	if err != nil {
		return nil, errors.Wrap(err, "build tracker")
	}
	stabilizer, err := contacts.NewStabilizer(cfg.Stabilizer)
	if err != nil {
		return nil, errors.Wrap(err, "build stabilizer")
	}

	return &Pipeline{
		detector:   detector,
		tracker:    tracker,
		stabilizer: stabilizer,
		sink:       s,
	}, nil
}

// Decode feeds one raw device buffer through the Frame Decoder, which calls
// back into OnStylus/OnHeatmap as it finds records.
func (p *Pipeline) Decode(buf []byte) error {
	return protocol.Decode(buf, p)
}

// OnStylus implements protocol.Handler by forwarding the sample directly to
// the sink; stylus events don't pass through blob detection or tracking.
func (p *Pipeline) OnStylus(e protocol.StylusEvent) {
	p.sink.EmitStylus(e)
}

// OnHeatmap implements protocol.Handler by running the heatmap through blob
// detection, tracking, and stabilization, then emitting the resulting
// contact frame.
func (p *Pipeline) OnHeatmap(h *heatmap.Heatmap) {
	blobs := p.detector.Detect(h)
	frame := p.tracker.Track(blobs)
	p.stabilizer.Stabilize(frame)
	p.sink.EmitContacts(frame)
}

// Reset clears tracker and stabilizer state, e.g. after a device
// disconnect/reconnect where prior identities and history no longer apply.
func (p *Pipeline) Reset() {
	p.tracker.Reset()
	p.stabilizer.Reset()
}
