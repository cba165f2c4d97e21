// Package sink defines the Event Sink boundary the Runner emits decoded
// stylus samples and stabilized contact frames to. Actual synthetic input emission is out of scope; this
// package supplies the interface and a logging implementation used by the
// replay tool.
package sink

import (
	"github.com/rs/zerolog"

	"github.com/curioxide/iptsd-android/contacts"
	"github.com/curioxide/iptsd-android/protocol"
)

// EventSink receives the normalized output of the pipeline.
type EventSink interface {
	EmitStylus(protocol.StylusEvent)
	EmitContacts(frame []contacts.Contact)
}

// LogSink emits every event as a structured log line. It's the sink
// cmd/iptsreplay uses so a capture can be inspected without a real input
// consumer attached.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink wraps log as an EventSink.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "sink").Logger()}
}

// EmitStylus logs one stylus sample.
func (s *LogSink) EmitStylus(e protocol.StylusEvent) {
	s.log.Debug().
		Uint16("x", e.X).
		Uint16("y", e.Y).
		Uint16("pressure", e.Pressure).
		Int32("tilt_x", e.TiltX).
		Int32("tilt_y", e.TiltY).
		Bool("contact", e.Contact).
		Bool("proximity", e.Proximity).
		Msg("stylus")
}

// EmitContacts logs one stabilized contact frame, one log line per contact.
func (s *LogSink) EmitContacts(frame []contacts.Contact) {
	for _, c := range frame {
		event := s.log.Debug().
			Float64("x", c.Mean.X).
			Float64("y", c.Mean.Y).
			Float64("major", c.Size.X).
			Float64("minor", c.Size.Y).
			Float64("orientation", c.Orientation).
			Bool("stable", c.Stable)
		if c.Index != nil {
			event = event.Int("index", *c.Index)
		}
		event.Msg("contact")
	}
}
