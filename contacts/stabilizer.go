package contacts

import (
	"math"

	"github.com/pkg/errors"
)

// Threshold is a dead-band/break-band pair.
// A threshold pair absent from StabilizerConfig disables that axis's stage.
type Threshold struct {
	Lo, Hi float64
}

func (t Threshold) validate(axis string) error {
	if t.Hi < t.Lo {
		return errors.Errorf("contacts: %s threshold hi (%.4f) < lo (%.4f)", axis, t.Hi, t.Lo)
	}
	return nil
}

// StabilizerConfig parametrizes the Stabilizer.
type StabilizerConfig struct {
	// TemporalWindow is N, the number of recent stabilized frames kept.
	TemporalWindow int
	// CheckTemporalStability enables the "present in every frame of the
	// window" stability check. When false, Stable is always true.
	CheckTemporalStability bool
	// Size/Position/OrientationThreshold are optional; a nil pointer
	// disables hysteresis for that axis.
	SizeThreshold        *Threshold
	PositionThreshold    *Threshold
	OrientationThreshold *Threshold
	// OrientationNormalized selects whether Contact.Orientation is in
	// [0, 1) (true) or [0, pi) radians (false); this controls the circular
	// delta's wraparound max.
	OrientationNormalized bool
}

// Validate rejects configurations that are fatal at construction:
// a temporal window of 0 with temporal checking enabled, or any inverted
// threshold pair.
func (c StabilizerConfig) Validate() error {
	if c.TemporalWindow == 0 && c.CheckTemporalStability {
		return errors.New("contacts: temporal window must be >= 1 when temporal stability checking is enabled")
	}
	if c.TemporalWindow < 0 {
		return errors.New("contacts: temporal window must not be negative")
	}
	if c.SizeThreshold != nil {
		if err := c.SizeThreshold.validate("size"); err != nil {
			return err
		}
	}
	if c.PositionThreshold != nil {
		if err := c.PositionThreshold.validate("position"); err != nil {
			return err
		}
	}
	if c.OrientationThreshold != nil {
		if err := c.OrientationThreshold.validate("orientation"); err != nil {
			return err
		}
	}
	return nil
}

// Stabilizer smooths tracked contacts across a sliding window of previous
// frames using per-axis hysteresis. Its history ring is
// pre-allocated to TemporalWindow frames (at least one) at construction and
// always holds exactly that many entries, padded with empty frames at startup.
type Stabilizer struct {
	cfg     StabilizerConfig
	history [][]Contact
}

// NewStabilizer constructs a Stabilizer, rejecting an invalid StabilizerConfig.
func NewStabilizer(cfg StabilizerConfig) (*Stabilizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	window := cfg.TemporalWindow
	if window < 1 {
		window = 1
	}

	s := &Stabilizer{cfg: cfg, history: make([][]Contact, window)}
	for i := range s.history {
		s.history[i] = nil
	}
	return s, nil
}

// Reset clears all stored history frames while keeping the ring's length.
func (s *Stabilizer) Reset() {
	for i := range s.history {
		s.history[i] = nil
	}
}

// Stabilize mutates frame in place: setting Stable per contact and snapping
// or rejecting size/position/orientation changes per the hysteresis rule,
// then rotates frame into the history ring.
func (s *Stabilizer) Stabilize(frame []Contact) {
	last := s.history[len(s.history)-1]

	for i := range frame {
		s.stabilizeContact(&frame[i], last)
	}

	copied := make([]Contact, len(frame))
	copy(copied, frame)

	copy(s.history, s.history[1:])
	s.history[len(s.history)-1] = copied
}

func (s *Stabilizer) stabilizeContact(c *Contact, last []Contact) {
	if c.Index == nil {
		return
	}

	if s.cfg.CheckTemporalStability && s.cfg.TemporalWindow >= 2 {
		c.Stable = s.checkTemporal(*c.Index)
	} else {
		c.Stable = true
	}

	if s.cfg.TemporalWindow < 2 {
		return
	}

	prev, ok := findByIndex(last, *c.Index)
	if !ok {
		return
	}

	if s.cfg.SizeThreshold != nil {
		stabilizeSize(c, prev, *s.cfg.SizeThreshold)
	}
	if s.cfg.PositionThreshold != nil {
		stabilizePosition(c, prev, *s.cfg.PositionThreshold)
	}
	if s.cfg.OrientationThreshold != nil {
		stabilizeOrientation(c, prev, *s.cfg.OrientationThreshold, s.cfg.OrientationNormalized)
	}
}

// checkTemporal reports whether idx was present in every frame of the
// stored history window.
func (s *Stabilizer) checkTemporal(idx int) bool {
	for _, f := range s.history {
		if _, ok := findByIndex(f, idx); !ok {
			return false
		}
	}
	return true
}

func stabilizeSize(c *Contact, prev Contact, thresh Threshold) {
	dw := math.Abs(c.Size.X - prev.Size.X)
	switch {
	case dw < thresh.Lo:
		c.Size.X = prev.Size.X
	case dw > thresh.Hi:
		c.Stable = false
	}

	dh := math.Abs(c.Size.Y - prev.Size.Y)
	switch {
	case dh < thresh.Lo:
		c.Size.Y = prev.Size.Y
	case dh > thresh.Hi:
		c.Stable = false
	}
}

func stabilizePosition(c *Contact, prev Contact, thresh Threshold) {
	dx := c.Mean.X - prev.Mean.X
	dy := c.Mean.Y - prev.Mean.Y
	distance := math.Hypot(dx, dy)

	switch {
	case distance < thresh.Lo:
		c.Mean = prev.Mean
	case distance > thresh.Hi:
		c.Stable = false
	}
}

func stabilizeOrientation(c *Contact, prev Contact, thresh Threshold, normalized bool) {
	aspect := 1.0
	if c.Size.Y != 0 {
		aspect = c.Size.X / c.Size.Y
	}
	if aspect < 1 {
		aspect = 1 / aspect
	}

	// Orientation is undefined for near-circular blobs.
	if aspect < 1.1 {
		c.Orientation = 0
		return
	}

	max := math.Pi
	if normalized {
		max = 1
	}

	d1 := math.Abs(c.Orientation - prev.Orientation)
	d2 := max - d1
	delta := math.Min(d1, d2)

	switch {
	case delta < thresh.Lo:
		c.Orientation = prev.Orientation
	case delta > thresh.Hi:
		c.Stable = false
	}
}
