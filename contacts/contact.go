// Package contacts implements the Tracker and Stabilizer:
// assigning persistent identities to blobs across frames and smoothing the
// resulting contacts with per-axis hysteresis.
package contacts

import "github.com/curioxide/iptsd-android/heatmap"

// Vec2 is a pair of floating-point values, mirroring heatmap.Vec2 but kept
// distinct so this package's public surface doesn't leak the detector's
// internal cell-space representation.
type Vec2 struct {
	X, Y float64
}

// Contact is a per-frame record of one touch. Index is nil for a contact
// that carries no identity; Tracker.Track gives every contact one, minting a
// fresh identity when the blob matches no prior one.
type Contact struct {
	Index       *int
	Mean        Vec2
	Size        Vec2
	Orientation float64
	Stable      bool
	Valid       bool
}

func vec2FromHeatmap(v heatmap.Vec2) Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// findByIndex returns the contact in frame whose Index matches idx.
func findByIndex(frame []Contact, idx int) (Contact, bool) {
	for _, c := range frame {
		if c.Index != nil && *c.Index == idx {
			return c, true
		}
	}
	return Contact{}, false
}
