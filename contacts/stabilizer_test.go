package contacts

import "testing"

func idx(i int) *int { return &i }

func TestStabilizerSnapsSmallPositionChange(t *testing.T) {
	s, err := NewStabilizer(StabilizerConfig{
		TemporalWindow:    2,
		PositionThreshold: &Threshold{Lo: 0.01, Hi: 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}

	frame1 := []Contact{{Index: idx(0), Mean: Vec2{X: 0.5, Y: 0.5}, Stable: true}}
	s.Stabilize(frame1)

	frame2 := []Contact{{Index: idx(0), Mean: Vec2{X: 0.505, Y: 0.5}}}
	s.Stabilize(frame2)

	if frame2[0].Mean != (Vec2{X: 0.5, Y: 0.5}) {
		t.Errorf("expected position to snap back to previous mean, got %v", frame2[0].Mean)
	}
	if !frame2[0].Stable {
		t.Error("expected contact to remain stable after a sub-threshold move")
	}
}

func TestStabilizerMarksUnstableOnLargePositionChange(t *testing.T) {
	s, err := NewStabilizer(StabilizerConfig{
		TemporalWindow:    2,
		PositionThreshold: &Threshold{Lo: 0.01, Hi: 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}

	frame1 := []Contact{{Index: idx(0), Mean: Vec2{X: 0.1, Y: 0.1}, Stable: true}}
	s.Stabilize(frame1)

	frame2 := []Contact{{Index: idx(0), Mean: Vec2{X: 0.9, Y: 0.9}}}
	s.Stabilize(frame2)

	if frame2[0].Stable {
		t.Error("expected contact to be marked unstable on a large jump")
	}
	if frame2[0].Mean != (Vec2{X: 0.9, Y: 0.9}) {
		t.Errorf("expected mean to pass through unmodified above the break threshold, got %v", frame2[0].Mean)
	}
}

func TestStabilizerLeavesMidBandUntouched(t *testing.T) {
	s, err := NewStabilizer(StabilizerConfig{
		TemporalWindow:    2,
		PositionThreshold: &Threshold{Lo: 0.01, Hi: 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}

	frame1 := []Contact{{Index: idx(0), Mean: Vec2{X: 0.1, Y: 0.1}, Stable: true}}
	s.Stabilize(frame1)

	frame2 := []Contact{{Index: idx(0), Mean: Vec2{X: 0.15, Y: 0.1}}}
	s.Stabilize(frame2)

	if frame2[0].Mean != (Vec2{X: 0.15, Y: 0.1}) {
		t.Errorf("expected mean to pass through unmodified in the mid band, got %v", frame2[0].Mean)
	}
	if !frame2[0].Stable {
		t.Error("expected contact to remain stable in the mid band")
	}
}

func TestStabilizerForcesOrientationZeroForCircularBlob(t *testing.T) {
	s, err := NewStabilizer(StabilizerConfig{
		TemporalWindow:       2,
		OrientationThreshold: &Threshold{Lo: 0.01, Hi: 0.5},
	})
	if err != nil {
		t.Fatal(err)
	}

	frame1 := []Contact{{Index: idx(0), Size: Vec2{X: 0.05, Y: 0.05}, Orientation: 1.2, Stable: true}}
	s.Stabilize(frame1)

	frame2 := []Contact{{Index: idx(0), Size: Vec2{X: 0.05, Y: 0.05}, Orientation: 0.8}}
	s.Stabilize(frame2)

	if frame2[0].Orientation != 0 {
		t.Errorf("expected orientation forced to 0 for a near-circular blob, got %v", frame2[0].Orientation)
	}
}

func TestStabilizerRequiresPresenceInEveryWindowFrame(t *testing.T) {
	s, err := NewStabilizer(StabilizerConfig{
		TemporalWindow:         3,
		CheckTemporalStability: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	// The history ring starts padded with empty frames, so an identity
	// only satisfies "present in every window frame" once it has survived
	// one full window's worth of prior frames plus the current one.
	s.Stabilize([]Contact{{Index: idx(0), Mean: Vec2{X: 0.1, Y: 0.1}}})
	s.Stabilize([]Contact{{Index: idx(0), Mean: Vec2{X: 0.1, Y: 0.1}}})
	s.Stabilize([]Contact{{Index: idx(0), Mean: Vec2{X: 0.1, Y: 0.1}}})
	fourth := []Contact{{Index: idx(0), Mean: Vec2{X: 0.1, Y: 0.1}}}
	s.Stabilize(fourth)

	if !fourth[0].Stable {
		t.Error("expected contact present in every window frame to be stable")
	}
}

func TestStabilizerUnstableWhenAbsentFromHistory(t *testing.T) {
	s, err := NewStabilizer(StabilizerConfig{
		TemporalWindow:         3,
		CheckTemporalStability: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Stabilize([]Contact{{Index: idx(0), Mean: Vec2{X: 0.1, Y: 0.1}}})
	fresh := []Contact{{Index: idx(1), Mean: Vec2{X: 0.5, Y: 0.5}}}
	s.Stabilize(fresh)

	if fresh[0].Stable {
		t.Error("expected a brand-new identity to be unstable until it fills the window")
	}
}

func TestStabilizerConfigValidation(t *testing.T) {
	if _, err := NewStabilizer(StabilizerConfig{TemporalWindow: 0, CheckTemporalStability: true}); err == nil {
		t.Error("expected error when temporal checking is enabled with a zero window")
	}
	if _, err := NewStabilizer(StabilizerConfig{TemporalWindow: 1, PositionThreshold: &Threshold{Lo: 0.5, Hi: 0.1}}); err == nil {
		t.Error("expected error for an inverted threshold pair")
	}
}

func TestStabilizerIgnoresContactsWithoutIndex(t *testing.T) {
	s, err := NewStabilizer(StabilizerConfig{
		TemporalWindow:    2,
		PositionThreshold: &Threshold{Lo: 0.01, Hi: 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}

	frame := []Contact{{Index: nil, Mean: Vec2{X: 0.3, Y: 0.3}}}
	s.Stabilize(frame)

	if frame[0].Stable {
		t.Error("expected an indexless contact to be left entirely untouched")
	}
}
