package contacts

import (
	"math"
	"sort"

	kalmanfilter "github.com/LdDl/kalman-filter"
	"github.com/arthurkushman/go-hungarian"
	"github.com/pkg/errors"

	"github.com/curioxide/iptsd-android/heatmap"
)

// TrackerConfig parametrizes the Tracker.
type TrackerConfig struct {
	// MaxMovement is D_max: the maximum distance, in normalized [0,1]
	// units, a contact may move between frames and still be matched to
	// its previous identity.
	MaxMovement float64
	// TemporalWindow bounds how many consecutive frames an identity may
	// go unmatched before it is freed for reuse.
	TemporalWindow int
}

// Validate rejects configurations that are fatal at construction.
func (c TrackerConfig) Validate() error {
	if c.MaxMovement <= 0 {
		return errors.New("contacts: tracker MaxMovement must be positive")
	}
	if c.TemporalWindow < 1 {
		return errors.New("contacts: tracker TemporalWindow must be at least 1")
	}
	return nil
}

// trackedObject is the Tracker's per-identity bookkeeping. A Kalman2D
// filter predicts where this identity is
// expected next, which is what the cost matrix is built against rather than
// the identity's last raw position. The filter's smoothed estimate is never
// exposed as a Contact's mean -- only the prediction is used, to keep the
// Stabilizer's hysteresis working against the real measurement.
type trackedObject struct {
	predicted heatmap.Vec2
	kf        *kalmanfilter.Kalman2D
	noMatch   int
}

// Tracker assigns persistent integer identities to blobs across frames.
type Tracker struct {
	cfg     TrackerConfig
	objects map[int]*trackedObject
}

// NewTracker constructs a Tracker, rejecting an invalid TrackerConfig.
func NewTracker(cfg TrackerConfig) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{cfg: cfg, objects: make(map[int]*trackedObject)}, nil
}

// Reset clears all tracked identities.
func (t *Tracker) Reset() {
	t.objects = make(map[int]*trackedObject)
}

// Track associates blobs with existing identities and returns one Contact
// per blob, in the same order as blobs. Unassociated blobs mint a fresh identity;
// identities that go unmatched for longer than TemporalWindow frames lapse
// and may be reused.
func (t *Tracker) Track(blobs []heatmap.Blob) []Contact {
	for _, obj := range t.objects {
		obj.kf.Predict()
		x, y := obj.kf.GetState()
		obj.predicted = heatmap.Vec2{X: x, Y: y}
	}

	ids := make([]int, 0, len(t.objects))
	for id := range t.objects {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	contacts := make([]Contact, len(blobs))
	matchedIDs := make(map[int]bool, len(ids))
	matchedBlobs := make(map[int]bool, len(blobs))

	if len(ids) > 0 && len(blobs) > 0 {
		size := len(ids)
		if len(blobs) > size {
			size = len(blobs)
		}

		score := make([][]float64, size)
		for i := range score {
			score[i] = make([]float64, size)
		}
		for i, id := range ids {
			predicted := t.objects[id].predicted
			for j, blob := range blobs {
				dist := euclidean(predicted, blob.Mean)
				if dist <= t.cfg.MaxMovement {
					score[i][j] = t.cfg.MaxMovement - dist
				}
			}
		}

		assignments := hungarian.SolveMax(score)
		for trackRow, row := range assignments {
			if trackRow >= len(ids) {
				continue // padding row, no real identity
			}
			for blobCol := range row {
				if blobCol >= len(blobs) {
					continue // padding column, no real blob
				}
				if score[trackRow][blobCol] <= 0 {
					continue // outside D_max, not a real match
				}

				id := ids[trackRow]
				blob := blobs[blobCol]
				obj := t.objects[id]

				if err := obj.kf.Update(blob.Mean.X, blob.Mean.Y); err != nil {
					// Filter update failed on a degenerate measurement; leave
					// this pair unmatched, so the blob gets a fresh identity
					// and this one ages like any other unmatched identity.
					continue
				}
				obj.noMatch = 0

				idx := id
				contacts[blobCol] = Contact{
					Index:       &idx,
					Mean:        vec2FromHeatmap(blob.Mean),
					Size:        vec2FromHeatmap(blob.Size),
					Orientation: blob.Orientation,
					Valid:       blob.Valid,
				}
				matchedIDs[id] = true
				matchedBlobs[blobCol] = true
			}
		}
	}

	for j, blob := range blobs {
		if matchedBlobs[j] {
			continue
		}

		id := t.allocateID()
		kf := kalmanfilter.NewKalman2D(1.0, 0.0, 0.0, 2.0, 0.1, 0.1, kalmanfilter.WithState2D(blob.Mean.X, blob.Mean.Y))
		t.objects[id] = &trackedObject{kf: kf}
		matchedIDs[id] = true

		idx := id
		contacts[j] = Contact{
			Index:       &idx,
			Mean:        vec2FromHeatmap(blob.Mean),
			Size:        vec2FromHeatmap(blob.Size),
			Orientation: blob.Orientation,
			Valid:       blob.Valid,
		}
	}

	for id, obj := range t.objects {
		if matchedIDs[id] {
			continue
		}
		obj.noMatch++
		if obj.noMatch > t.cfg.TemporalWindow {
			delete(t.objects, id)
		}
	}

	return contacts
}

func (t *Tracker) allocateID() int {
	id := 0
	for {
		if _, taken := t.objects[id]; !taken {
			return id
		}
		id++
	}
}

func euclidean(a, b heatmap.Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
