package heatmap

import (
	"math"

	"github.com/pkg/errors"
)

// Config parametrizes the Blob Detector.
type Config struct {
	// ActivationThreshold is the heatmap value a cell must exceed to be
	// eligible as a local maximum.
	ActivationThreshold float64
	// ClusterThreshold is the (lower) value a cell must exceed to join a
	// flood fill. Must be < ActivationThreshold.
	ClusterThreshold float64
	// MinClusterSize is the minimum number of cells for a cluster to be
	// reported. Defaults to 3 when zero.
	MinClusterSize int
	// NormalizeOrientation maps Blob.Orientation from [0, pi) to [0, 1).
	NormalizeOrientation bool
}

// DefaultConfig returns the detector's built-in defaults: a minimum cluster
// size of 3 cells.
func DefaultConfig() Config {
	return Config{
		ActivationThreshold: 0.1,
		ClusterThreshold:    0.05,
		MinClusterSize:      3,
	}
}

// Validate rejects configuration combinations that are fatal at
// construction time.
func (c Config) Validate() error {
	if c.ClusterThreshold >= c.ActivationThreshold {
		return errors.Errorf("heatmap: cluster threshold %.4f must be below activation threshold %.4f", c.ClusterThreshold, c.ActivationThreshold)
	}
	if c.MinClusterSize < 1 {
		return errors.New("heatmap: min cluster size must be at least 1")
	}
	return nil
}

// Detector finds Blobs in a Heatmap.
type Detector struct {
	cfg Config
}

// NewDetector constructs a Detector, rejecting an invalid Config.
func NewDetector(cfg Config) (*Detector, error) {
	if cfg.MinClusterSize == 0 {
		cfg.MinClusterSize = DefaultConfig().MinClusterSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Detect returns the Blobs found in h, in arbitrary order, with Mean
// normalized to [0,1] by the heatmap's width and height, both Size axes
// divided by the heatmap's diagonal (so major >= minor still holds), and
// Orientation optionally normalized to [0,1) per cfg.NormalizeOrientation.
func (d *Detector) Detect(h *Heatmap) []Blob {
	maxima := findLocalMaxima(h, d.cfg.ActivationThreshold)
	clusters := findClusters(h, maxima, d.cfg.ClusterThreshold, d.cfg.MinClusterSize)

	blobs := make([]Blob, 0, len(clusters))
	width, height := float64(h.Width()), float64(h.Height())
	diagonal := math.Hypot(width, height)

	for _, cells := range clusters {
		b := fitGaussian(h, cells)
		if !b.Valid {
			continue
		}

		b.Mean.X /= width
		b.Mean.Y /= height
		b.Size.X /= diagonal
		b.Size.Y /= diagonal

		if d.cfg.NormalizeOrientation {
			b.Orientation /= math.Pi
		}

		blobs = append(blobs, b)
	}
	return blobs
}
