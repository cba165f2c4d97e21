package heatmap

// Blob is the result of fitting a Cluster with a 2-D Gaussian.
// Mean is normalized to [0,1] by dividing by the heatmap's width and height;
// Size is divided by the heatmap's diagonal; Orientation is in [0, pi)
// radians, or normalized to [0, 1) when the detector is configured to do so.
type Blob struct {
	Mean        Vec2
	Size        Vec2 // major, minor axis lengths
	Orientation float64
	Value       float64 // peak intensity
	Valid       bool
}
