// Package heatmap implements the Blob Detector: local-maxima
// search, 8-connected clustering, and Gaussian ellipse fitting over a 2-D
// capacitance heatmap.
package heatmap

// Heatmap is a width x height grid of scalar contact-probability values,
// stored flat in row-major order so the buffer can be reused across frames
// without per-frame allocation.
type Heatmap struct {
	data   []float64
	width  int
	height int
}

// New allocates a zeroed Heatmap of the given dimensions.
func New(width, height int) *Heatmap {
	return &Heatmap{
		data:   make([]float64, width*height),
		width:  width,
		height: height,
	}
}

// Width returns the number of columns.
func (h *Heatmap) Width() int { return h.width }

// Height returns the number of rows.
func (h *Heatmap) Height() int { return h.height }

// Get returns the value at (x, y).
func (h *Heatmap) Get(x, y int) float64 {
	return h.data[y*h.width+x]
}

// Set stores the value at (x, y).
func (h *Heatmap) Set(x, y int, v float64) {
	h.data[y*h.width+x] = v
}

// Resize reuses the backing array when the new dimensions fit inside the
// existing capacity, growing it only when necessary. This lets a Heatmap be
// pre-allocated once at its maximum expected size and reused even
// when the device reports a smaller active sub-window on a given frame.
func (h *Heatmap) Resize(width, height int) {
	needed := width * height
	if cap(h.data) < needed {
		h.data = make([]float64, needed)
	} else {
		h.data = h.data[:needed]
		for i := range h.data {
			h.data[i] = 0
		}
	}
	h.width = width
	h.height = height
}

// index converts a cell coordinate into a flat index into data.
func (h *Heatmap) index(x, y int) int {
	return y*h.width + x
}

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Vec2 is a pair of floating-point values: either a subpixel coordinate, a
// width/height pair, or a normalized [0,1] equivalent of either.
type Vec2 struct {
	X, Y float64
}
