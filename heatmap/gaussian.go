package heatmap

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fitGaussian fits a 2-D Gaussian over a
// cluster's cells, decomposed into a mean, covariance-derived axis lengths,
// and orientation. peak is the highest raw heatmap value among the
// cluster's cells, the same way the original picks the local maximum's
// value as the blob's intensity.
func fitGaussian(h *Heatmap, cells []Point) Blob {
	var sumW, sumWX, sumWY, peak float64

	for _, p := range cells {
		w := h.Get(p.X, p.Y)
		sumW += w
		sumWX += w * float64(p.X)
		sumWY += w * float64(p.Y)
		if w > peak {
			peak = w
		}
	}

	if sumW <= 0 {
		return Blob{Valid: false}
	}

	meanX := sumWX / sumW
	meanY := sumWY / sumW

	var mu20, mu02, mu11 float64
	for _, p := range cells {
		w := h.Get(p.X, p.Y)
		dx := float64(p.X) - meanX
		dy := float64(p.Y) - meanY
		mu20 += w * dx * dx
		mu02 += w * dy * dy
		mu11 += w * dx * dy
	}
	mu20 /= sumW
	mu02 /= sumW
	mu11 /= sumW

	major, minor, orientation, ok := eigenEllipse(mu20, mu11, mu02)
	if !ok {
		return Blob{Valid: false}
	}

	return Blob{
		Mean:        Vec2{X: meanX, Y: meanY},
		Size:        Vec2{X: major, Y: minor},
		Orientation: orientation,
		Value:       peak,
		Valid:       true,
	}
}

// eigenEllipse decomposes the symmetric covariance [[mu20, mu11], [mu11,
// mu02]] into major/minor axis lengths (sqrt of the eigenvalues) and the
// orientation of the eigenvector belonging to the larger eigenvalue,
// normalized into [0, pi). A singular (zero-variance) covariance is
// reported as a degenerate fit.
func eigenEllipse(mu20, mu11, mu02 float64) (major, minor, orientation float64, ok bool) {
	cov := mat.NewSymDense(2, []float64{mu20, mu11, mu11, mu02})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return 0, 0, 0, false
	}

	values := eig.Values(nil)
	// values is ascending; a smallest eigenvalue that is non-positive or
	// vanishing next to the larger one means a singular covariance.
	if values[1] <= 0 || values[0] <= 1e-9*values[1] {
		return 0, 0, 0, false
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// gonum returns eigenvalues in ascending order; index 1 is the larger.
	lambdaMinor, lambdaMajor := values[0], values[1]
	majorVec := [2]float64{vectors.At(0, 1), vectors.At(1, 1)}

	major = math.Sqrt(lambdaMajor)
	minor = math.Sqrt(lambdaMinor)

	angle := math.Atan2(majorVec[1], majorVec[0])
	if angle < 0 {
		angle += math.Pi
	}
	if angle >= math.Pi {
		angle -= math.Pi
	}

	return major, minor, angle, true
}
