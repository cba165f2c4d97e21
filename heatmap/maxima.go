package heatmap

// findLocalMaxima scans for local maxima. A cell is a local maximum
// when it exceeds the activation threshold and is strictly greater than its
// upper-left/upper/upper-right/left neighbors, and greater-than-or-equal to
// its right/lower-left/lower/lower-right neighbors. This asymmetric "< on
// one side, <= on the other" kernel ensures a plateau of equal values yields
// exactly one maximum: the one where the kernel's "<=" half doesn't trigger
// a second, duplicate detection. Boundary cells simply skip neighbors that
// don't exist.
func findLocalMaxima(h *Heatmap, activation float64) []Point {
	var maxima []Point

	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			v := h.Get(x, y)
			if v <= activation {
				continue
			}
			if isLocalMaximum(h, x, y, v) {
				maxima = append(maxima, Point{X: x, Y: y})
			}
		}
	}
	return maxima
}

func isLocalMaximum(h *Heatmap, x, y int, v float64) bool {
	canLeft := x > 0
	canRight := x < h.width-1
	canUp := y > 0
	canDown := y < h.height-1

	if canLeft && !(h.Get(x-1, y) < v) {
		return false
	}
	if canRight && !(h.Get(x+1, y) <= v) {
		return false
	}

	if canUp {
		if !(h.Get(x, y-1) < v) {
			return false
		}
		if canLeft && !(h.Get(x-1, y-1) < v) {
			return false
		}
		if canRight && !(h.Get(x+1, y-1) < v) {
			return false
		}
	}

	if canDown {
		if !(h.Get(x, y+1) <= v) {
			return false
		}
		if canLeft && !(h.Get(x-1, y+1) <= v) {
			return false
		}
		if canRight && !(h.Get(x+1, y+1) <= v) {
			return false
		}
	}

	return true
}
