package ops

import "github.com/born-ml/autograd/internal/autodiff"

// MeanAxes averages x over axes. An axis listed more than once, directly or
// through its negative alias, is reduced once.
func MeanAxes(x autodiff.Computed, axes []int, keepDims bool) autodiff.Computed {
	shape := x.Shape()
	seen := make(map[int]bool, len(axes))
	count := 1
	for _, a := range axes {
		axis := normalizeAxis(a, len(shape))
		if seen[axis] {
			continue
		}
		seen[axis] = true
		count *= shape[axis]
	}
	s := SumAxes(x, axes, keepDims)
	if count == 0 {
		return s
	}
	return s.Scale(1 / float32(count))
}
