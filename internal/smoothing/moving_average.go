package smoothing

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrWindowSize is returned for even or non-positive window sizes.
var ErrWindowSize = errors.New("moving average window size must be a positive odd number")

// MovingAverage smooths values with a window of windowSize samples. The
// centred form averages windowSize/2 samples either side of each point; the
// trailing form averages the point and the windowSize-1 samples before it.
// Windows are truncated at the ends of the series.
func MovingAverage(values []float64, windowSize int, trailing bool) ([]float64, error) {
	if windowSize < 1 || windowSize%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrWindowSize, windowSize)
	}
	out := make([]float64, len(values))
	half := windowSize / 2
	for i := range values {
		lo, hi := i-half, i+half
		if trailing {
			lo, hi = i-windowSize+1, i
		}
		lo = max(lo, 0)
		hi = min(hi, len(values)-1)
		window := values[lo : hi+1]
		out[i] = floats.Sum(window) / float64(len(window))
	}
	return out, nil
}
