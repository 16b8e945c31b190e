package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// MinSegmentTime is the time assigned to a path segment of zero length so
// arrival times stay strictly increasing.
const MinSegmentTime = 1e-3

// ErrLengthMismatch is returned when paired series differ in length.
var ErrLengthMismatch = errors.New("series length mismatch")

// ConstrainedSpeedsForCurvature returns sqrt(lateralAccelLimit / |κ|) for
// each curvature. Zero curvature has no bound and yields +Inf.
func ConstrainedSpeedsForCurvature(curvatures []float64, lateralAccelLimit float64) []float64 {
	out := make([]float64, len(curvatures))
	for i, k := range curvatures {
		k = math.Abs(k)
		if k < 1e-9 {
			out[i] = math.Inf(1)
			continue
		}
		out[i] = math.Sqrt(lateralAccelLimit / k)
	}
	return out
}

// ApplySpeedLimits returns the pointwise minimum of speeds and limits.
func ApplySpeedLimits(speeds, limits []float64) ([]float64, error) {
	if len(speeds) != len(limits) {
		return nil, fmt.Errorf("%w: %d speeds, %d limits", ErrLengthMismatch, len(speeds), len(limits))
	}
	out := make([]float64, len(speeds))
	for i := range speeds {
		out[i] = math.Min(speeds[i], limits[i])
	}
	return out, nil
}

// segmentTime is the time to cover dx going from v1 to v2 at constant
// acceleration. The mean speed is floored at epsilon.
func segmentTime(dx, v1, v2, epsilon float64) float64 {
	if dx <= 0 {
		return 0
	}
	mean := math.Max((v1+v2)/2, epsilon)
	return dx / mean
}

// TimeBoundaryIndex returns how many leading points of the profile are
// reached within horizon seconds of the first point. The first point is
// always reached, so the result is at least 1 for a non-empty profile.
func TimeBoundaryIndex(downtracks, speeds []float64, horizon, epsilon float64) (int, error) {
	if len(downtracks) != len(speeds) {
		return 0, fmt.Errorf("%w: %d downtracks, %d speeds", ErrLengthMismatch, len(downtracks), len(speeds))
	}
	if len(downtracks) == 0 {
		return 0, nil
	}
	var total float64
	for i := 0; i < len(downtracks)-1; i++ {
		total += segmentTime(downtracks[i+1]-downtracks[i], speeds[i], speeds[i+1], epsilon)
		if total > horizon {
			return i + 1, nil
		}
	}
	return len(downtracks), nil
}

// SpeedToTime integrates a speed profile over arc length into times
// relative to the first point, assuming constant acceleration on each
// segment. The result is strictly increasing.
func SpeedToTime(downtracks, speeds []float64, epsilon float64) ([]float64, error) {
	if len(downtracks) != len(speeds) {
		return nil, fmt.Errorf("%w: %d downtracks, %d speeds", ErrLengthMismatch, len(downtracks), len(speeds))
	}
	times := make([]float64, len(downtracks))
	for i := 1; i < len(downtracks); i++ {
		dt := segmentTime(downtracks[i]-downtracks[i-1], speeds[i-1], speeds[i], epsilon)
		if dt <= 0 {
			dt = MinSegmentTime
		}
		times[i] = times[i-1] + dt
	}
	return times, nil
}
