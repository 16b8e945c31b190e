package smoothing

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arcPoints(radius float64, n int) []orb.Point {
	pts := make([]orb.Point, n)
	for i := range pts {
		theta := (math.Pi / 2) * float64(i) / float64(n-1)
		pts[i] = orb.Point{radius * math.Cos(theta), radius * math.Sin(theta)}
	}
	return pts
}

func TestFitCurveRejectsShortInput(t *testing.T) {
	t.Parallel()

	_, err := FitCurve(nil)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// Duplicates do not count towards the minimum.
	_, err = FitCurve([]orb.Point{{0, 0}, {0, 0}, {1, 0}, {1, 0}})
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestFitCurveInterpolatesEndpoints(t *testing.T) {
	t.Parallel()

	pts := []orb.Point{{0, 0}, {5, 1}, {10, 0}, {15, -2}}
	c, err := FitCurve(pts)
	require.NoError(t, err)

	start, end := c.Point(0), c.Point(1)
	assert.InDelta(t, 0, start.X(), 1e-9)
	assert.InDelta(t, 0, start.Y(), 1e-9)
	assert.InDelta(t, 15, end.X(), 1e-9)
	assert.InDelta(t, -2, end.Y(), 1e-9)
}

func TestSplineCurvatureStraightLine(t *testing.T) {
	t.Parallel()

	c, err := FitCurve([]orb.Point{{0, 0}, {10, 10}, {20, 20}, {30, 30}})
	require.NoError(t, err)
	for _, tt := range []float64{0, 0.25, 0.5, 0.99} {
		assert.InDelta(t, 0, c.Curvature(tt), 1e-4, "t=%v", tt)
	}
}

func TestSplineCurvatureArc(t *testing.T) {
	t.Parallel()

	const radius = 20.0
	c, err := FitCurve(arcPoints(radius, 16))
	require.NoError(t, err)

	mid := c.Curvature(0.5)
	assert.InEpsilon(t, 1/radius, mid, 0.05)
	p := c.Point(0.5)
	assert.InDelta(t, radius, math.Hypot(p.X(), p.Y()), 0.05)
}

func TestMovingAverage(t *testing.T) {
	t.Parallel()

	values := []float64{0, 3, 6, 9, 12}

	t.Run("centred", func(t *testing.T) {
		got, err := MovingAverage(values, 3, false)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1.5, 3, 6, 9, 10.5}, got, 1e-9)
	})

	t.Run("trailing", func(t *testing.T) {
		got, err := MovingAverage(values, 3, true)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 1.5, 3, 6, 9}, got, 1e-9)
	})

	t.Run("window of one is identity", func(t *testing.T) {
		got, err := MovingAverage(values, 1, false)
		require.NoError(t, err)
		assert.Equal(t, values, got)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := MovingAverage(nil, 5, false)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects even window", func(t *testing.T) {
		_, err := MovingAverage(values, 4, false)
		assert.ErrorIs(t, err, ErrWindowSize)
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := []float64{1, 5, 1}
		_, err := MovingAverage(in, 3, false)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 5, 1}, in)
	})
}
