package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ArcLengths returns the cumulative distance along points at each point,
// starting from 0.
func ArcLengths(points []orb.Point) []float64 {
	out := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		out[i] = out[i-1] + planar.Distance(points[i-1], points[i])
	}
	return out
}

// TangentOrientations returns the heading (radians, atan2 of the tangent) at
// each point. Interior points use the central difference of their
// neighbours; the ends use one-sided differences. A single point has
// heading 0.
func TangentOrientations(points []orb.Point) []float64 {
	n := len(points)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	for i := range points {
		prev, next := i-1, i+1
		if prev < 0 {
			prev = 0
		}
		if next > n-1 {
			next = n - 1
		}
		dx := points[next].X() - points[prev].X()
		dy := points[next].Y() - points[prev].Y()
		out[i] = math.Atan2(dy, dx)
	}
	return out
}

// NearestIndex returns the index of the point closest to p, or -1 when
// points is empty. Ties resolve to the earliest index.
func NearestIndex(points []orb.Point, p orb.Point) int {
	best := -1
	bestDist := math.Inf(1)
	for i, q := range points {
		if d := planar.DistanceSquared(p, q); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
