// Package smoothing fits parametric curves through path points and smooths
// sampled series.
package smoothing

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/stopcontrol.planner/internal/geometry"
)

// MinCurvePoints is the fewest distinct points FitCurve accepts.
const MinCurvePoints = 3

// derivativeStep is the parameter step for the finite-difference second
// derivative.
const derivativeStep = 1e-5

// ErrInsufficientPoints is returned when too few distinct points are given
// to fit a curve.
var ErrInsufficientPoints = errors.New("insufficient distinct points for curve fit")

// Curve is a smooth planar curve evaluable at t in [0, 1].
type Curve interface {
	// Point returns the position at t.
	Point(t float64) orb.Point
	// Curvature returns the unsigned curvature (1/m) at t.
	Curvature(t float64) float64
}

// Spline is a pair of natural cubic splines x(t), y(t) over the normalised
// chord length of the fitted points.
type Spline struct {
	x, y interp.NaturalCubic
}

// FitCurve fits a Spline through points. Consecutive duplicates are dropped
// before fitting.
func FitCurve(points []orb.Point) (*Spline, error) {
	distinct := make([]orb.Point, 0, len(points))
	for _, p := range points {
		if len(distinct) > 0 && distinct[len(distinct)-1].Equal(p) {
			continue
		}
		distinct = append(distinct, p)
	}
	if len(distinct) < MinCurvePoints {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, len(distinct), MinCurvePoints)
	}

	ts := geometry.ArcLengths(distinct)
	total := ts[len(ts)-1]
	xs := make([]float64, len(distinct))
	ys := make([]float64, len(distinct))
	for i, p := range distinct {
		ts[i] /= total
		xs[i], ys[i] = p.X(), p.Y()
	}
	// Guard the last knot against rounding so the parameter spans [0, 1] exactly.
	ts[len(ts)-1] = 1

	s := &Spline{}
	if err := s.x.Fit(ts, xs); err != nil {
		return nil, fmt.Errorf("fitting x(t): %w", err)
	}
	if err := s.y.Fit(ts, ys); err != nil {
		return nil, fmt.Errorf("fitting y(t): %w", err)
	}
	return s, nil
}

// Point implements Curve.
func (s *Spline) Point(t float64) orb.Point {
	return orb.Point{s.x.Predict(t), s.y.Predict(t)}
}

// Curvature implements Curve using |x'y'' - y'x''| / (x'^2 + y'^2)^(3/2).
func (s *Spline) Curvature(t float64) float64 {
	dx := s.x.PredictDerivative(t)
	dy := s.y.PredictDerivative(t)

	settings := &fd.Settings{Formula: fd.Central, Step: derivativeStep}
	switch {
	case t-derivativeStep < 0:
		settings.Formula = fd.Forward
	case t+derivativeStep > 1:
		settings.Formula = fd.Backward
	}
	ddx := fd.Derivative(s.x.PredictDerivative, t, settings)
	ddy := fd.Derivative(s.y.PredictDerivative, t, settings)

	denom := math.Pow(dx*dx+dy*dy, 1.5)
	if denom < 1e-12 {
		return 0
	}
	return math.Abs(dx*ddy-dy*ddx) / denom
}
