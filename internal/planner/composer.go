package planner

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/banshee-data/stopcontrol.planner/internal/geometry"
	"github.com/banshee-data/stopcontrol.planner/internal/kinematics"
	"github.com/banshee-data/stopcontrol.planner/internal/monitoring"
	"github.com/banshee-data/stopcontrol.planner/internal/smoothing"
)

// composeTrajectory turns the speed-annotated path into timed trajectory
// points. The first point is the vehicle, the last has speed 0 and times
// are strictly increasing from stamp.
func (p *Planner) composeTrajectory(points []PointSpeedPair, state VehicleState, stamp time.Time) ([]TrajectoryPoint, error) {
	vehPos := state.Position()

	// Only points strictly ahead of the one nearest the vehicle remain.
	positions, _ := splitPointSpeedPairs(points)
	future := points[geometry.NearestIndex(positions, vehPos)+1:]

	future, err := p.constrainToTimeBoundary(future, state)
	if err != nil {
		return nil, err
	}
	if len(future) == 0 {
		monitoring.Logf("planner: no points reachable within %.2fs horizon", p.cfg.TrajectoryTimeLength)
		return nil, nil
	}

	curvePoints, speedLimits := splitPointSpeedPairs(future)
	curve, err := p.fitCurve(curvePoints)
	if err != nil {
		return nil, fmt.Errorf("%w from %d points: %w", ErrCurveFit, len(curvePoints), err)
	}

	downtracksRaw := geometry.ArcLengths(curvePoints)
	totalSteps := int(downtracksRaw[len(downtracksRaw)-1] / p.cfg.CurveResampleStepSize)
	if totalSteps <= 0 {
		monitoring.Logf("planner: no trajectory points could be generated")
		return nil, nil
	}

	samples, curvatures, limits := resample(curve, totalSteps, speedLimits)
	yaws := geometry.TangentOrientations(samples)

	curvatures, err = smoothing.MovingAverage(curvatures, p.cfg.CurvatureMovingAverageWindowSize, false)
	if err != nil {
		return nil, fmt.Errorf("smoothing curvature: %w", err)
	}
	ideal := kinematics.ConstrainedSpeedsForCurvature(curvatures, p.cfg.LateralAccelLimit)
	speeds, err := kinematics.ApplySpeedLimits(ideal, limits)
	if err != nil {
		return nil, err
	}

	samples = append([]orb.Point{vehPos}, samples...)
	speeds = append([]float64{state.LongitudinalVel}, speeds...)
	yaws = append([]float64{state.Orientation}, yaws...)

	downtracks := geometry.ArcLengths(samples)
	speeds, err = smoothing.MovingAverage(speeds, p.cfg.SpeedMovingAverageWindowSize, p.cfg.SpeedMovingAverageTrailing)
	if err != nil {
		return nil, fmt.Errorf("smoothing speeds: %w", err)
	}
	// The measured vehicle speed anchors the time integration.
	speeds[0] = state.LongitudinalVel
	speeds[len(speeds)-1] = 0

	times, err := kinematics.SpeedToTime(downtracks, speeds, p.cfg.Epsilon)
	if err != nil {
		return nil, err
	}

	out := make([]TrajectoryPoint, len(samples))
	var prev time.Duration
	for i, pt := range samples {
		offset := time.Duration(times[i] * float64(time.Second))
		if i > 0 && offset <= prev {
			offset = prev + time.Nanosecond
		}
		prev = offset
		out[i] = TrajectoryPoint{
			X:                 pt.X(),
			Y:                 pt.Y(),
			Yaw:               yaws[i],
			Speed:             speeds[i],
			Time:              stamp.Add(offset),
			PlannerPluginName: p.cfg.PluginName,
		}
	}
	monitoring.Debugf("composed %d trajectory points over %.2fm", len(out), downtracks[len(downtracks)-1])
	return out, nil
}

// constrainToTimeBoundary keeps the leading points reachable from the
// vehicle within the configured horizon.
func (p *Planner) constrainToTimeBoundary(future []PointSpeedPair, state VehicleState) ([]PointSpeedPair, error) {
	if len(future) == 0 {
		return future, nil
	}
	positions := make([]orb.Point, 0, len(future)+1)
	speeds := make([]float64, 0, len(future)+1)
	positions = append(positions, state.Position())
	speeds = append(speeds, state.LongitudinalVel)
	for _, pair := range future {
		positions = append(positions, pair.Point)
		speeds = append(speeds, pair.Speed)
	}
	reached, err := kinematics.TimeBoundaryIndex(geometry.ArcLengths(positions), speeds, p.cfg.TrajectoryTimeLength, p.cfg.Epsilon)
	if err != nil {
		return nil, err
	}
	// reached counts the vehicle point.
	return future[:max(reached-1, 0)], nil
}

// resample evaluates curve at steps uniform parameter values in [0, 1).
// Each sample inherits the speed limit of the source point whose share of
// the steps it falls in.
func resample(curve smoothing.Curve, steps int, speedLimits []float64) (points []orb.Point, curvatures, limits []float64) {
	points = make([]orb.Point, steps)
	curvatures = make([]float64, steps)
	limits = make([]float64, steps)

	stepsPerPoint := float64(steps) / float64(len(speedLimits))
	threshold := stepsPerPoint
	speedIndex := 0
	for k := 0; k < steps; k++ {
		t := float64(k) / float64(steps)
		points[k] = curve.Point(t)
		curvatures[k] = curve.Curvature(t)
		if float64(k) > threshold {
			threshold += stepsPerPoint
			speedIndex = min(speedIndex+1, len(speedLimits)-1)
		}
		limits[k] = speedLimits[speedIndex]
	}
	return points, curvatures, limits
}

func splitPointSpeedPairs(pairs []PointSpeedPair) ([]orb.Point, []float64) {
	points := make([]orb.Point, len(pairs))
	speeds := make([]float64, len(pairs))
	for i, pair := range pairs {
		points[i] = pair.Point
		speeds[i] = pair.Speed
	}
	return points, speeds
}
