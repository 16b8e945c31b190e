package planner

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/banshee-data/stopcontrol.planner/internal/maneuver"
	"github.com/banshee-data/stopcontrol.planner/internal/monitoring"
	"github.com/banshee-data/stopcontrol.planner/internal/smoothing"
)

// WorldModel is the read-only route geometry the planner queries.
type WorldModel interface {
	// RouteArcLength returns the downtrack distance of p along the route.
	RouteArcLength(p orb.Point) float64
	// SampleRoute returns route points every spacing metres between two
	// downtracks. It returns at least one point.
	SampleRoute(from, to, spacing float64) []orb.Point
}

// CurveFitter fits a smooth curve through path points.
type CurveFitter func(points []orb.Point) (smoothing.Curve, error)

// Option configures a Planner.
type Option func(*Planner)

// WithIDGenerator replaces the random trajectory id source.
func WithIDGenerator(gen func() string) Option {
	return func(p *Planner) {
		if gen != nil {
			p.newID = gen
		}
	}
}

// WithCurveFitter replaces the spline fit used by the composer.
func WithCurveFitter(fit CurveFitter) Option {
	return func(p *Planner) {
		if fit != nil {
			p.fitCurve = fit
		}
	}
}

// Planner plans stop-controlled intersection trajectories.
type Planner struct {
	wm       WorldModel
	cfg      Config
	newID    func() string
	fitCurve CurveFitter
}

// New creates a Planner over wm with cfg.
func New(wm WorldModel, cfg Config, opts ...Option) *Planner {
	p := &Planner{
		wm:       wm,
		cfg:      cfg,
		newID:    uuid.NewString,
		fitCurve: fitSpline,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func fitSpline(points []orb.Point) (smoothing.Curve, error) {
	s, err := smoothing.FitCurve(points)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the planner's configuration.
func (p *Planner) Config() Config {
	return p.cfg
}

// PlanTrajectory plans the maneuver group starting at
// req.ManeuverIndexToPlan. An empty trajectory with no error means no point
// was reachable within the time horizon.
func (p *Planner) PlanTrajectory(req PlanRequest) (PlanResponse, error) {
	monitoring.Debugf("planning stop controlled intersection trajectory")

	n := len(req.Plan.Maneuvers)
	if req.ManeuverIndexToPlan < 0 || req.ManeuverIndexToPlan >= n {
		return PlanResponse{}, fmt.Errorf("%w: %d for plan of size %d",
			ErrInvalidManeuverIndex, req.ManeuverIndexToPlan, n)
	}

	group := req.Plan.StrategyGroup(req.ManeuverIndexToPlan, p.cfg.StrategyName)
	related := make([]maneuver.Type, 0, len(group))
	for _, m := range group {
		related = append(related, m.Type)
	}

	state := req.VehicleState
	monitoring.Debugf("planning state x: %.3f y: %.3f yaw: %.3f speed: %.3f",
		state.X, state.Y, state.Orientation, state.LongitudinalVel)
	monitoring.Debugf("current downtrack %.3f", p.wm.RouteArcLength(state.Position()))

	pairs, err := p.maneuversToPoints(group, state)
	if err != nil {
		return PlanResponse{}, err
	}
	points, err := p.composeTrajectory(pairs, state, req.Stamp)
	if err != nil {
		return PlanResponse{}, err
	}

	return PlanResponse{
		Trajectory: Trajectory{
			ID:                          p.newID(),
			FrameID:                     FrameID,
			Stamp:                       req.Stamp,
			Points:                      points,
			InitialLongitudinalVelocity: state.LongitudinalVel,
		},
		RelatedManeuvers: related,
		ManeuverStatus:   []Status{ManeuverInProgress},
	}, nil
}
