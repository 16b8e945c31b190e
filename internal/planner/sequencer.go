package planner

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/banshee-data/stopcontrol.planner/internal/maneuver"
	"github.com/banshee-data/stopcontrol.planner/internal/monitoring"
)

// maneuversToPoints samples the route for each maneuver and attaches target
// speeds. The first pair is always the vehicle position and speed.
//
// The first maneuver starts no later than the vehicle's downtrack. Later
// maneuvers start at their own start_dist and continue from the last pair
// already produced.
func (p *Planner) maneuversToPoints(maneuvers []maneuver.Maneuver, state VehicleState) ([]PointSpeedPair, error) {
	vehPos := state.Position()
	maxStartingDowntrack := p.wm.RouteArcLength(vehPos)
	spacing := p.cfg.CenterlineSamplingSpacing

	var out []PointSpeedPair
	for i, m := range maneuvers {
		if !m.Type.IsSupported() {
			return nil, fmt.Errorf("%w: %q at index %d", ErrUnsupportedManeuverType, m.Type, i)
		}

		start := m.StartDist
		anchor := PointSpeedPair{Point: vehPos, Speed: state.LongitudinalVel}
		if i == 0 {
			start = math.Min(start, maxStartingDowntrack)
		}
		if len(out) > 0 {
			anchor = out[len(out)-1]
		}

		// Within one spacing of end_dist the route returns a single point.
		sampled := p.wm.SampleRoute(math.Min(start+spacing, m.EndDist), m.EndDist, spacing)
		routePoints := make([]orb.Point, 0, len(sampled)+1)
		routePoints = append(routePoints, anchor.Point)
		routePoints = append(routePoints, sampled...)

		c, err := m.Parameters.Case()
		if err != nil {
			return nil, fmt.Errorf("maneuver %d: %w", i, err)
		}
		switch {
		case c == maneuver.CaseOne:
			pairs, err := p.caseOneSpeedProfile(m, routePoints, anchor.Speed)
			if err != nil {
				return nil, fmt.Errorf("maneuver %d: %w", i, err)
			}
			if len(out) > 0 {
				pairs = pairs[1:]
			}
			out = append(out, pairs...)
		case c.IsReserved():
			if !p.cfg.ReservedCasesNoop {
				return nil, fmt.Errorf("%w: %s at index %d", ErrCaseNotImplemented, c, i)
			}
			monitoring.Logf("planner: %s for maneuver %d has no profile, skipping", c, i)
		default:
			return nil, fmt.Errorf("%w: %d at index %d", ErrUnsupportedCase, int(c), i)
		}
	}
	monitoring.Debugf("maneuvers produced %d point speed pairs", len(out))
	return out, nil
}
