package planner

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/banshee-data/stopcontrol.planner/internal/kinematics"
	"github.com/banshee-data/stopcontrol.planner/internal/maneuver"
)

// caseOneSpeedProfile assigns each route point a speed from an
// accelerate-to-v_mid then brake-to-stop profile. routePoints[0] carries v0.
//
// When the route starts behind the maneuver's start_dist the braking phase
// stays fixed at end_dist and the acceleration is recomputed to fit the
// longer approach.
func (p *Planner) caseOneSpeedProfile(m maneuver.Maneuver, routePoints []orb.Point, v0 float64) ([]PointSpeedPair, error) {
	if len(routePoints) == 0 {
		return nil, nil
	}
	k, err := m.Parameters.Kinematics()
	if err != nil {
		return nil, err
	}
	if k.Decel <= 0 {
		return nil, fmt.Errorf("%w: deceleration %.3f must be positive", ErrInvalidProfile, k.Decel)
	}
	if k.SpeedBeforeDecel < 0 {
		return nil, fmt.Errorf("%w: speed before deceleration %.3f is negative", ErrInvalidProfile, k.SpeedBeforeDecel)
	}

	vMid := k.SpeedBeforeDecel
	accel := k.Accel
	var accelDist float64

	routeStart := p.wm.RouteArcLength(routePoints[0])
	if routeStart < m.StartDist {
		decelDist := kinematics.BrakingDistance(vMid, k.Decel)
		accelDist = (m.EndDist - routeStart) - decelDist
		accel = kinematics.AccelerationOver(v0, vMid, accelDist)
	} else {
		if accel <= 0 && v0 < vMid {
			return nil, fmt.Errorf("%w: acceleration %.3f cannot reach %.3f m/s from %.3f m/s",
				ErrInvalidProfile, accel, vMid, v0)
		}
		accelDist = kinematics.AccelerationDistance(v0, vMid, accel)
	}

	profile := kinematics.Trapezoid{
		InitialSpeed: v0,
		Accel:        accel,
		Decel:        k.Decel,
		CruiseSpeed:  vMid,
		AccelDist:    accelDist,
		Epsilon:      p.cfg.Epsilon,
	}

	out := make([]PointSpeedPair, len(routePoints))
	out[0] = PointSpeedPair{Point: routePoints[0], Speed: v0}
	var covered float64
	for i := 1; i < len(routePoints); i++ {
		covered += planar.Distance(routePoints[i-1], routePoints[i])
		out[i] = PointSpeedPair{Point: routePoints[i], Speed: profile.SpeedAt(covered)}
	}
	return out, nil
}
