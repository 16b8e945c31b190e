package kinematics

import "math"

// BrakingDistance returns the distance needed to stop from v at decel.
// It returns +Inf when decel is not positive.
func BrakingDistance(v, decel float64) float64 {
	if decel <= 0 {
		return math.Inf(1)
	}
	return (v * v) / (2 * decel)
}

// AccelerationDistance returns the distance needed to go from v0 to v1 at a
// constant accel. The result is negative when v1 < v0 with a positive accel.
// It returns 0 when accel is not positive.
func AccelerationDistance(v0, v1, accel float64) float64 {
	if accel <= 0 {
		return 0
	}
	return (v1*v1 - v0*v0) / (2 * accel)
}

// AccelerationOver returns the constant acceleration that takes v0 to v1
// over dist. It returns 0 when dist is not positive.
func AccelerationOver(v0, v1, dist float64) float64 {
	if dist <= 0 {
		return 0
	}
	return (v1*v1 - v0*v0) / (2 * dist)
}

// Trapezoid is an accelerate-to-cruise then decelerate-to-stop speed law
// over travelled distance s, measured from the point where the speed is
// InitialSpeed.
type Trapezoid struct {
	InitialSpeed float64 // v0
	Accel        float64 // acceleration used while s < AccelDistance
	Decel        float64 // deceleration magnitude after AccelDistance
	CruiseSpeed  float64 // speed at AccelDistance
	AccelDist    float64 // distance at which braking begins
	Epsilon      float64 // speeds below this are reported as 0
}

// SpeedAt returns the profile speed after travelling s. It never returns a
// negative value or NaN.
func (p Trapezoid) SpeedAt(s float64) float64 {
	var v2 float64
	if s < p.AccelDist {
		v2 = p.InitialSpeed*p.InitialSpeed + 2*p.Accel*s
	} else {
		v2 = p.CruiseSpeed*p.CruiseSpeed - 2*p.Decel*(s-p.AccelDist)
	}
	if v2 <= 0 {
		return 0
	}
	v := math.Sqrt(v2)
	if v < p.Epsilon {
		return 0
	}
	return v
}

// StopDistance returns the travelled distance at which the profile reaches
// zero speed.
func (p Trapezoid) StopDistance() float64 {
	return p.AccelDist + BrakingDistance(p.CruiseSpeed, p.Decel)
}
