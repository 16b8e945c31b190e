package planner

import (
	"errors"

	"github.com/banshee-data/stopcontrol.planner/internal/maneuver"
)

var (
	// ErrInvalidManeuverIndex is returned when the index to plan is outside the plan.
	ErrInvalidManeuverIndex = errors.New("invalid maneuver index")
	// ErrUnsupportedManeuverType is returned for maneuver types other than
	// lane following and the three intersection transits.
	ErrUnsupportedManeuverType = errors.New("unsupported maneuver type")
	// ErrUnsupportedCase is returned for case numbers outside 1..3.
	ErrUnsupportedCase = errors.New("unsupported case number")
	// ErrCaseNotImplemented is returned for the reserved case numbers 2 and 3.
	ErrCaseNotImplemented = errors.New("case number not implemented")
	// ErrInvalidProfile is returned when maneuver kinematics cannot define a profile.
	ErrInvalidProfile = errors.New("invalid kinematic profile")
	// ErrCurveFit is returned when no spline can be fit along the trajectory.
	ErrCurveFit = errors.New("could not fit a spline curve along the trajectory")
)

// IsInputError reports whether err was caused by the request itself rather
// than by the route geometry or an internal failure.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidManeuverIndex,
		ErrUnsupportedManeuverType,
		ErrUnsupportedCase,
		ErrCaseNotImplemented,
		ErrInvalidProfile,
		maneuver.ErrMissingMetaData,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
