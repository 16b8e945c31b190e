package planner

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/banshee-data/stopcontrol.planner/internal/maneuver"
)

// FrameID is the coordinate frame of every planned trajectory.
const FrameID = "map"

// PointSpeedPair is a route point with the target speed (m/s) at it.
type PointSpeedPair struct {
	Point orb.Point
	Speed float64
}

// VehicleState is the vehicle pose and speed at planning time.
type VehicleState struct {
	X               float64 `json:"x_pos_global"`
	Y               float64 `json:"y_pos_global"`
	Orientation     float64 `json:"orientation"`      // radians
	LongitudinalVel float64 `json:"longitudinal_vel"` // m/s
}

// Position returns the vehicle position in the map frame.
func (s VehicleState) Position() orb.Point {
	return orb.Point{s.X, s.Y}
}

// TrajectoryPoint is one timed pose of a planned trajectory.
type TrajectoryPoint struct {
	X                 float64   `json:"x"`
	Y                 float64   `json:"y"`
	Yaw               float64   `json:"yaw"`   // radians
	Speed             float64   `json:"speed"` // m/s
	Time              time.Time `json:"target_time"`
	PlannerPluginName string    `json:"planner_plugin_name"`
}

// Trajectory is the planned output for one cycle.
type Trajectory struct {
	ID                          string            `json:"trajectory_id"`
	FrameID                     string            `json:"frame_id"`
	Stamp                       time.Time         `json:"stamp"`
	Points                      []TrajectoryPoint `json:"trajectory_points"`
	InitialLongitudinalVelocity float64           `json:"initial_longitudinal_velocity"`
}

// Status reports progress on a related maneuver.
type Status string

// ManeuverInProgress is reported for every successfully planned request.
const ManeuverInProgress Status = "maneuver_in_progress"

// PlanRequest asks for a trajectory covering the maneuvers of Plan starting
// at ManeuverIndexToPlan. Stamp is the reference time the arrival times are
// anchored at.
type PlanRequest struct {
	Plan                maneuver.Plan `json:"maneuver_plan"`
	ManeuverIndexToPlan int           `json:"maneuver_index_to_plan"`
	VehicleState        VehicleState  `json:"vehicle_state"`
	Stamp               time.Time     `json:"stamp"`
}

// PlanResponse is the result of PlanTrajectory.
type PlanResponse struct {
	Trajectory       Trajectory      `json:"trajectory_plan"`
	RelatedManeuvers []maneuver.Type `json:"related_maneuvers"`
	ManeuverStatus   []Status        `json:"maneuver_status"`
}
