// Package kinematics holds the closed-form longitudinal motion laws used by
// the planner: the trapezoidal accelerate/decelerate speed profile over
// distance, curvature-limited speeds, and conversion of speed profiles over
// arc length into arrival times.
//
// All distances are in metres, speeds in m/s, accelerations in m/s² and
// times in seconds. Accelerations are magnitudes; the sign comes from the
// profile phase.
package kinematics
