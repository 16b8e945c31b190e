// Package planner turns a stop-controlled intersection maneuver group into
// a time-parameterised trajectory that ends in a full stop.
//
// Planning runs in two stages. The sequencer walks the maneuvers, samples
// the route for each one and attaches target speeds from a trapezoidal
// accelerate-then-brake profile. The composer then fits a spline through
// the speed-annotated path, resamples it at a fixed step, caps speeds by
// lateral acceleration, smooths them and integrates arrival times.
//
// A Planner holds only its immutable Config and a read-only WorldModel, so
// one instance may serve concurrent PlanTrajectory calls.
package planner
