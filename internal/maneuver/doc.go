// Package maneuver holds the maneuver plan data handed to the tactical planner
// by the upstream arbitrator.
//
// Responsibilities: maneuver types, the case-number selector carried in the
// integer meta-data, and typed accessors over the meta-data bag.
// Key types: Maneuver, Type, CaseNumber, Parameters, Plan.
//
// Maneuvers are read-only inputs. Nothing in this package mutates a plan
// after it has been decoded.
package maneuver
