package planner

import "github.com/banshee-data/stopcontrol.planner/internal/config"

// Config holds the planner parameters. It is copied into a Planner at
// construction and never changed afterwards.
type Config struct {
	CenterlineSamplingSpacing        float64 // m between route samples
	TrajectoryTimeLength             float64 // s of trajectory to keep
	CurveResampleStepSize            float64 // m between resampled points
	CurvatureMovingAverageWindowSize int
	SpeedMovingAverageWindowSize     int
	SpeedMovingAverageTrailing       bool
	LateralAccelLimit                float64 // m/s²
	Epsilon                          float64 // speeds below this are 0

	StrategyName      string // strategy meta-data this planner serves
	PluginName        string // stamped on every trajectory point
	ReservedCasesNoop bool   // accept case 2/3 maneuvers without output
}

// ConfigFromTuning builds a Config from a tuning file, using defaults for
// omitted fields.
func ConfigFromTuning(t *config.PlannerTuning) Config {
	if t == nil {
		t = config.EmptyPlannerTuning()
	}
	return Config{
		CenterlineSamplingSpacing:        t.GetCenterlineSamplingSpacing(),
		TrajectoryTimeLength:             t.GetTrajectoryTimeLength(),
		CurveResampleStepSize:            t.GetCurveResampleStepSize(),
		CurvatureMovingAverageWindowSize: t.GetCurvatureMovingAverageWindowSize(),
		SpeedMovingAverageWindowSize:     t.GetSpeedMovingAverageWindowSize(),
		SpeedMovingAverageTrailing:       t.GetSpeedMovingAverageTrailing(),
		LateralAccelLimit:                t.GetLateralAccelLimit(),
		Epsilon:                          t.GetEpsilon(),
		StrategyName:                     t.GetStrategyName(),
		PluginName:                       t.GetPluginName(),
		ReservedCasesNoop:                t.GetReservedCasesNoop(),
	}
}

// DefaultConfig returns the built-in default parameters.
func DefaultConfig() Config {
	return ConfigFromTuning(nil)
}
