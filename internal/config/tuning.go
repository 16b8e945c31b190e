package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical planner defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/planner.defaults.json"

// Default values used when a field is omitted from the tuning file.
const (
	DefaultCenterlineSamplingSpacing        = 1.0 // metres
	DefaultTrajectoryTimeLength             = 6.0 // seconds
	DefaultCurveResampleStepSize            = 1.0 // metres
	DefaultCurvatureMovingAverageWindowSize = 9
	DefaultSpeedMovingAverageWindowSize     = 5
	DefaultLateralAccelLimit                = 2.5 // m/s²
	DefaultEpsilon                          = 0.0001
	DefaultStrategyName                     = "stop_controlled_intersection"
	DefaultPluginName                       = "StopControlledIntersectionTacticalPlugin"
)

// PlannerTuning represents the root configuration for planner parameters.
// The schema matches the /api/config endpoint so the same JSON can be used
// for startup configuration and inspection.
type PlannerTuning struct {
	// Path sampling
	CenterlineSamplingSpacing *float64 `json:"centerline_sampling_spacing,omitempty"`
	TrajectoryTimeLength      *float64 `json:"trajectory_time_length,omitempty"`
	CurveResampleStepSize     *float64 `json:"curve_resample_step_size,omitempty"`

	// Smoothing
	CurvatureMovingAverageWindowSize *int  `json:"curvature_moving_average_window_size,omitempty"`
	SpeedMovingAverageWindowSize     *int  `json:"speed_moving_average_window_size,omitempty"`
	SpeedMovingAverageTrailing       *bool `json:"speed_moving_average_trailing,omitempty"`

	// Limits
	LateralAccelLimit *float64 `json:"lateral_accel_limit,omitempty"`
	Epsilon           *float64 `json:"epsilon,omitempty"`

	// Plan selection
	StrategyName      *string `json:"strategy_name,omitempty"`
	PluginName        *string `json:"plugin_name,omitempty"`
	ReservedCasesNoop *bool   `json:"reserved_cases_noop,omitempty"`
}

// EmptyPlannerTuning returns a PlannerTuning with all fields set to nil.
// Use LoadPlannerTuning to load actual values from the defaults file.
func EmptyPlannerTuning() *PlannerTuning {
	return &PlannerTuning{}
}

// LoadPlannerTuning loads a PlannerTuning from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file fall back to their defaults, so
// partial configs are safe.
func LoadPlannerTuning(path string) (*PlannerTuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParsePlannerTuning(data)
}

// ParsePlannerTuning decodes and validates tuning JSON. Unknown fields are
// rejected.
func ParsePlannerTuning(data []byte) (*PlannerTuning, error) {
	cfg := EmptyPlannerTuning()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical planner defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *PlannerTuning {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,          // from cmd/
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // deeper packages
		"../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadPlannerTuning(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the set values are usable by the planner.
func (c *PlannerTuning) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"centerline_sampling_spacing", c.CenterlineSamplingSpacing},
		{"trajectory_time_length", c.TrajectoryTimeLength},
		{"curve_resample_step_size", c.CurveResampleStepSize},
		{"lateral_accel_limit", c.LateralAccelLimit},
		{"epsilon", c.Epsilon},
	}
	for _, p := range positive {
		if p.v != nil && *p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", p.name, *p.v)
		}
	}

	windows := []struct {
		name string
		v    *int
	}{
		{"curvature_moving_average_window_size", c.CurvatureMovingAverageWindowSize},
		{"speed_moving_average_window_size", c.SpeedMovingAverageWindowSize},
	}
	for _, w := range windows {
		if w.v != nil && (*w.v < 1 || *w.v%2 == 0) {
			return fmt.Errorf("%s must be a positive odd number, got %d", w.name, *w.v)
		}
	}

	if c.StrategyName != nil && *c.StrategyName == "" {
		return fmt.Errorf("strategy_name must not be empty")
	}
	return nil
}

// GetCenterlineSamplingSpacing returns the centerline_sampling_spacing value or the default.
func (c *PlannerTuning) GetCenterlineSamplingSpacing() float64 {
	if c.CenterlineSamplingSpacing == nil {
		return DefaultCenterlineSamplingSpacing
	}
	return *c.CenterlineSamplingSpacing
}

// GetTrajectoryTimeLength returns the trajectory_time_length value or the default.
func (c *PlannerTuning) GetTrajectoryTimeLength() float64 {
	if c.TrajectoryTimeLength == nil {
		return DefaultTrajectoryTimeLength
	}
	return *c.TrajectoryTimeLength
}

// GetCurveResampleStepSize returns the curve_resample_step_size value or the default.
func (c *PlannerTuning) GetCurveResampleStepSize() float64 {
	if c.CurveResampleStepSize == nil {
		return DefaultCurveResampleStepSize
	}
	return *c.CurveResampleStepSize
}

// GetCurvatureMovingAverageWindowSize returns the curvature_moving_average_window_size value or the default.
func (c *PlannerTuning) GetCurvatureMovingAverageWindowSize() int {
	if c.CurvatureMovingAverageWindowSize == nil {
		return DefaultCurvatureMovingAverageWindowSize
	}
	return *c.CurvatureMovingAverageWindowSize
}

// GetSpeedMovingAverageWindowSize returns the speed_moving_average_window_size value or the default.
func (c *PlannerTuning) GetSpeedMovingAverageWindowSize() int {
	if c.SpeedMovingAverageWindowSize == nil {
		return DefaultSpeedMovingAverageWindowSize
	}
	return *c.SpeedMovingAverageWindowSize
}

// GetSpeedMovingAverageTrailing returns the speed_moving_average_trailing value or the default.
func (c *PlannerTuning) GetSpeedMovingAverageTrailing() bool {
	if c.SpeedMovingAverageTrailing == nil {
		return false // default: centred window
	}
	return *c.SpeedMovingAverageTrailing
}

// GetLateralAccelLimit returns the lateral_accel_limit value or the default.
func (c *PlannerTuning) GetLateralAccelLimit() float64 {
	if c.LateralAccelLimit == nil {
		return DefaultLateralAccelLimit
	}
	return *c.LateralAccelLimit
}

// GetEpsilon returns the epsilon value or the default.
func (c *PlannerTuning) GetEpsilon() float64 {
	if c.Epsilon == nil {
		return DefaultEpsilon
	}
	return *c.Epsilon
}

// GetStrategyName returns the strategy_name value or the default.
func (c *PlannerTuning) GetStrategyName() string {
	if c.StrategyName == nil {
		return DefaultStrategyName
	}
	return *c.StrategyName
}

// GetPluginName returns the plugin_name value or the default.
func (c *PlannerTuning) GetPluginName() string {
	if c.PluginName == nil || *c.PluginName == "" {
		return DefaultPluginName
	}
	return *c.PluginName
}

// GetReservedCasesNoop returns the reserved_cases_noop value or the default.
func (c *PlannerTuning) GetReservedCasesNoop() bool {
	if c.ReservedCasesNoop == nil {
		return false // default: reserved cases are rejected
	}
	return *c.ReservedCasesNoop
}
