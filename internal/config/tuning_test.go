package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

func TestDefaultsFile(t *testing.T) {
	cfg, err := LoadPlannerTuning("../../" + DefaultConfigPath)
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	if cfg.CenterlineSamplingSpacing == nil || *cfg.CenterlineSamplingSpacing != DefaultCenterlineSamplingSpacing {
		t.Errorf("Expected CenterlineSamplingSpacing %v, got %v", DefaultCenterlineSamplingSpacing, cfg.CenterlineSamplingSpacing)
	}
	if got := cfg.GetTrajectoryTimeLength(); got != DefaultTrajectoryTimeLength {
		t.Errorf("GetTrajectoryTimeLength() = %v, want %v", got, DefaultTrajectoryTimeLength)
	}
	if got := cfg.GetCurvatureMovingAverageWindowSize(); got != DefaultCurvatureMovingAverageWindowSize {
		t.Errorf("GetCurvatureMovingAverageWindowSize() = %d, want %d", got, DefaultCurvatureMovingAverageWindowSize)
	}
	if got := cfg.GetStrategyName(); got != DefaultStrategyName {
		t.Errorf("GetStrategyName() = %q, want %q", got, DefaultStrategyName)
	}
	if cfg.GetReservedCasesNoop() {
		t.Error("GetReservedCasesNoop() = true, want false")
	}
}

func TestEmptyTuningUsesDefaults(t *testing.T) {
	cfg := EmptyPlannerTuning()

	if got := cfg.GetCenterlineSamplingSpacing(); got != DefaultCenterlineSamplingSpacing {
		t.Errorf("GetCenterlineSamplingSpacing() = %v, want %v", got, DefaultCenterlineSamplingSpacing)
	}
	if got := cfg.GetCurveResampleStepSize(); got != DefaultCurveResampleStepSize {
		t.Errorf("GetCurveResampleStepSize() = %v, want %v", got, DefaultCurveResampleStepSize)
	}
	if got := cfg.GetSpeedMovingAverageWindowSize(); got != DefaultSpeedMovingAverageWindowSize {
		t.Errorf("GetSpeedMovingAverageWindowSize() = %d, want %d", got, DefaultSpeedMovingAverageWindowSize)
	}
	if cfg.GetSpeedMovingAverageTrailing() {
		t.Error("GetSpeedMovingAverageTrailing() = true, want false")
	}
	if got := cfg.GetLateralAccelLimit(); got != DefaultLateralAccelLimit {
		t.Errorf("GetLateralAccelLimit() = %v, want %v", got, DefaultLateralAccelLimit)
	}
	if got := cfg.GetEpsilon(); got != DefaultEpsilon {
		t.Errorf("GetEpsilon() = %v, want %v", got, DefaultEpsilon)
	}
	if got := cfg.GetPluginName(); got != DefaultPluginName {
		t.Errorf("GetPluginName() = %q, want %q", got, DefaultPluginName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should validate, got %v", err)
	}
}

func TestLoadPlannerTuning(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "planner.json")

	// Partial config: omitted fields fall back to defaults.
	testJSON := `{
  "centerline_sampling_spacing": 2.0,
  "speed_moving_average_window_size": 7,
  "speed_moving_average_trailing": true,
  "reserved_cases_noop": true
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadPlannerTuning(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if got := cfg.GetCenterlineSamplingSpacing(); got != 2.0 {
		t.Errorf("GetCenterlineSamplingSpacing() = %v, want 2.0", got)
	}
	if got := cfg.GetSpeedMovingAverageWindowSize(); got != 7 {
		t.Errorf("GetSpeedMovingAverageWindowSize() = %d, want 7", got)
	}
	if !cfg.GetSpeedMovingAverageTrailing() {
		t.Error("GetSpeedMovingAverageTrailing() = false, want true")
	}
	if !cfg.GetReservedCasesNoop() {
		t.Error("GetReservedCasesNoop() = false, want true")
	}
	if got := cfg.GetTrajectoryTimeLength(); got != DefaultTrajectoryTimeLength {
		t.Errorf("GetTrajectoryTimeLength() = %v, want default %v", got, DefaultTrajectoryTimeLength)
	}
}

func TestLoadPlannerTuningErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		contents string
		wantErr  string
	}{
		{"wrong extension", "planner.yaml", `{}`, "must have .json extension"},
		{"bad json", "bad.json", `{"epsilon":`, "failed to parse config JSON"},
		{"unknown field", "unknown.json", `{"noise_relative": 0.1}`, "unknown field"},
		{"even window", "even.json", `{"curvature_moving_average_window_size": 4}`, "positive odd number"},
		{"negative spacing", "neg.json", `{"centerline_sampling_spacing": -1}`, "must be positive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tc.file)
			if err := os.WriteFile(path, []byte(tc.contents), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			_, err := LoadPlannerTuning(path)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}

	if _, err := LoadPlannerTuning(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadPlannerTuningTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.json")
	if err := os.WriteFile(path, make([]byte, 1024*1024+1), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	_, err := LoadPlannerTuning(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := &PlannerTuning{
		CenterlineSamplingSpacing:        ptrFloat64(0.5),
		CurvatureMovingAverageWindowSize: ptrInt(1),
		StrategyName:                     ptrString("custom"),
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	invalid := []*PlannerTuning{
		{LateralAccelLimit: ptrFloat64(0)},
		{Epsilon: ptrFloat64(-1e-3)},
		{SpeedMovingAverageWindowSize: ptrInt(0)},
		{StrategyName: ptrString("")},
	}
	for i, cfg := range invalid {
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: Validate() = nil, want error", i)
		}
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg == nil {
		t.Fatal("MustLoadDefaultConfig returned nil")
	}
	if got := cfg.GetLateralAccelLimit(); got != DefaultLateralAccelLimit {
		t.Errorf("GetLateralAccelLimit() = %v, want %v", got, DefaultLateralAccelLimit)
	}
}
