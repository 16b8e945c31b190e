package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/stopcontrol.planner/internal/db"
	"github.com/banshee-data/stopcontrol.planner/internal/planner"
	"github.com/banshee-data/stopcontrol.planner/internal/units"
)

func TestFlagDefaults(t *testing.T) {
	if configPath == nil || routePath == nil || requestPath == nil || unitsFlag == nil ||
		plotDir == nil || dbPath == nil || listen == nil || debug == nil {
		t.Fatal("expected all flag variables to be initialised")
	}
	if *unitsFlag != units.MPS {
		t.Errorf("expected default units %q, got %q", units.MPS, *unitsFlag)
	}
	if *listen != "" {
		t.Errorf("expected empty default listen address, got %q", *listen)
	}
	if *debug {
		t.Error("expected debug to default to false")
	}
}

func TestLoadPlanner(t *testing.T) {
	p, err := loadPlanner("", filepath.Join("testdata", "route.json"))
	require.NoError(t, err)
	assert.Equal(t, planner.DefaultConfig(), p.Config())

	p, err = loadPlanner("../../config/planner.defaults.json", filepath.Join("testdata", "route.geojson"))
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = loadPlanner("", filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)

	_, err = loadPlanner(filepath.Join("testdata", "route.json"), filepath.Join("testdata", "route.json"))
	assert.Error(t, err, "route file is not a tuning file")
}

func TestPlanOnce(t *testing.T) {
	p, err := loadPlanner("", filepath.Join("testdata", "route.json"))
	require.NoError(t, err)

	database, err := db.NewDB(filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	defer database.Close()

	plots := t.TempDir()
	var out bytes.Buffer
	err = planOnce(p, database, filepath.Join("testdata", "request.json"), units.KMPH, plots, &out)
	require.NoError(t, err)

	summary, body, ok := strings.Cut(out.String(), "\n")
	require.True(t, ok)
	assert.Contains(t, summary, "points over")
	assert.Contains(t, summary, "km/h")

	var resp planner.PlanResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Trajectory.Points)
	assert.Equal(t, planner.ManeuverInProgress, resp.ManeuverStatus)
	assert.Equal(t, planner.FrameID, resp.Trajectory.FrameID)

	stored, err := database.GetPlan(resp.Trajectory.ID)
	require.NoError(t, err)
	assert.Equal(t, db.OutcomePlanned, stored.Outcome)
	assert.Equal(t, len(resp.Trajectory.Points), stored.PointCount)

	for _, suffix := range []string{"_speed.png", "_time.png"} {
		_, err := os.Stat(filepath.Join(plots, resp.Trajectory.ID+suffix))
		assert.NoError(t, err, suffix)
	}
}

func TestPlanOnceBadRequest(t *testing.T) {
	p, err := loadPlanner("", filepath.Join("testdata", "route.json"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = planOnce(p, nil, filepath.Join("testdata", "route.json"), units.MPS, "", &out)
	assert.Error(t, err)
	assert.Empty(t, out.String())

	err = planOnce(p, nil, filepath.Join("testdata", "nope.json"), units.MPS, "", &out)
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	p, err := loadPlanner("", filepath.Join("testdata", "route.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, "127.0.0.1:0", p, nil, units.MPS) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
