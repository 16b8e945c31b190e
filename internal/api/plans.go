package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"github.com/banshee-data/stopcontrol.planner/internal/db"
	"github.com/banshee-data/stopcontrol.planner/internal/monitoring"
	"github.com/banshee-data/stopcontrol.planner/internal/planner"
	"github.com/banshee-data/stopcontrol.planner/internal/report"
	"github.com/banshee-data/stopcontrol.planner/internal/units"
)

func newFailureID() string {
	return "failed-" + uuid.NewString()
}

// planResult is the body returned by POST /api/plan.
type planResult struct {
	planner.PlanResponse
	Summary report.Summary `json:"summary"`
}

// statusForPlanError maps planner errors to HTTP status codes.
func statusForPlanError(err error) int {
	switch {
	case planner.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrCurveFit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) planTrajectory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req planner.PlanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid plan request: %v", err))
		return
	}

	start := s.clock.Now()
	if req.Stamp.IsZero() {
		req.Stamp = start
	}

	resp, err := s.planner.PlanTrajectory(req)
	if err != nil {
		monitoring.Logf("plan request failed: %v", err)
		if s.db != nil {
			if recErr := s.db.RecordFailure(s.newID(), req, err, start); recErr != nil {
				monitoring.Logf("failed to record failed plan: %v", recErr)
			}
		}
		s.writeJSONError(w, statusForPlanError(err), err.Error())
		return
	}
	monitoring.Debugf("planned %s with %d points in %v", resp.Trajectory.ID, len(resp.Trajectory.Points), s.clock.Since(start))

	if s.db != nil {
		if err := s.db.RecordPlan(req, resp, start); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store plan: %v", err))
			return
		}
	}

	s.writeJSON(w, http.StatusOK, planResult{
		PlanResponse: resp,
		Summary:      report.Summarize(resp.Trajectory.Points, s.units),
	})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "plan storage not configured")
		return
	}

	limit := 50 // default value
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > 1000 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	plans, err := s.db.ListPlans(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list plans: %v", err))
		return
	}
	if plans == nil {
		plans = []db.PlanRecord{}
	}
	s.writeJSON(w, http.StatusOK, plans)
}

// planByID serves /api/plans/{id} and /api/plans/{id}/chart.
func (s *Server) planByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "plan storage not configured")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/plans/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || (sub != "" && sub != "chart") {
		s.writeJSONError(w, http.StatusNotFound, "Not found")
		return
	}

	rec, err := s.db.GetPlan(id)
	if errors.Is(err, db.ErrPlanNotFound) {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load plan: %v", err))
		return
	}

	if sub == "chart" {
		s.renderPlanChart(w, rec)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// renderPlanChart draws the target speed of each trajectory point against
// its downtrack.
func (s *Server) renderPlanChart(w http.ResponseWriter, rec db.PlanRecord) {
	if rec.Response == nil || len(rec.Response.Trajectory.Points) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "plan has no trajectory points")
		return
	}
	points := rec.Response.Trajectory.Points
	downtracks := report.Downtracks(points)

	speeds := make([]opts.ScatterData, 0, len(points))
	for i, p := range points {
		speeds = append(speeds, opts.ScatterData{Value: []interface{}{downtracks[i], units.ConvertSpeed(p.Speed, s.units)}})
	}
	summary := report.Summarize(points, s.units)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Trajectory Speed Profile", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Trajectory " + rec.PlanID, Subtitle: summary.String()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Downtrack (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Speed (" + units.Label(s.units) + ")", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("target speed", speeds, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
