package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/stopcontrol.planner/internal/db"
	"github.com/banshee-data/stopcontrol.planner/internal/planner"
	"github.com/banshee-data/stopcontrol.planner/internal/timeutil"
	"github.com/banshee-data/stopcontrol.planner/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// maxRequestBytes caps the size of a plan request body.
const maxRequestBytes = 1 << 20

// Server exposes a Planner over HTTP. The database is optional; without it
// plans are not stored and the /api/plans routes return 503.
type Server struct {
	planner *planner.Planner
	db      *db.DB
	clock   timeutil.Clock
	units   string
	newID   func() string
}

func NewServer(p *planner.Planner, database *db.DB, clock timeutil.Clock, units string) *Server {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Server{
		planner: p,
		db:      database,
		clock:   clock,
		units:   units,
		newID:   newFailureID,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/plan", s.planTrajectory)
	mux.HandleFunc("/api/plans", s.listPlans)
	mux.HandleFunc("/api/plans/", s.planByID)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cfg := s.planner.Config()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":                              version.Version,
		"units":                                s.units,
		"storage":                              s.db != nil,
		"centerline_sampling_spacing":          cfg.CenterlineSamplingSpacing,
		"trajectory_time_length":               cfg.TrajectoryTimeLength,
		"curve_resample_step_size":             cfg.CurveResampleStepSize,
		"curvature_moving_average_window_size": cfg.CurvatureMovingAverageWindowSize,
		"speed_moving_average_window_size":     cfg.SpeedMovingAverageWindowSize,
		"speed_moving_average_trailing":        cfg.SpeedMovingAverageTrailing,
		"lateral_accel_limit":                  cfg.LateralAccelLimit,
		"epsilon":                              cfg.Epsilon,
		"strategy_name":                        cfg.StrategyName,
		"plugin_name":                          cfg.PluginName,
		"reserved_cases_noop":                  cfg.ReservedCasesNoop,
	})
}
