package db

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/banshee-data/stopcontrol.planner/internal/monitoring"
	"github.com/banshee-data/stopcontrol.planner/internal/planner"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DevMode reads migrations from internal/db/migrations on disk instead of
// the embedded copy.
var DevMode = false

// ErrPlanNotFound is returned by GetPlan for an unknown id.
var ErrPlanNotFound = errors.New("plan not found")

// Plan outcomes.
const (
	OutcomePlanned = "planned"
	OutcomeFailed  = "failed"
)

type DB struct {
	*sql.DB
	path string
}

// OpenDB opens the database at path and applies connection pragmas. It
// does not touch the schema.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := applyPragmas(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &DB{DB: sqlDB, path: path}, nil
}

// NewDB opens the database at path and migrates it to the latest schema.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	migrations, err := getMigrationsFS()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := db.MigrateUp(migrations); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		return os.DirFS("internal/db/migrations"), nil
	}
	return fs.Sub(migrationsFS, "migrations")
}

// PlanRecord is one stored planning call.
type PlanRecord struct {
	PlanID        string                `json:"plan_id"`
	PlannedAt     time.Time             `json:"planned_at"`
	ManeuverCount int                   `json:"maneuver_count"`
	PointCount    int                   `json:"point_count"`
	InitialSpeed  float64               `json:"initial_speed_mps"`
	FinalTime     *time.Time            `json:"final_time,omitempty"`
	Outcome       string                `json:"outcome"`
	Error         string                `json:"error,omitempty"`
	Request       planner.PlanRequest   `json:"request"`
	Response      *planner.PlanResponse `json:"response,omitempty"`
}

// RecordPlan stores a successful planning call keyed by its trajectory id.
func (db *DB) RecordPlan(req planner.PlanRequest, resp planner.PlanResponse, plannedAt time.Time) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode trajectory: %w", err)
	}

	var finalTime sql.NullInt64
	if pts := resp.Trajectory.Points; len(pts) > 0 {
		finalTime = sql.NullInt64{Int64: pts[len(pts)-1].Time.UnixNano(), Valid: true}
	}

	_, err = db.Exec(
		`INSERT INTO trajectory_plans (
			plan_id, planned_at_unix_nanos, maneuver_count, point_count,
			initial_speed_mps, final_time_unix_nanos, request_json, trajectory_json, outcome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resp.Trajectory.ID, plannedAt.UnixNano(), len(resp.RelatedManeuvers), len(resp.Trajectory.Points),
		resp.Trajectory.InitialLongitudinalVelocity, finalTime, string(reqJSON), string(respJSON), OutcomePlanned,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan %s: %w", resp.Trajectory.ID, err)
	}
	return nil
}

// RecordFailure stores a planning call that returned an error.
func (db *DB) RecordFailure(id string, req planner.PlanRequest, planErr error, plannedAt time.Time) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	_, err = db.Exec(
		`INSERT INTO trajectory_plans (
			plan_id, planned_at_unix_nanos, maneuver_count, point_count,
			initial_speed_mps, request_json, trajectory_json, outcome, error_message
		) VALUES (?, ?, 0, 0, ?, ?, 'null', ?, ?)`,
		id, plannedAt.UnixNano(), req.VehicleState.LongitudinalVel, string(reqJSON), OutcomeFailed, planErr.Error(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert failed plan %s: %w", id, err)
	}
	return nil
}

const planColumns = `plan_id, planned_at_unix_nanos, maneuver_count, point_count,
	initial_speed_mps, final_time_unix_nanos, outcome, error_message, request_json, trajectory_json`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (PlanRecord, error) {
	var (
		rec       PlanRecord
		plannedAt int64
		finalTime sql.NullInt64
		errMsg    sql.NullString
		reqJSON   string
		respJSON  string
	)
	if err := row.Scan(&rec.PlanID, &plannedAt, &rec.ManeuverCount, &rec.PointCount,
		&rec.InitialSpeed, &finalTime, &rec.Outcome, &errMsg, &reqJSON, &respJSON); err != nil {
		return PlanRecord{}, err
	}
	rec.PlannedAt = time.Unix(0, plannedAt).UTC()
	if finalTime.Valid {
		t := time.Unix(0, finalTime.Int64).UTC()
		rec.FinalTime = &t
	}
	rec.Error = errMsg.String
	if err := json.Unmarshal([]byte(reqJSON), &rec.Request); err != nil {
		return PlanRecord{}, fmt.Errorf("failed to decode request of plan %s: %w", rec.PlanID, err)
	}
	if respJSON != "null" {
		var resp planner.PlanResponse
		if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
			return PlanRecord{}, fmt.Errorf("failed to decode trajectory of plan %s: %w", rec.PlanID, err)
		}
		rec.Response = &resp
	}
	return rec, nil
}

// GetPlan returns the stored plan with the given id.
func (db *DB) GetPlan(id string) (PlanRecord, error) {
	row := db.QueryRow(`SELECT `+planColumns+` FROM trajectory_plans WHERE plan_id = ?`, id)
	rec, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanRecord{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return rec, err
}

// ListPlans returns up to limit stored plans, newest first.
func (db *DB) ListPlans(limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`SELECT `+planColumns+` FROM trajectory_plans
		ORDER BY planned_at_unix_nanos DESC, plan_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []PlanRecord
	for rows.Next() {
		rec, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+db.path, db.DB, &tailsql.DBOptions{
		Label: "Planner DB",
	})

	// mount the tailSQL server on the debug /tailsql path
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("plans", "Most recent stored plans", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plans, err := db.ListPlans(20)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to list plans: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, p := range plans {
			fmt.Fprintf(w, "%s  %s  %-7s  %3d points  v0=%.2f m/s\n",
				p.PlanID, p.PlannedAt.Format(time.RFC3339Nano), p.Outcome, p.PointCount, p.InitialSpeed)
		}
	}))
	monitoring.Debugf("attached admin routes for %s", db.path)
	return nil
}
