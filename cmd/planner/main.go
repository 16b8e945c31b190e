package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/stopcontrol.planner/internal/api"
	"github.com/banshee-data/stopcontrol.planner/internal/config"
	"github.com/banshee-data/stopcontrol.planner/internal/db"
	"github.com/banshee-data/stopcontrol.planner/internal/geometry"
	"github.com/banshee-data/stopcontrol.planner/internal/monitoring"
	"github.com/banshee-data/stopcontrol.planner/internal/planner"
	"github.com/banshee-data/stopcontrol.planner/internal/report"
	"github.com/banshee-data/stopcontrol.planner/internal/timeutil"
	"github.com/banshee-data/stopcontrol.planner/internal/units"
	"github.com/banshee-data/stopcontrol.planner/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to planner tuning JSON (defaults built in)")
	routePath   = flag.String("route", "", "Route centreline JSON or GeoJSON (required)")
	requestPath = flag.String("request", "", "Plan request JSON to plan once and print")
	unitsFlag   = flag.String("units", units.MPS, "Speed units for summaries and charts")
	plotDir     = flag.String("plot", "", "Directory to write speed and time profile PNGs")
	dbPath      = flag.String("db", "", "SQLite database for storing plans")
	listen      = flag.String("listen", "", "Serve the HTTP API on this address, e.g. :8080")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	devMode     = flag.Bool("dev", false, "Read migrations from internal/db/migrations on disk")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: planner -route FILE (-request FILE | -listen ADDR) [flags]\n")
		fmt.Fprintf(flag.CommandLine.Output(), "       planner -db FILE migrate <action>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	monitoring.EnableDebug(*debug)
	db.DevMode = *devMode

	if flag.Arg(0) == "migrate" {
		if *dbPath == "" {
			log.Fatal("-db is required for migrate")
		}
		if err := db.RunMigrateCommand(flag.Args()[1:], *dbPath, os.Stdout); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}

	if err := units.Validate(*unitsFlag); err != nil {
		log.Fatal(err)
	}
	if *routePath == "" {
		log.Fatal("-route is required")
	}
	if *requestPath == "" && *listen == "" {
		log.Fatal("one of -request or -listen is required")
	}

	p, err := loadPlanner(*configPath, *routePath)
	if err != nil {
		log.Fatalf("failed to set up planner: %v", err)
	}

	var database *db.DB
	if *dbPath != "" {
		database, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
	}

	if *requestPath != "" {
		if err := planOnce(p, database, *requestPath, *unitsFlag, *plotDir, os.Stdout); err != nil {
			log.Fatalf("planning failed: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, *listen, p, database, *unitsFlag); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}

// loadPlanner builds a Planner from an optional tuning file and a route file.
func loadPlanner(tuningPath, routeFile string) (*planner.Planner, error) {
	tuning := config.EmptyPlannerTuning()
	if tuningPath != "" {
		var err error
		tuning, err = config.LoadPlannerTuning(tuningPath)
		if err != nil {
			return nil, err
		}
	}
	route, err := geometry.LoadRoute(routeFile)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded route %s (%.1fm)", routeFile, route.Length())
	return planner.New(route, planner.ConfigFromTuning(tuning)), nil
}

func readRequest(path string) (planner.PlanRequest, error) {
	var req planner.PlanRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse request %s: %w", path, err)
	}
	return req, nil
}

// planOnce plans the request at requestPath and writes the summary line and
// the JSON response to out.
func planOnce(p *planner.Planner, database *db.DB, requestPath, unit, plots string, out io.Writer) error {
	req, err := readRequest(requestPath)
	if err != nil {
		return err
	}
	now := time.Now()
	if req.Stamp.IsZero() {
		req.Stamp = now
	}

	log.Printf("planning %d maneuvers from %s", len(req.Plan.Maneuvers),
		units.FormatSpeed(req.VehicleState.LongitudinalVel, unit))
	resp, err := p.PlanTrajectory(req)
	if err != nil {
		return err
	}
	points := resp.Trajectory.Points
	if len(points) == 0 {
		monitoring.Logf("no trajectory points within the planning horizon")
	}

	if database != nil {
		if err := database.RecordPlan(req, resp, now); err != nil {
			return err
		}
	}
	if plots != "" && len(points) > 0 {
		files, err := report.SaveProfilePlots(points, plots, resp.Trajectory.ID, unit)
		if err != nil {
			return err
		}
		for _, f := range files {
			log.Printf("wrote %s", f)
		}
	}

	fmt.Fprintln(out, report.Summarize(points, unit))
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, addr string, p *planner.Planner, database *db.DB, unit string) error {
	mux := api.NewServer(p, database, timeutil.RealClock{}, unit).ServeMux()
	if database != nil {
		if err := database.AttachAdminRoutes(mux); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:    addr,
		Handler: api.LoggingMiddleware(mux),
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		// Force close the server if graceful shutdown fails
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	return nil
}
