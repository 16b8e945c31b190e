// Package report summarises planned trajectories and renders their speed
// and timing profiles.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/stopcontrol.planner/internal/geometry"
	"github.com/banshee-data/stopcontrol.planner/internal/planner"
	"github.com/banshee-data/stopcontrol.planner/internal/units"
)

// ErrEmptyTrajectory is returned when there is nothing to plot.
var ErrEmptyTrajectory = errors.New("trajectory has no points")

// Summary describes a planned trajectory. Speeds are in Units.
type Summary struct {
	Points      int     `json:"points"`
	Length      float64 `json:"length_m"`
	Duration    float64 `json:"duration_s"`
	StartSpeed  float64 `json:"start_speed"`
	PeakSpeed   float64 `json:"peak_speed"`
	FinalSpeed  float64 `json:"final_speed"`
	HeadingSpan float64 `json:"heading_span_rad"`
	Units       string  `json:"units"`
}

// Downtracks returns the cumulative path length at each trajectory point.
func Downtracks(points []planner.TrajectoryPoint) []float64 {
	path := make([]orb.Point, len(points))
	for i, p := range points {
		path[i] = orb.Point{p.X, p.Y}
	}
	return geometry.ArcLengths(path)
}

// Summarize reports the extent and speeds of points in the given units.
func Summarize(points []planner.TrajectoryPoint, unit string) Summary {
	s := Summary{Points: len(points), Units: unit}
	if len(points) == 0 {
		return s
	}
	downtracks := Downtracks(points)
	first, last := points[0], points[len(points)-1]

	s.Length = downtracks[len(downtracks)-1]
	s.Duration = last.Time.Sub(first.Time).Seconds()
	s.StartSpeed = units.ConvertSpeed(first.Speed, unit)
	s.FinalSpeed = units.ConvertSpeed(last.Speed, unit)

	minYaw, maxYaw := first.Yaw, first.Yaw
	for _, p := range points {
		s.PeakSpeed = max(s.PeakSpeed, units.ConvertSpeed(p.Speed, unit))
		minYaw = min(minYaw, p.Yaw)
		maxYaw = max(maxYaw, p.Yaw)
	}
	s.HeadingSpan = maxYaw - minYaw
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d points over %.1fm in %.2fs, speed %s -> peak %s -> %s",
		s.Points, s.Length, s.Duration,
		formatConverted(s.StartSpeed, s.Units), formatConverted(s.PeakSpeed, s.Units), formatConverted(s.FinalSpeed, s.Units))
}

func formatConverted(v float64, unit string) string {
	return fmt.Sprintf("%.1f %s", v, units.Label(unit))
}

// SaveProfilePlots writes <prefix>_speed.png (speed against downtrack) and
// <prefix>_time.png (arrival time against downtrack) into outputDir and
// returns their paths.
func SaveProfilePlots(points []planner.TrajectoryPoint, outputDir, prefix, unit string) ([]string, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTrajectory
	}
	downtracks := Downtracks(points)

	speedPts := make(plotter.XYs, len(points))
	timePts := make(plotter.XYs, len(points))
	for i, p := range points {
		speedPts[i] = plotter.XY{X: downtracks[i], Y: units.ConvertSpeed(p.Speed, unit)}
		timePts[i] = plotter.XY{X: downtracks[i], Y: p.Time.Sub(points[0].Time).Seconds()}
	}

	pSpeed := plot.New()
	pSpeed.Title.Text = "Target Speed"
	pSpeed.X.Label.Text = "Downtrack (m)"
	pSpeed.Y.Label.Text = fmt.Sprintf("Speed (%s)", units.Label(unit))

	pTime := plot.New()
	pTime.Title.Text = "Arrival Time"
	pTime.X.Label.Text = "Downtrack (m)"
	pTime.Y.Label.Text = "Time (s)"

	if err := addLine(pSpeed, "speed", speedPts, color.RGBA{R: 31, G: 119, B: 180, A: 255}); err != nil {
		return nil, err
	}
	if err := addLine(pTime, "time", timePts, color.RGBA{R: 214, G: 39, B: 40, A: 255}); err != nil {
		return nil, err
	}

	speedFile := filepath.Join(outputDir, prefix+"_speed.png")
	if err := pSpeed.Save(14*vg.Inch, 6*vg.Inch, speedFile); err != nil {
		return nil, fmt.Errorf("failed to save speed plot: %w", err)
	}
	timeFile := filepath.Join(outputDir, prefix+"_time.png")
	if err := pTime.Save(14*vg.Inch, 6*vg.Inch, timeFile); err != nil {
		return nil, fmt.Errorf("failed to save time plot: %w", err)
	}
	return []string{speedFile, timeFile}, nil
}

func addLine(p *plot.Plot, label string, pts plotter.XYs, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}
