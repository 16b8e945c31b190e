// Package geometry provides the route geometry the planner queries: downtrack
// projection, fixed-spacing centreline sampling, arc lengths and tangent
// headings over point sequences.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ErrShortRoute is returned when a centreline has fewer than two distinct points.
var ErrShortRoute = errors.New("route centreline needs at least two distinct points")

// Route is an immutable centreline polyline in the map frame with
// precomputed downtrack at each vertex. It is safe for concurrent use.
type Route struct {
	centerline orb.LineString
	downtracks []float64
}

// NewRoute builds a Route from a centreline. Consecutive duplicate vertices
// are dropped.
func NewRoute(centerline orb.LineString) (*Route, error) {
	ls := make(orb.LineString, 0, len(centerline))
	for _, p := range centerline {
		if len(ls) > 0 && ls[len(ls)-1].Equal(p) {
			continue
		}
		ls = append(ls, p)
	}
	if len(ls) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrShortRoute, len(ls))
	}
	return &Route{centerline: ls, downtracks: ArcLengths(ls)}, nil
}

// Length returns the total downtrack length of the route.
func (r *Route) Length() float64 {
	return r.downtracks[len(r.downtracks)-1]
}

// Centerline returns a copy of the route polyline.
func (r *Route) Centerline() orb.LineString {
	return r.centerline.Clone()
}

// RouteArcLength returns the downtrack of p along the route. The point is
// projected onto the nearest segment; positions before the start or past
// the end extrapolate along the first or last segment, so the result may be
// negative or exceed Length.
func (r *Route) RouteArcLength(p orb.Point) float64 {
	best := math.Inf(1)
	var downtrack float64
	last := len(r.centerline) - 2
	for i := 0; i <= last; i++ {
		a, b := r.centerline[i], r.centerline[i+1]
		segLen := r.downtracks[i+1] - r.downtracks[i]
		t := projectParam(a, b, p)
		clamped := math.Max(0, math.Min(1, t))
		d := planar.Distance(p, lerp(a, b, clamped))
		if d >= best {
			continue
		}
		best = d
		switch {
		case i == 0 && t < 0, i == last && t > 1:
			downtrack = r.downtracks[i] + t*segLen
		default:
			downtrack = r.downtracks[i] + clamped*segLen
		}
	}
	return downtrack
}

// PointAt returns the centreline position at a downtrack, clamped to the
// route extent.
func (r *Route) PointAt(downtrack float64) orb.Point {
	if downtrack <= 0 {
		return r.centerline[0]
	}
	n := len(r.downtracks)
	if downtrack >= r.downtracks[n-1] {
		return r.centerline[n-1]
	}
	// First vertex with downtrack greater than the target.
	lo, hi := 1, n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r.downtracks[mid] > downtrack {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	segLen := r.downtracks[lo] - r.downtracks[lo-1]
	return lerp(r.centerline[lo-1], r.centerline[lo], (downtrack-r.downtracks[lo-1])/segLen)
}

// SampleRoute returns centreline points every spacing metres from `from`
// up to `to`, always ending with the point at `to`. It returns a single
// point when the range is shorter than one spacing.
func (r *Route) SampleRoute(from, to, spacing float64) []orb.Point {
	if spacing <= 0 || from >= to {
		return []orb.Point{r.PointAt(to)}
	}
	tolerance := spacing * 1e-6
	points := make([]orb.Point, 0, int((to-from)/spacing)+2)
	for i := 0; ; i++ {
		s := from + float64(i)*spacing
		if s >= to-tolerance {
			break
		}
		points = append(points, r.PointAt(s))
	}
	return append(points, r.PointAt(to))
}

func projectParam(a, b, p orb.Point) float64 {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	return ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / l2
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a.X() + t*(b.X()-a.X()), a.Y() + t*(b.Y()-a.Y())}
}

// routeFile is the plain JSON form of a centreline: {"centerline": [[x, y], ...]}.
type routeFile struct {
	Centerline orb.LineString `json:"centerline"`
}

// LoadRoute reads a centreline from a JSON file. Either the plain
// {"centerline": [[x, y], ...]} form or a GeoJSON FeatureCollection whose
// first LineString feature is the centreline is accepted.
func LoadRoute(path string) (*Route, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read route file: %w", err)
	}
	return ParseRoute(data)
}

// ParseRoute decodes a centreline in either of the LoadRoute formats.
func ParseRoute(data []byte) (*Route, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse route JSON: %w", err)
	}

	if probe.Type == "" {
		var rf routeFile
		if err := json.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("failed to parse route JSON: %w", err)
		}
		return NewRoute(rf.Centerline)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse route GeoJSON: %w", err)
	}
	for _, f := range fc.Features {
		if ls, ok := f.Geometry.(orb.LineString); ok {
			return NewRoute(ls)
		}
	}
	return nil, fmt.Errorf("%w: no LineString feature in GeoJSON", ErrShortRoute)
}
